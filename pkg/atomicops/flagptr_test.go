/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package atomicops

import (
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/atomicops/pkg/fence"
)

type node struct {
	next  *node
	value int
}

func TestFlagPointerRoundTrip(t *testing.T) {
	nodes := []*node{nil, {value: 1}, {value: 2}}
	var c FlagPointer[node]
	p, flag := c.Load(fence.None)
	assert.Nil(t, p)
	assert.False(t, flag)

	for _, n := range nodes {
		for _, b := range []bool{false, true} {
			for _, f := range fence.All() {
				c.Store(n, b, f)
				p, flag := c.Load(f)
				assert.Same(t, n, p)
				assert.Equal(t, b, flag)
				p, flag = c.LoadFull(fence.None)
				assert.Same(t, n, p)
				assert.Equal(t, b, flag)
			}
		}
	}
}

// growStack recurses with large frames so the goroutine stack is copied.
//
//go:noinline
func growStack(depth int) byte {
	var frame [256]byte
	frame[depth%len(frame)] = byte(depth)
	if depth == 0 {
		return frame[0]
	}
	return growStack(depth-1) + frame[depth%len(frame)]
}

func TestFlagPointerLocalTargetSurvivesStackGrowth(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		var x uint64 = 42
		var c FlagPointer[uint64]
		c.Store(&x, true, fence.Full)

		growStack(20000)

		p, flag := c.Load(fence.Full)
		assert.Same(t, &x, p)
		assert.True(t, flag)
		assert.Equal(t, uint64(42), *p)

		var y uint64 = 7
		old, oldFlag := c.Swap(&y, false, fence.Full)
		assert.Same(t, &x, old)
		assert.True(t, oldFlag)
		growStack(20000)
		p, flag = c.Load(fence.Full)
		assert.Same(t, &y, p)
		assert.False(t, flag)
	}()
	<-done
}

func TestFlagPointerConstructors(t *testing.T) {
	n := &node{value: 7}
	c, err := NewFlagPointer(n, true)
	require.NoError(t, err)
	p, flag := c.Load(fence.Full)
	assert.Same(t, n, p)
	assert.True(t, flag)

	v, err := MakeFlagPointer[node](nil, true)
	require.NoError(t, err)
	p, flag = v.Load(fence.Full)
	assert.Nil(t, p)
	assert.True(t, flag)

	_, err = NewFlagPointer(new(byte), false)
	assert.ErrorIs(t, err, ErrFlagAlignment)
	assert.False(t, FlagAligned[byte]())
	assert.True(t, FlagAligned[uint16]())

	buf := make([]uint16, 4)
	odd := (*uint16)(unsafe.Add(unsafe.Pointer(&buf[0]), 1))
	_, err = NewFlagPointer(odd, false)
	assert.ErrorIs(t, err, ErrMisaligned)
}

func TestFlagPointerCompareAndSwap(t *testing.T) {
	a, b := &node{value: 1}, &node{value: 2}
	c, err := MakeFlagPointer(a, false)
	require.NoError(t, err)

	// flag mismatch fails even though the pointer matches
	assert.False(t, c.CompareAndSwap(a, true, b, true, fence.Full))
	p, flag := c.CompareAndSwapValue(a, true, b, true, fence.Full)
	assert.Same(t, a, p)
	assert.False(t, flag)

	assert.True(t, c.CompareAndSwap(a, false, a, true, fence.Full))
	p, flag = c.CompareAndSwapValue(a, true, b, false, fence.Full)
	assert.Same(t, a, p)
	assert.True(t, flag)
	p, flag = c.Load(fence.None)
	assert.Same(t, b, p)
	assert.False(t, flag)

	p, flag = c.Swap(nil, true, fence.Full)
	assert.Same(t, b, p)
	assert.False(t, flag)
	p, flag = c.Load(fence.None)
	assert.Nil(t, p)
	assert.True(t, flag)
}

func TestFlagPointerConcurrentToggle(t *testing.T) {
	const workers, iterations = 8, 5000
	a, b := &node{value: 1}, &node{value: 2}
	c, err := NewFlagPointer(a, false)
	require.NoError(t, err)

	var flips atomic.Int64
	var torn atomic.Bool
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for k := 0; k < iterations; k++ {
				p, flag := c.Load(fence.Acquire)
				if p != a && p != b {
					torn.Store(true)
					return
				}
				if w%2 == 0 {
					if c.CompareAndSwap(p, flag, p, !flag, fence.Full) {
						flips.Add(1)
					}
					continue
				}
				next := a
				if p == a {
					next = b
				}
				c.CompareAndSwap(p, flag, next, flag, fence.Full)
			}
		}(w)
	}
	wg.Wait()
	require.False(t, torn.Load())
	p, flag := c.Load(fence.Full)
	assert.True(t, p == a || p == b)
	assert.Equal(t, flips.Load()%2 == 1, flag)
}

// stack is a Treiber stack whose head flag marks it closed; pushes after
// close fail without losing the head.
type stack struct {
	head FlagPointer[node]
}

func (s *stack) push(n *node) bool {
	for {
		top, closed := s.head.Load(fence.Acquire)
		if closed {
			return false
		}
		n.next = top
		if s.head.CompareAndSwap(top, false, n, false, fence.Release) {
			return true
		}
		Pause()
	}
}

func (s *stack) pop() *node {
	for {
		top, closed := s.head.LoadFull(fence.Acquire)
		if top == nil {
			return nil
		}
		if s.head.CompareAndSwap(top, closed, top.next, closed, fence.Full) {
			return top
		}
	}
}

func (s *stack) close() {
	for {
		top, _ := s.head.Load(fence.None)
		if s.head.CompareAndSwap(top, false, top, true, fence.Full) {
			return
		}
	}
}

func TestFlagPointerStack(t *testing.T) {
	const workers, perWorker = 4, 2000
	nodes := make([]node, workers*perWorker)
	var s stack

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for k := 0; k < perWorker; k++ {
				n := &nodes[w*perWorker+k]
				n.value = w*perWorker + k
				assert.True(t, s.push(n))
			}
		}(w)
	}
	wg.Wait()

	s.close()
	assert.False(t, s.push(&node{value: -1}))

	seen := make(map[int]bool, len(nodes))
	for n := s.pop(); n != nil; n = s.pop() {
		assert.False(t, seen[n.value], "node %d popped twice", n.value)
		seen[n.value] = true
	}
	assert.Len(t, seen, len(nodes))
	_, closed := s.head.Load(fence.Full)
	assert.True(t, closed)
}
