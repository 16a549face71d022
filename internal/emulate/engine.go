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

// Package emulate synthesizes every derived atomic operation from the
// primitives of a native backend.
//
// Each derived operation is a load/compute/compare-and-swap loop:
//
//  1. load the current value with fence.None,
//  2. compute the new value,
//  3. compare-and-swap it in with the requested fence,
//  4. on failure start over with a fresh load.
//
// The loop is lock-free (a failed CAS means another goroutine's CAS
// succeeded) but not wait-free: a single caller can in principle retry
// forever under adversarial scheduling. There is no bound and no backoff
// unless a RetryHook is installed.
package emulate

import (
	"sync/atomic"

	"github.com/srediag/atomicops/internal/native"
	"github.com/srediag/atomicops/pkg/fence"
)

// Engine runs the derived operations for one word width on top of a backend.
// An Engine has no per-cell state and is safe for concurrent use.
type Engine[W native.Word] struct {
	p    native.Primitives[W]
	add  native.Adder[W]
	bits native.Bitwiser[W]
	hook atomic.Pointer[hookHolder]
}

type hookHolder struct {
	h RetryHook
}

// New builds an Engine, picking up whichever optional capabilities p has.
func New[W native.Word](p native.Primitives[W]) *Engine[W] {
	e := &Engine[W]{p: p}
	if a, ok := p.(native.Adder[W]); ok {
		e.add = a
	}
	if b, ok := p.(native.Bitwiser[W]); ok {
		e.bits = b
	}
	return e
}

// SetRetryHook installs h to be called after every failed CAS in a retry
// loop. A nil h restores plain spinning.
func (e *Engine[W]) SetRetryHook(h RetryHook) {
	if h == nil {
		e.hook.Store(nil)
		return
	}
	e.hook.Store(&hookHolder{h: h})
}

// Emulated reports whether op runs as a CAS loop on this engine rather than
// as a single native instruction.
func (e *Engine[W]) Emulated(op Op) bool {
	switch op {
	case OpAdd, OpInc, OpDec, OpFetchAndAdd, OpFetchAndInc, OpFetchAndDec:
		return e.add == nil
	case OpAnd, OpOr:
		return e.bits == nil
	}
	return true
}

func (e *Engine[W]) Load(addr *W, f fence.Fence) W { return e.p.Load(addr, f) }

func (e *Engine[W]) Store(addr *W, v W, f fence.Fence) { e.p.Store(addr, v, f) }

func (e *Engine[W]) Fence(f fence.Fence) { e.p.Fence(f) }

// CompareAndSwap makes exactly one attempt; retrying is up to the caller.
func (e *Engine[W]) CompareAndSwap(addr *W, old, new W, f fence.Fence) bool {
	return e.p.CompareAndSwap(addr, old, new, f)
}

// CompareAndSwapValue returns the value found in *addr; it equals old if and
// only if the swap took place.
func (e *Engine[W]) CompareAndSwapValue(addr *W, old, new W, f fence.Fence) W {
	return e.p.CompareAndSwapValue(addr, old, new, f)
}

func (e *Engine[W]) Swap(addr *W, v W, f fence.Fence) W { return e.p.Swap(addr, v, f) }

func (e *Engine[W]) Not(addr *W, f fence.Fence) { e.update(addr, OpNot, 0, f) }

func (e *Engine[W]) And(addr *W, v W, f fence.Fence) {
	if e.bits != nil {
		e.bits.FetchAndAnd(addr, v, f)
		return
	}
	e.update(addr, OpAnd, v, f)
}

func (e *Engine[W]) Or(addr *W, v W, f fence.Fence) {
	if e.bits != nil {
		e.bits.FetchAndOr(addr, v, f)
		return
	}
	e.update(addr, OpOr, v, f)
}

func (e *Engine[W]) Xor(addr *W, v W, f fence.Fence) { e.update(addr, OpXor, v, f) }

func (e *Engine[W]) Add(addr *W, v W, f fence.Fence) { e.fetchAndAdd(addr, OpAdd, v, f) }

func (e *Engine[W]) Inc(addr *W, f fence.Fence) { e.fetchAndAdd(addr, OpInc, 1, f) }

func (e *Engine[W]) Dec(addr *W, f fence.Fence) { e.fetchAndAdd(addr, OpDec, ^W(0), f) }

// FetchAndAdd adds v and returns the value the cell held just before.
func (e *Engine[W]) FetchAndAdd(addr *W, v W, f fence.Fence) W {
	return e.fetchAndAdd(addr, OpFetchAndAdd, v, f)
}

func (e *Engine[W]) FetchAndInc(addr *W, f fence.Fence) W {
	return e.fetchAndAdd(addr, OpFetchAndInc, 1, f)
}

func (e *Engine[W]) FetchAndDec(addr *W, f fence.Fence) W {
	return e.fetchAndAdd(addr, OpFetchAndDec, ^W(0), f)
}

func (e *Engine[W]) fetchAndAdd(addr *W, op Op, delta W, f fence.Fence) W {
	if e.add != nil {
		return e.add.FetchAndAdd(addr, delta, f)
	}
	return e.update(addr, op, delta, f)
}

// update is the retry loop. The load is unfenced; the requested fence rides
// on the successful CAS so the operation is fenced exactly once.
func (e *Engine[W]) update(addr *W, op Op, v W, f fence.Fence) (old W) {
	for attempt := 1; ; attempt++ {
		old = e.p.Load(addr, fence.None)
		if e.p.CompareAndSwap(addr, old, apply(op, old, v), f) {
			return old
		}
		if h := e.hook.Load(); h != nil {
			h.h.Retry(op, attempt)
		}
	}
}

func apply[W native.Word](op Op, old, v W) W {
	switch op {
	case OpNot:
		return ^old
	case OpAnd:
		return old & v
	case OpOr:
		return old | v
	case OpXor:
		return old ^ v
	}
	return old + v
}
