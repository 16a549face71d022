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

package shm

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	internalshm "github.com/srediag/atomicops/internal/shm"
	"github.com/srediag/atomicops/pkg/fence"
)

type RegionTestSuite struct {
	suite.Suite
	region *Region
}

func (s *RegionTestSuite) SetupTest() {
	r, err := Open(context.Background(), OpenOptions{Size: 4096})
	s.Require().NoError(err)
	s.region = r
}

func (s *RegionTestSuite) TearDownTest() {
	s.NoError(s.region.Close())
}

func TestRegionSuite(t *testing.T) {
	suite.Run(t, new(RegionTestSuite))
}

func (s *RegionTestSuite) TestInvalidSize() {
	_, err := Open(context.Background(), OpenOptions{Size: 0})
	s.ErrorIs(err, ErrInvalidSize)
}

func (s *RegionTestSuite) TestCellsAliasRegionMemory() {
	a, err := s.region.Uint64At(128)
	s.Require().NoError(err)
	b, err := s.region.Uint64At(128)
	s.Require().NoError(err)

	a.Store(0xF0F0, fence.Release)
	s.Equal(uint64(0xF0F0), b.Load(fence.Acquire))

	half, err := s.region.Uint32At(128)
	s.Require().NoError(err)
	half.Store(0, fence.None)
	other, err := s.region.Uint32At(132)
	s.Require().NoError(err)
	other.Store(0, fence.None)
	s.Zero(b.Load(fence.Acquire))
}

func (s *RegionTestSuite) TestValidation() {
	_, err := s.region.Uint64At(12)
	s.ErrorIs(err, ErrMisaligned)
	_, err = s.region.Uint32At(2)
	s.ErrorIs(err, ErrMisaligned)
	_, err = s.region.UintAt(4096)
	s.ErrorIs(err, ErrOutOfRange)
	_, err = s.region.Uint64At(4092)
	s.ErrorIs(err, ErrOutOfRange)

	i, err := s.region.IntAt(0)
	s.Require().NoError(err)
	i.Dec(fence.Full)
	s.Equal(-1, i.Load(fence.Full))
}

func (s *RegionTestSuite) TestClose() {
	r, err := Open(context.Background(), OpenOptions{Size: 64})
	s.Require().NoError(err)
	s.NoError(r.Close())
	s.NoError(r.Close())
	_, err = r.UintAt(0)
	s.ErrorIs(err, ErrClosed)
}

func (s *RegionTestSuite) TestCloseFailureKeepsRegionOpen() {
	r, err := Open(context.Background(), OpenOptions{Size: 64})
	s.Require().NoError(err)

	unmap := unmapRegion
	unmapRegion = func(context.Context, *internalshm.MappedRegion) error { return assert.AnError }
	s.ErrorIs(r.Close(), assert.AnError)
	unmapRegion = unmap

	c, err := r.Uint64At(8)
	s.Require().NoError(err, "region must stay usable after a failed close")
	c.Inc(fence.Full)
	s.Equal(uint64(1), c.Load(fence.Full))

	s.NoError(r.Close())
	_, err = r.Uint64At(8)
	s.ErrorIs(err, ErrClosed)
	s.NoError(r.Close())
}

func (s *RegionTestSuite) TestConcurrentIncrement() {
	c, err := s.region.Uint64At(256)
	s.Require().NoError(err)

	const workers, iterations = 8, 5000
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				c.Inc(fence.Full)
			}
		}()
	}
	wg.Wait()
	s.Equal(uint64(workers*iterations), c.Load(fence.Full))
}

func (s *RegionTestSuite) TestAllocator() {
	a, err := NewAllocator(s.region)
	s.Require().NoError(err)
	s.Equal(HeaderSize, a.Used())

	u32, err := a.Uint32()
	s.Require().NoError(err)
	u64, err := a.Uint64()
	s.Require().NoError(err)
	s.Equal(HeaderSize+4+4+8, a.Used(), "64-bit cell is padded to its alignment")

	u32.Store(1, fence.None)
	u64.Store(2, fence.None)
	s.Equal(uint32(1), u32.Load(fence.None))

	again, err := NewAllocator(s.region)
	s.Require().NoError(err)
	s.Equal(a.Used(), again.Used(), "second allocator resumes the shared cursor")

	_, err = a.Alloc(8, 3)
	s.ErrorIs(err, ErrMisaligned)
	_, err = a.Alloc(8192, 8)
	s.ErrorIs(err, ErrNoSpace)
}

func (s *RegionTestSuite) TestAllocatorConcurrentUnique() {
	a, err := NewAllocator(s.region)
	s.Require().NoError(err)

	const workers, per = 8, 32
	offsets := make(chan uintptr, workers*per)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < per; j++ {
				off, err := a.Alloc(8, 8)
				if err == nil {
					offsets <- off
				}
			}
		}()
	}
	wg.Wait()
	close(offsets)

	seen := make(map[uintptr]bool)
	for off := range offsets {
		s.False(seen[off], "offset %d handed out twice", off)
		seen[off] = true
		s.Zero(off % 8)
	}
	s.Len(seen, workers*per)
}

func TestAllocatorNeedsHeader(t *testing.T) {
	r, err := Open(context.Background(), OpenOptions{Size: 32})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	_, err = NewAllocator(r)
	if err == nil {
		t.Fatal("expected error for region smaller than the header")
	}
}
