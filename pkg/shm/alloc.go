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
	"fmt"
	"unsafe"

	"github.com/srediag/atomicops/pkg/atomicops"
	"github.com/srediag/atomicops/pkg/fence"
)

// HeaderSize is the number of bytes at the start of a Region reserved for
// the Allocator cursor.
const HeaderSize = 64

// Allocator hands out naturally aligned cells from a Region. The cursor
// lives in the first word of the region, so allocators opened by different
// processes on the same region never hand out overlapping cells.
// Allocation is bump-only; cells are released with the region.
type Allocator struct {
	region *Region
	cursor *atomicops.Uint64
}

// NewAllocator returns an Allocator over r, initializing the cursor if r is
// fresh.
func NewAllocator(r *Region) (*Allocator, error) {
	if r.Size() < HeaderSize {
		return nil, fmt.Errorf("region of %d bytes has no room for the allocator header: %w", r.Size(), ErrOutOfRange)
	}
	cursor, err := r.Uint64At(0)
	if err != nil {
		return nil, err
	}
	cursor.CompareAndSwap(0, HeaderSize, fence.Full)
	return &Allocator{region: r, cursor: cursor}, nil
}

// Alloc reserves size bytes aligned to align and returns their offset.
func (a *Allocator) Alloc(size, align uintptr) (uintptr, error) {
	if align == 0 || align&(align-1) != 0 {
		return 0, fmt.Errorf("alignment %d: %w", align, ErrMisaligned)
	}
	limit := uint64(a.region.Size())
	for {
		old := a.cursor.Load(fence.Acquire)
		off := (old + uint64(align) - 1) &^ (uint64(align) - 1)
		next := off + uint64(size)
		if next > limit || next < off {
			return 0, fmt.Errorf("alloc %d bytes at %d of %d: %w", size, off, limit, ErrNoSpace)
		}
		if a.cursor.CompareAndSwap(old, next, fence.Full) {
			return uintptr(off), nil
		}
		atomicops.Pause()
	}
}

// Used returns the number of bytes handed out, header included.
func (a *Allocator) Used() int { return int(a.cursor.Load(fence.Acquire)) }

// Uint allocates a pointer-width cell.
func (a *Allocator) Uint() (*atomicops.Uint, error) {
	off, err := a.Alloc(unsafe.Sizeof(uintptr(0)), unsafe.Alignof(uintptr(0)))
	if err != nil {
		return nil, err
	}
	return a.region.UintAt(off)
}

// Int allocates a signed pointer-width cell.
func (a *Allocator) Int() (*atomicops.Int, error) {
	off, err := a.Alloc(unsafe.Sizeof(uintptr(0)), unsafe.Alignof(uintptr(0)))
	if err != nil {
		return nil, err
	}
	return a.region.IntAt(off)
}

// Uint32 allocates a 32-bit cell.
func (a *Allocator) Uint32() (*atomicops.Uint32, error) {
	off, err := a.Alloc(4, 4)
	if err != nil {
		return nil, err
	}
	return a.region.Uint32At(off)
}

// Uint64 allocates a 64-bit cell.
func (a *Allocator) Uint64() (*atomicops.Uint64, error) {
	off, err := a.Alloc(8, 8)
	if err != nil {
		return nil, err
	}
	return a.region.Uint64At(off)
}
