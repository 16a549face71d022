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
)

// WordAt returns the address of the size-byte word at off within mem. The
// word must lie inside mem and be aligned to size in absolute address terms,
// since a mapping may be shared with processes that see it at another base.
func WordAt(mem []byte, off, size uintptr) (unsafe.Pointer, error) {
	if size == 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("word size %d: %w", size, ErrMisaligned)
	}
	if off > uintptr(len(mem)) || uintptr(len(mem))-off < size {
		return nil, fmt.Errorf("word [%d,%d) of %d bytes: %w", off, off+size, len(mem), ErrOutOfRange)
	}
	p := unsafe.Pointer(unsafe.SliceData(mem))
	p = unsafe.Add(p, off)
	if uintptr(p)&(size-1) != 0 {
		return nil, fmt.Errorf("word at offset %d (size %d): %w", off, size, ErrMisaligned)
	}
	return p, nil
}
