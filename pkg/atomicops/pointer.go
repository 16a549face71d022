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
	"unsafe"

	"github.com/srediag/atomicops/internal/native"
	"github.com/srediag/atomicops/pkg/fence"
)

// Pointer is an atomic *T. The zero value is nil. The stored pointer is
// visible to the garbage collector.
type Pointer[T any] struct {
	_ noCopy
	// Mention T so Pointer[A] and Pointer[B] do not convert into each other.
	_ [0]*T
	v unsafe.Pointer
}

// MakePointer returns a Pointer initialized to p.
func MakePointer[T any](p *T) Pointer[T] { return Pointer[T]{v: unsafe.Pointer(p)} }

func (p *Pointer[T]) Load(f fence.Fence) *T {
	return (*T)(native.LoadPointer(&p.v, f))
}

func (p *Pointer[T]) Store(v *T, f fence.Fence) {
	native.StorePointer(&p.v, unsafe.Pointer(v), f)
}

// CompareAndSwapValue stores new if the cell holds old and returns what the
// cell held.
func (p *Pointer[T]) CompareAndSwapValue(old, new *T, f fence.Fence) *T {
	return (*T)(native.CompareAndSwapPointerValue(&p.v, unsafe.Pointer(old), unsafe.Pointer(new), f))
}

func (p *Pointer[T]) CompareAndSwap(old, new *T, f fence.Fence) bool {
	return native.CompareAndSwapPointer(&p.v, unsafe.Pointer(old), unsafe.Pointer(new), f)
}

// Swap stores v and returns the previous pointer.
func (p *Pointer[T]) Swap(v *T, f fence.Fence) *T {
	return (*T)(native.SwapPointer(&p.v, unsafe.Pointer(v), f))
}
