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

// Package native is the contract between the emulation layer and the
// instructions an architecture actually provides.
//
// Every backend implements Primitives for each word width. A backend that
// has a dedicated instruction for a derived operation advertises it through
// one of the capability interfaces (Adder, Bitwiser); the emulation layer
// synthesizes everything else from CompareAndSwap.
//
// Go's sync/atomic operations are sequentially consistent, so every fence
// strength is honored by a stronger instruction than requested.
package native

import (
	"github.com/srediag/atomicops/pkg/fence"
)

// Word is the set of scalar widths a backend can operate on.
type Word interface {
	~uint32 | ~uint64 | ~uintptr
}

// Primitives is the minimal set every backend supplies for one width.
type Primitives[W Word] interface {
	Load(addr *W, f fence.Fence) W
	Store(addr *W, v W, f fence.Fence)
	// CompareAndSwap performs one hardware CAS attempt.
	CompareAndSwap(addr *W, old, new W, f fence.Fence) bool
	// CompareAndSwapValue returns the value found in *addr. The swap happened
	// if and only if the returned value equals old.
	CompareAndSwapValue(addr *W, old, new W, f fence.Fence) W
	Swap(addr *W, v W, f fence.Fence) W
	Fence(f fence.Fence)
}

// Adder is implemented by backends with a native fetch-and-add.
type Adder[W Word] interface {
	FetchAndAdd(addr *W, delta W, f fence.Fence) W
}

// Bitwiser is implemented by backends with native fetch-and-and/or.
type Bitwiser[W Word] interface {
	FetchAndAnd(addr *W, mask W, f fence.Fence) W
	FetchAndOr(addr *W, mask W, f fence.Fence) W
}

type casOnly[W Word] struct {
	Primitives[W]
}

// CASOnly hides every optional capability of p, leaving the emulation layer
// nothing but the primitives.
func CASOnly[W Word](p Primitives[W]) Primitives[W] {
	if c, ok := p.(casOnly[W]); ok {
		return c
	}
	return casOnly[W]{p}
}

// Uintptr returns the build-selected backend for pointer-width words.
func Uintptr() Primitives[uintptr] { return uintptrBackend{} }

// Uint32 returns the build-selected backend for 32-bit words.
func Uint32() Primitives[uint32] { return uint32Backend{} }

// Uint64 returns the build-selected backend for 64-bit words. Addresses must
// be 8-byte aligned, including on 32-bit platforms.
func Uint64() Primitives[uint64] { return uint64Backend{} }

// Name identifies the backend compiled into this binary.
func Name() string { return backendName }
