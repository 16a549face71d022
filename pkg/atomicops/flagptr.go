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
	"fmt"
	"unsafe"

	"github.com/srediag/atomicops/pkg/fence"
)

const flagBit uintptr = 1

// FlagPointer is a *T and a bool packed into one pointer-width word, the
// flag in the pointer's lowest bit. Both halves are always read and written
// together.
//
// The packed word lives in a Uint, so the garbage collector does not see the
// pointer: the caller keeps every target reachable for as long as the cell
// may refer to it. Every pointer passed in is forced to the heap, so a
// target never moves with a goroutine stack. T must have an alignment of at least 2 bytes. MakeFlagPointer
// and NewFlagPointer check this; the zero value (nil, false) does not.
type FlagPointer[T any] struct {
	_ [0]*T
	w Uint
}

// FlagAligned reports whether *T values leave the low address bit free.
func FlagAligned[T any]() bool {
	var zero T
	return unsafe.Alignof(zero) >= 2
}

// MakeFlagPointer returns a FlagPointer holding (p, flag).
func MakeFlagPointer[T any](p *T, flag bool) (FlagPointer[T], error) {
	if !FlagAligned[T]() {
		var zero T
		return FlagPointer[T]{}, fmt.Errorf("flag pointer to %T: %w", zero, ErrFlagAlignment)
	}
	if uintptr(unsafe.Pointer(p))&flagBit != 0 {
		return FlagPointer[T]{}, fmt.Errorf("flag pointer %p: %w", p, ErrMisaligned)
	}
	return FlagPointer[T]{w: MakeUint(packFlag(p, flag))}, nil
}

// NewFlagPointer is MakeFlagPointer for callers that want the cell on the heap.
func NewFlagPointer[T any](p *T, flag bool) (*FlagPointer[T], error) {
	c, err := MakeFlagPointer(p, flag)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// escapeSink is never written; storing into it under a condition the
// compiler cannot disprove makes every packed pointer escape to the heap.
var escapeSink struct {
	b bool
	x any
}

func escapes(x any) {
	if escapeSink.b {
		escapeSink.x = x
	}
}

func packFlag[T any](p *T, flag bool) uintptr {
	escapes(p)
	w := uintptr(unsafe.Pointer(p))
	if flag {
		w |= flagBit
	}
	return w
}

// unpackFlag turns a packed word back into a pointer. With the flag bit
// cleared the word is exactly what packFlag took from a heap pointer the
// caller keeps reachable, and heap objects do not move, so reading the word
// back as a pointer yields that same object.
//
//go:nocheckptr
func unpackFlag[T any](w uintptr) (*T, bool) {
	flag := w&flagBit != 0
	w &^= flagBit
	return *(**T)(unsafe.Pointer(&w)), flag
}

// Store writes p and flag. p must have its low bit clear.
func (c *FlagPointer[T]) Store(p *T, flag bool, f fence.Fence) {
	c.w.Store(packFlag(p, flag), f)
}

// Load returns the pointer and flag with exactly the requested ordering.
func (c *FlagPointer[T]) Load(f fence.Fence) (*T, bool) {
	return unpackFlag[T](c.w.Load(f))
}

// LoadFull is Load followed by a full fence, whatever f asks for. Use it where
// the caller needs the strongest ordering the platform has.
func (c *FlagPointer[T]) LoadFull(f fence.Fence) (*T, bool) {
	w := c.w.Load(f)
	Fence(fence.Full)
	return unpackFlag[T](w)
}

// CompareAndSwapValue replaces (oldP, oldFlag) with (newP, newFlag) and
// returns the pair the cell held. The swap happened if and only if the
// returned pair equals (oldP, oldFlag).
func (c *FlagPointer[T]) CompareAndSwapValue(oldP *T, oldFlag bool, newP *T, newFlag bool, f fence.Fence) (*T, bool) {
	prev := c.w.CompareAndSwapValue(packFlag(oldP, oldFlag), packFlag(newP, newFlag), f)
	return unpackFlag[T](prev)
}

// CompareAndSwap replaces (oldP, oldFlag) with (newP, newFlag) in one attempt.
func (c *FlagPointer[T]) CompareAndSwap(oldP *T, oldFlag bool, newP *T, newFlag bool, f fence.Fence) bool {
	return c.w.CompareAndSwap(packFlag(oldP, oldFlag), packFlag(newP, newFlag), f)
}

// Swap stores (p, flag) and returns the previous pair.
func (c *FlagPointer[T]) Swap(p *T, flag bool, f fence.Fence) (*T, bool) {
	return unpackFlag[T](c.w.Swap(packFlag(p, flag), f))
}
