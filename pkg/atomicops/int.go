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
	"github.com/srediag/atomicops/pkg/fence"
)

// Int is an atomic pointer-width signed integer. The zero value is 0.
//
// It shares the pointer-width engine with Uint; arithmetic wraps in two's
// complement.
type Int struct {
	_ noCopy
	v uintptr
}

// MakeInt returns an Int initialized to v.
func MakeInt(v int) Int { return Int{v: uintptr(v)} }

func (i *Int) Load(f fence.Fence) int { return int(words.Load(&i.v, f)) }

func (i *Int) Store(v int, f fence.Fence) { words.Store(&i.v, uintptr(v), f) }

func (i *Int) Not(f fence.Fence) { words.Not(&i.v, f) }

func (i *Int) And(v int, f fence.Fence) { words.And(&i.v, uintptr(v), f) }

func (i *Int) Or(v int, f fence.Fence) { words.Or(&i.v, uintptr(v), f) }

func (i *Int) Xor(v int, f fence.Fence) { words.Xor(&i.v, uintptr(v), f) }

// Add adds v, which may be negative.
func (i *Int) Add(v int, f fence.Fence) { words.Add(&i.v, uintptr(v), f) }

func (i *Int) Inc(f fence.Fence) { words.Inc(&i.v, f) }

func (i *Int) Dec(f fence.Fence) { words.Dec(&i.v, f) }

// FetchAndAdd adds v and returns the previous value.
func (i *Int) FetchAndAdd(v int, f fence.Fence) int {
	return int(words.FetchAndAdd(&i.v, uintptr(v), f))
}

func (i *Int) FetchAndInc(f fence.Fence) int { return int(words.FetchAndInc(&i.v, f)) }

func (i *Int) FetchAndDec(f fence.Fence) int { return int(words.FetchAndDec(&i.v, f)) }

// CompareAndSwapValue stores new if the cell holds old and returns what the
// cell held.
func (i *Int) CompareAndSwapValue(old, new int, f fence.Fence) int {
	return int(words.CompareAndSwapValue(&i.v, uintptr(old), uintptr(new), f))
}

func (i *Int) CompareAndSwap(old, new int, f fence.Fence) bool {
	return words.CompareAndSwap(&i.v, uintptr(old), uintptr(new), f)
}

func (i *Int) Swap(v int, f fence.Fence) int { return int(words.Swap(&i.v, uintptr(v), f)) }
