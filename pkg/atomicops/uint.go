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

// Uint is an atomic pointer-width unsigned integer. The zero value is 0.
type Uint struct {
	_ noCopy
	v uintptr
}

// MakeUint returns a Uint initialized to v.
func MakeUint(v uintptr) Uint { return Uint{v: v} }

func (u *Uint) Load(f fence.Fence) uintptr { return words.Load(&u.v, f) }

func (u *Uint) Store(v uintptr, f fence.Fence) { words.Store(&u.v, v, f) }

func (u *Uint) Not(f fence.Fence) { words.Not(&u.v, f) }

func (u *Uint) And(v uintptr, f fence.Fence) { words.And(&u.v, v, f) }

func (u *Uint) Or(v uintptr, f fence.Fence) { words.Or(&u.v, v, f) }

func (u *Uint) Xor(v uintptr, f fence.Fence) { words.Xor(&u.v, v, f) }

func (u *Uint) Add(v uintptr, f fence.Fence) { words.Add(&u.v, v, f) }

func (u *Uint) Inc(f fence.Fence) { words.Inc(&u.v, f) }

func (u *Uint) Dec(f fence.Fence) { words.Dec(&u.v, f) }

// FetchAndAdd adds v and returns the previous value.
func (u *Uint) FetchAndAdd(v uintptr, f fence.Fence) uintptr { return words.FetchAndAdd(&u.v, v, f) }

func (u *Uint) FetchAndInc(f fence.Fence) uintptr { return words.FetchAndInc(&u.v, f) }

func (u *Uint) FetchAndDec(f fence.Fence) uintptr { return words.FetchAndDec(&u.v, f) }

// CompareAndSwapValue stores new if the cell holds old and returns what the
// cell held; the swap happened if and only if that equals old.
func (u *Uint) CompareAndSwapValue(old, new uintptr, f fence.Fence) uintptr {
	return words.CompareAndSwapValue(&u.v, old, new, f)
}

// CompareAndSwap stores new if the cell holds old. It makes one attempt.
func (u *Uint) CompareAndSwap(old, new uintptr, f fence.Fence) bool {
	return words.CompareAndSwap(&u.v, old, new, f)
}

// Swap stores v and returns the previous value.
func (u *Uint) Swap(v uintptr, f fence.Fence) uintptr { return words.Swap(&u.v, v, f) }
