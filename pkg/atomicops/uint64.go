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
	"sync/atomic"

	"github.com/srediag/atomicops/pkg/fence"
)

// Uint64 is an atomic uint64, 8-byte aligned on every platform. The zero
// value is 0.
type Uint64 struct {
	_ noCopy
	// atomic.Uint64 carries the compiler's 64-bit alignment guarantee.
	_ [0]atomic.Uint64
	v uint64
}

// MakeUint64 returns a Uint64 initialized to v.
func MakeUint64(v uint64) Uint64 { return Uint64{v: v} }

func (u *Uint64) Load(f fence.Fence) uint64 { return words64.Load(&u.v, f) }

func (u *Uint64) Store(v uint64, f fence.Fence) { words64.Store(&u.v, v, f) }

func (u *Uint64) Not(f fence.Fence) { words64.Not(&u.v, f) }

func (u *Uint64) And(v uint64, f fence.Fence) { words64.And(&u.v, v, f) }

func (u *Uint64) Or(v uint64, f fence.Fence) { words64.Or(&u.v, v, f) }

func (u *Uint64) Xor(v uint64, f fence.Fence) { words64.Xor(&u.v, v, f) }

func (u *Uint64) Add(v uint64, f fence.Fence) { words64.Add(&u.v, v, f) }

func (u *Uint64) Inc(f fence.Fence) { words64.Inc(&u.v, f) }

func (u *Uint64) Dec(f fence.Fence) { words64.Dec(&u.v, f) }

func (u *Uint64) FetchAndAdd(v uint64, f fence.Fence) uint64 { return words64.FetchAndAdd(&u.v, v, f) }

func (u *Uint64) FetchAndInc(f fence.Fence) uint64 { return words64.FetchAndInc(&u.v, f) }

func (u *Uint64) FetchAndDec(f fence.Fence) uint64 { return words64.FetchAndDec(&u.v, f) }

func (u *Uint64) CompareAndSwapValue(old, new uint64, f fence.Fence) uint64 {
	return words64.CompareAndSwapValue(&u.v, old, new, f)
}

// CompareAndSwap stores new if the cell holds old. It makes one attempt.
func (u *Uint64) CompareAndSwap(old, new uint64, f fence.Fence) bool {
	return words64.CompareAndSwap(&u.v, old, new, f)
}

// Swap stores v and returns the previous value.
func (u *Uint64) Swap(v uint64, f fence.Fence) uint64 { return words64.Swap(&u.v, v, f) }
