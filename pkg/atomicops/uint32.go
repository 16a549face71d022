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

// Uint32 is an atomic uint32. The zero value is 0.
type Uint32 struct {
	_ noCopy
	v uint32
}

// MakeUint32 returns a Uint32 initialized to v.
func MakeUint32(v uint32) Uint32 { return Uint32{v: v} }

func (u *Uint32) Load(f fence.Fence) uint32 { return words32.Load(&u.v, f) }

func (u *Uint32) Store(v uint32, f fence.Fence) { words32.Store(&u.v, v, f) }

func (u *Uint32) Not(f fence.Fence) { words32.Not(&u.v, f) }

func (u *Uint32) And(v uint32, f fence.Fence) { words32.And(&u.v, v, f) }

func (u *Uint32) Or(v uint32, f fence.Fence) { words32.Or(&u.v, v, f) }

func (u *Uint32) Xor(v uint32, f fence.Fence) { words32.Xor(&u.v, v, f) }

func (u *Uint32) Add(v uint32, f fence.Fence) { words32.Add(&u.v, v, f) }

func (u *Uint32) Inc(f fence.Fence) { words32.Inc(&u.v, f) }

func (u *Uint32) Dec(f fence.Fence) { words32.Dec(&u.v, f) }

func (u *Uint32) FetchAndAdd(v uint32, f fence.Fence) uint32 { return words32.FetchAndAdd(&u.v, v, f) }

func (u *Uint32) FetchAndInc(f fence.Fence) uint32 { return words32.FetchAndInc(&u.v, f) }

func (u *Uint32) FetchAndDec(f fence.Fence) uint32 { return words32.FetchAndDec(&u.v, f) }

func (u *Uint32) CompareAndSwapValue(old, new uint32, f fence.Fence) uint32 {
	return words32.CompareAndSwapValue(&u.v, old, new, f)
}

// CompareAndSwap stores new if the cell holds old. It makes one attempt.
func (u *Uint32) CompareAndSwap(old, new uint32, f fence.Fence) bool {
	return words32.CompareAndSwap(&u.v, old, new, f)
}

// Swap stores v and returns the previous value.
func (u *Uint32) Swap(v uint32, f fence.Fence) uint32 { return words32.Swap(&u.v, v, f) }
