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

package native

import (
	"sync/atomic"

	"github.com/srediag/atomicops/pkg/fence"
)

// Fence orders memory operations around the call according to f.
//
// Go has no standalone fence instruction. Any strength other than None is
// served by a sequentially consistent read-modify-write on a word private to
// the call, which is a full barrier on every supported architecture.
func Fence(f fence.Fence) {
	if f == fence.None {
		compilerBarrier()
		return
	}
	var w uint32
	atomic.AddUint32(&w, 0)
}

// The compiler does not move memory operations across a call it cannot see
// into.
//
//go:noinline
func compilerBarrier() {}
