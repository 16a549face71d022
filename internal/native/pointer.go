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
	"unsafe"

	"github.com/srediag/atomicops/pkg/fence"
)

// Pointer-width primitives for GC-visible pointers. They mirror Primitives
// but keep the word typed as unsafe.Pointer so the collector can trace it.

//go:nosplit
func LoadPointer(addr *unsafe.Pointer, _ fence.Fence) unsafe.Pointer {
	return atomic.LoadPointer(addr)
}

//go:nosplit
func StorePointer(addr *unsafe.Pointer, v unsafe.Pointer, _ fence.Fence) {
	atomic.StorePointer(addr, v)
}

//go:nosplit
func CompareAndSwapPointer(addr *unsafe.Pointer, old, new unsafe.Pointer, _ fence.Fence) bool {
	return atomic.CompareAndSwapPointer(addr, old, new)
}

//go:nosplit
func CompareAndSwapPointerValue(addr *unsafe.Pointer, old, new unsafe.Pointer, _ fence.Fence) (prev unsafe.Pointer) {
	for {
		prev = atomic.LoadPointer(addr)
		if prev != old {
			return
		}
		if atomic.CompareAndSwapPointer(addr, old, new) {
			return
		}
	}
}

//go:nosplit
func SwapPointer(addr *unsafe.Pointer, v unsafe.Pointer, _ fence.Fence) unsafe.Pointer {
	return atomic.SwapPointer(addr, v)
}
