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

type uintptrBackend struct{}

//go:nosplit
func (uintptrBackend) Load(addr *uintptr, _ fence.Fence) uintptr {
	return atomic.LoadUintptr(addr)
}

//go:nosplit
func (uintptrBackend) Store(addr *uintptr, v uintptr, _ fence.Fence) {
	atomic.StoreUintptr(addr, v)
}

//go:nosplit
func (uintptrBackend) CompareAndSwap(addr *uintptr, old, new uintptr, _ fence.Fence) bool {
	return atomic.CompareAndSwapUintptr(addr, old, new)
}

//go:nosplit
func (uintptrBackend) CompareAndSwapValue(addr *uintptr, old, new uintptr, _ fence.Fence) (prev uintptr) {
	for {
		prev = atomic.LoadUintptr(addr)
		if prev != old {
			return
		}
		if atomic.CompareAndSwapUintptr(addr, old, new) {
			return
		}
	}
}

//go:nosplit
func (uintptrBackend) Swap(addr *uintptr, v uintptr, _ fence.Fence) uintptr {
	return atomic.SwapUintptr(addr, v)
}

func (uintptrBackend) Fence(f fence.Fence) { Fence(f) }

type uint32Backend struct{}

//go:nosplit
func (uint32Backend) Load(addr *uint32, _ fence.Fence) uint32 {
	return atomic.LoadUint32(addr)
}

//go:nosplit
func (uint32Backend) Store(addr *uint32, v uint32, _ fence.Fence) {
	atomic.StoreUint32(addr, v)
}

//go:nosplit
func (uint32Backend) CompareAndSwap(addr *uint32, old, new uint32, _ fence.Fence) bool {
	return atomic.CompareAndSwapUint32(addr, old, new)
}

//go:nosplit
func (uint32Backend) CompareAndSwapValue(addr *uint32, old, new uint32, _ fence.Fence) (prev uint32) {
	for {
		prev = atomic.LoadUint32(addr)
		if prev != old {
			return
		}
		if atomic.CompareAndSwapUint32(addr, old, new) {
			return
		}
	}
}

//go:nosplit
func (uint32Backend) Swap(addr *uint32, v uint32, _ fence.Fence) uint32 {
	return atomic.SwapUint32(addr, v)
}

func (uint32Backend) Fence(f fence.Fence) { Fence(f) }

type uint64Backend struct{}

//go:nosplit
func (uint64Backend) Load(addr *uint64, _ fence.Fence) uint64 {
	return atomic.LoadUint64(addr)
}

//go:nosplit
func (uint64Backend) Store(addr *uint64, v uint64, _ fence.Fence) {
	atomic.StoreUint64(addr, v)
}

//go:nosplit
func (uint64Backend) CompareAndSwap(addr *uint64, old, new uint64, _ fence.Fence) bool {
	return atomic.CompareAndSwapUint64(addr, old, new)
}

//go:nosplit
func (uint64Backend) CompareAndSwapValue(addr *uint64, old, new uint64, _ fence.Fence) (prev uint64) {
	for {
		prev = atomic.LoadUint64(addr)
		if prev != old {
			return
		}
		if atomic.CompareAndSwapUint64(addr, old, new) {
			return
		}
	}
}

//go:nosplit
func (uint64Backend) Swap(addr *uint64, v uint64, _ fence.Fence) uint64 {
	return atomic.SwapUint64(addr, v)
}

func (uint64Backend) Fence(f fence.Fence) { Fence(f) }
