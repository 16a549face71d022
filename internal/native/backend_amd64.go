//go:build !atomicops_casonly

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

// LOCK XADD covers add, increment and decrement. Go lowers And/Or with a
// returned old value to a CMPXCHG loop on amd64, so they stay emulated.
const backendName = "amd64"

//go:nosplit
func (uintptrBackend) FetchAndAdd(addr *uintptr, delta uintptr, _ fence.Fence) uintptr {
	return atomic.AddUintptr(addr, delta) - delta
}

//go:nosplit
func (uint32Backend) FetchAndAdd(addr *uint32, delta uint32, _ fence.Fence) uint32 {
	return atomic.AddUint32(addr, delta) - delta
}

//go:nosplit
func (uint64Backend) FetchAndAdd(addr *uint64, delta uint64, _ fence.Fence) uint64 {
	return atomic.AddUint64(addr, delta) - delta
}
