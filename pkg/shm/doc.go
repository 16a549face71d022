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

// Package shm places atomic cells in memory shared between processes.
//
// A Region is a mapping of /dev/shm/<name> on Linux, or an anonymous shared
// mapping when no name is given. Cells obtained from a Region are validated
// once for bounds and natural alignment and then behave exactly like heap
// cells of package atomicops:
//
//	r, err := shm.Open(ctx, shm.OpenOptions{Name: "counters", Size: 4096, Create: true})
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//	hits, err := r.Uint64At(64)
//	// ...
//	hits.Inc(fence.Full)
//
// An Allocator hands out cells from a Region through a cursor kept inside
// the region, so cooperating processes can carve the same mapping without
// any other coordination.
//
// Region memory is not visible to the garbage collector. Pointer cells are
// therefore not offered here.
package shm
