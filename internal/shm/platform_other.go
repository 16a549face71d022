//go:build !linux

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

package shm

import (
	"context"
	"unsafe"
)

// MapRegion serves anonymous regions from the heap; named regions need
// /dev/shm and fail with ErrUnsupported.
func MapRegion(ctx context.Context, opts MapOptions) (*MappedRegion, error) {
	if opts.Name != "" {
		return nil, ErrUnsupported
	}
	// backed by uint64s so every word width is naturally aligned
	words := make([]uint64, (opts.Size+7)/8)
	var addr []byte
	if len(words) > 0 {
		addr = unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), opts.Size)
	}
	return &MappedRegion{Addr: addr, fd: -1}, nil
}

// UnmapRegion releases the heap backing.
func UnmapRegion(ctx context.Context, region *MappedRegion) error {
	if region != nil {
		region.Addr = nil
	}
	return nil
}
