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
	"errors"
	"fmt"
	"os"
	"unsafe"

	"github.com/srediag/atomicops/internal/logging"
	internalshm "github.com/srediag/atomicops/internal/shm"
	"github.com/srediag/atomicops/pkg/atomicops"
	"github.com/srediag/atomicops/pkg/fence"
)

var (
	// ErrInvalidSize is returned for a non-positive region size.
	ErrInvalidSize = errors.New("invalid region size")
	// ErrClosed is returned by operations on a closed Region.
	ErrClosed = errors.New("region closed")

	ErrOutOfRange  = internalshm.ErrOutOfRange
	ErrMisaligned  = internalshm.ErrMisaligned
	ErrNoSpace     = internalshm.ErrNoSpace
	ErrUnsupported = internalshm.ErrUnsupported
	ErrInvalidName = internalshm.ErrInvalidName
)

var log = logging.New("shm", os.Stderr)

// OpenOptions defines options for creating or opening a shared region.
type OpenOptions struct {
	// Name is the identifier of the region under /dev/shm. Empty means an
	// anonymous mapping private to this process and its children.
	Name string
	// Size is the mapping length in bytes.
	Size int
	// Create creates the region, failing if it already exists.
	Create bool
}

// Region is a mapped shared memory region.
type Region struct {
	region *internalshm.MappedRegion
	size   int
	closed atomicops.Uint32
}

// Open creates or opens a shared region with the given options.
func Open(ctx context.Context, opts OpenOptions) (*Region, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("size %d: %w", opts.Size, ErrInvalidSize)
	}
	region, err := internalshm.MapRegion(ctx, internalshm.MapOptions{
		Name:   opts.Name,
		Size:   opts.Size,
		Create: opts.Create,
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("mapped region %q size=%d create=%v", opts.Name, opts.Size, opts.Create)
	return &Region{
		region: region,
		size:   opts.Size,
	}, nil
}

// Name returns the region name, empty for anonymous regions.
func (r *Region) Name() string { return r.region.Name }

// Size returns the mapping length in bytes.
func (r *Region) Size() int { return r.size }

// Created reports whether this Region created its backing file and will
// remove it on Close.
func (r *Region) Created() bool { return r.region.Created() }

// UintAt returns the pointer-width cell at byte offset off.
func (r *Region) UintAt(off uintptr) (*atomicops.Uint, error) {
	p, err := r.wordAt(off, unsafe.Sizeof(uintptr(0)))
	if err != nil {
		return nil, err
	}
	return (*atomicops.Uint)(p), nil
}

// IntAt returns the signed pointer-width cell at byte offset off.
func (r *Region) IntAt(off uintptr) (*atomicops.Int, error) {
	p, err := r.wordAt(off, unsafe.Sizeof(uintptr(0)))
	if err != nil {
		return nil, err
	}
	return (*atomicops.Int)(p), nil
}

// Uint32At returns the 32-bit cell at byte offset off.
func (r *Region) Uint32At(off uintptr) (*atomicops.Uint32, error) {
	p, err := r.wordAt(off, 4)
	if err != nil {
		return nil, err
	}
	return (*atomicops.Uint32)(p), nil
}

// Uint64At returns the 64-bit cell at byte offset off.
func (r *Region) Uint64At(off uintptr) (*atomicops.Uint64, error) {
	p, err := r.wordAt(off, 8)
	if err != nil {
		return nil, err
	}
	return (*atomicops.Uint64)(p), nil
}

func (r *Region) wordAt(off, size uintptr) (unsafe.Pointer, error) {
	if r.closed.Load(fence.Acquire) != stateOpen {
		return nil, ErrClosed
	}
	return internalshm.WordAt(r.region.Addr, off, size)
}

const (
	stateOpen uint32 = iota
	stateClosing
	stateClosed
)

var unmapRegion = internalshm.UnmapRegion

// Close unmaps the region. Cells obtained from it must not be used
// afterwards. Closing a closed region is a no-op; after a failed Close the
// region stays open and Close may be called again.
func (r *Region) Close() error {
	if !r.closed.CompareAndSwap(stateOpen, stateClosing, fence.Full) {
		return nil
	}
	if err := unmapRegion(context.Background(), r.region); err != nil {
		r.closed.Store(stateOpen, fence.Release)
		log.Warnf("close region %q: %v", r.region.Name, err)
		return err
	}
	r.closed.Store(stateClosed, fence.Release)
	log.Debugf("closed region %q", r.region.Name)
	return nil
}
