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

// Package shm contains the platform-specific mapping of shared regions that
// hold atomic cells.
package shm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOutOfRange is returned when a word does not fit inside the region.
	ErrOutOfRange = errors.New("offset out of range")
	// ErrMisaligned is returned when a word offset is not naturally aligned.
	ErrMisaligned = errors.New("offset not naturally aligned")
	// ErrNoSpace is returned when the backing filesystem cannot hold the region.
	ErrNoSpace = errors.New("not enough space for shared region")
	// ErrUnsupported is returned for named regions on platforms without /dev/shm.
	ErrUnsupported = errors.New("named shared regions unsupported on this platform")
	// ErrInvalidName is returned for names that would resolve outside Dir.
	ErrInvalidName = errors.New("invalid shared region name")
)

// ValidateName rejects names that are not a single path element, so a region
// can never be created or unlinked outside the shared memory directory.
func ValidateName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("region %q: %w", name, ErrInvalidName)
	}
	return nil
}

// MappedRegion represents a memory-mapped shared region.
type MappedRegion struct {
	Addr []byte
	Name string

	fd      int
	created bool
}

// Created reports whether this process created the backing file.
func (r *MappedRegion) Created() bool { return r.created }

// MapOptions defines options for mapping shared memory. An empty Name
// requests an anonymous mapping.
type MapOptions struct {
	Name   string
	Size   int
	Create bool
}
