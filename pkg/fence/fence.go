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

// Package fence defines the memory-ordering strengths accepted by every
// operation in atomicops.
//
// A backend may honor a fence with a strictly stronger instruction when the
// platform has no cheaper one. It must never provide less than requested.
package fence

import (
	"fmt"
	"strings"
)

// Fence is an ordering strength. It is passed to operations and never stored.
type Fence uint8

const (
	// None only keeps the compiler from reordering across the operation.
	None Fence = 1 << iota
	// Acquire keeps later memory operations from being observed before it.
	Acquire
	// Release keeps earlier memory operations from being observed after it.
	Release
	// Full is Acquire and Release: nothing moves across in either direction.
	Full
	// Read is a full barrier restricted to reads.
	Read
	// Write is a full barrier restricted to writes.
	Write
)

var names = map[Fence]string{
	None:    "none",
	Acquire: "acquire",
	Release: "release",
	Full:    "full",
	Read:    "read",
	Write:   "write",
}

// All returns every fence strength, weakest first.
func All() []Fence {
	return []Fence{None, Read, Write, Acquire, Release, Full}
}

// Valid reports whether f is exactly one of the defined strengths.
func (f Fence) Valid() bool {
	_, ok := names[f]
	return ok
}

func (f Fence) String() string {
	if n, ok := names[f]; ok {
		return n
	}
	return fmt.Sprintf("Fence(%d)", uint8(f))
}

// Implies reports whether an operation fenced with f also satisfies other.
//
// Full implies everything, Acquire implies Read, Release implies Write and
// every fence implies None.
func (f Fence) Implies(other Fence) bool {
	if !f.Valid() || !other.Valid() {
		return false
	}
	switch {
	case f == other, other == None, f == Full:
		return true
	case f == Acquire:
		return other == Read
	case f == Release:
		return other == Write
	}
	return false
}

// OrdersReads reports whether f orders loads against each other.
func (f Fence) OrdersReads() bool { return f.Implies(Read) }

// OrdersWrites reports whether f orders stores against each other.
func (f Fence) OrdersWrites() bool { return f.Implies(Write) }

// Parse converts a fence name, as printed by String, back into a Fence.
// "full-read" and "full-write" are accepted for Read and Write.
func Parse(s string) (Fence, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "full-read":
		return Read, nil
	case "full-write":
		return Write, nil
	}
	for f, n := range names {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown fence %q", s)
}
