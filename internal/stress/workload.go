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

// Package stress runs contended workloads against atomicops cells and checks
// that the final state matches what a linearizable execution must produce.
package stress

import (
	"fmt"
	"sort"

	"github.com/srediag/atomicops/pkg/atomicops"
)

// CellSource allocates integer cells. shm.Allocator satisfies it.
type CellSource interface {
	Uint() (*atomicops.Uint, error)
	Uint64() (*atomicops.Uint64, error)
}

// Workload is a named contention pattern.
type Workload interface {
	Name() string
	// Prepare allocates the cells for one run.
	Prepare(cfg *Config, cells CellSource) (Instance, error)
}

// Instance is a prepared workload. Work is called once per worker,
// concurrently; Verify is called after every Work call has returned.
type Instance interface {
	Work(worker int) WorkerStats
	Verify() error
}

// WorkerStats is what one worker reports back.
type WorkerStats struct {
	Ops        uint64 `json:"ops"`
	Violations uint64 `json:"violations"`
}

var registry = map[string]Workload{}

func register(w Workload) { registry[w.Name()] = w }

// Lookup returns the workload registered under name.
func Lookup(name string) (Workload, error) {
	w, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownWorkload, name)
	}
	return w, nil
}

// Names lists the registered workloads in a stable order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type heapCells struct{}

func (heapCells) Uint() (*atomicops.Uint, error)     { return new(atomicops.Uint), nil }
func (heapCells) Uint64() (*atomicops.Uint64, error) { return new(atomicops.Uint64), nil }
