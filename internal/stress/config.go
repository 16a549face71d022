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

package stress

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/srediag/atomicops/pkg/fence"
)

const (
	RetryNone    = "none"
	RetryPause   = "pause"
	RetryBackoff = "backoff"

	defaultIterations = 100000
	maxWorkers        = 4096
)

// Config describes one stress run.
type Config struct {
	// Workers is the number of goroutines contending on each workload.
	Workers int
	// Iterations is the number of operations per worker.
	Iterations int
	// Workloads names the workloads to run, in order.
	Workloads []string
	// Fence is passed to every cell operation.
	Fence fence.Fence
	// Retry selects the retry hook installed for the run.
	Retry string
	// Shared places integer cells in an anonymous shared memory region
	// instead of the Go heap.
	Shared bool
}

// DefaultConfig returns a Config running every workload with one worker per
// logical CPU.
func DefaultConfig() *Config {
	workers, err := cpu.Counts(true)
	if err != nil || workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Config{
		Workers:    workers,
		Iterations: defaultIterations,
		Workloads:  Names(),
		Fence:      fence.Full,
		Retry:      RetryNone,
	}
}

// VerifyConfig reports the first invalid field of c.
func VerifyConfig(c *Config) error {
	if c == nil {
		return errors.New("nil config")
	}
	if c.Workers < 1 || c.Workers > maxWorkers {
		return fmt.Errorf("workers must be in [1, %d], got %d", maxWorkers, c.Workers)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if len(c.Workloads) == 0 {
		return errors.New("no workloads selected")
	}
	for _, name := range c.Workloads {
		if _, err := Lookup(name); err != nil {
			return err
		}
	}
	if !c.Fence.Valid() {
		return fmt.Errorf("invalid fence %v", c.Fence)
	}
	switch c.Retry {
	case RetryNone, RetryPause, RetryBackoff:
	default:
		return fmt.Errorf("unknown retry policy %q, want %s, %s or %s", c.Retry, RetryNone, RetryPause, RetryBackoff)
	}
	return nil
}
