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

package adapter

import (
	"errors"
	"fmt"

	"github.com/heptiolabs/healthcheck"

	"github.com/srediag/atomicops/pkg/atomicops"
	"github.com/srediag/atomicops/pkg/fence"
)

// NewHealthHandler returns /live and /ready handlers. Liveness fails above
// maxGoroutines; readiness runs AtomicsCheck.
func NewHealthHandler(maxGoroutines int) healthcheck.Handler {
	h := healthcheck.NewHandler()
	h.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(maxGoroutines))
	h.AddReadinessCheck("atomics", AtomicsCheck())
	return h
}

// AtomicsCheck exercises the native and emulated paths of a private cell and
// fails if any result disagrees with the sequential expectation.
func AtomicsCheck() healthcheck.Check {
	return func() error {
		var c atomicops.Uint
		c.Store(0xF0F0, fence.Release)
		c.Or(0x0F00, fence.Full)
		c.And(0xFF0F, fence.Full)
		c.Xor(0x0FF0, fence.Full)
		if got := c.Load(fence.Acquire); got != 0xF0F0 {
			return fmt.Errorf("bitwise sequence produced %#x, want 0xf0f0", got)
		}
		if got := c.FetchAndInc(fence.Full); got != 0xF0F0 {
			return fmt.Errorf("fetch-and-inc returned %#x, want 0xf0f0", got)
		}
		if c.CompareAndSwap(0, 1, fence.Full) {
			return errors.New("compare-and-swap succeeded on a mismatched value")
		}
		return nil
	}
}
