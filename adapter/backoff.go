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

// Package adapter connects the atomicops retry hook to external systems:
// backoff policies, Prometheus, OpenTelemetry and health endpoints.
package adapter

import (
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/srediag/atomicops/pkg/atomicops"
)

// maxBackoffSteps bounds the per-retry replay of the backoff policy; the
// interval has long saturated at MaxInterval by then.
const maxBackoffSteps = 64

// BackoffHook spins with the processor pause hint for the first Spin failed
// attempts of an operation and then sleeps for an exponentially growing
// interval. It trades latency for fairness under heavy contention.
type BackoffHook struct {
	spin                int
	initial, max        time.Duration
	randomizationFactor float64
	sleep               func(time.Duration)
}

// NewBackoffHook returns a BackoffHook that pauses for spin attempts and then
// sleeps from initial up to max.
func NewBackoffHook(spin int, initial, max time.Duration) *BackoffHook {
	return &BackoffHook{
		spin:                spin,
		initial:             initial,
		max:                 max,
		randomizationFactor: backoff.DefaultRandomizationFactor,
		sleep:               time.Sleep,
	}
}

// Retry implements atomicops.RetryHook.
func (h *BackoffHook) Retry(_ atomicops.Op, attempt int) {
	if attempt <= h.spin {
		atomicops.Pause()
		return
	}
	h.sleep(h.Delay(attempt - h.spin))
}

// Delay returns the sleep for the n-th attempt past the spin phase.
func (h *BackoffHook) Delay(n int) time.Duration {
	// ExponentialBackOff is stateful and not safe for concurrent use, so each
	// retry replays a private copy.
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(h.initial),
		backoff.WithMaxInterval(h.max),
		backoff.WithMaxElapsedTime(0),
		backoff.WithRandomizationFactor(h.randomizationFactor),
	)
	if n > maxBackoffSteps {
		n = maxBackoffSteps
	}
	d := h.initial
	for i := 0; i < n; i++ {
		d = b.NextBackOff()
	}
	return d
}
