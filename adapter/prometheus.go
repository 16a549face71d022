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

	"github.com/prometheus/client_golang/prometheus"

	"github.com/srediag/atomicops/pkg/atomicops"
)

// PrometheusHook counts lost compare-and-swap attempts per operation.
type PrometheusHook struct {
	retries  *prometheus.CounterVec
	counters []prometheus.Counter
}

// NewPrometheusHook registers atomicops_cas_retries_total{op} with reg. A
// collector already registered under the same name is reused.
func NewPrometheusHook(reg prometheus.Registerer) (*PrometheusHook, error) {
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "atomicops",
		Name:      "cas_retries_total",
		Help:      "Compare-and-swap attempts lost to a concurrent writer, by operation.",
	}, []string{"op"})
	if err := reg.Register(retries); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		retries = existing
	}
	ops := atomicops.Ops()
	h := &PrometheusHook{
		retries:  retries,
		counters: make([]prometheus.Counter, len(ops)),
	}
	for _, op := range ops {
		h.counters[op] = retries.WithLabelValues(op.String())
	}
	return h, nil
}

// Retry implements atomicops.RetryHook.
func (h *PrometheusHook) Retry(op atomicops.Op, _ int) {
	if int(op) < len(h.counters) {
		h.counters[op].Inc()
	}
}

// Counter returns the counter for op.
func (h *PrometheusHook) Counter(op atomicops.Op) prometheus.Counter {
	return h.retries.WithLabelValues(op.String())
}
