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
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/srediag/atomicops/pkg/atomicops"
)

func TestBackoffHookSpinsThenSleeps(t *testing.T) {
	h := NewBackoffHook(2, time.Millisecond, 4*time.Millisecond)
	h.randomizationFactor = 0
	var slept []time.Duration
	h.sleep = func(d time.Duration) { slept = append(slept, d) }

	for attempt := 1; attempt <= 7; attempt++ {
		h.Retry(atomicops.OpAdd, attempt)
	}
	assert.Equal(t, []time.Duration{
		time.Millisecond,
		1500 * time.Microsecond,
		2250 * time.Microsecond,
		3375 * time.Microsecond,
		4 * time.Millisecond,
	}, slept)
}

func TestBackoffHookDelayCapped(t *testing.T) {
	h := NewBackoffHook(0, time.Millisecond, 10*time.Millisecond)
	h.randomizationFactor = 0
	assert.Equal(t, 10*time.Millisecond, h.Delay(1_000_000))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestPrometheusHook(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := NewPrometheusHook(reg)
	require.NoError(t, err)

	h.Retry(atomicops.OpXor, 1)
	h.Retry(atomicops.OpXor, 2)
	h.Retry(atomicops.OpFetchAndInc, 1)

	assert.Equal(t, 2.0, counterValue(t, h.Counter(atomicops.OpXor)))
	assert.Equal(t, 1.0, counterValue(t, h.Counter(atomicops.OpFetchAndInc)))
	assert.Equal(t, 0.0, counterValue(t, h.Counter(atomicops.OpNot)))

	again, err := NewPrometheusHook(reg)
	require.NoError(t, err)
	again.Retry(atomicops.OpXor, 1)
	assert.Equal(t, 3.0, counterValue(t, h.Counter(atomicops.OpXor)))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "atomicops_cas_retries_total", families[0].GetName())
}

type recordingCounter struct {
	noop.Int64Counter
	mu   sync.Mutex
	adds map[string]int64
}

func (c *recordingCounter) Add(_ context.Context, incr int64, opts ...metric.AddOption) {
	cfg := metric.NewAddConfig(opts)
	attrs := cfg.Attributes()
	v, _ := attrs.Value("op")
	c.mu.Lock()
	c.adds[v.AsString()] += incr
	c.mu.Unlock()
}

type recordingMeter struct {
	noop.Meter
	counter *recordingCounter
}

func (m recordingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return m.counter, nil
}

func TestOTelHook(t *testing.T) {
	rc := &recordingCounter{adds: make(map[string]int64)}
	h, err := NewOTelHook(recordingMeter{counter: rc})
	require.NoError(t, err)

	h.Retry(atomicops.OpAnd, 1)
	h.Retry(atomicops.OpAnd, 2)
	h.Retry(atomicops.OpDec, 1)

	assert.Equal(t, map[string]int64{"and": 2, "dec": 1}, rc.adds)
}

func TestOTelHookNoopMeter(t *testing.T) {
	h, err := NewOTelHook(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	assert.NotPanics(t, func() { h.Retry(atomicops.OpOr, 1) })
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(10000)
	for _, path := range []string{"/live", "/ready"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	h.AddReadinessCheck("failing", func() error { return assert.AnError })
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAtomicsCheck(t *testing.T) {
	assert.NoError(t, AtomicsCheck()())
}
