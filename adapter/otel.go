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
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/srediag/atomicops/pkg/atomicops"
)

// OTelHook records lost compare-and-swap attempts on an OpenTelemetry
// counter with an "op" attribute.
type OTelHook struct {
	counter metric.Int64Counter
	opts    []metric.AddOption
}

// NewOTelHook creates the atomicops.cas.retries counter on meter.
func NewOTelHook(meter metric.Meter) (*OTelHook, error) {
	counter, err := meter.Int64Counter("atomicops.cas.retries",
		metric.WithDescription("Compare-and-swap attempts lost to a concurrent writer."),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("otel counter: %w", err)
	}
	ops := atomicops.Ops()
	h := &OTelHook{
		counter: counter,
		opts:    make([]metric.AddOption, len(ops)),
	}
	for _, op := range ops {
		h.opts[op] = metric.WithAttributeSet(attribute.NewSet(attribute.String("op", op.String())))
	}
	return h, nil
}

// Retry implements atomicops.RetryHook.
func (h *OTelHook) Retry(op atomicops.Op, _ int) {
	if int(op) < len(h.opts) {
		h.counter.Add(context.Background(), 1, h.opts[op])
	}
}
