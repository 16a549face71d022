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
	"io"
	"sort"
	"time"

	"github.com/sugawarayuuta/sonnet"
	"github.com/valyala/bytebufferpool"
)

// Report is the outcome of one Runner.Run.
type Report struct {
	Backend    string            `json:"backend"`
	Fence      string            `json:"fence"`
	Retry      string            `json:"retry"`
	Shared     bool              `json:"shared"`
	Workers    int               `json:"workers"`
	Iterations int               `json:"iterations"`
	Results    []WorkloadResult  `json:"results"`
	Retries    map[string]uint64 `json:"retries"`
}

// WorkloadResult is the outcome of one workload.
type WorkloadResult struct {
	Name       string        `json:"name"`
	Ops        uint64        `json:"ops"`
	Violations uint64        `json:"violations"`
	Duration   time.Duration `json:"duration_ns"`
	Error      string        `json:"error,omitempty"`

	err error
}

// OK reports whether the workload passed verification.
func (w WorkloadResult) OK() bool { return w.Error == "" }

// Err returns the verification error, if any.
func (w WorkloadResult) Err() error { return w.err }

// Failed reports whether any workload failed verification.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if !res.OK() {
			return true
		}
	}
	return false
}

// Err joins the verification errors of every failed workload.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.err != nil {
			errs = append(errs, res.err)
		}
	}
	return errors.Join(errs...)
}

// WriteText renders a human-readable table.
func (r *Report) WriteText(w io.Writer) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, "backend=%s fence=%s retry=%s shared=%t workers=%d iterations=%d\n",
		r.Backend, r.Fence, r.Retry, r.Shared, r.Workers, r.Iterations)
	for _, res := range r.Results {
		status := "ok"
		if !res.OK() {
			status = "FAIL"
		}
		rate := 0.0
		if res.Duration > 0 {
			rate = float64(res.Ops) / res.Duration.Seconds() / 1e6
		}
		fmt.Fprintf(buf, "%-10s %-4s %12d ops %12v %8.2f Mops/s\n",
			res.Name, status, res.Ops, res.Duration.Round(time.Microsecond), rate)
		if res.Error != "" {
			fmt.Fprintf(buf, "  %s\n", res.Error)
		}
	}
	if len(r.Retries) > 0 {
		ops := make([]string, 0, len(r.Retries))
		for op := range r.Retries {
			ops = append(ops, op)
		}
		sort.Strings(ops)
		_, _ = buf.WriteString("retries:")
		for _, op := range ops {
			fmt.Fprintf(buf, " %s=%d", op, r.Retries[op])
		}
		_ = buf.WriteByte('\n')
	}
	_, err := w.Write(buf.B)
	return err
}

// WriteJSON renders the report as a single JSON document.
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := sonnet.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
