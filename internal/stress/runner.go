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
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	queuepkg "github.com/Workiva/go-datastructures/queue"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/srediag/atomicops/adapter"
	"github.com/srediag/atomicops/internal/logging"
	"github.com/srediag/atomicops/pkg/atomicops"
	"github.com/srediag/atomicops/pkg/shm"
)

const (
	backoffSpin       = 64
	backoffInitial    = time.Microsecond
	backoffMax        = time.Millisecond
	tracerName        = "github.com/srediag/atomicops/internal/stress"
	sharedRegionBytes = 4096
)

// Options carries the optional observers of a Runner.
type Options struct {
	Logger *logging.Logger
	Tracer trace.Tracer
	// Registerer receives retry and workload counters when set.
	Registerer prometheus.Registerer
	// Meter receives retry counters when set.
	Meter metric.Meter
}

// Runner executes the workloads of a Config. A Runner installs its retry
// hook process-wide for the duration of Run, so runs must not overlap.
type Runner struct {
	cfg     *Config
	log     *logging.Logger
	tracer  trace.Tracer
	pool    *ants.Pool
	results cmap.ConcurrentMap[string, WorkerStats]
	retries *retryCounter
	hook    atomicops.RetryHook

	ops      *prometheus.CounterVec
	failures *prometheus.CounterVec
}

type job struct {
	worker int
}

// NewRunner validates cfg and builds the worker pool and retry hooks.
func NewRunner(cfg *Config, opts Options) (*Runner, error) {
	if err := VerifyConfig(cfg); err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:     cfg,
		log:     opts.Logger,
		tracer:  opts.Tracer,
		results: cmap.New[WorkerStats](),
		retries: newRetryCounter(),
	}
	if r.log == nil {
		r.log = logging.New("stress", os.Stderr)
	}
	if r.tracer == nil {
		r.tracer = noop.NewTracerProvider().Tracer(tracerName)
	}

	hooks := []atomicops.RetryHook{r.retries}
	switch cfg.Retry {
	case RetryPause:
		hooks = append(hooks, atomicops.PauseHook)
	case RetryBackoff:
		hooks = append(hooks, adapter.NewBackoffHook(backoffSpin, backoffInitial, backoffMax))
	}
	if opts.Registerer != nil {
		ph, err := adapter.NewPrometheusHook(opts.Registerer)
		if err != nil {
			return nil, fmt.Errorf("prometheus hook: %w", err)
		}
		hooks = append(hooks, ph)
		if r.ops, err = registerCounterVec(opts.Registerer, "operations_total", "Operations executed by stress workloads."); err != nil {
			return nil, err
		}
		if r.failures, err = registerCounterVec(opts.Registerer, "failures_total", "Stress workloads that failed verification."); err != nil {
			return nil, err
		}
	}
	if opts.Meter != nil {
		oh, err := adapter.NewOTelHook(opts.Meter)
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, oh)
	}
	r.hook = atomicops.ChainRetryHooks(hooks...)

	pool, err := ants.NewPool(cfg.Workers, ants.WithPanicHandler(func(p interface{}) {
		r.log.Errorf("stress worker panic: %v", p)
	}))
	if err != nil {
		return nil, fmt.Errorf("worker pool: %w", err)
	}
	r.pool = pool
	return r, nil
}

func registerCounterVec(reg prometheus.Registerer, name, help string) (*prometheus.CounterVec, error) {
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "atomicops",
		Subsystem: "stress",
		Name:      name,
		Help:      help,
	}, []string{"workload"})
	if err := reg.Register(cv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return cv, nil
}

// Close releases the worker pool.
func (r *Runner) Close() {
	r.pool.Release()
}

// Run executes every configured workload in order. Verification failures
// are recorded in the Report; the error is reserved for runs that could not
// complete.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	atomicops.SetRetryHook(r.hook)
	defer atomicops.SetRetryHook(nil)
	r.retries.reset()

	var cells CellSource = heapCells{}
	if r.cfg.Shared {
		region, err := shm.Open(ctx, shm.OpenOptions{Size: sharedRegionBytes})
		if err != nil {
			return nil, fmt.Errorf("shared region: %w", err)
		}
		defer region.Close()
		alloc, err := shm.NewAllocator(region)
		if err != nil {
			return nil, err
		}
		cells = alloc
	}

	report := &Report{
		Backend:    atomicops.Backend(),
		Fence:      r.cfg.Fence.String(),
		Retry:      r.cfg.Retry,
		Shared:     r.cfg.Shared,
		Workers:    r.cfg.Workers,
		Iterations: r.cfg.Iterations,
	}
	for _, name := range r.cfg.Workloads {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		w, err := Lookup(name)
		if err != nil {
			return report, err
		}
		res, err := r.runWorkload(ctx, w, cells)
		if err != nil {
			return report, fmt.Errorf("%s: %w", name, err)
		}
		report.Results = append(report.Results, res)
	}
	report.Retries = r.retries.snapshot()
	return report, nil
}

func (r *Runner) runWorkload(ctx context.Context, w Workload, cells CellSource) (WorkloadResult, error) {
	ctx, span := r.tracer.Start(ctx, "stress."+w.Name(), trace.WithAttributes(
		attribute.Int("workers", r.cfg.Workers),
		attribute.Int("iterations", r.cfg.Iterations),
		attribute.String("fence", r.cfg.Fence.String()),
	))
	defer span.End()

	inst, err := w.Prepare(r.cfg, cells)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return WorkloadResult{}, err
	}

	jobs := queuepkg.New(int64(r.cfg.Workers))
	defer jobs.Dispose()
	for i := 0; i < r.cfg.Workers; i++ {
		if err := jobs.Put(job{worker: i}); err != nil {
			return WorkloadResult{}, err
		}
	}

	start := make(chan struct{})
	var wg sync.WaitGroup
	for !jobs.Empty() {
		items, err := jobs.Get(1)
		if err != nil || len(items) == 0 {
			close(start)
			wg.Wait()
			return WorkloadResult{}, fmt.Errorf("dequeue job: %w", err)
		}
		j, ok := items[0].(job)
		if !ok {
			close(start)
			wg.Wait()
			return WorkloadResult{}, fmt.Errorf("invalid job type %T", items[0])
		}
		wg.Add(1)
		err = r.pool.Submit(func() {
			defer wg.Done()
			<-start
			_, ws := r.tracer.Start(ctx, "worker", trace.WithAttributes(attribute.Int("worker", j.worker)))
			st := inst.Work(j.worker)
			ws.End()
			r.results.Set(resultKey(w.Name(), j.worker), st)
		})
		if err != nil {
			wg.Done()
			close(start)
			wg.Wait()
			return WorkloadResult{}, fmt.Errorf("submit: %w", err)
		}
	}

	began := time.Now()
	close(start)
	wg.Wait()
	elapsed := time.Since(began)

	res := WorkloadResult{Name: w.Name(), Duration: elapsed}
	for i := 0; i < r.cfg.Workers; i++ {
		st, ok := r.results.Pop(resultKey(w.Name(), i))
		if !ok {
			res.err = &VerificationError{Workload: w.Name(), Detail: fmt.Sprintf("worker %d reported nothing", i), Want: 1, Got: 0}
			continue
		}
		res.Ops += st.Ops
		res.Violations += st.Violations
	}
	if res.err == nil {
		res.err = inst.Verify()
	}
	if res.err == nil && res.Violations > 0 {
		res.err = &VerificationError{Workload: w.Name(), Detail: "ordering violations observed by workers", Want: 0, Got: res.Violations}
	}

	if r.ops != nil {
		r.ops.WithLabelValues(w.Name()).Add(float64(res.Ops))
	}
	if res.err != nil {
		res.Error = res.err.Error()
		span.RecordError(res.err)
		span.SetStatus(codes.Error, res.Error)
		if r.failures != nil {
			r.failures.WithLabelValues(w.Name()).Inc()
		}
		r.log.Errorf("workload %s failed: %v", w.Name(), res.err)
	} else {
		r.log.Infof("workload %s ok: %d ops in %v", w.Name(), res.Ops, elapsed)
	}
	span.SetAttributes(attribute.Int64("ops", int64(res.Ops)))
	return res, nil
}

func resultKey(workload string, worker int) string {
	return workload + "/" + strconv.Itoa(worker)
}

// retryCounter tallies lost CAS attempts per operation. It uses sync/atomic
// directly: a hook that called back into the emulated cells could recurse
// on its own contention.
type retryCounter struct {
	counts []atomic.Uint64
}

func newRetryCounter() *retryCounter {
	return &retryCounter{counts: make([]atomic.Uint64, len(atomicops.Ops()))}
}

func (c *retryCounter) Retry(op atomicops.Op, _ int) {
	if int(op) < len(c.counts) {
		c.counts[op].Add(1)
	}
}

func (c *retryCounter) reset() {
	for i := range c.counts {
		c.counts[i].Store(0)
	}
}

func (c *retryCounter) snapshot() map[string]uint64 {
	m := make(map[string]uint64, len(c.counts))
	for _, op := range atomicops.Ops() {
		if n := c.counts[op].Load(); n > 0 {
			m[op.String()] = n
		}
	}
	return m
}
