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

// Command atomicstress hammers atomicops cells from many goroutines and
// verifies that the final state matches a linearizable execution.
//
// Usage:
//
//	atomicstress [-workers N] [-iterations N] [-workloads a,b] [-fence full]
//	             [-retry none|pause|backoff] [-shared] [-json] [-listen :9100]
//
// With -listen, Prometheus metrics are served on /metrics and health probes
// on /live and /ready; the process keeps serving until interrupted.
//
// Spans and the OpenTelemetry retry counter go to the global otel providers.
// This command installs none, so they are dropped unless the binary is built
// with an SDK registered through otel.SetTracerProvider and
// otel.SetMeterProvider. Prometheus output does not depend on them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/srediag/atomicops/adapter"
	"github.com/srediag/atomicops/internal/logging"
	"github.com/srediag/atomicops/internal/stress"
	"github.com/srediag/atomicops/pkg/fence"
)

const (
	instrumentation = "github.com/srediag/atomicops/cmd/atomicstress"
	maxGoroutines   = 10000
)

var log = logging.New("atomicstress", os.Stderr)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := stress.DefaultConfig()
	var (
		workloads = flag.String("workloads", strings.Join(cfg.Workloads, ","), "comma-separated workloads to run")
		fenceName = flag.String("fence", cfg.Fence.String(), "fence passed to every operation")
		asJSON    = flag.Bool("json", false, "print the report as JSON")
		listen    = flag.String("listen", "", "serve /metrics, /live and /ready on this address")
	)
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "goroutines per workload")
	flag.IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "operations per worker")
	flag.StringVar(&cfg.Retry, "retry", cfg.Retry, "retry hook: none, pause or backoff")
	flag.BoolVar(&cfg.Shared, "shared", cfg.Shared, "place cells in a shared memory region")
	flag.Usage = func() {
		writeUsage(flag.CommandLine.Output())
		flag.PrintDefaults()
	}
	flag.Parse()

	f, err := fence.Parse(*fenceName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	cfg.Fence = f
	cfg.Workloads = splitList(*workloads)
	if err := stress.VerifyConfig(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var srv *http.Server
	if *listen != "" {
		srv = serve(*listen, reg)
		defer shutdown(srv)
	}

	runner, err := stress.NewRunner(cfg, stress.Options{
		Logger:     log,
		Tracer:     otel.Tracer(instrumentation),
		Registerer: reg,
		Meter:      otel.Meter(instrumentation),
	})
	if err != nil {
		log.Errorf("create runner: %v", err)
		return 1
	}
	defer runner.Close()

	report, err := runner.Run(ctx)
	if err != nil {
		log.Errorf("run: %v", err)
		return 1
	}
	if *asJSON {
		err = report.WriteJSON(os.Stdout)
	} else {
		err = report.WriteText(os.Stdout)
	}
	if err != nil {
		log.Errorf("write report: %v", err)
		return 1
	}

	if srv != nil {
		log.Infof("run finished, serving on %s until interrupted", *listen)
		<-ctx.Done()
	}
	if report.Failed() {
		return 1
	}
	return 0
}

func writeUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s [flags]\n\n", os.Args[0])
	fmt.Fprintln(w, "Runs contended workloads on atomicops cells and verifies the final state.")
	fmt.Fprintln(w, "Metrics: Prometheus on -listen /metrics. OpenTelemetry spans and counters")
	fmt.Fprintln(w, "are dropped unless a global OpenTelemetry SDK provider is installed.")
	fmt.Fprintln(w)
}

func serve(addr string, reg *prometheus.Registry) *http.Server {
	health := adapter.NewHealthHandler(maxGoroutines)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.Handle("/live", health)
	mux.Handle("/ready", health)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("listen %s: %v", addr, err)
		}
	}()
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
