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
	"fmt"
	"math/bits"

	"github.com/srediag/atomicops/pkg/atomicops"
	"github.com/srediag/atomicops/pkg/fence"
)

func init() {
	register(fetchInc{})
	register(add{})
	register(xor{})
	register(casInc{})
	register(swap{})
	register(flagPtr{})
}

// fetchInc: every worker fetch-and-increments the same counter. The final
// value is workers*iterations and each worker sees strictly increasing
// pre-images.
type fetchInc struct{}

func (fetchInc) Name() string { return "fetch-inc" }

func (fetchInc) Prepare(cfg *Config, cells CellSource) (Instance, error) {
	c, err := cells.Uint64()
	if err != nil {
		return nil, err
	}
	c.Store(0, fence.Release)
	return &fetchIncRun{cfg: cfg, c: c}, nil
}

type fetchIncRun struct {
	cfg *Config
	c   *atomicops.Uint64
}

func (r *fetchIncRun) Work(int) WorkerStats {
	var st WorkerStats
	prev := uint64(0)
	for i := 0; i < r.cfg.Iterations; i++ {
		got := r.c.FetchAndInc(r.cfg.Fence)
		if i > 0 && got <= prev {
			st.Violations++
		}
		prev = got
		st.Ops++
	}
	return st
}

func (r *fetchIncRun) Verify() error {
	want := uint64(r.cfg.Workers) * uint64(r.cfg.Iterations)
	if got := r.c.Load(fence.Full); got != want {
		return &VerificationError{Workload: "fetch-inc", Want: want, Got: got}
	}
	return nil
}

// add: worker i adds i+1 on every iteration of a pointer-width counter.
type add struct{}

func (add) Name() string { return "add" }

func (add) Prepare(cfg *Config, cells CellSource) (Instance, error) {
	c, err := cells.Uint()
	if err != nil {
		return nil, err
	}
	c.Store(0, fence.Release)
	return &addRun{cfg: cfg, c: c}, nil
}

type addRun struct {
	cfg *Config
	c   *atomicops.Uint
}

func (r *addRun) Work(worker int) WorkerStats {
	delta := uintptr(worker + 1)
	for i := 0; i < r.cfg.Iterations; i++ {
		r.c.Add(delta, r.cfg.Fence)
	}
	return WorkerStats{Ops: uint64(r.cfg.Iterations)}
}

func (r *addRun) Verify() error {
	w := uintptr(r.cfg.Workers)
	want := w * (w + 1) / 2 * uintptr(r.cfg.Iterations)
	if got := r.c.Load(fence.Full); got != want {
		return &VerificationError{Workload: "add", Want: uint64(want), Got: uint64(got)}
	}
	return nil
}

// xor: each worker toggles its own bit an even number of times, so the
// starting pattern must survive. Xor is always emulated.
type xor struct{}

const xorPattern = 0xF0F0

func (xor) Name() string { return "xor" }

func (xor) Prepare(cfg *Config, cells CellSource) (Instance, error) {
	c, err := cells.Uint()
	if err != nil {
		return nil, err
	}
	c.Store(xorPattern, fence.Release)
	return &xorRun{cfg: cfg, c: c}, nil
}

type xorRun struct {
	cfg *Config
	c   *atomicops.Uint
}

func (r *xorRun) Work(worker int) WorkerStats {
	token := uintptr(1) << (uint(worker) % bits.UintSize)
	for i := 0; i < 2*r.cfg.Iterations; i++ {
		r.c.Xor(token, r.cfg.Fence)
	}
	return WorkerStats{Ops: 2 * uint64(r.cfg.Iterations)}
}

func (r *xorRun) Verify() error {
	if got := r.c.Load(fence.Full); got != xorPattern {
		return &VerificationError{Workload: "xor", Want: xorPattern, Got: uint64(got)}
	}
	return nil
}

// casInc: increments through a hand-written CompareAndSwapValue loop, the
// shape callers use for updates the cells do not provide.
type casInc struct{}

func (casInc) Name() string { return "cas-inc" }

func (casInc) Prepare(cfg *Config, cells CellSource) (Instance, error) {
	c, err := cells.Uint64()
	if err != nil {
		return nil, err
	}
	c.Store(0, fence.Release)
	return &casIncRun{cfg: cfg, c: c}, nil
}

type casIncRun struct {
	cfg *Config
	c   *atomicops.Uint64
}

func (r *casIncRun) Work(int) WorkerStats {
	var st WorkerStats
	for i := 0; i < r.cfg.Iterations; i++ {
		old := r.c.Load(fence.None)
		for {
			prev := r.c.CompareAndSwapValue(old, old+1, r.cfg.Fence)
			if prev == old {
				break
			}
			if prev < old {
				st.Violations++
			}
			old = prev
			atomicops.Pause()
		}
		st.Ops++
	}
	return st
}

func (r *casIncRun) Verify() error {
	want := uint64(r.cfg.Workers) * uint64(r.cfg.Iterations)
	if got := r.c.Load(fence.Full); got != want {
		return &VerificationError{Workload: "cas-inc", Want: want, Got: got}
	}
	return nil
}

// swap: every worker swaps in distinct tokens. Each token, and the initial
// zero, must come back out exactly once, either from a swap or as the final
// value.
type swap struct{}

const maxSwapTokens = 1 << 26

func (swap) Name() string { return "swap" }

func (swap) Prepare(cfg *Config, cells CellSource) (Instance, error) {
	n := uint64(cfg.Workers) * uint64(cfg.Iterations)
	if n > maxSwapTokens {
		return nil, fmt.Errorf("swap: %d tokens exceed the limit of %d", n, maxSwapTokens)
	}
	c, err := cells.Uint()
	if err != nil {
		return nil, err
	}
	c.Store(0, fence.Release)
	return &swapRun{cfg: cfg, c: c, out: make([][]uintptr, cfg.Workers)}, nil
}

type swapRun struct {
	cfg *Config
	c   *atomicops.Uint
	out [][]uintptr
}

func (r *swapRun) Work(worker int) WorkerStats {
	out := make([]uintptr, 0, r.cfg.Iterations)
	base := uintptr(worker) * uintptr(r.cfg.Iterations)
	for i := 0; i < r.cfg.Iterations; i++ {
		out = append(out, r.c.Swap(base+uintptr(i)+1, r.cfg.Fence))
	}
	r.out[worker] = out
	return WorkerStats{Ops: uint64(r.cfg.Iterations)}
}

func (r *swapRun) Verify() error {
	n := r.cfg.Workers * r.cfg.Iterations
	seen := make([]bool, n+1)
	observe := func(v uintptr) error {
		if v > uintptr(n) {
			return &VerificationError{Workload: "swap", Detail: "value never swapped in", Want: uint64(n), Got: uint64(v)}
		}
		if seen[v] {
			return &VerificationError{Workload: "swap", Detail: "token returned twice", Want: 1, Got: 2}
		}
		seen[v] = true
		return nil
	}
	for _, out := range r.out {
		for _, v := range out {
			if err := observe(v); err != nil {
				return err
			}
		}
	}
	if err := observe(r.c.Load(fence.Full)); err != nil {
		return err
	}
	for v, ok := range seen {
		if !ok {
			return &VerificationError{Workload: "swap", Detail: fmt.Sprintf("token %d lost", v), Want: 1, Got: 0}
		}
	}
	return nil
}

// flagPtr: workers flip a flag-pointer between (a, false) and (b, true) with
// compare-and-swap. No load may observe a mixed pair, and the final flag is
// the parity of successful flips.
type flagPtr struct{}

type flagNode struct {
	id int
}

func (flagPtr) Name() string { return "flagptr" }

func (flagPtr) Prepare(cfg *Config, _ CellSource) (Instance, error) {
	a, b := &flagNode{id: 0}, &flagNode{id: 1}
	fp, err := atomicops.NewFlagPointer(a, false)
	if err != nil {
		return nil, err
	}
	return &flagPtrRun{cfg: cfg, a: a, b: b, fp: fp, flips: make([]uint64, cfg.Workers)}, nil
}

type flagPtrRun struct {
	cfg   *Config
	a, b  *flagNode
	fp    *atomicops.FlagPointer[flagNode]
	flips []uint64
}

func (r *flagPtrRun) consistent(p *flagNode, flag bool) bool {
	return (p == r.a && !flag) || (p == r.b && flag)
}

func (r *flagPtrRun) Work(worker int) WorkerStats {
	var st WorkerStats
	var flips uint64
	for i := 0; i < r.cfg.Iterations; i++ {
		p, flag := r.fp.Load(r.cfg.Fence)
		if !r.consistent(p, flag) {
			st.Violations++
			continue
		}
		next := r.b
		if flag {
			next = r.a
		}
		if r.fp.CompareAndSwap(p, flag, next, !flag, r.cfg.Fence) {
			flips++
		}
		st.Ops++
	}
	r.flips[worker] = flips
	return st
}

func (r *flagPtrRun) Verify() error {
	var total uint64
	for _, n := range r.flips {
		total += n
	}
	p, flag := r.fp.LoadFull(fence.None)
	if !r.consistent(p, flag) {
		return &VerificationError{Workload: "flagptr", Detail: "torn final state", Want: 1, Got: 0}
	}
	want := total % 2
	got := uint64(0)
	if flag {
		got = 1
	}
	if got != want {
		return &VerificationError{Workload: "flagptr", Detail: "flag parity", Want: want, Got: got}
	}
	return nil
}
