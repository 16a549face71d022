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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/atomicops/pkg/fence"
)

func smallConfig(workers, iterations int) *Config {
	return &Config{
		Workers:    workers,
		Iterations: iterations,
		Workloads:  Names(),
		Fence:      fence.Full,
		Retry:      RetryNone,
	}
}

func runInstance(t *testing.T, w Workload, cfg *Config) (Instance, WorkerStats) {
	t.Helper()
	inst, err := w.Prepare(cfg, heapCells{})
	require.NoError(t, err)

	stats := make([]WorkerStats, cfg.Workers)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stats[i] = inst.Work(i)
		}(i)
	}
	wg.Wait()

	var total WorkerStats
	for _, st := range stats {
		total.Ops += st.Ops
		total.Violations += st.Violations
	}
	return inst, total
}

func TestWorkloadsPass(t *testing.T) {
	cfg := smallConfig(4, 3000)
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			w, err := Lookup(name)
			require.NoError(t, err)
			inst, total := runInstance(t, w, cfg)
			assert.NoError(t, inst.Verify())
			assert.Zero(t, total.Violations)
			assert.NotZero(t, total.Ops)
		})
	}
}

func TestWorkloadsPassWithWeakFence(t *testing.T) {
	cfg := smallConfig(3, 1000)
	cfg.Fence = fence.None
	for _, name := range Names() {
		w, err := Lookup(name)
		require.NoError(t, err)
		inst, _ := runInstance(t, w, cfg)
		assert.NoError(t, inst.Verify(), name)
	}
}

func TestFetchIncDetectsLostUpdate(t *testing.T) {
	cfg := smallConfig(2, 100)
	inst, _ := runInstance(t, fetchInc{}, cfg)
	run := inst.(*fetchIncRun)
	run.c.Dec(fence.Full)

	var verr *VerificationError
	require.True(t, errors.As(inst.Verify(), &verr))
	assert.Equal(t, "fetch-inc", verr.Workload)
	assert.Equal(t, uint64(200), verr.Want)
	assert.Equal(t, uint64(199), verr.Got)
}

func TestXorDetectsStrayBit(t *testing.T) {
	inst, _ := runInstance(t, xor{}, smallConfig(2, 10))
	inst.(*xorRun).c.Xor(1<<20, fence.Full)
	assert.Error(t, inst.Verify())
}

func TestSwapDetectsLostToken(t *testing.T) {
	inst, _ := runInstance(t, swap{}, smallConfig(2, 10))
	run := inst.(*swapRun)
	run.out[1] = run.out[1][:len(run.out[1])-1]

	var verr *VerificationError
	require.True(t, errors.As(inst.Verify(), &verr))
	assert.Contains(t, verr.Detail, "lost")
}

func TestSwapDetectsDuplicate(t *testing.T) {
	inst, _ := runInstance(t, swap{}, smallConfig(1, 10))
	run := inst.(*swapRun)
	run.c.Store(run.out[0][3], fence.Full)
	assert.Error(t, inst.Verify())
}

func TestSwapRejectsHugeRuns(t *testing.T) {
	cfg := smallConfig(maxWorkers, maxSwapTokens)
	_, err := swap{}.Prepare(cfg, heapCells{})
	assert.Error(t, err)
}

func TestFlagPtrDetectsParityMismatch(t *testing.T) {
	inst, _ := runInstance(t, flagPtr{}, smallConfig(2, 50))
	run := inst.(*flagPtrRun)
	run.flips[0]++

	var verr *VerificationError
	require.True(t, errors.As(inst.Verify(), &verr))
	assert.Equal(t, "flag parity", verr.Detail)
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("bogus")
	assert.ErrorIs(t, err, ErrUnknownWorkload)
}

func TestVerificationErrorMessage(t *testing.T) {
	assert.Equal(t, "add: want 3, got 2", (&VerificationError{Workload: "add", Want: 3, Got: 2}).Error())
	assert.Equal(t, "swap: token 4 lost (want 1, got 0)",
		(&VerificationError{Workload: "swap", Detail: "token 4 lost", Want: 1, Got: 0}).Error())
}
