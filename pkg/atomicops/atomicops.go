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

package atomicops

import (
	"github.com/srediag/atomicops/internal/emulate"
	"github.com/srediag/atomicops/internal/native"
	"github.com/srediag/atomicops/pkg/fence"
)

// One engine per width, bound to the backend selected at build time.
var (
	words   = emulate.New(native.Uintptr())
	words32 = emulate.New(native.Uint32())
	words64 = emulate.New(native.Uint64())
)

type (
	// Op names a derived operation reported to a RetryHook.
	Op = emulate.Op
	// RetryHook runs after a lost compare-and-swap inside a retry loop.
	RetryHook = emulate.RetryHook
	// RetryFunc adapts a function to RetryHook.
	RetryFunc = emulate.RetryFunc
)

const (
	OpNot         = emulate.OpNot
	OpAnd         = emulate.OpAnd
	OpOr          = emulate.OpOr
	OpXor         = emulate.OpXor
	OpAdd         = emulate.OpAdd
	OpInc         = emulate.OpInc
	OpDec         = emulate.OpDec
	OpFetchAndAdd = emulate.OpFetchAndAdd
	OpFetchAndInc = emulate.OpFetchAndInc
	OpFetchAndDec = emulate.OpFetchAndDec
)

// Ops lists every derived operation a RetryHook can observe.
func Ops() []Op { return emulate.Ops() }

// PauseHook issues the processor's spin-wait hint on every retry.
var PauseHook RetryHook = RetryFunc(func(Op, int) { native.Pause() })

// SetRetryHook installs h for every cell family. Pass nil to spin without a
// hook, which is the default.
func SetRetryHook(h RetryHook) {
	words.SetRetryHook(h)
	words32.SetRetryHook(h)
	words64.SetRetryHook(h)
}

// ChainRetryHooks calls each non-nil hook in order.
func ChainRetryHooks(hooks ...RetryHook) RetryHook { return emulate.Chain(hooks...) }

// Fence orders unrelated memory accesses around the call.
func Fence(f fence.Fence) { native.Fence(f) }

// Pause is a spin-loop hint to the processor. It has no ordering effect.
func Pause() { native.Pause() }

// Backend names the native backend compiled into this binary.
func Backend() string { return native.Name() }

// Emulated reports whether op runs as a compare-and-swap loop for
// pointer-width cells on this build.
func Emulated(op Op) bool { return words.Emulated(op) }

// noCopy lets go vet's copylocks check flag cells copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
