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

package emulate

import "fmt"

// Op names a derived operation, as reported to a RetryHook.
type Op uint8

const (
	OpNot Op = iota
	OpAnd
	OpOr
	OpXor
	OpAdd
	OpInc
	OpDec
	OpFetchAndAdd
	OpFetchAndInc
	OpFetchAndDec
)

var opNames = [...]string{
	OpNot:         "not",
	OpAnd:         "and",
	OpOr:          "or",
	OpXor:         "xor",
	OpAdd:         "add",
	OpInc:         "inc",
	OpDec:         "dec",
	OpFetchAndAdd: "fetch_and_add",
	OpFetchAndInc: "fetch_and_inc",
	OpFetchAndDec: "fetch_and_dec",
}

// Ops lists every derived operation.
func Ops() []Op {
	ops := make([]Op, len(opNames))
	for i := range ops {
		ops[i] = Op(i)
	}
	return ops
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// RetryHook is called after a CAS in a retry loop loses a race. attempt
// counts failures so far for this call, starting at 1. Hooks run on the
// contended path only and must be safe for concurrent use.
type RetryHook interface {
	Retry(op Op, attempt int)
}

// RetryFunc adapts a function to RetryHook.
type RetryFunc func(op Op, attempt int)

func (fn RetryFunc) Retry(op Op, attempt int) { fn(op, attempt) }

// Chain calls each non-nil hook in order.
func Chain(hooks ...RetryHook) RetryHook {
	hs := make([]RetryHook, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			hs = append(hs, h)
		}
	}
	return RetryFunc(func(op Op, attempt int) {
		for _, h := range hs {
			h.Retry(op, attempt)
		}
	})
}
