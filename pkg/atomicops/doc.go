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

// Package atomicops provides typed atomic cells whose every operation takes
// an explicit memory fence.
//
// The cell families are Int and Uint (pointer width), Uint32, Uint64,
// Pointer[T] and FlagPointer[T]. Operations the architecture supports
// natively compile to a single instruction; everything else (bitwise
// not/and/or/xor, add, increment, decrement and their fetch variants) is
// synthesized by a compare-and-swap retry loop that applies the requested
// fence on the successful swap.
//
// The loops are lock-free but not wait-free. Under pathological contention a
// single goroutine may retry for a long time; SetRetryHook installs a hook
// (PauseHook, or one of the adapters in package adapter) that runs after every
// lost race.
//
// Cells have no constructor requirements beyond their zero value; the
// MakeX functions exist for initialization in composite literals. Cells must
// not be copied after first use.
//
// Example:
//
//	var hits atomicops.Uint
//	hits.Inc(fence.Full)
//	prev := hits.FetchAndAdd(10, fence.Release)
package atomicops
