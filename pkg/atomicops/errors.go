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

import "errors"

var (
	// ErrMisaligned is returned when an address does not have the alignment
	// its cell requires.
	ErrMisaligned = errors.New("atomicops: misaligned address")
	// ErrFlagAlignment is returned for FlagPointer element types whose
	// alignment leaves no free low bit.
	ErrFlagAlignment = errors.New("atomicops: type alignment below 2 bytes")
)
