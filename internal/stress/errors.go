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
)

// ErrUnknownWorkload is returned by Lookup for unregistered names.
var ErrUnknownWorkload = errors.New("unknown workload")

// VerificationError reports a workload whose final state contradicts the
// operations that ran.
type VerificationError struct {
	Workload string
	Want     uint64
	Got      uint64
	Detail   string
}

func (e *VerificationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (want %d, got %d)", e.Workload, e.Detail, e.Want, e.Got)
	}
	return fmt.Sprintf("%s: want %d, got %d", e.Workload, e.Want, e.Got)
}
