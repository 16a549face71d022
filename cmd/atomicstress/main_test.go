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

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"add", "xor"}, splitList(" add, ,xor,"))
	assert.Nil(t, splitList(""))
}

func TestUsageMentionsTelemetryProviders(t *testing.T) {
	var buf bytes.Buffer
	writeUsage(&buf)
	assert.Contains(t, buf.String(), "usage:")
	assert.Contains(t, buf.String(), "OpenTelemetry spans and counters")
	assert.Contains(t, buf.String(), "SDK provider")
}
