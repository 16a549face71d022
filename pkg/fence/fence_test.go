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

package fence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFenceStringAndParse(t *testing.T) {
	for _, f := range All() {
		assert.True(t, f.Valid())
		got, err := Parse(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	got, err := Parse("  FULL ")
	require.NoError(t, err)
	assert.Equal(t, Full, got)

	got, err = Parse("full-write")
	require.NoError(t, err)
	assert.Equal(t, Write, got)
	got, err = Parse("Full-Read")
	require.NoError(t, err)
	assert.Equal(t, Read, got)

	_, err = Parse("seqcst")
	assert.Error(t, err)
	assert.Equal(t, "Fence(3)", Fence(3).String())
	assert.False(t, Fence(0).Valid())
}

func TestFenceImplies(t *testing.T) {
	for _, f := range All() {
		assert.True(t, f.Implies(f), "%s implies itself", f)
		assert.True(t, f.Implies(None), "%s implies none", f)
		assert.True(t, Full.Implies(f), "full implies %s", f)
	}
	assert.True(t, Acquire.Implies(Read))
	assert.True(t, Release.Implies(Write))
	assert.False(t, Acquire.Implies(Write))
	assert.False(t, Release.Implies(Read))
	assert.False(t, Acquire.Implies(Release))
	assert.False(t, Read.Implies(Acquire))
	assert.False(t, None.Implies(Read))
	assert.False(t, Write.Implies(Full))
	assert.False(t, Fence(0).Implies(None))
}

func TestFenceOrdering(t *testing.T) {
	assert.True(t, Full.OrdersReads())
	assert.True(t, Full.OrdersWrites())
	assert.True(t, Acquire.OrdersReads())
	assert.False(t, Acquire.OrdersWrites())
	assert.True(t, Write.OrdersWrites())
	assert.False(t, None.OrdersReads())
}
