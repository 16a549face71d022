//go:build linux

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

package shm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAnonymous(t *testing.T) {
	ctx := context.Background()
	r, err := MapRegion(ctx, MapOptions{Size: 4096})
	require.NoError(t, err)
	require.Len(t, r.Addr, 4096)
	assert.False(t, r.Created())

	r.Addr[0] = 7
	require.NoError(t, UnmapRegion(ctx, r))
	assert.Nil(t, r.Addr)
	require.NoError(t, UnmapRegion(ctx, r))
}

func TestMapNamedLifecycle(t *testing.T) {
	if _, err := os.Stat(Dir); err != nil {
		t.Skipf("%s unavailable: %v", Dir, err)
	}
	ctx := context.Background()
	name := fmt.Sprintf("atomicops-test-%d", os.Getpid())
	path := filepath.Join(Dir, name)

	owner, err := MapRegion(ctx, MapOptions{Name: name, Size: 4096, Create: true})
	require.NoError(t, err)
	assert.True(t, owner.Created())

	_, err = MapRegion(ctx, MapOptions{Name: name, Size: 4096, Create: true})
	assert.Error(t, err, "exclusive create must fail on an existing region")

	peer, err := MapRegion(ctx, MapOptions{Name: name, Size: 4096})
	require.NoError(t, err)
	assert.False(t, peer.Created())

	owner.Addr[100] = 42
	assert.Equal(t, byte(42), peer.Addr[100])

	_, err = MapRegion(ctx, MapOptions{Name: name, Size: 8192})
	assert.ErrorIs(t, err, ErrOutOfRange)

	require.NoError(t, UnmapRegion(ctx, peer))
	_, err = os.Stat(path)
	assert.NoError(t, err, "peer close must not unlink")

	require.NoError(t, UnmapRegion(ctx, owner))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestMapOpenMissing(t *testing.T) {
	_, err := MapRegion(context.Background(), MapOptions{Name: "atomicops-does-not-exist", Size: 64})
	assert.Error(t, err)
}

func TestMapRejectsEscapingName(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"../tmp/atomicops-escape", "..", "sub/dir"} {
		_, err := MapRegion(ctx, MapOptions{Name: name, Size: 64, Create: true})
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
	_, err := os.Stat("/tmp/atomicops-escape")
	assert.True(t, os.IsNotExist(err))
}
