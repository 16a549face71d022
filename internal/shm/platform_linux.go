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
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/sys/unix"
)

// Dir holds named regions.
const Dir = "/dev/shm"

// MapRegion maps or creates a shared memory region (Linux implementation).
func MapRegion(ctx context.Context, opts MapOptions) (*MappedRegion, error) {
	if opts.Name == "" {
		addr, err := unix.Mmap(-1, 0, opts.Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_ANON)
		if err != nil {
			return nil, fmt.Errorf("mmap: %w", err)
		}
		return &MappedRegion{Addr: addr, fd: -1}, nil
	}
	if err := ValidateName(opts.Name); err != nil {
		return nil, err
	}
	if opts.Create {
		if err := checkSpace(ctx, opts.Size); err != nil {
			return nil, err
		}
	}
	flags := unix.O_RDWR | unix.O_CLOEXEC
	if opts.Create {
		flags |= unix.O_CREAT | unix.O_EXCL
	}
	shmPath := filepath.Join(Dir, opts.Name)
	fd, err := unix.Open(shmPath, flags, 0600)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if opts.Create {
		if err := unix.Ftruncate(fd, int64(opts.Size)); err != nil {
			_ = unix.Close(fd)
			_ = unix.Unlink(shmPath)
			return nil, fmt.Errorf("ftruncate: %w", err)
		}
	} else {
		var st unix.Stat_t
		if err := unix.Fstat(fd, &st); err != nil {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("fstat: %w", err)
		}
		if st.Size < int64(opts.Size) {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("region %q is %d bytes, want %d: %w", opts.Name, st.Size, opts.Size, ErrOutOfRange)
		}
	}
	addr, err := unix.Mmap(fd, 0, opts.Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		if opts.Create {
			_ = unix.Unlink(shmPath)
		}
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return &MappedRegion{
		Addr:    addr,
		Name:    opts.Name,
		fd:      fd,
		created: opts.Create,
	}, nil
}

// UnmapRegion unmaps and closes the shared memory region (Linux implementation).
// The backing file is removed only by the process that created it. Each step
// is recorded as it completes, so a call after a failure resumes where the
// failed one stopped.
func UnmapRegion(ctx context.Context, region *MappedRegion) error {
	if region == nil {
		return nil
	}
	if region.Addr != nil {
		if err := unix.Munmap(region.Addr); err != nil {
			return fmt.Errorf("munmap: %w", err)
		}
		region.Addr = nil
	}
	if region.fd >= 0 {
		if err := unix.Close(region.fd); err != nil {
			return fmt.Errorf("close: %w", err)
		}
		region.fd = -1
	}
	if region.created {
		if err := unix.Unlink(filepath.Join(Dir, region.Name)); err != nil {
			return fmt.Errorf("unlink: %w", err)
		}
		region.created = false
	}
	return nil
}

func checkSpace(ctx context.Context, size int) error {
	usage, err := disk.UsageWithContext(ctx, Dir)
	if err != nil {
		return fmt.Errorf("usage %s: %w", Dir, err)
	}
	if usage.Free < uint64(size) {
		return fmt.Errorf("%s has %d bytes free, need %d: %w", Dir, usage.Free, size, ErrNoSpace)
	}
	return nil
}
