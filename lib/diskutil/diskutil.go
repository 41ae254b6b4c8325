// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

package diskutil

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
	"howett.net/plist"

	"github.com/drewhammond/clover-validator/lib/execrunner"
)

// VolumeInfo describes a mounted volume as reported by diskutil.
// DeviceNode is empty until the volume has been successfully resolved.
type VolumeInfo struct {
	MountPoint string `plist:"MountPoint"`
	DeviceNode string `plist:"DeviceNode"`
	VolumeName string `plist:"VolumeName"`
}

// Client queries the disk-management subsystem through a Runner.
type Client struct {
	runner execrunner.Runner
}

// NewClient returns a Client using the given runner.
func NewClient(runner execrunner.Runner) *Client {
	return &Client{runner: runner}
}

// Info resolves mount information for the volume at the given path.
// Returns an error when diskutil exits non-zero (volume unknown or
// query failed) or when its output cannot be decoded.
func (c *Client) Info(ctx context.Context, volumePath string) (VolumeInfo, error) {
	output, err := c.runner.Output(ctx, "diskutil", "info", "-plist", volumePath)
	if err != nil {
		return VolumeInfo{}, fmt.Errorf("resolving volume %s: %w", volumePath, err)
	}

	var info VolumeInfo
	if _, err := plist.Unmarshal(output, &info); err != nil {
		return VolumeInfo{}, fmt.Errorf("decoding diskutil output for %s: %w", volumePath, err)
	}
	return info, nil
}

// MountTableContains reports whether mountPoint appears in the OS mount
// table. This avoids shelling out to diskutil just to learn that the
// volume is not mounted at all.
func MountTableContains(ctx context.Context, mountPoint string) (bool, error) {
	partitions, err := disk.PartitionsWithContext(ctx, true)
	if err != nil {
		return false, fmt.Errorf("reading mount table: %w", err)
	}
	for _, partition := range partitions {
		if partition.Mountpoint == mountPoint {
			return true, nil
		}
	}
	return false, nil
}
