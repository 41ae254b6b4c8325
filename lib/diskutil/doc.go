// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

// Package diskutil resolves mount information for the EFI partition.
//
// The authoritative source is the macOS disk-management utility,
// invoked as "diskutil info -plist <volume>" and decoded from its
// property-list output. A cheap mount-table lookup is available as a
// pre-check so callers can distinguish "volume not mounted" from
// "diskutil itself failed" without parsing error strings.
package diskutil
