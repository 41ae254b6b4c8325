// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

// Package sysinfo collects display-only environment diagnostics: OS
// name and version, current user, host details, and the installed
// Clover revision. Everything here is best-effort — a probe that fails
// degrades to an empty field and is never fatal, because the block is
// informational and printed only in debug mode.
package sysinfo
