// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

// Package execrunner abstracts external process invocation behind a
// small interface. Every component that shells out to a system utility
// (diskutil, sw_vers, xmllint, git) takes a [Runner] so tests can
// substitute fakes instead of invoking the real tools.
package execrunner
