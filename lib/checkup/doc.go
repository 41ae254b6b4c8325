// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

// Package checkup provides the reporting harness for clover-validator's
// check sequence.
//
// Each step of the sequence runs through [Harness.Run], which prints the
// step label, executes the step, and prints an [  OK  ] or [FAILED]
// marker based on the step's result. Results accumulate in the harness
// so the command can fold them into an aggregate exit status and a
// machine-readable report:
//
//   - [Result] type with status and message
//   - Constructors: [Pass], [Fail], [Warn], [Skip]
//   - [Harness.Run] for executing a labeled step
//   - [Harness.Summarize] for the aggregate outcome
//   - [BuildJSON] for machine-readable output
//
// What to check (mounts, tools, repositories, XML files) lives in the
// check command's package. This package provides only the workflow
// infrastructure.
package checkup
