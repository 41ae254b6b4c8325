// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

package execrunner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner invokes external commands. Implementations must capture
// stderr and include it in returned errors — callers report the error
// string to the user and the utility's own diagnostics are usually the
// only useful detail.
type Runner interface {
	// Output runs the command and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Run runs the command, discarding stdout. Only the exit status
	// matters to the caller.
	Run(ctx context.Context, name string, args ...string) error

	// LookPath resolves name against the executable search path.
	LookPath(name string) (string, error)
}

// System is the Runner backed by real processes via os/exec.
type System struct{}

// Output executes the command and returns stdout. Stderr is captured
// separately and included in error messages on failure.
func (System) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, name, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w (stderr: %s)",
			name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Run executes the command, discarding stdout.
func (s System) Run(ctx context.Context, name string, args ...string) error {
	_, err := s.Output(ctx, name, args...)
	return err
}

// LookPath resolves name via exec.LookPath.
func (System) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
