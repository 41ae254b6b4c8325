// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

// Package git provides typed access to the git CLI for the backup
// repository. clover-validator uses a bare repository purely as a
// history store for config.plist. All commands target a specific
// repository directory via the -C flag, which is automatically
// injected by Repository methods.
package git

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/drewhammond/clover-validator/lib/execrunner"
)

// Repository represents a git repository at a specific directory.
// There is no default directory — callers must always specify which
// repository they mean.
type Repository struct {
	dir    string
	runner execrunner.Runner
}

// NewRepository returns a Repository targeting the given directory.
func NewRepository(dir string, runner execrunner.Runner) *Repository {
	return &Repository{dir: dir, runner: runner}
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Exists reports whether the repository directory is present. The
// initializer uses this as its idempotence guard: an existing directory
// means a previous run already created the repository, and InitBare is
// skipped entirely.
func (r *Repository) Exists() bool {
	_, err := os.Stat(r.dir)
	return err == nil
}

// InitBare creates the repository directory and initializes an empty
// bare repository inside it. Creating an already-existing directory
// fails — callers are expected to guard with [Repository.Exists].
// The returned error carries git's own exit status and stderr.
func (r *Repository) InitBare(ctx context.Context) error {
	if err := os.Mkdir(r.dir, 0o755); err != nil {
		return fmt.Errorf("creating repository directory: %w", err)
	}
	if err := r.runner.Run(ctx, "git", "init", "--bare", r.dir); err != nil {
		return fmt.Errorf("initializing bare repository in %s: %w", r.dir, err)
	}
	return nil
}

// Run executes a git command targeting this repository and returns
// stdout. The runner includes stderr in error messages on failure.
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", r.dir}, args...)
	output, err := r.runner.Output(ctx, "git", fullArgs...)
	if err != nil {
		return "", fmt.Errorf("git %s in %s: %w", strings.Join(args, " "), r.dir, err)
	}
	return string(output), nil
}
