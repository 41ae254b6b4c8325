// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

// Package xmlcheck validates the syntactic well-formedness of XML
// property-list files by invoking xmllint. Only the exit status
// matters: xmllint's formatted output goes to the null sink, and a
// zero exit means the file parsed (and validated against its DTD,
// when one is declared).
package xmlcheck

import (
	"context"
	"fmt"
	"os"

	"github.com/drewhammond/clover-validator/lib/execrunner"
)

// Tool is the external validator binary. Exposed as a constant so the
// prerequisite check and the validator agree on the name.
const Tool = "xmllint"

// Validator checks XML files through a Runner.
type Validator struct {
	runner execrunner.Runner
}

// NewValidator returns a Validator using the given runner.
func NewValidator(runner execrunner.Runner) *Validator {
	return &Validator{runner: runner}
}

// ValidateFile checks that the file at path is well-formed XML. A
// missing file is an immediate failure — xmllint is never invoked.
// The invocation validates against a declared DTD, pretty-prints,
// strips insignificant whitespace, and cleans redundant namespace
// declarations, all discarded to the null sink.
func (v *Validator) ValidateFile(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("configuration file %s: %w", path, err)
	}

	err := v.runner.Run(ctx, Tool,
		"--valid", "--format", "--noblanks", "--nsclean",
		"--output", os.DevNull, path)
	if err != nil {
		return fmt.Errorf("%s is not well-formed: %w", path, err)
	}
	return nil
}
