// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

package checkup

import (
	"context"
	"fmt"
	"io"

	"github.com/drewhammond/clover-validator/lib/cli"
)

// labelWidth is the column the status marker is aligned to. Labels
// longer than this push the marker right rather than truncating.
const labelWidth = 44

// Step is a single check action. A nil return means the step passed;
// any error marks the step failed with the error text as the message.
type Step func(ctx context.Context) error

// Harness runs labeled check steps, prints a marker per step, and
// accumulates results for the aggregate summary. It is not safe for
// concurrent use — the check sequence is strictly sequential.
type Harness struct {
	out     io.Writer
	results []Result
}

// NewHarness returns a Harness writing step markers to out.
func NewHarness(out io.Writer) *Harness {
	return &Harness{out: out}
}

// Run executes a labeled step: prints the label, runs the step, then
// prints the status marker on the same line. The result is recorded
// and returned so callers can react to individual outcomes (the mount
// check aborts the whole sequence on failure).
//
// A non-empty label and a non-nil step are required. On misuse, Run
// prints a usage error and returns a [cli.ExitError] with code 1,
// which the entrypoint turns into immediate termination.
func (h *Harness) Run(ctx context.Context, label string, step Step) (Result, error) {
	if label == "" || step == nil {
		fmt.Fprintln(h.out, "usage: harness.Run(label, step) requires a non-empty label and a step")
		return Result{}, &cli.ExitError{Code: 1}
	}

	fmt.Fprintf(h.out, "%-*s", labelWidth, label)

	var result Result
	if err := step(ctx); err != nil {
		result = Fail(label, err.Error())
	} else {
		result = Pass(label, "")
	}

	h.print(result)
	h.results = append(h.results, result)
	return result, nil
}

// Record prints and records a result produced without running a step,
// such as the skip marker for an already-initialized repository.
func (h *Harness) Record(result Result) {
	fmt.Fprintf(h.out, "%-*s", labelWidth, result.Name)
	h.print(result)
	h.results = append(h.results, result)
}

// Results returns the accumulated results in execution order.
func (h *Harness) Results() []Result {
	return h.results
}

// Summarize prints a summary line and returns a [cli.ExitError] with
// code 1 when any step failed, nil otherwise. Warnings and skips do
// not fail the run.
func (h *Harness) Summarize() error {
	failed := 0
	for _, result := range h.results {
		if result.Status == StatusFail {
			failed++
		}
	}

	fmt.Fprintln(h.out)
	if failed > 0 {
		fmt.Fprintf(h.out, "%d check(s) failed.\n", failed)
		return &cli.ExitError{Code: 1}
	}
	fmt.Fprintln(h.out, "All checks passed.")
	return nil
}

// print writes the status marker and optional message for a result.
// The label has already been printed without a trailing newline.
func (h *Harness) print(result Result) {
	marker := map[Status]string{
		StatusPass: "[  OK  ]",
		StatusFail: "[FAILED]",
		StatusWarn: "[ WARN ]",
		StatusSkip: "[ SKIP ]",
	}[result.Status]

	if result.Message != "" && result.Status != StatusPass {
		fmt.Fprintf(h.out, "%s  %s\n", marker, result.Message)
		return
	}
	fmt.Fprintf(h.out, "%s\n", marker)
}
