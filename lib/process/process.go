// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the binary entrypoint error handler. It
// centralizes the raw stderr reporting that happens before the
// structured logger exists and the exit-code translation for handled
// non-zero exits.
package process

import (
	"fmt"
	"os"
)

// Exit terminates the process according to err. Errors implementing
// ExitCode() int (such as cli.ExitError) exit with that code and no
// message — the command already wrote its own output. Any other
// non-nil error is printed as "error: err" and exits 1. A nil error
// exits 0.
func Exit(err error) {
	if err == nil {
		os.Exit(0)
	}
	if coder, ok := err.(interface{ ExitCode() int }); ok {
		os.Exit(coder.ExitCode())
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
