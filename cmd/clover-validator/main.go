// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/drewhammond/clover-validator/cmd/clover-validator/commands"
	"github.com/drewhammond/clover-validator/lib/process"
)

func main() {
	if err := run(); err != nil {
		process.Exit(err)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
