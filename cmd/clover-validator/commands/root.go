// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the clover-validator command tree.
package commands

import (
	"fmt"
	"os"

	"github.com/drewhammond/clover-validator/cmd/clover-validator/check"
	"github.com/drewhammond/clover-validator/lib/cli"
)

// Version is the tool version, overridden at build time via
// -ldflags "-X .../commands.Version=v1.2.3".
var Version = "dev"

// Root returns the top-level command. A bare invocation prints usage
// and exits zero — showing the help is a successful outcome, not a
// misuse.
func Root() *cli.Command {
	root := &cli.Command{
		Name:    "clover-validator",
		Summary: "Check a Clover config.plist and track its history",
		Description: `clover-validator checks that the Clover bootloader configuration on the
mounted EFI partition is well-formed XML, and initializes a local bare
git repository to track changes to the file over time.`,
		Subcommands: []*cli.Command{
			check.Command(),
			versionCommand(),
		},
	}
	root.Run = func(args []string) error {
		// Only the bare invocation reaches here successfully; anything
		// the dispatcher passed through (e.g. an unknown flag) is an
		// error, matching how unknown subcommands are treated.
		if len(args) > 0 {
			return fmt.Errorf("unknown argument %q\n\nRun 'clover-validator --help' for usage.", args[0])
		}
		root.PrintHelp(os.Stdout)
		return nil
	}
	return root
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print the clover-validator version",
		Usage:   "clover-validator version",
		Run: func(args []string) error {
			fmt.Fprintf(os.Stdout, "clover-validator %s\n", Version)
			return nil
		},
	}
}
