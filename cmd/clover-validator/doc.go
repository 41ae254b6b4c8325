// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

// Command clover-validator checks a Clover bootloader config.plist on
// the mounted EFI partition for XML well-formedness and maintains a
// local bare git repository for tracking changes to it.
//
//	clover-validator check [--debug] [--json] [--config file]
//	clover-validator version
package main
