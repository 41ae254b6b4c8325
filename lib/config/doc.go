// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for clover-validator.
//
// Configuration starts from the built-in defaults and may be overridden
// by a single YAML file specified by:
//   - the CLOVER_VALIDATOR_CONFIG environment variable, or
//   - the --config flag passed to the check command.
//
// There is no automatic discovery of config files. This keeps the tool
// deterministic: what you pass is what runs, with no hidden overrides.
package config
