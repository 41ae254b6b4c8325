// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath is the environment variable naming the config file.
const EnvConfigPath = "CLOVER_VALIDATOR_CONFIG"

// Config holds all paths and toggles for a check run. Components take
// a Config (or individual fields) rather than reading globals, so tests
// can substitute fake volumes, repositories, and plist paths.
type Config struct {
	// VolumePath is the mount point of the EFI partition.
	VolumePath string `yaml:"volume_path"`

	// ConfigPlistPath is the location of config.plist relative to
	// VolumePath.
	ConfigPlistPath string `yaml:"config_plist_path"`

	// RepositoryPath is the directory holding the bare git repository
	// that tracks config.plist history. A leading "~/" is expanded to
	// the current user's home directory.
	RepositoryPath string `yaml:"repository_path"`

	// CloverPlistPath is the installed Clover metadata plist used to
	// report the installed revision in the debug block.
	CloverPlistPath string `yaml:"clover_plist_path"`

	// Debug prints the environment diagnostics block before the checks.
	Debug bool `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		VolumePath:      "/Volumes/EFI",
		ConfigPlistPath: "EFI/CLOVER/config.plist",
		RepositoryPath:  "~/CloverBackups",
		CloverPlistPath: "/Library/Preferences/com.projectosx.clover.installer.plist",
	}
}

// Resolve returns the effective configuration. flagPath is the value of
// the --config flag; when empty, the CLOVER_VALIDATOR_CONFIG environment
// variable is consulted. When neither is set, the defaults are returned
// as-is. A named file that cannot be read or parsed is an error — a
// requested config is never silently ignored.
func Resolve(flagPath string) (Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	configuration := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &configuration); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	expanded, err := expandHome(configuration.RepositoryPath)
	if err != nil {
		return Config{}, fmt.Errorf("resolving repository path: %w", err)
	}
	configuration.RepositoryPath = expanded

	if err := configuration.validate(); err != nil {
		return Config{}, err
	}
	return configuration, nil
}

// ConfigPlistAbsolutePath returns the full path of config.plist on the
// mounted volume.
func (c Config) ConfigPlistAbsolutePath() string {
	return filepath.Join(c.VolumePath, c.ConfigPlistPath)
}

func (c Config) validate() error {
	var missing []string
	if c.VolumePath == "" {
		missing = append(missing, "volume_path")
	}
	if c.ConfigPlistPath == "" {
		missing = append(missing, "config_plist_path")
	}
	if c.RepositoryPath == "" {
		missing = append(missing, "repository_path")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

// expandHome replaces a leading "~/" with the current user's home
// directory. Other uses of "~" are left untouched.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
