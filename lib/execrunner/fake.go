// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

package execrunner

import (
	"context"
	"fmt"
	"strings"
)

// FakeResponse is the canned result for one command line in a [Fake].
type FakeResponse struct {
	Stdout []byte
	Err    error
}

// Fake is a Runner returning canned responses, for tests that exercise
// components without invoking real system utilities. Commands are keyed
// by the full command line ("diskutil info -plist /Volumes/EFI").
// Unknown commands return an error, so tests fail loudly on unexpected
// invocations.
type Fake struct {
	// Responses maps full command lines to canned results.
	Responses map[string]FakeResponse

	// Paths maps tool names to resolved paths for LookPath. Tools not
	// present in the map are reported as missing.
	Paths map[string]string

	// Calls records every command line passed to Output or Run, in order.
	Calls []string
}

// Output returns the canned response for the command line.
func (f *Fake) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	commandLine := strings.Join(append([]string{name}, args...), " ")
	f.Calls = append(f.Calls, commandLine)

	response, ok := f.Responses[commandLine]
	if !ok {
		return nil, fmt.Errorf("fake runner: unexpected command %q", commandLine)
	}
	return response.Stdout, response.Err
}

// Run returns the canned response's error for the command line.
func (f *Fake) Run(ctx context.Context, name string, args ...string) error {
	_, err := f.Output(ctx, name, args...)
	return err
}

// LookPath resolves name against the Paths map.
func (f *Fake) LookPath(name string) (string, error) {
	if path, ok := f.Paths[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("fake runner: %s not found in path", name)
}
