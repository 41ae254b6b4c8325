// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

package check

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drewhammond/clover-validator/lib/checkup"
	"github.com/drewhammond/clover-validator/lib/cli"
	"github.com/drewhammond/clover-validator/lib/config"
	"github.com/drewhammond/clover-validator/lib/execrunner"
)

const mountedVolumePlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>DeviceNode</key>
	<string>/dev/disk0s1</string>
	<key>MountPoint</key>
	<string>%s</string>
	<key>VolumeName</key>
	<string>EFI</string>
</dict>
</plist>
`

// testSetup builds a fake environment: a "mounted" volume directory
// holding config.plist, an uninitialized repository path, and a fake
// runner with passing responses for every external tool.
type testSetup struct {
	configuration config.Config
	runner        *execrunner.Fake
}

func newTestSetup(t *testing.T) *testSetup {
	t.Helper()

	volumePath := t.TempDir()
	plistDir := filepath.Join(volumePath, "EFI", "CLOVER")
	if err := os.MkdirAll(plistDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	plistPath := filepath.Join(plistDir, "config.plist")
	if err := os.WriteFile(plistPath, []byte("<plist version=\"1.0\"><dict/></plist>"), 0o644); err != nil {
		t.Fatalf("write config.plist: %v", err)
	}

	repositoryPath := filepath.Join(t.TempDir(), "CloverBackups")

	configuration := config.Config{
		VolumePath:      volumePath,
		ConfigPlistPath: "EFI/CLOVER/config.plist",
		RepositoryPath:  repositoryPath,
		CloverPlistPath: "/nonexistent/clover.plist",
	}

	infoPlist := strings.ReplaceAll(mountedVolumePlist, "%s", volumePath)
	runner := &execrunner.Fake{
		Responses: map[string]execrunner.FakeResponse{
			"diskutil info -plist " + volumePath: {Stdout: []byte(infoPlist)},
			"git init --bare " + repositoryPath:  {},
			strings.Join([]string{"xmllint", "--valid", "--format", "--noblanks", "--nsclean",
				"--output", os.DevNull, plistPath}, " "): {},
		},
		Paths: map[string]string{
			"xmllint": "/usr/bin/xmllint",
			"plutil":  "/usr/bin/plutil",
		},
	}

	return &testSetup{configuration: configuration, runner: runner}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runCheck(t *testing.T, setup *testSetup, out io.Writer) error {
	t.Helper()
	return Check(context.Background(), setup.configuration, cli.JSONOutput{},
		discardLogger(), setup.runner, out)
}

func TestCheck_AllStepsPass(t *testing.T) {
	setup := newTestSetup(t)
	var output bytes.Buffer

	if err := runCheck(t, setup, &output); err != nil {
		t.Fatalf("Check: %v", err)
	}

	text := output.String()
	for _, label := range []string{
		"Checking required tools",
		"Resolving EFI volume",
		"Initializing backup repository",
		"Validating config.plist syntax",
	} {
		if !strings.Contains(text, label) {
			t.Errorf("output missing step %q:\n%s", label, text)
		}
	}
	if strings.Contains(text, "[FAILED]") {
		t.Errorf("unexpected failure marker:\n%s", text)
	}
	if !strings.Contains(text, "All checks passed.") {
		t.Errorf("missing summary line:\n%s", text)
	}
}

func TestCheck_MissingConfigPlistFailsOnlyValidation(t *testing.T) {
	setup := newTestSetup(t)
	if err := os.Remove(setup.configuration.ConfigPlistAbsolutePath()); err != nil {
		t.Fatalf("remove config.plist: %v", err)
	}

	var output bytes.Buffer
	err := runCheck(t, setup, &output)
	assertExitCode(t, err, 1)

	text := output.String()
	// Only the validation step fails; earlier steps are unaffected.
	if got := strings.Count(text, "[FAILED]"); got != 1 {
		t.Errorf("failed markers = %d, want 1:\n%s", got, text)
	}
	if got := strings.Count(text, "[  OK  ]"); got != 3 {
		t.Errorf("ok markers = %d, want 3:\n%s", got, text)
	}
}

func TestCheck_UnmountedVolumeAbortsImmediately(t *testing.T) {
	setup := newTestSetup(t)
	// diskutil fails for the volume: simulate an unmounted partition.
	setup.runner.Responses["diskutil info -plist "+setup.configuration.VolumePath] =
		execrunner.FakeResponse{Err: errors.New("diskutil: Could not find disk")}

	var output bytes.Buffer
	err := runCheck(t, setup, &output)
	assertExitCode(t, err, 1)

	// No step after the mount check ran: no git init, no xmllint.
	for _, call := range setup.runner.Calls {
		if strings.HasPrefix(call, "git ") || strings.HasPrefix(call, "xmllint ") {
			t.Errorf("step ran after mount failure: %s", call)
		}
	}
	if strings.Contains(output.String(), "Initializing backup repository") {
		t.Errorf("repository step reported after mount failure:\n%s", output.String())
	}
}

func TestCheck_SecondRunSkipsRepositoryInit(t *testing.T) {
	setup := newTestSetup(t)

	// The first run creates the repository directory.
	if err := runCheck(t, setup, io.Discard); err != nil {
		t.Fatalf("first run: %v", err)
	}

	var output bytes.Buffer
	if err := runCheck(t, setup, &output); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !strings.Contains(output.String(), "[ SKIP ]") {
		t.Errorf("second run should skip repository init:\n%s", output.String())
	}

	initCalls := 0
	for _, call := range setup.runner.Calls {
		if strings.HasPrefix(call, "git init") {
			initCalls++
		}
	}
	if initCalls != 1 {
		t.Errorf("git init called %d time(s) across two runs, want 1", initCalls)
	}
}

func TestCheck_MalformedConfigPlist(t *testing.T) {
	setup := newTestSetup(t)
	plistPath := setup.configuration.ConfigPlistAbsolutePath()
	commandLine := strings.Join([]string{"xmllint", "--valid", "--format", "--noblanks",
		"--nsclean", "--output", os.DevNull, plistPath}, " ")
	setup.runner.Responses[commandLine] = execrunner.FakeResponse{
		Err: errors.New("exit status 1 (stderr: Premature end of data)"),
	}

	var output bytes.Buffer
	err := runCheck(t, setup, &output)
	assertExitCode(t, err, 1)
	if !strings.Contains(output.String(), "[FAILED]") {
		t.Errorf("validation failure not reported:\n%s", output.String())
	}
}

func TestCheck_MissingToolsReportedByName(t *testing.T) {
	setup := newTestSetup(t)
	delete(setup.runner.Paths, "xmllint")

	var output bytes.Buffer
	err := runCheck(t, setup, &output)
	assertExitCode(t, err, 1)

	text := output.String()
	if !strings.Contains(text, "xmllint") {
		t.Errorf("missing tool not named:\n%s", text)
	}
	if strings.Contains(text, "plutil,") || strings.Contains(text, ", plutil") {
		t.Errorf("plutil is installed and should not be listed as missing:\n%s", text)
	}
	// Prerequisite failure is soft: the sequence continues.
	if !strings.Contains(text, "Validating config.plist syntax") {
		t.Errorf("sequence stopped after soft failure:\n%s", text)
	}
}

func TestCheck_DebugPrintsEnvironmentBlock(t *testing.T) {
	setup := newTestSetup(t)
	setup.configuration.Debug = true
	setup.runner.Responses["sw_vers -productName"] = execrunner.FakeResponse{Stdout: []byte("macOS\n")}
	setup.runner.Responses["sw_vers -productVersion"] = execrunner.FakeResponse{Stdout: []byte("13.6.1\n")}
	setup.runner.Responses["sw_vers -buildVersion"] = execrunner.FakeResponse{Stdout: []byte("22G313\n")}

	var output bytes.Buffer
	if err := runCheck(t, setup, &output); err != nil {
		t.Fatalf("Check: %v", err)
	}

	text := output.String()
	if !strings.Contains(text, "environment") {
		t.Errorf("debug block not printed:\n%s", text)
	}
	if !strings.Contains(text, "/dev/disk0s1") {
		t.Errorf("debug block missing device node:\n%s", text)
	}
}

// decodeReport parses the JSON report written by a --json run.
func decodeReport(t *testing.T, output []byte) checkup.JSONOutput {
	t.Helper()
	var report checkup.JSONOutput
	if err := json.Unmarshal(output, &report); err != nil {
		t.Fatalf("decoding JSON report: %v\n%s", err, output)
	}
	return report
}

func TestCheck_JSONModeWritesReportToInjectedWriter(t *testing.T) {
	setup := newTestSetup(t)

	var output bytes.Buffer
	err := Check(context.Background(), setup.configuration, cli.JSONOutput{OutputJSON: true},
		discardLogger(), setup.runner, &output)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if output.Len() == 0 {
		t.Fatal("JSON mode wrote nothing to the injected writer")
	}

	report := decodeReport(t, output.Bytes())
	if !report.OK {
		t.Errorf("report.OK = false, want true:\n%s", output.String())
	}
	if len(report.Checks) != 4 {
		t.Errorf("report checks = %d, want 4:\n%s", len(report.Checks), output.String())
	}

	// The streaming checklist is suppressed in JSON mode.
	if strings.Contains(output.String(), "[  OK  ]") {
		t.Errorf("checklist markers leaked into JSON output:\n%s", output.String())
	}
}

func TestCheck_JSONModeFailureExitsNonZero(t *testing.T) {
	setup := newTestSetup(t)
	if err := os.Remove(setup.configuration.ConfigPlistAbsolutePath()); err != nil {
		t.Fatalf("remove config.plist: %v", err)
	}

	var output bytes.Buffer
	err := Check(context.Background(), setup.configuration, cli.JSONOutput{OutputJSON: true},
		discardLogger(), setup.runner, &output)
	assertExitCode(t, err, 1)

	report := decodeReport(t, output.Bytes())
	if report.OK {
		t.Errorf("report.OK = true, want false with a failed check:\n%s", output.String())
	}

	failed := 0
	for _, result := range report.Checks {
		if result.Status == checkup.StatusFail {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("failed checks = %d, want 1:\n%s", failed, output.String())
	}
}

func TestCheck_JSONModeUnmountedVolume(t *testing.T) {
	setup := newTestSetup(t)
	setup.runner.Responses["diskutil info -plist "+setup.configuration.VolumePath] =
		execrunner.FakeResponse{Err: errors.New("diskutil: Could not find disk")}

	var output bytes.Buffer
	err := Check(context.Background(), setup.configuration, cli.JSONOutput{OutputJSON: true},
		discardLogger(), setup.runner, &output)
	assertExitCode(t, err, 1)

	// The abort still emits the report for the steps that ran.
	report := decodeReport(t, output.Bytes())
	if report.OK {
		t.Errorf("report.OK = true, want false after mount failure:\n%s", output.String())
	}
	if len(report.Checks) != 2 {
		t.Errorf("report checks = %d, want 2 (tools and mount only):\n%s",
			len(report.Checks), output.String())
	}
}

func TestCheckPrerequisites_AllPresent(t *testing.T) {
	t.Parallel()

	runner := &execrunner.Fake{Paths: map[string]string{
		"xmllint": "/usr/bin/xmllint",
		"plutil":  "/usr/bin/plutil",
	}}
	if err := checkPrerequisites(runner); err != nil {
		t.Errorf("checkPrerequisites: %v", err)
	}
}

func TestCheckPrerequisites_ListsAllMissing(t *testing.T) {
	t.Parallel()

	runner := &execrunner.Fake{}
	err := checkPrerequisites(runner)
	if err == nil {
		t.Fatal("expected error with no tools installed")
	}
	for _, tool := range requiredTools {
		if !strings.Contains(err.Error(), tool) {
			t.Errorf("error = %v, want to name %s", err, tool)
		}
	}
}

func assertExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) {
		t.Fatalf("error = %v, want *cli.ExitError", err)
	}
	if exitError.Code != code {
		t.Errorf("exit code = %d, want %d", exitError.Code, code)
	}
}
