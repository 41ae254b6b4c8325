// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

package check

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/drewhammond/clover-validator/lib/checkup"
	"github.com/drewhammond/clover-validator/lib/cli"
	"github.com/drewhammond/clover-validator/lib/config"
	"github.com/drewhammond/clover-validator/lib/diskutil"
	"github.com/drewhammond/clover-validator/lib/execrunner"
	"github.com/drewhammond/clover-validator/lib/git"
	"github.com/drewhammond/clover-validator/lib/sysinfo"
	"github.com/drewhammond/clover-validator/lib/xmlcheck"
)

// requiredTools are the external utilities tested for direct path
// resolvability before the sequence runs. xmllint is invoked by the
// validation step; plutil is checked for parity with the original
// tool's prerequisites even though revision decoding now happens
// in-process.
var requiredTools = []string{xmlcheck.Tool, "plutil"}

// commandParams holds the parameters for the check command.
type commandParams struct {
	cli.JSONOutput
	ConfigPath     string `flag:"config" desc:"path to YAML configuration file"`
	Debug          bool   `flag:"debug" desc:"print environment diagnostics before the checks"`
	VolumePath     string `flag:"volume" desc:"override the EFI volume mount path"`
	RepositoryPath string `flag:"repo" desc:"override the backup repository path"`
}

// Command returns the "clover-validator check" command.
func Command() *cli.Command {
	var params commandParams

	return &cli.Command{
		Name:    "check",
		Summary: "Validate config.plist and prepare the backup repository",
		Description: `Run the full check sequence against the mounted EFI partition: confirm
the required external tools are installed, resolve the volume's device
node, initialize the backup repository on first run, and validate that
config.plist is well-formed XML.

Each step prints an [  OK  ] or [FAILED] marker. The exit status is
non-zero when any step failed, or immediately when the EFI volume is
not mounted.`,
		Usage: "clover-validator check [flags]",
		Examples: []cli.Example{
			{
				Description: "Check the default EFI volume",
				Command:     "clover-validator check",
			},
			{
				Description: "Show environment diagnostics first",
				Command:     "clover-validator check --debug",
			},
			{
				Description: "Machine-readable output",
				Command:     "clover-validator check --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("check", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			configuration, err := config.Resolve(params.ConfigPath)
			if err != nil {
				return err
			}
			if params.VolumePath != "" {
				configuration.VolumePath = params.VolumePath
			}
			if params.RepositoryPath != "" {
				configuration.RepositoryPath = params.RepositoryPath
			}
			if params.Debug {
				configuration.Debug = true
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			logger := cli.NewCommandLogger().With("command", "check")
			return Check(ctx, configuration, params.JSONOutput, logger, execrunner.System{}, os.Stdout)
		},
	}
}

// checkState accumulates discovered state across steps. The volume's
// device node is written at most once, by the mount step, and read by
// the debug block.
type checkState struct {
	volume diskutil.VolumeInfo
}

// Check runs the full sequence: environment diagnostics (debug only),
// prerequisite tools, mount resolution, repository initialization, and
// XML validation. Soft step failures are recorded and execution
// continues; an unmounted volume aborts immediately with exit code 1.
func Check(ctx context.Context, configuration config.Config, jsonOutput cli.JSONOutput, logger *slog.Logger, runner execrunner.Runner, out io.Writer) error {
	// In JSON mode the streaming checklist is suppressed; the
	// accumulated results are emitted once at the end.
	checklistOut := out
	if jsonOutput.OutputJSON {
		checklistOut = io.Discard
	}

	harness := checkup.NewHarness(checklistOut)
	diskClient := diskutil.NewClient(runner)
	var state checkState

	if configuration.Debug {
		printDebugBlock(ctx, configuration, diskClient, runner, checklistOut)
	}

	// Step 1: prerequisite tools.
	logger.Debug("checking prerequisite tools", "tools", requiredTools)
	if _, err := harness.Run(ctx, "Checking required tools", func(ctx context.Context) error {
		return checkPrerequisites(runner)
	}); err != nil {
		return err
	}

	// Step 2: mount resolution. This is the one hard-abort point: an
	// unresolvable volume stops the sequence, and no later step runs.
	mountResult, err := harness.Run(ctx, "Resolving EFI volume", func(ctx context.Context) error {
		return resolveMount(ctx, configuration.VolumePath, diskClient, &state)
	})
	if err != nil {
		return err
	}
	if mountResult.Status == checkup.StatusFail {
		if done, emitError := jsonOutput.EmitJSON(out, checkup.BuildJSON(harness.Results())); done && emitError != nil {
			return emitError
		}
		return &cli.ExitError{Code: 1}
	}
	logger.Debug("volume resolved", "device_node", state.volume.DeviceNode)

	// Step 3: repository initialization, first run only. The existence
	// guard is the idempotence mechanism — InitBare itself fails on an
	// existing directory.
	repository := git.NewRepository(configuration.RepositoryPath, runner)
	if repository.Exists() {
		harness.Record(checkup.Skip("Initializing backup repository",
			fmt.Sprintf("already initialized at %s", repository.Dir())))
	} else {
		if _, err := harness.Run(ctx, "Initializing backup repository", func(ctx context.Context) error {
			return repository.InitBare(ctx)
		}); err != nil {
			return err
		}
	}

	// Step 4: XML validation.
	validator := xmlcheck.NewValidator(runner)
	if _, err := harness.Run(ctx, "Validating config.plist syntax", func(ctx context.Context) error {
		return validator.ValidateFile(ctx, configuration.ConfigPlistAbsolutePath())
	}); err != nil {
		return err
	}

	report := checkup.BuildJSON(harness.Results())
	if done, emitError := jsonOutput.EmitJSON(out, report); done {
		if emitError != nil {
			return emitError
		}
		if !report.OK {
			return &cli.ExitError{Code: 1}
		}
		return nil
	}

	return harness.Summarize()
}

// checkPrerequisites tests each required tool for direct path
// resolvability and reports exactly which tools are missing.
func checkPrerequisites(runner execrunner.Runner) error {
	var missing []string
	for _, tool := range requiredTools {
		if _, err := runner.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
	}
	return nil
}

// resolveMount queries diskutil for the volume and records the device
// node in state. When the query fails, the mount table distinguishes
// "not mounted" from "diskutil failed" in the reported message.
func resolveMount(ctx context.Context, volumePath string, diskClient *diskutil.Client, state *checkState) error {
	info, err := diskClient.Info(ctx, volumePath)
	if err != nil {
		if mounted, tableErr := diskutil.MountTableContains(ctx, volumePath); tableErr == nil && !mounted {
			return fmt.Errorf("%s is not mounted", volumePath)
		}
		return err
	}
	if info.DeviceNode == "" {
		return fmt.Errorf("%s has no device node (volume not mounted?)", volumePath)
	}
	state.volume = info
	return nil
}

// printDebugBlock collects and prints the environment diagnostics. The
// device node shown here is resolved best-effort for display; the
// authoritative resolution happens in the mount step.
func printDebugBlock(ctx context.Context, configuration config.Config, diskClient *diskutil.Client, runner execrunner.Runner, out io.Writer) {
	info := sysinfo.NewProber(runner, configuration.CloverPlistPath).Probe(ctx)
	if volume, err := diskClient.Info(ctx, configuration.VolumePath); err == nil {
		info.MountPoint = volume.MountPoint
		info.DeviceNode = volume.DeviceNode
	}
	fmt.Fprint(out, sysinfo.FormatBlock(info))
}
