// Copyright 2026 The Clover Validator Authors
// SPDX-License-Identifier: Apache-2.0

package sysinfo

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"howett.net/plist"

	"github.com/drewhammond/clover-validator/lib/execrunner"
)

// Info holds the diagnostic strings shown in the debug block. Fields
// left empty by a failed probe are rendered as "(unknown)".
type Info struct {
	ProductName    string
	ProductVersion string
	BuildVersion   string
	Username       string
	Hostname       string
	Uptime         time.Duration
	CloverRevision string

	// MountPoint and DeviceNode are filled in by the caller from the
	// resolved volume, when available.
	MountPoint string
	DeviceNode string
}

// Prober collects environment diagnostics.
type Prober struct {
	runner          execrunner.Runner
	cloverPlistPath string
}

// NewProber returns a Prober reading the installed Clover revision from
// the plist at cloverPlistPath.
func NewProber(runner execrunner.Runner, cloverPlistPath string) *Prober {
	return &Prober{runner: runner, cloverPlistPath: cloverPlistPath}
}

// Probe collects all diagnostics. Individual probe failures leave the
// corresponding field empty; Probe itself never fails.
func (p *Prober) Probe(ctx context.Context) Info {
	var info Info

	info.ProductName = p.swVers(ctx, "-productName")
	info.ProductVersion = p.swVers(ctx, "-productVersion")
	info.BuildVersion = p.swVers(ctx, "-buildVersion")

	if current, err := user.Current(); err == nil {
		info.Username = current.Username
	}

	if hostInfo, err := host.InfoWithContext(ctx); err == nil {
		info.Hostname = hostInfo.Hostname
		info.Uptime = time.Duration(hostInfo.Uptime) * time.Second
	}

	info.CloverRevision = p.cloverRevision()

	return info
}

// swVers runs sw_vers with the given flag and returns the trimmed
// output, or "" on failure.
func (p *Prober) swVers(ctx context.Context, flag string) string {
	output, err := p.runner.Output(ctx, "sw_vers", flag)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// cloverRevision reads the installed Clover revision from the installer
// metadata plist. Returns "" when Clover is not installed or the plist
// cannot be decoded.
func (p *Prober) cloverRevision() string {
	data, err := os.ReadFile(p.cloverPlistPath)
	if err != nil {
		return ""
	}

	var metadata struct {
		CloverRevision string `plist:"CloverRevision"`
	}
	if _, err := plist.Unmarshal(data, &metadata); err != nil {
		return ""
	}
	return metadata.CloverRevision
}

// FormatBlock renders the diagnostics as the block printed in debug
// mode.
func FormatBlock(info Info) string {
	var builder strings.Builder

	builder.WriteString("--- environment ---\n")
	writeLine := func(label, value string) {
		if value == "" {
			value = "(unknown)"
		}
		fmt.Fprintf(&builder, "%-18s %s\n", label+":", value)
	}

	writeLine("os", strings.TrimSpace(info.ProductName+" "+info.ProductVersion))
	writeLine("build", info.BuildVersion)
	writeLine("user", info.Username)
	writeLine("host", info.Hostname)
	if info.Uptime > 0 {
		writeLine("uptime", info.Uptime.String())
	} else {
		writeLine("uptime", "")
	}
	writeLine("clover revision", info.CloverRevision)
	writeLine("mount point", info.MountPoint)
	writeLine("device node", info.DeviceNode)
	builder.WriteString("-------------------\n")

	return builder.String()
}
