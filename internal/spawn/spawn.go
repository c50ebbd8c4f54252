// SPDX-License-Identifier: MPL-2.0

// Package spawn invokes the host package manager to install a new version of
// the running program and then hands the process over to the freshly
// installed binary. The hand-off is platform-specific: Unix replaces the
// process image in place, Windows spawns a replacement and exits.
package spawn

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// InstallSpec describes one package-manager install invocation.
type InstallSpec struct {
	// Command is the package manager binary, e.g. "cargo".
	Command string
	// Subcommand is the install verb passed first, e.g. "install".
	Subcommand string
	// Package is the registry identifier to install.
	Package string
	// FeatureFlag is the flag preceding each feature name, e.g. "--features".
	FeatureFlag string
	// Features are optional named build-time options, each emitted as a
	// separate FeatureFlag pair.
	Features []string
	// Strict treats a non-zero installer exit status as an error. When
	// false, the child's exit status is ignored and only a failure to start
	// the installer at all is reported.
	Strict bool
}

// installArgs builds the argument vector (excluding the command itself) for
// the install invocation.
func installArgs(spec InstallSpec) []string {
	args := []string{spec.Subcommand, spec.Package}
	for _, f := range spec.Features {
		args = append(args, spec.FeatureFlag, f)
	}
	return args
}

// Install runs the package manager synchronously, inheriting the current
// process's stdio so the user sees installer progress directly. It blocks
// until the child exits.
//
// Exit-status handling follows spec.Strict: in non-strict mode an installer
// that started but exited non-zero is not an error; the subsequent relaunch
// will surface the problem if no new binary was installed.
func Install(ctx context.Context, spec InstallSpec) error {
	cmd := exec.CommandContext(ctx, spec.Command, installArgs(spec)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if !spec.Strict {
			return nil
		}
		return fmt.Errorf("installer %s exited with status %d", spec.Command, exitErr.ExitCode())
	}

	// The installer could not be started at all (not found, not executable).
	return fmt.Errorf("running installer %s: %w", spec.Command, err)
}
