// SPDX-License-Identifier: MPL-2.0

//go:build windows

package spawn

import (
	"fmt"
	"os"
	"os/exec"
)

var (
	// startProcess is a test seam for starting the replacement process.
	startProcess = func(cmd *exec.Cmd) error { return cmd.Start() }

	// osExit is a test seam for os.Exit.
	osExit = os.Exit
)

// Relaunch starts a new instance of the program with the original argument
// vector and inherited environment, then terminates the current process with
// a success status. Windows has no in-place exec primitive, so the two
// processes briefly coexist: the spawn must succeed before the old process
// exits.
//
// An error return means the spawn failed and the current process is still
// running its old version.
func Relaunch(argv0 string, args []string) error {
	cmd := exec.Command(argv0, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := startProcess(cmd); err != nil {
		return fmt.Errorf("spawning %s: %w", argv0, err)
	}

	osExit(0)
	return nil // unreachable outside tests
}
