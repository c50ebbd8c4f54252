// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package spawn

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// execve is a test seam for syscall.Exec.
var execve = syscall.Exec

// Relaunch replaces the current process image with a new instance of the
// program, preserving the original argument vector and environment. argv0 is
// resolved through PATH when it is a bare name, which is how the relaunched
// process picks up a freshly installed binary.
//
// On success this call does not return: the new image takes over the current
// PID, so no coexistence window exists. An error return means the process is
// still running its old image.
func Relaunch(argv0 string, args []string) error {
	path, err := exec.LookPath(argv0)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", argv0, err)
	}

	argv := append([]string{argv0}, args...)
	if err := execve(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}
