// SPDX-License-Identifier: MPL-2.0

// Package origin determines whether the running executable was resolved via
// a search-path directory rather than invoked through an explicit relative
// or absolute path. Programs that relaunch themselves by name need this
// guarantee: a ./prog invocation would not pick up a freshly installed
// binary from PATH.
package origin

import (
	"os"
	"path/filepath"
)

// osExecutable is a test seam for os.Executable().
var osExecutable = os.Executable

// ExecutedFromPath reports whether the current executable's file name can be
// found in one of the directories listed in the PATH environment variable.
func ExecutedFromPath() bool {
	exe, err := osExecutable()
	if err != nil {
		return false
	}
	return executedFromPath(exe, os.Getenv("PATH"))
}

// executedFromPath implements the check for a given executable path and
// search-path value. Split out so tests can probe it without touching the
// process environment or the real binary location.
func executedFromPath(exePath, pathEnv string) bool {
	if exePath == "" || !filepath.IsAbs(exePath) {
		// A relative path cannot have been resolved via PATH lookup.
		return false
	}

	name := filepath.Base(exePath)
	if name == "." || name == string(filepath.Separator) {
		return false
	}

	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
