// SPDX-License-Identifier: MPL-2.0

// Package respawn lets a command-line program update itself from a package
// registry and hand control to the freshly installed binary. A single entry
// point, Run, sequences the attempt: acquire the relaunch lock, optionally
// verify the program was executed from PATH, fetch the latest published
// version, confirm with the user, install through the host package manager,
// and replace the running process.
//
// The package is organized into one public facade and four collaborators:
//   - config.go: Config, confirmation policies, and defaults
//   - errors.go: the error kinds surfaced by Run
//   - respawn.go: the Run decision sequence
//   - internal/{lockfile,origin,registry,spawn}: lock marker, origin check,
//     registry client, and installer/hand-off subprocess handling
package respawn
