// SPDX-License-Identifier: MPL-2.0

package respawn

import "errors"

var (
	// ErrLockConflict indicates a relaunch lock marker already exists:
	// another attempt is in flight, and proceeding could loop forever.
	ErrLockConflict = errors.New("program is already relaunching")

	// ErrLockCreate indicates the relaunch lock marker could not be created.
	ErrLockCreate = errors.New("could not create relaunch lock")

	// ErrNotFromPath indicates the origin check failed: the running
	// executable was invoked through an explicit path rather than resolved
	// via a PATH directory.
	ErrNotFromPath = errors.New("program must be executed from PATH, not from a full or relative path")

	// ErrRegistryFetch indicates the latest version could not be obtained
	// from the registry. The cause (network, HTTP status, parse) remains
	// reachable through errors.As / errors.Is on the chain.
	ErrRegistryFetch = errors.New("could not fetch latest version")

	// ErrInstallFailed indicates the package manager invocation failed.
	ErrInstallFailed = errors.New("installing new version failed")

	// ErrRelaunchFailed indicates the replacement process could not be
	// started; the current process continues running its old version.
	ErrRelaunchFailed = errors.New("relaunching program failed")
)
