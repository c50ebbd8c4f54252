// SPDX-License-Identifier: MPL-2.0

package respawn

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"respawn-cli/internal/lockfile"
	"respawn-cli/internal/origin"
	"respawn-cli/internal/spawn"
)

// Test seams for the process-level collaborators. Production code uses the
// real implementations; tests replace them to run the full decision sequence
// without spawning processes or probing the real executable.
var (
	acquireLock      = lockfile.Acquire
	installPackage   = spawn.Install
	relaunchProcess  = spawn.Relaunch
	executedFromPath = origin.ExecutedFromPath
	processArgs      = func() []string { return os.Args }
)

// Outcome reports how a Run call that returned control to its caller ended.
type Outcome int

const (
	// OutcomeNone is the zero value, paired with a non-nil error.
	OutcomeNone Outcome = iota

	// OutcomeNoUpdate means the registry's latest version matches the
	// current one; nothing was installed.
	OutcomeNoUpdate

	// OutcomeDeclined means an update was available but the confirmation
	// policy rejected it.
	OutcomeDeclined

	// OutcomeRelaunched is observable only when the process hand-off is
	// stubbed out (tests): in production a successful hand-off replaces or
	// terminates the process and Run never returns.
	OutcomeRelaunched
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNoUpdate:
		return "no update needed"
	case OutcomeDeclined:
		return "update declined"
	case OutcomeRelaunched:
		return "relaunched"
	case OutcomeNone:
		return "none"
	}
	return "none"
}

// Run executes one update-and-relaunch attempt:
//
//	lock -> (origin) -> resolve version -> compare -> confirm -> install -> hand-off
//
// The steps run strictly in order on the calling goroutine; every blocking
// call (registry fetch, installer wait, confirmation read) blocks Run. No
// step is retried: the first failure aborts the whole attempt and leaves the
// current process running its old version.
//
// The relaunch lock is released on every path that returns control to the
// caller, and released explicitly before the process hand-off, since the hand-off
// never returns, so deferred cleanup would be skipped there.
//
// On a successful hand-off Run does not return. Versions are compared for
// exact equality after trimming whitespace: any difference, including a
// "lower" latest version, counts as an available update.
func Run(ctx context.Context, cfg Config) (Outcome, error) {
	if err := cfg.validate(); err != nil {
		return OutcomeNone, err
	}
	cfg = cfg.withDefaults()

	guard, err := acquireLock(cfg.LockDir)
	if err != nil {
		if errors.Is(err, lockfile.ErrConflict) {
			return OutcomeNone, fmt.Errorf("%w: %v", ErrLockConflict, err)
		}
		return OutcomeNone, fmt.Errorf("%w: %v", ErrLockCreate, err)
	}

	// Deletion failures must not change the outcome of the attempt; they
	// are logged and swallowed.
	release := func() {
		if relErr := guard.Release(); relErr != nil {
			cfg.Logger.Warn("failed to remove relaunch lock", "err", relErr)
		}
	}

	if cfg.RequirePathOrigin && !executedFromPath() {
		release()
		return OutcomeNone, ErrNotFromPath
	}

	latest, err := cfg.Resolver.LatestVersion(ctx, cfg.Package)
	if err != nil {
		release()
		return OutcomeNone, fmt.Errorf("%w for %s: %w", ErrRegistryFetch, cfg.Package, err)
	}

	latest = strings.TrimSpace(latest)
	current := strings.TrimSpace(cfg.CurrentVersion)

	if latest == current {
		cfg.Logger.Debug("already running the latest version", "version", current)
		release()
		return OutcomeNoUpdate, nil
	}

	if !cfg.Confirm(latest) {
		release()
		return OutcomeDeclined, nil
	}

	cfg.Logger.Info("installing new version", "package", cfg.Package, "version", latest)

	if err := installPackage(ctx, spawn.InstallSpec{
		Command:     cfg.Installer.Command,
		Subcommand:  cfg.Installer.Subcommand,
		Package:     cfg.Package,
		FeatureFlag: cfg.Installer.FeatureFlag,
		Features:    cfg.Features,
		Strict:      cfg.StrictInstall,
	}); err != nil {
		release()
		return OutcomeNone, fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}

	// The hand-off terminates or replaces this process, so the lock must be
	// gone before it happens. A failed hand-off below must not re-release.
	release()

	argv := processArgs()
	if err := relaunchProcess(argv[0], argv[1:]); err != nil {
		return OutcomeNone, fmt.Errorf("%w: %w", ErrRelaunchFailed, err)
	}

	// Reached only through stubbed hand-offs; see OutcomeRelaunched.
	return OutcomeRelaunched, nil
}
