// SPDX-License-Identifier: MPL-2.0

package respawn

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"respawn-cli/internal/registry"
)

// DefaultAffirmativeToken is the reply accepted by the default confirmation
// prompt. The token is a caller contract, not a protocol constant: programs
// that want "yes" (or anything else) build their own policy with
// PromptConfirm.
const DefaultAffirmativeToken = "y"

type (
	// ConfirmFunc decides whether a proposed version should be installed.
	// It is invoked at most once per Run call, and only when the current
	// and latest versions differ. The decision is never cached.
	ConfirmFunc func(proposedVersion string) bool

	// VersionResolver fetches the latest published version string for a
	// package identifier. Run treats it as an opaque, blocking, fallible
	// call: no retries, no caching, no rate limiting.
	VersionResolver interface {
		LatestVersion(ctx context.Context, pkg string) (string, error)
	}

	// Installer names the package manager invocation used to install the
	// new version. The zero value selects the defaults documented on Config.
	Installer struct {
		// Command is the package manager binary.
		Command string
		// Subcommand is the install verb.
		Subcommand string
		// FeatureFlag precedes each feature name on the command line.
		FeatureFlag string
	}

	// Config describes one update-and-relaunch attempt. It is immutable
	// once Run starts; Run operates on a defaulted copy and never mutates
	// the caller's value.
	Config struct {
		// Package is the registry identifier of the program (required).
		Package string

		// CurrentVersion is the version of the running build (required).
		// Callers typically inject their ldflags version here; the library
		// itself carries no build-time version coupling.
		CurrentVersion string

		// Features are optional named build-time options forwarded to the
		// installer as repeated feature flags.
		Features []string

		// RequirePathOrigin aborts the attempt unless the running
		// executable was resolved via a PATH directory. Default false.
		RequirePathOrigin bool

		// Confirm gates the install once an update is available. Nil
		// selects an interactive stdin prompt accepting
		// DefaultAffirmativeToken.
		Confirm ConfirmFunc

		// Resolver fetches the latest version. Nil selects the default
		// registry client.
		Resolver VersionResolver

		// LockDir is the directory holding the relaunch lock marker.
		// Empty selects os.TempDir().
		LockDir string

		// Installer selects the package manager. Zero-value fields default
		// to "cargo", "install", and "--features" respectively.
		Installer Installer

		// StrictInstall treats a non-zero installer exit status as fatal.
		// Default false: the exit status is ignored and a botched install
		// surfaces as a relaunch that still runs the old version.
		StrictInstall bool

		// Logger receives diagnostics such as swallowed lock-release
		// failures. Nil selects log.Default().
		Logger *log.Logger
	}
)

// validate checks the required Config fields.
func (c Config) validate() error {
	if strings.TrimSpace(c.Package) == "" {
		return errors.New("respawn: Config.Package must be set")
	}
	if strings.TrimSpace(c.CurrentVersion) == "" {
		return errors.New("respawn: Config.CurrentVersion must be set")
	}
	return nil
}

// withDefaults returns a copy of c with every optional field populated.
func (c Config) withDefaults() Config {
	if c.Confirm == nil {
		c.Confirm = PromptConfirm(os.Stdin, os.Stdout, DefaultAffirmativeToken)
	}
	if c.Resolver == nil {
		c.Resolver = registry.NewClient(
			registry.WithUserAgent(fmt.Sprintf("%s/%s", c.Package, c.CurrentVersion)),
		)
	}
	if c.LockDir == "" {
		c.LockDir = os.TempDir()
	}
	if c.Installer.Command == "" {
		c.Installer.Command = "cargo"
	}
	if c.Installer.Subcommand == "" {
		c.Installer.Subcommand = "install"
	}
	if c.Installer.FeatureFlag == "" {
		c.Installer.FeatureFlag = "--features"
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}

// PromptConfirm builds the interactive confirmation policy: it prints a
// prompt naming the proposed version to out, blocks reading one line from
// in, and accepts iff the trimmed reply equals token case-insensitively.
// Any read failure counts as a decline.
func PromptConfirm(in io.Reader, out io.Writer, token string) ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(proposedVersion string) bool {
		fmt.Fprintf(out, "A new version %s is available. Install and relaunch? (%s/n): ", proposedVersion, token)

		reply, err := reader.ReadString('\n')
		if err != nil && reply == "" {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(reply), token)
	}
}
