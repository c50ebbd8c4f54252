// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"respawn-cli/internal/config"
	"respawn-cli/internal/registry"
	"respawn-cli/pkg/respawn"
)

// updateParams bundles the dependencies and flags for the update command,
// enabling the core logic in runUpdate to be tested without a real Cobra
// command or a live registry.
type updateParams struct {
	stdout   io.Writer
	stderr   io.Writer
	config   respawn.Config
	resolver respawn.VersionResolver
	check    bool // --check mode: report availability without installing
}

// newUpdateCommand creates the `respawn update` command, which checks the
// package registry for a newer version and, on confirmation, installs it and
// relaunches the program.
func newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update respawn to the latest published version and relaunch",
		Long: `Update respawn to the latest published version and relaunch.

The update command asks the package registry for the latest published
version, compares it with the running one, and on confirmation installs
the new version through the host package manager. After a successful
install the running process is handed over to the new binary.

On a completed hand-off this command does not return.`,
		Example: `  # Check, confirm interactively, install, and relaunch
  respawn update

  # Report whether an update is available, without installing
  respawn update --check

  # Update without the confirmation prompt
  respawn update --yes

  # Forward build features to the installer
  respawn update --features tls --features tracing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			checkFlag, _ := cmd.Flags().GetBool("check")
			yesFlag, _ := cmd.Flags().GetBool("yes")
			pkgFlag, _ := cmd.Flags().GetString("package")
			registryFlag, _ := cmd.Flags().GetString("registry")
			featuresFlag, _ := cmd.Flags().GetStringArray("features")
			originFlag, _ := cmd.Flags().GetBool("require-path-origin")
			strictFlag, _ := cmd.Flags().GetBool("strict-install")

			fileCfg := loadedConfig
			if fileCfg == nil {
				fileCfg = config.DefaultConfig()
			}

			pkg := fileCfg.Package
			if pkgFlag != "" {
				pkg = pkgFlag
			}

			var resolverOpts []registry.Option
			baseURL := fileCfg.RegistryURL
			if registryFlag != "" {
				baseURL = registryFlag
			}
			if baseURL != "" {
				resolverOpts = append(resolverOpts, registry.WithBaseURL(baseURL))
			}
			resolverOpts = append(resolverOpts,
				registry.WithUserAgent(fmt.Sprintf("%s/%s", pkg, Version)))
			resolver := registry.NewClient(resolverOpts...)

			features := fileCfg.Features
			if len(featuresFlag) > 0 {
				features = featuresFlag
			}

			var confirm respawn.ConfirmFunc
			if yesFlag {
				confirm = func(string) bool { return true }
			} else {
				confirm = respawn.PromptConfirm(cmd.InOrStdin(), cmd.OutOrStdout(), fileCfg.ConfirmToken)
			}

			p := updateParams{
				stdout: cmd.OutOrStdout(),
				stderr: cmd.ErrOrStderr(),
				config: respawn.Config{
					Package:           pkg,
					CurrentVersion:    Version,
					Features:          features,
					RequirePathOrigin: originFlag || fileCfg.RequirePathOrigin,
					Confirm:           confirm,
					Resolver:          resolver,
					StrictInstall:     strictFlag || fileCfg.StrictInstall,
					Logger:            logger,
				},
				resolver: resolver,
				check:    checkFlag,
			}

			if err := runUpdate(cmd.Context(), p); err != nil {
				fmt.Fprintln(p.stderr, err.Error())
				return &ExitError{Code: classifyUpdateExitCode(err), Err: err}
			}

			return nil
		},
	}

	cmd.Flags().Bool("check", false, "Report whether an update is available without installing")
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")
	cmd.Flags().String("package", "", "Registry package identifier (default from config)")
	cmd.Flags().String("registry", "", "Registry API root (default from config)")
	cmd.Flags().StringArray("features", nil, "Build feature forwarded to the installer (repeatable)")
	cmd.Flags().Bool("require-path-origin", false, "Abort unless the binary was resolved via PATH")
	cmd.Flags().Bool("strict-install", false, "Treat a non-zero installer exit as fatal")

	return cmd
}

// runUpdate is the core update logic, separated from Cobra for testability.
// All user-facing output goes through p.stdout and p.stderr.
//
// In --check mode the registry is queried and the result reported, but
// nothing is installed. Otherwise the full respawn gate runs; on a completed
// hand-off runUpdate never returns.
func runUpdate(ctx context.Context, p updateParams) error {
	if p.check {
		latest, err := p.resolver.LatestVersion(ctx, p.config.Package)
		if err != nil {
			return fmt.Errorf("checking for update: %w", err)
		}

		fmt.Fprintf(p.stdout, "Current version: %s\n", p.config.CurrentVersion)
		fmt.Fprintf(p.stdout, "Latest version:  %s\n", latest)

		if strings.TrimSpace(latest) == strings.TrimSpace(p.config.CurrentVersion) {
			fmt.Fprintln(p.stdout, "\nAlready up to date.")
			return nil
		}
		fmt.Fprintf(p.stdout, "\nAn update is available: %s -> %s\n", p.config.CurrentVersion, latest)
		fmt.Fprintln(p.stdout, "Run 'respawn update' to install.")
		return nil
	}

	outcome, err := respawn.Run(ctx, p.config)
	if err != nil {
		return err
	}

	switch outcome {
	case respawn.OutcomeNoUpdate:
		fmt.Fprintln(p.stdout, "You are already using the latest version.")
	case respawn.OutcomeDeclined:
		fmt.Fprintln(p.stdout, "You chose not to update.")
	case respawn.OutcomeRelaunched:
		// Only reachable with a stubbed hand-off; nothing to report.
	case respawn.OutcomeNone:
	}

	return nil
}

// classifyUpdateExitCode maps an update error to the appropriate process exit
// code. Conditions the user can correct (already relaunching, wrong
// invocation path) use exit code 1; transport and subprocess failures use 2.
func classifyUpdateExitCode(err error) int {
	switch {
	case errors.Is(err, respawn.ErrLockConflict):
		return 1
	case errors.Is(err, respawn.ErrNotFromPath):
		return 1
	default:
		return 2
	}
}
