// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for respawn.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"respawn-cli/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug-level logging.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string

	// loadedConfig holds the configuration read by initRootConfig.
	loadedConfig *config.Config

	// logger is the shared CLI logger.
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "respawn",
	})

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "respawn",
		Short: "A self-updating command-line program",
		Long: TitleStyle.Render("respawn") + SubtitleStyle.Render(" - a self-updating command-line program") + `

respawn checks its package registry for a newer version of itself,
asks for confirmation, installs the new version through the host
package manager, and hands control to the freshly installed binary.

` + SubtitleStyle.Render("Examples:") + `
  respawn update            Check, confirm, install, and relaunch
  respawn update --check    Report whether an update is available
  respawn update --yes      Update without the confirmation prompt
  respawn version           Show the running version`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/respawn/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(newUpdateCommand())
	rootCmd.AddCommand(newVersionCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in the config file and ENV variables if set.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
		cfg = config.DefaultConfig()
	}
	loadedConfig = cfg

	if verbose || cfg.UI.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
}
