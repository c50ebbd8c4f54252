// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "respawn"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
	// EnvPrefix is the prefix for environment variable overrides,
	// e.g. RESPAWN_PACKAGE, RESPAWN_CONFIRM_TOKEN.
	EnvPrefix = "RESPAWN"
)

var (
	// configFileOverride is set via the --config flag.
	configFileOverride string

	// configDirOverride allows tests to redirect the config directory.
	configDirOverride string
)

type (
	// Config holds the host program's update settings.
	Config struct {
		// Package is the registry identifier used for update checks.
		Package string `mapstructure:"package"`
		// RegistryURL overrides the registry API root (empty = default).
		RegistryURL string `mapstructure:"registry_url"`
		// Features are forwarded to the installer on update.
		Features []string `mapstructure:"features"`
		// RequirePathOrigin aborts updates unless the binary was resolved via PATH.
		RequirePathOrigin bool `mapstructure:"require_path_origin"`
		// ConfirmToken is the reply accepted by the interactive prompt.
		ConfirmToken string `mapstructure:"confirm_token"`
		// StrictInstall treats a non-zero installer exit as fatal.
		StrictInstall bool `mapstructure:"strict_install"`
		// UI holds presentation settings.
		UI UIConfig `mapstructure:"ui"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		// Verbose enables debug-level logging.
		Verbose bool `mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults applied before any file or
// environment override.
func DefaultConfig() *Config {
	return &Config{
		Package:      AppName,
		ConfirmToken: "y",
	}
}

// SetConfigFilePathOverride points Load at an explicit config file,
// typically from a --config flag. An empty string restores discovery.
func SetConfigFilePathOverride(path string) {
	configFileOverride = path
}

// ConfigDir returns the respawn configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the configuration: built-in defaults, then the config file if
// one exists, then RESPAWN_* environment overrides. A missing config file is
// not an error; a malformed one is.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("package", defaults.Package)
	v.SetDefault("registry_url", defaults.RegistryURL)
	v.SetDefault("features", defaults.Features)
	v.SetDefault("require_path_origin", defaults.RequirePathOrigin)
	v.SetDefault("confirm_token", defaults.ConfirmToken)
	v.SetDefault("strict_install", defaults.StrictInstall)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFileOverride != "" {
		v.SetConfigFile(configFileOverride)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configFileOverride, err)
		}
	} else {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(dir)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("loading config from %s: %w", dir, err)
			}
			// No config file: defaults plus environment apply.
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}
