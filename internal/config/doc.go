// SPDX-License-Identifier: MPL-2.0

// Package config loads the respawn CLI configuration from a TOML file under
// the platform config directory, with RESPAWN_* environment variables and
// built-in defaults layered underneath.
package config
