// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the platform config directory
// ($XDG_CONFIG_HOME/ulauncher on Linux, ~/Library/Application Support/ulauncher on
// macOS, %APPDATA%\ulauncher on Windows), validated against the embedded schema
// (config_schema.cue) and overlaid by ULAUNCHER_* environment variables, e.g.
// ULAUNCHER_LAUNCHER_DIR or ULAUNCHER_ENV_INHERIT_MODE.
package config
