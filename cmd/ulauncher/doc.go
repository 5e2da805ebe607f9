// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for ulauncher.
//
// This package implements the Cobra command hierarchy: run launches a software
// from its launcher description, env shows what would be launched, launchers
// lists the registered launcher kinds and config manages the configuration file.
package cmd
