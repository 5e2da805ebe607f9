// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// NewRootCommand creates the ulauncher command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ulauncher",
		Short: "Launch applications inside a described environment",
		Long: TitleStyle.Render("ulauncher") + SubtitleStyle.Render(" - Launch applications inside a described environment") + `

ulauncher starts a software through a launcher description that says how to
run it and how to shape its environment: values are prepended, appended,
overridden or unset, and can reference other variables ($VAR) or command
output ($(cmd)). Addons contribute extra environment layers when enabled.

Descriptions live in the launcher directory as <software>.json, <software>.toml
or <software>.cue.

` + SubtitleStyle.Render("Examples:") + `
  ulauncher run maya                      Launch maya
  ulauncher run maya --addon arnold -- -batch
                                          Launch maya with the arnold addon and extra args
  ulauncher env maya                      Show the environment maya would get
  ulauncher launchers                     List launcher types
  ulauncher config show                   Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/ulauncher/config.cue)")

	rootCmd.AddCommand(newRunCommand(app))
	rootCmd.AddCommand(newEnvCommand(app))
	rootCmd.AddCommand(newLaunchersCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// Execute builds the production App and runs the root command. This is called
// by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))

	// fang overrides rootCmd.Version, so the version goes through fang.WithVersion.
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
