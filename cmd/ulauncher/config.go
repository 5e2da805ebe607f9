// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ulauncher/ulauncher/internal/config"
)

// newConfigCommand creates the `ulauncher config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ulauncher configuration",
		Long: `Manage ulauncher configuration.

Configuration is stored in:
  - Linux: ~/.config/ulauncher/config.cue
  - macOS: ~/Library/Application Support/ulauncher/config.cue
  - Windows: %APPDATA%\ulauncher\config.cue

Every key can be overridden by an environment variable named after it, e.g.
ULAUNCHER_SHELL or ULAUNCHER_ENV_INHERIT_MODE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := app.Config.LoadWithPath(cmd.Context(), config.LoadOptions{ConfigFilePath: app.configPath})
			if err != nil {
				return app.fail(cmd, err)
			}
			launcherDir, err := config.ResolveLauncherDir(cfg)
			if err != nil {
				return app.fail(cmd, err)
			}
			showConfig(cmd.OutOrStdout(), cfg, path, launcherDir)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig("")
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("Configuration file:"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.configPath != "" {
				fmt.Fprintln(cmd.OutOrStdout(), app.configPath)
				return nil
			}
			path, err := config.ConfigFilePath("")
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config, path, launcherDir string) {
	keyStyle := KeyStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("launcher_dir"), valueStyle.Render(launcherDir))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("shell"), valueStyle.Render(cfg.Shell))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("encoding"), valueStyle.Render(cfg.Encoding))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("redirect_stderr"), valueStyle.Render(fmt.Sprintf("%v", cfg.RedirectStderr)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("env_inherit"))
	fmt.Fprintf(w, "  mode: %s\n", valueStyle.Render(cfg.EnvInherit.Mode.String()))
	fmt.Fprintf(w, "  allow: %s\n", patternList(cfg.EnvInherit.Allow))
	fmt.Fprintf(w, "  deny: %s\n", patternList(cfg.EnvInherit.Deny))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
}

func patternList(patterns []string) string {
	if len(patterns) == 0 {
		return SubtitleStyle.Render("(none)")
	}
	return SuccessStyle.Render(strings.Join(patterns, ", "))
}
