// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

func newEnvCommand(app *App) *cobra.Command {
	flags := &launchFlags{}

	envCmd := &cobra.Command{
		Use:   "env <software> [-- args...]",
		Short: "Show what run would launch",
		Long: `Resolve the launcher of a software without starting it, then print the
generated environment and the command line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := flags.request(cmd, args)

			l, dir, err := app.prepareLaunch(cmd.Context(), req)
			if err != nil {
				return app.fail(cmd, launchError(err, req.Software, dir))
			}

			exec, err := l.Perform(cmd.Context())
			if err != nil {
				return app.fail(cmd, launchError(err, req.Software, dir))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render(l.Software().String()))
			fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("launcher"), SuccessStyle.Render(l.Kind().Name()))
			fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("command"), SuccessStyle.Render(exec.CommandLine()))
			if exec.Dir() != "" {
				fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("cwd"), SuccessStyle.Render(exec.Dir()))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, TitleStyle.Render("Environment"))
			env := exec.Env()
			for _, name := range slices.Sorted(maps.Keys(env)) {
				fmt.Fprintf(out, "%s=%s\n", KeyStyle.Render(name), env[name])
			}
			return nil
		},
	}

	flags.register(envCmd)
	return envCmd
}
