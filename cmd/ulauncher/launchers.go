// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLaunchersCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "launchers",
		Short: "List registered launcher types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render("Launcher types"))
			for _, name := range app.Registry.Names() {
				kind, err := app.Registry.Get(name)
				if err != nil {
					return err
				}
				required := kind.RequiredConfig()
				if len(required) == 0 {
					fmt.Fprintf(out, "  %s\n", KeyStyle.Render(name))
					continue
				}
				fmt.Fprintf(out, "  %s %s\n", KeyStyle.Render(name),
					SubtitleStyle.Render("(requires: "+strings.Join(required, ", ")+")"))
			}
			return nil
		},
	}
}
