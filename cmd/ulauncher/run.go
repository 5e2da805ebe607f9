// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ulauncher/ulauncher/internal/execution"
)

// launchFlags holds the flags shared by run and env.
type launchFlags struct {
	version        string
	addons         []string
	launcherDir    string
	encoding       string
	redirectStderr bool
}

func (f *launchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.version, "version", "", "software version")
	cmd.Flags().StringArrayVar(&f.addons, "addon", nil, "enable an addon (repeatable)")
	cmd.Flags().StringVar(&f.launcherDir, "launcher-dir", "", "directory holding launcher descriptions (default from config)")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "encoding of the child output (default from config)")
	cmd.Flags().BoolVar(&f.redirectStderr, "redirect-stderr", false, "merge the child stderr into stdout")
}

// request builds a launchRequest for args: the software name followed by the
// arguments forwarded to it.
func (f *launchFlags) request(cmd *cobra.Command, args []string) launchRequest {
	req := launchRequest{
		Software:    args[0],
		Version:     f.version,
		Addons:      f.addons,
		Args:        args[1:],
		LauncherDir: f.launcherDir,
		Encoding:    f.encoding,
	}
	if cmd.Flags().Changed("redirect-stderr") {
		redirect := f.redirectStderr
		req.RedirectStderr = &redirect
	}
	return req
}

func newRunCommand(app *App) *cobra.Command {
	flags := &launchFlags{}

	runCmd := &cobra.Command{
		Use:   "run <software> [-- args...]",
		Short: "Launch a software",
		Long: `Launch a software from its launcher description.

Arguments after "--" are appended to the arguments of the description. The
child output is streamed as it arrives and the child exit status becomes the
exit status of ulauncher.`,
		Example: `  ulauncher run nuke
  ulauncher run maya --version 2024 --addon arnold -- -batch -file scene.ma`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := flags.request(cmd, args)

			l, dir, err := app.prepareLaunch(cmd.Context(), req)
			if err != nil {
				return app.fail(cmd, launchError(err, req.Software, dir))
			}

			exec, err := l.Run(cmd.Context())
			if err != nil {
				if errors.Is(err, execution.ErrInterrupted) {
					cmd.SilenceErrors = true
					return &ExitError{Code: exitCodeInterrupted, Err: err}
				}
				return app.fail(cmd, launchError(err, req.Software, dir))
			}

			if !exec.Success() {
				cmd.SilenceErrors = true
				return &ExitError{Code: exitCodeFromStatus(exec.ExitStatus())}
			}
			return nil
		},
	}

	flags.register(runCmd)
	return runCmd
}
