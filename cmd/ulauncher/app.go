// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ulauncher/ulauncher/internal/app/launch"
	"github.com/ulauncher/ulauncher/internal/config"
	"github.com/ulauncher/ulauncher/internal/execution"
	"github.com/ulauncher/ulauncher/internal/launcher"
	"github.com/ulauncher/ulauncher/internal/software"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command handlers
	// receive an App reference.
	App struct {
		Config   config.Provider
		Registry *launcher.Registry
		// Environ returns the host environment as NAME=VALUE entries.
		Environ func() []string

		// verbose and configPath are bound to the persistent root flags.
		verbose    bool
		configPath string
		// colorScheme is taken from the last loaded configuration.
		colorScheme config.ColorScheme

		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config   config.Provider
		Registry *launcher.Registry
		Environ  func() []string
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// launchRequest captures the inputs of run and env.
	launchRequest struct {
		Software string
		Version  string
		Addons   []string
		Args     []string

		// LauncherDir overrides the configured launcher directory when set.
		LauncherDir string
		// Encoding overrides the configured output encoding when set.
		Encoding string
		// RedirectStderr overrides the configured value when non-nil.
		RedirectStderr *bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Registry == nil {
		deps.Registry = launcher.DefaultRegistry()
	}
	if deps.Environ == nil {
		deps.Environ = os.Environ
	}

	return &App{
		Config:   deps.Config,
		Registry: deps.Registry,
		Environ:  deps.Environ,

		colorScheme: config.ColorSchemeAuto,

		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// fail renders err on stderr and silences Cobra's own error printing. The
// returned error carries exit code 1.
func (a *App) fail(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	renderError(a.stderr, err, a.verbose, a.colorScheme)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: 1, Err: err}
}

// loadConfig loads the configuration, honoring --config.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		return nil, err
	}
	if cfg.UI.Verbose {
		a.verbose = true
	}
	a.colorScheme = cfg.UI.ColorScheme
	return cfg, nil
}

// logger returns a logger writing to the App's stderr, at debug level in verbose mode.
func (a *App) logger() *log.Logger {
	level := log.WarnLevel
	if a.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: "ulauncher",
		Level:  level,
	})
}

// prepareLaunch resolves configuration, the base environment and the launcher
// for req. Nothing is spawned.
func (a *App) prepareLaunch(ctx context.Context, req launchRequest) (*launcher.Launcher, string, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, "", err
	}

	dir := req.LauncherDir
	if dir == "" {
		dir, err = config.ResolveLauncherDir(cfg)
		if err != nil {
			return nil, "", err
		}
	}

	sw, err := software.New(req.Software, req.Version)
	if err != nil {
		return nil, dir, err
	}
	for _, name := range req.Addons {
		sw.AddAddon(name, map[string]any{software.EnabledOption: true})
	}

	base, err := launch.BaseEnv(a.Environ(), cfg.EnvInherit)
	if err != nil {
		return nil, dir, err
	}

	encoding := cfg.Encoding
	if req.Encoding != "" {
		encoding = req.Encoding
	}
	redirect := cfg.RedirectStderr
	if req.RedirectStderr != nil {
		redirect = *req.RedirectStderr
	}

	runner, err := launch.NewRunner(dir,
		launch.WithRegistry(a.Registry),
		launch.WithLogger(a.logger()),
		launch.WithExecutionOptions(
			execution.WithShellPath(cfg.Shell),
			execution.WithEncoding(encoding),
			execution.WithRedirectStderr(redirect),
			execution.WithStdout(a.stdout),
			execution.WithStderr(a.stderr),
		),
	)
	if err != nil {
		return nil, dir, err
	}

	l, err := runner.Prepare(ctx, sw, req.Args, base)
	return l, dir, err
}
