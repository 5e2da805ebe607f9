// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ulauncher/ulauncher/internal/execution"
	"github.com/ulauncher/ulauncher/internal/launcher"
	"github.com/ulauncher/ulauncher/internal/loader"
	"github.com/ulauncher/ulauncher/internal/software"
)

var (
	// ErrInvalidConfigDir is returned when the launcher directory is missing or not a directory.
	ErrInvalidConfigDir = errors.New("invalid config directory")
	// ErrDescriptionNotFound is returned when no description exists for a software.
	ErrDescriptionNotFound = errors.New("launcher description not found")
)

type (
	// InvalidConfigDirError is returned by NewRunner for an unusable launcher directory.
	InvalidConfigDirError struct {
		Dir   string
		Cause error
	}

	// DescriptionNotFoundError lists the paths that were tried for a software.
	DescriptionNotFoundError struct {
		Software string
		Tried    []string
	}

	// Option configures a Runner.
	Option func(*Runner)

	// Runner launches softwares described in a launcher directory.
	Runner struct {
		dir          string
		registry     *launcher.Registry
		launcherOpts []launcher.Option
		logger       *log.Logger
	}
)

// Error implements the error interface.
func (e *InvalidConfigDirError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid config directory %q: %v", e.Dir, e.Cause)
	}
	return fmt.Sprintf("invalid config directory %q", e.Dir)
}

// Unwrap returns ErrInvalidConfigDir so callers can use errors.Is for programmatic detection.
func (e *InvalidConfigDirError) Unwrap() error { return ErrInvalidConfigDir }

// Error implements the error interface.
func (e *DescriptionNotFoundError) Error() string {
	return fmt.Sprintf("no launcher description for %q (tried: %s)", e.Software, strings.Join(e.Tried, ", "))
}

// Unwrap returns ErrDescriptionNotFound so callers can use errors.Is for programmatic detection.
func (e *DescriptionNotFoundError) Unwrap() error { return ErrDescriptionNotFound }

// WithRegistry replaces the default registry.
func WithRegistry(reg *launcher.Registry) Option {
	return func(r *Runner) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// WithLauncherOptions adds options passed to every launcher the runner creates.
func WithLauncherOptions(opts ...launcher.Option) Option {
	return func(r *Runner) { r.launcherOpts = append(r.launcherOpts, opts...) }
}

// WithExecutionOptions is shorthand for WithLauncherOptions(launcher.WithExecutionOptions(opts...)).
func WithExecutionOptions(opts ...execution.Option) Option {
	return WithLauncherOptions(launcher.WithExecutionOptions(opts...))
}

// WithLogger sets the logger used by the runner, its loaders and launchers.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner reading descriptions from dir.
func NewRunner(dir string, opts ...Option) (*Runner, error) {
	if dir == "" {
		return nil, &InvalidConfigDirError{Dir: dir}
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &InvalidConfigDirError{Dir: dir, Cause: err}
	}
	if !info.IsDir() {
		return nil, &InvalidConfigDirError{Dir: dir, Cause: errors.New("not a directory")}
	}

	r := &Runner{
		dir:      dir,
		registry: launcher.DefaultRegistry(),
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "runner",
		}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Dir returns the launcher directory.
func (r *Runner) Dir() string { return r.dir }

// Registry returns the registry launchers are created from.
func (r *Runner) Registry() *launcher.Registry { return r.registry }

// DescriptionPath returns the first existing <dir>/<name>.<ext>, trying the
// extensions in loader.Extensions order.
func (r *Runner) DescriptionPath(name string) (string, error) {
	exts := loader.Extensions()
	tried := make([]string, 0, len(exts))
	for _, ext := range exts {
		path := filepath.Join(r.dir, name+ext)
		tried = append(tried, path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", &DescriptionNotFoundError{Software: name, Tried: tried}
}

// Prepare loads the description of sw, injects args as the "args" launcher
// configuration and creates the launcher over base. Nothing is spawned.
func (r *Runner) Prepare(ctx context.Context, sw *software.Software, args []string, base map[string]string) (*launcher.Launcher, error) {
	if sw == nil {
		return nil, launcher.ErrMissingSoftware
	}

	path, err := r.DescriptionPath(sw.Name())
	if err != nil {
		return nil, err
	}

	ld, err := loader.New(sw, loader.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}
	ld.SetLauncherConfig(launcher.ConfigArgs, append([]string{}, args...))

	if err := ld.LoadFile(path); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	opts := append([]launcher.Option{launcher.WithLogger(r.logger)}, r.launcherOpts...)
	l, err := ld.Launcher(ctx, r.registry, base, opts...)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("prepared launcher", "software", sw, "type", ld.LauncherType(), "description", path)
	return l, nil
}

// Run prepares the launcher of sw and runs it to completion. On interruption the
// execution is returned together with execution.ErrInterrupted.
func (r *Runner) Run(ctx context.Context, sw *software.Software, args []string, base map[string]string) (*execution.Execution, error) {
	l, err := r.Prepare(ctx, sw, args, base)
	if err != nil {
		return nil, err
	}
	return l.Run(ctx)
}
