// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/ulauncher/ulauncher/internal/execution"
	"github.com/ulauncher/ulauncher/internal/software"
)

// ErrInvalidExecution is returned by Run when a kind produces no usable execution.
var ErrInvalidExecution = errors.New("launcher produced an invalid execution")

type (
	// Kind is a launcher implementation.
	Kind interface {
		// Name returns the name the kind is registered under.
		Name() string
		// RequiredConfig returns the configuration keys Create must find.
		RequiredConfig() []string
		// Perform builds the process execution for l without running it.
		Perform(ctx context.Context, l *Launcher) (*execution.Execution, error)
	}

	// Option configures a Launcher.
	Option func(*Launcher)

	// Launcher is a validated, immutable binding of a kind to a software, an
	// environment and a configuration.
	Launcher struct {
		kind     Kind
		software *software.Software
		env      map[string]string
		config   Config
		execOpts []execution.Option
		logger   *log.Logger
	}
)

// BaseRequiredConfig returns the keys every kind requires. Kinds extend it.
func BaseRequiredConfig() []string { return []string{} }

// WithExecutionOptions adds options applied to every execution the launcher builds.
func WithExecutionOptions(opts ...execution.Option) Option {
	return func(l *Launcher) { l.execOpts = append(l.execOpts, opts...) }
}

// WithLogger sets the logger used by the launcher and its executions.
func WithLogger(logger *log.Logger) Option {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Kind returns the launcher kind.
func (l *Launcher) Kind() Kind { return l.kind }

// Software returns the software handle.
func (l *Launcher) Software() *software.Software { return l.software }

// Env returns a copy of the composed environment.
func (l *Launcher) Env() map[string]string { return maps.Clone(l.env) }

// Config returns a copy of the configuration.
func (l *Launcher) Config() Config { return l.config.Clone() }

// Logger returns the launcher logger.
func (l *Launcher) Logger() *log.Logger { return l.logger }

// ExecutionOptions returns the options kinds should pass to execution.New.
// The launcher logger is always included first.
func (l *Launcher) ExecutionOptions() []execution.Option {
	opts := make([]execution.Option, 0, len(l.execOpts)+1)
	opts = append(opts, execution.WithLogger(l.logger))
	return append(opts, slices.Clone(l.execOpts)...)
}

// Perform returns the unexecuted process execution for this launcher.
func (l *Launcher) Perform(ctx context.Context) (*execution.Execution, error) {
	return l.kind.Perform(ctx, l)
}

// Run performs the launcher and executes the result, streaming output until the
// child exits. The execution is returned whenever it was started, including when
// the run was interrupted.
func (l *Launcher) Run(ctx context.Context) (*execution.Execution, error) {
	exec, err := l.Perform(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s launcher for %s: %w", l.kind.Name(), l.software, err)
	}
	if exec == nil || len(exec.Args()) == 0 {
		return nil, ErrInvalidExecution
	}

	l.logger.Debug("launching", "software", l.software, "kind", l.kind.Name(), "command", exec.CommandLine())

	if err := exec.Execute(ctx); err != nil {
		if errors.Is(err, execution.ErrInterrupted) {
			l.logger.Warn("launch interrupted", "software", l.software, "pid", exec.PID())
			return exec, err
		}
		if !exec.Started() {
			return nil, err
		}
		return exec, fmt.Errorf("execute %s: %w", l.software, err)
	}

	l.logger.Debug("finished", "software", l.software, "pid", exec.PID(), "status", exec.ExitStatus())
	return exec, nil
}

func defaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "launcher",
	})
}
