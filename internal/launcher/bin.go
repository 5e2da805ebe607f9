// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"fmt"

	"github.com/ulauncher/ulauncher/internal/execution"
	"github.com/ulauncher/ulauncher/internal/resolve"
)

// Configuration keys understood by the bin kind.
const (
	BinKindName      = "bin"
	ConfigExecutable = "executable"
	ConfigArgs       = "args"
	ConfigCwd        = "cwd"
)

// Bin launches an executable through the shell. The executable and the optional
// working directory are resolved against the launcher environment; the optional
// args are appended verbatim and quoted by the execution.
type Bin struct{}

// Name returns "bin".
func (Bin) Name() string { return BinKindName }

// RequiredConfig returns the base keys plus "executable".
func (Bin) RequiredConfig() []string {
	return append(BaseRequiredConfig(), ConfigExecutable)
}

// Perform builds a shell-mode execution for the configured executable.
func (Bin) Perform(ctx context.Context, l *Launcher) (*execution.Execution, error) {
	resolver := resolve.New(l.env)

	raw, err := l.config.String(ConfigExecutable)
	if err != nil {
		return nil, err
	}
	executable, err := resolver.Resolve(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}

	args := []string{executable}
	if l.config.Has(ConfigArgs) {
		extra, argsErr := l.config.Strings(ConfigArgs)
		if argsErr != nil {
			return nil, argsErr
		}
		args = append(args, extra...)
	}

	opts := l.ExecutionOptions()
	if l.config.Has(ConfigCwd) {
		rawCwd, cwdErr := l.config.String(ConfigCwd)
		if cwdErr != nil {
			return nil, cwdErr
		}
		if rawCwd != "" {
			cwd, resolveErr := resolver.Resolve(ctx, rawCwd)
			if resolveErr != nil {
				return nil, fmt.Errorf("resolve cwd: %w", resolveErr)
			}
			opts = append(opts, execution.WithDir(cwd))
		}
	}
	opts = append(opts, execution.WithShell(true))

	return execution.New(args, l.env, opts...)
}
