// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Sigil marks a value as needing evaluation. Values without it are returned as-is.
const Sigil = "$"

// ErrResolve is the sentinel error wrapped by ResolveError.
var ErrResolve = errors.New("resolve failed")

type (
	// Resolver evaluates values against the environment snapshot captured at
	// construction. It keeps no cache: every call that needs evaluation runs the
	// interpreter again.
	Resolver struct {
		env map[string]string
		dir string
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	// ResolveError is returned when a value could not be evaluated, either because
	// the evaluation wrote to standard error or because the interpreter failed.
	//
	//nolint:revive // ResolveError reads better than Error at call sites
	ResolveError struct {
		Value  string
		Stderr string
		Cause  error
	}
)

// Error implements the error interface.
func (e *ResolveError) Error() string {
	switch {
	case e.Stderr != "":
		return fmt.Sprintf("could not resolve %q: %s", e.Value, strings.TrimSpace(e.Stderr))
	case e.Cause != nil:
		return fmt.Sprintf("could not resolve %q: %v", e.Value, e.Cause)
	default:
		return fmt.Sprintf("could not resolve %q", e.Value)
	}
}

// Unwrap returns ErrResolve so callers can use errors.Is for programmatic detection.
func (e *ResolveError) Unwrap() error { return ErrResolve }

// WithDir sets the working directory used while evaluating values.
// The directory must exist when a value is actually evaluated.
func WithDir(dir string) Option {
	return func(r *Resolver) {
		r.dir = dir
	}
}

// New creates a Resolver bound to a copy of env.
func New(env map[string]string, opts ...Option) *Resolver {
	r := &Resolver{env: maps.Clone(env)}
	if r.env == nil {
		r.env = make(map[string]string)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Env returns a copy of the environment snapshot used by the resolver.
func (r *Resolver) Env() map[string]string {
	return maps.Clone(r.env)
}

// Resolve returns value with its variable references and command substitutions
// expanded. The trailing newline produced by the evaluation is stripped.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	if !strings.Contains(value, Sigil) {
		return value, nil
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader("echo "+value), "resolve")
	if err != nil {
		return "", &ResolveError{Value: value, Cause: err}
	}

	var stdout, stderr bytes.Buffer
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(environ(r.env)...)),
		interp.StdIO(nil, &stdout, &stderr),
	}
	if r.dir != "" {
		opts = append(opts, interp.Dir(r.dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return "", &ResolveError{Value: value, Cause: err}
	}

	if err := runner.Run(ctx, prog); err != nil {
		// A non-zero status alone is not a failure; only stderr output is.
		var status interp.ExitStatus
		if !errors.As(err, &status) {
			return "", &ResolveError{Value: value, Cause: err}
		}
	}

	if stderr.Len() > 0 {
		return "", &ResolveError{Value: value, Stderr: stderr.String()}
	}

	return strings.TrimSuffix(stdout.String(), "\n"), nil
}

// environ converts env into sorted KEY=VALUE pairs.
func environ(env map[string]string) []string {
	pairs := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		pairs = append(pairs, k+"="+env[k])
	}
	return pairs
}
