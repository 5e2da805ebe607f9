// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"strings"

	"github.com/gobwas/glob"

	"github.com/ulauncher/ulauncher/internal/config"
)

// BaseEnv builds the base environment from environ, a list of NAME=VALUE entries
// as returned by os.Environ. In "none" mode the result is empty. In "allow" mode
// only names matching an allow pattern are kept. Names matching a deny pattern are
// always dropped. Entries without "=" are ignored; later duplicates win.
func BaseEnv(environ []string, inherit config.EnvInheritConfig) (map[string]string, error) {
	env := make(map[string]string)
	if inherit.Mode == config.EnvInheritNone {
		return env, nil
	}

	allow, err := compilePatterns(inherit.Allow)
	if err != nil {
		return nil, err
	}
	deny, err := compilePatterns(inherit.Deny)
	if err != nil {
		return nil, err
	}

	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		if inherit.Mode == config.EnvInheritAllow && !matchAny(allow, name) {
			continue
		}
		if matchAny(deny, name) {
			continue
		}
		env[name] = value
	}

	return env, nil
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, &config.InvalidEnvPatternError{Pattern: pattern, Cause: err}
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func matchAny(patterns []glob.Glob, name string) bool {
	for _, g := range patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}
