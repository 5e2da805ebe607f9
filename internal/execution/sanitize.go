// SPDX-License-Identifier: MPL-2.0

package execution

import (
	"regexp"
	"strings"
)

var bareShellArg = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// SanitizeShellArgs returns a copy of args safe to join into a shell command line.
// The first argument is kept verbatim. Every other argument is kept verbatim when
// it only contains ASCII letters, digits, '_' or '-'; otherwise it is wrapped in
// double quotes with embedded double quotes escaped.
func SanitizeShellArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if i == 0 || bareShellArg.MatchString(arg) {
			out[i] = arg
			continue
		}
		out[i] = `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
	}
	return out
}

// JoinShellArgs sanitizes args and joins them with single spaces.
func JoinShellArgs(args []string) string {
	return strings.Join(SanitizeShellArgs(args), " ")
}
