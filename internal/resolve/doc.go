// SPDX-License-Identifier: MPL-2.0

// Package resolve expands variable references ($VAR, ${VAR}) and command
// substitutions ($(command)) found in launcher configuration values.
//
// A value that contains a "$" is evaluated as the operand of an echo statement by
// an embedded POSIX shell interpreter (mvdan/sh), bound to a fixed environment
// snapshot. Commands found inside $(...) are executed for real. The author of a
// launcher configuration is trusted in the same way as the author of a shell
// profile; nothing here sandboxes the evaluation.
package resolve
