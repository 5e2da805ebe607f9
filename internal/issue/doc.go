// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error reporting for the CLI.
//
// ActionableError attaches the failed operation, the resource involved and
// remediation hints to an error. Issue is a catalog entry with a Markdown page
// rendered through glamour for well-known failures such as a missing launcher
// description or an unresolvable environment value.
package issue
