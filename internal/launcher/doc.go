// SPDX-License-Identifier: MPL-2.0

// Package launcher binds launcher kinds to their required configuration and turns
// a validated configuration plus a composed environment into a process execution.
//
// Kinds are registered in an explicit Registry value; DefaultRegistry returns one
// holding the built-in "bin" kind. A Launcher can only be obtained through
// Registry.Create, which checks every required configuration key before anything
// is spawned.
package launcher
