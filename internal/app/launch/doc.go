// SPDX-License-Identifier: MPL-2.0

// Package launch runs a software from its launcher description. A Runner owns a
// launcher directory holding one description per software, named
// <software>.json, <software>.toml or <software>.cue. BaseEnv projects the host
// environment into the base environment the descriptions modify.
package launch
