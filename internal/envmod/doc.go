// SPDX-License-Identifier: MPL-2.0

// Package envmod composes process environments from layered modifications.
//
// A Modifier is an immutable value holding an ordered list of modification records
// (prepend, append, override, unset) and a base environment. Builder methods return
// a new Modifier, so layering one Modifier onto another never aliases state.
//
// Generate folds the records over a copy of the base environment in a fixed order,
// independent of the order in which records were added:
//
//  1. prepend   new:old
//  2. append    old:new
//  3. override  new
//  4. unset     removed
//
// Every emitted value is passed through a resolve.Resolver bound to the base
// environment, so values may reference variables and embed $(command) substitutions.
package envmod
