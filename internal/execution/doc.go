// SPDX-License-Identifier: MPL-2.0

// Package execution spawns a child process with an explicit environment and
// streams its output in real time while keeping a per-stream capture.
//
// Each output pipe is drained by its own goroutine which decodes bytes with the
// configured encoding and splits them into lines (the trailing newline is kept,
// a final partial line is delivered as is). Lines from both pipes are delivered
// to a single loop in arrival order, so ordering within a stream is preserved
// while cross-stream interleaving is best-effort.
//
// In shell mode the argument vector is joined into one command line for
// "<shell> -c". Arguments after the first are quoted unless they consist only of
// letters, digits, underscores and dashes. The first argument is never quoted so
// that it is still interpreted as the command.
package execution
