// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"syscall"
)

// exitCodeInterrupted is the conventional status of a process stopped by SIGINT.
const exitCodeInterrupted = 128 + int(syscall.SIGINT)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFromStatus maps a child exit status to a CLI exit code. Negative
// statuses are signal numbers and follow the shell's 128+n convention.
func exitCodeFromStatus(status int) int {
	switch {
	case status < 0:
		return 128 - status
	case status > 255:
		return 255
	default:
		return status
	}
}
