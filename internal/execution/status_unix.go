// SPDX-License-Identifier: MPL-2.0

//go:build unix

package execution

import (
	"os"
	"syscall"
)

// exitStatusOf reports the exit code, or the negated signal number when the
// process was terminated by a signal.
func exitStatusOf(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return -int(ws.Signal())
	}
	return state.ExitCode()
}
