// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package execution

import "os"

func exitStatusOf(state *os.ProcessState) int {
	return state.ExitCode()
}
