// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/ulauncher/ulauncher/cmd/ulauncher"

func main() {
	cmd.Execute()
}
