// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/modboot/modboot/cmd/modboot"

func main() {
	cmd.Execute()
}
