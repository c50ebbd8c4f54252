// SPDX-License-Identifier: MPL-2.0

package main

import "respawn-cli/cmd/respawn"

func main() {
	cmd.Execute()
}
