// SPDX-License-Identifier: MPL-2.0

// Command varmerge merges package variable declarations into one namespace.
package main

import cmd "github.com/invowk/varmerge/cmd/varmerge"

func main() {
	cmd.Execute()
}
