// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for the DKG Testbed.
//
// Usage:
//
//	go run . [flags]
//	./dkgtestbed [flags]
//
// Without a subcommand the interactive TUI starts. See --help for options.
package main

import (
	"fmt"
	"os"

	"github.com/toeirei/dkgtestbed/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
