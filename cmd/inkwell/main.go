// cmd/inkwell/main.go
//
// Entry point for the inkwell CLI. Running `inkwell` with no arguments
// opens the terminal browser; subcommands cover linting, building,
// previewing, and scaffolding posts.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
