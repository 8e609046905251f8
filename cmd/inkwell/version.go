package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is stamped by the release build; the default marks dev builds.
var version = "0.4.0-dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the inkwell version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("inkwell %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
		},
	}
}
