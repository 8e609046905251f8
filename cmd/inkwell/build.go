package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hollowpine/inkwell/internal/site"
)

func newBuildCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the static site to the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := openProject()
			if err != nil {
				return err
			}
			out := outDir
			if out == "" {
				out = cfg.OutputDir()
			}
			summary, err := site.NewBuilder(st, siteOptions(cfg)).Build(out)
			if err != nil {
				return err
			}
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s %d post(s) written to %s\n", green("✔"), summary.Posts, summary.OutDir)
			if summary.SkippedDrafts > 0 {
				fmt.Printf("  %d draft(s) skipped\n", summary.SkippedDrafts)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (defaults to the configured output_dir)")
	return cmd
}
