package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hollowpine/inkwell/internal/lint"
)

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Check every document's front matter and slugs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			report, err := lint.Run(contentDir(cfg))
			if err != nil {
				return err
			}
			green := color.New(color.FgGreen).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()
			if report.IsClean() {
				fmt.Printf("%s %d document(s) checked, no problems\n", green("✔"), report.Checked)
				return nil
			}
			for _, finding := range report.Findings {
				fmt.Printf("%s %s [%s] %s\n", red("✘"), finding.Path, finding.Rule, finding.Message)
			}
			return fmt.Errorf("%d problem(s) in %d document(s)", len(report.Findings), report.Checked)
		},
	}
}
