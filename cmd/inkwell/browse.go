package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hollowpine/inkwell/internal/logbook"
	"github.com/hollowpine/inkwell/internal/tui"
)

func newBrowseCmd() *cobra.Command {
	var drafts bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse posts in a terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(drafts)
		},
	}
	cmd.Flags().BoolVar(&drafts, "drafts", false, "show drafts in the listing")
	return cmd
}

func runBrowse(drafts bool) error {
	cfg, st, err := openProject()
	if err != nil {
		return err
	}
	// A broken logbook only loses the session trail, never the browser.
	lb, _ := logbook.New(cfg.JourneyLogPath())
	app := tui.NewApp(st, lb,
		tui.WithDrafts(drafts),
		tui.WithRelatedCount(cfg.Project.RelatedCount),
	)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
