package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollowpine/inkwell/internal/config"
	"github.com/hollowpine/inkwell/internal/site"
	"github.com/hollowpine/inkwell/internal/store"
)

var (
	flagProject string
	flagContent string
	flagDebug   bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "inkwell",
		Short:        "Markdown blog engine: browse, lint, preview, and build posts",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare `inkwell` opens the browser.
			return runBrowse(false)
		},
	}
	root.PersistentFlags().StringVar(&flagProject, "project", ".", "project directory holding the .inkwell folder")
	root.PersistentFlags().StringVar(&flagContent, "content", "", "content directory override")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	root.AddCommand(
		newBrowseCmd(),
		newBuildCmd(),
		newServeCmd(),
		newLintCmd(),
		newListCmd(),
		newNewCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig initializes the .inkwell directory and loads project settings.
func loadConfig() (*config.Config, error) {
	if err := config.InitProjectDir(flagProject); err != nil {
		return nil, fmt.Errorf("initialize project dir: %w", err)
	}
	return config.NewConfig(flagProject)
}

func contentDir(cfg *config.Config) string {
	if flagContent != "" {
		return flagContent
	}
	return cfg.ContentDir()
}

// openProject loads config and scans the content tree.
func openProject() (*config.Config, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(contentDir(cfg), store.WithDuplicatePolicy(cfg.DuplicatePolicy()))
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

func siteOptions(cfg *config.Config) site.Options {
	return site.Options{
		Title:        cfg.Project.Site.Title,
		BaseURL:      cfg.Project.Site.BaseURL,
		RelatedCount: cfg.Project.RelatedCount,
	}
}
