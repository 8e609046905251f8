package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hollowpine/inkwell/internal/post"
)

func newNewCmd() *cobra.Command {
	var authors []string
	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Scaffold a draft post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return fmt.Errorf("title must not be empty")
			}
			if len(authors) == 0 {
				authors = cfg.Project.DefaultAuthors
			}
			if len(authors) == 0 {
				return fmt.Errorf("no authors: pass --author or set default_authors in %s", cfg.ProjectConfigPath())
			}

			meta := post.Meta{
				Title:   title,
				Date:    time.Now().Truncate(time.Second),
				Authors: authors,
				Draft:   true,
			}
			doc, err := post.WriteFrontMatter(meta, []byte("Write here.\n"))
			if err != nil {
				return err
			}

			slug := post.Slugify(title)
			if slug == "" {
				return fmt.Errorf("title %q produces an empty slug", title)
			}
			path := filepath.Join(contentDir(cfg), slug+".md")
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, doc, 0o644); err != nil {
				return err
			}
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s created %s\n", green("✔"), path)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&authors, "author", nil, "author name (repeatable; defaults to default_authors)")
	return cmd
}
