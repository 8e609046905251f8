package main

import (
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hollowpine/inkwell/internal/post"
)

func newListCmd() *cobra.Command {
	var drafts bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openProject()
			if err != nil {
				return err
			}
			posts := st.Published()
			if drafts {
				posts = st.List()
			}
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Slug", "Title", "Date", "Authors", "State"})
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetBorder(false)
			for _, p := range posts {
				table.Append(postRow(p))
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&drafts, "drafts", false, "include drafts")
	return cmd
}

func postRow(p *post.Post) []string {
	state := "published"
	if p.Meta.Draft {
		state = "draft"
	}
	return []string{
		p.Slug,
		p.Meta.Title,
		p.Meta.Date.Format("2006-01-02"),
		strings.Join(p.Meta.Authors, ", "),
		state,
	}
}
