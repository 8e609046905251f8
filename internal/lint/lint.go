// Package lint checks a content tree against the front matter contract and
// reports every violation instead of stopping at the first, so an author
// can fix a whole corpus in one pass.
package lint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hollowpine/inkwell/internal/post"
)

// Rule identifies a content-integrity check.
type Rule string

const (
	RuleMissingFrontMatter   Rule = "missing-front-matter"
	RuleMalformedFrontMatter Rule = "malformed-front-matter"
	RuleMissingTitle         Rule = "missing-title"
	RuleBadTimestamp         Rule = "bad-timestamp"
	RuleNoAuthors            Rule = "no-authors"
	RuleEmptyAuthor          Rule = "empty-author"
	RuleDuplicateSlug        Rule = "duplicate-slug"
)

// Finding records one violation in one document.
type Finding struct {
	Path    string
	Rule    Rule
	Message string
}

// Report aggregates every finding from a run over a content tree.
type Report struct {
	Root     string
	Checked  int
	Findings []Finding
}

// IsClean reports whether the tree passed every check.
func (r Report) IsClean() bool {
	return len(r.Findings) == 0
}

// looseFrontMatter decodes leniently so individual fields can be checked
// even when others are broken.
type looseFrontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Authors []string `yaml:"authors"`
}

// Run walks the content tree and lints every Markdown document. Only I/O
// failures return an error; contract violations land in the report.
func Run(root string) (Report, error) {
	report := Report{Root: filepath.Clean(root)}
	slugs := map[string]string{} // slug -> first path

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if entry.IsDir() {
			if name := entry.Name(); path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdown(entry.Name()) {
			return nil
		}
		report.Checked++
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("lint: read %s: %w", path, err)
		}
		rel := relPath(root, path)
		report.Findings = append(report.Findings, lintDocument(rel, data)...)

		slug := post.SlugFromPath(root, path)
		if first, seen := slugs[slug]; seen {
			report.Findings = append(report.Findings, Finding{
				Path: rel,
				Rule: RuleDuplicateSlug,
				Message: fmt.Sprintf("slug %q already claimed by %s; rename one document or set duplicate_policy: prefer-latest", slug, first),
			})
		} else {
			slugs[slug] = rel
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	sort.SliceStable(report.Findings, func(i, j int) bool {
		if report.Findings[i].Path != report.Findings[j].Path {
			return report.Findings[i].Path < report.Findings[j].Path
		}
		return report.Findings[i].Rule < report.Findings[j].Rule
	})
	return report, nil
}

func lintDocument(rel string, data []byte) []Finding {
	metaBytes, _, err := post.SplitFrontMatter(data)
	if err != nil {
		rule := RuleMalformedFrontMatter
		if errors.Is(err, post.ErrMissingFrontMatter) {
			rule = RuleMissingFrontMatter
		}
		return []Finding{{Path: rel, Rule: rule, Message: err.Error()}}
	}
	var fm looseFrontMatter
	if err := yaml.Unmarshal(metaBytes, &fm); err != nil {
		return []Finding{{Path: rel, Rule: RuleMalformedFrontMatter, Message: err.Error()}}
	}

	var findings []Finding
	if strings.TrimSpace(fm.Title) == "" {
		findings = append(findings, Finding{Path: rel, Rule: RuleMissingTitle, Message: "title is required"})
	}
	if _, err := post.ParseDate(fm.Date); err != nil {
		findings = append(findings, Finding{
			Path:    rel,
			Rule:    RuleBadTimestamp,
			Message: fmt.Sprintf("date %q must be ISO-8601 with an explicit UTC offset", fm.Date),
		})
	}
	if len(fm.Authors) == 0 {
		findings = append(findings, Finding{Path: rel, Rule: RuleNoAuthors, Message: "authors must be a non-empty sequence"})
	}
	for i, author := range fm.Authors {
		if strings.TrimSpace(author) == "" {
			findings = append(findings, Finding{
				Path:    rel,
				Rule:    RuleEmptyAuthor,
				Message: fmt.Sprintf("authors[%d] is empty", i),
			})
		}
	}
	return findings
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func isMarkdown(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
