// Package render turns post bodies into sanitized HTML and computes the
// related-post links placed under each rendered page.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hollowpine/inkwell/internal/post"
)

// Renderer converts Markdown to HTML. Output is sanitized: post bodies are
// authored locally, but rendered pages may be published, so script payloads
// never survive the pipeline.
type Renderer struct {
	md       goldmark.Markdown
	sanitize *bluemonday.Policy
}

// New builds a renderer with GFM extensions (tables, strikethrough,
// autolinks, task lists) and a UGC sanitation policy that keeps the
// language class on fenced code blocks for client-side highlighting.
func New() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		sanitize: policy,
	}
}

// Render converts a post body to sanitized HTML.
func (r *Renderer) Render(p *post.Post) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(p.Body, &buf); err != nil {
		return "", fmt.Errorf("render: %s: %w", p.Slug, err)
	}
	return template.HTML(r.sanitize.SanitizeBytes(buf.Bytes())), nil
}
