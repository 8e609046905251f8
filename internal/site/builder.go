// Package site writes a static rendering of the store to an output
// directory: an index page, one page per published post with related
// links, and a JSON Feed. Drafts never reach the output tree.
package site

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hollowpine/inkwell/internal/post"
	"github.com/hollowpine/inkwell/internal/render"
	"github.com/hollowpine/inkwell/internal/store"
)

// Options configures a build.
type Options struct {
	// Title is the site title placed on the index page and in the feed.
	Title string
	// BaseURL prefixes post links in the feed; empty produces relative links.
	BaseURL string
	// RelatedCount caps the related links under each post.
	RelatedCount int
}

// Summary reports what a build produced.
type Summary struct {
	OutDir        string
	Posts         int
	SkippedDrafts int
}

// Builder renders a store snapshot to disk.
type Builder struct {
	store    *store.Store
	renderer *render.Renderer
	opts     Options
}

// NewBuilder wires a builder over the given store.
func NewBuilder(st *store.Store, opts Options) *Builder {
	if opts.Title == "" {
		opts.Title = "Blog"
	}
	return &Builder{
		store:    st,
		renderer: render.New(),
		opts:     opts,
	}
}

type postPage struct {
	SiteTitle string
	Post      *post.Post
	Content   template.HTML
	Related   []*post.Post
}

type indexPage struct {
	SiteTitle string
	Posts     []*post.Post
}

// Build writes the whole site under outDir.
func (b *Builder) Build(outDir string) (Summary, error) {
	published := b.store.Published()
	summary := Summary{
		OutDir:        filepath.Clean(outDir),
		Posts:         len(published),
		SkippedDrafts: b.store.Len() - len(published),
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("site: ensure output dir: %w", err)
	}
	for _, p := range published {
		if err := b.writePost(outDir, p, published); err != nil {
			return Summary{}, err
		}
	}
	if err := b.writeIndex(outDir, published); err != nil {
		return Summary{}, err
	}
	if err := b.writeFeed(outDir, published); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// RenderPostPage writes the HTML page for one post. The preview server and
// the static build share this path so previews match published output.
func (b *Builder) RenderPostPage(w io.Writer, p *post.Post, published []*post.Post) error {
	content, err := b.renderer.Render(p)
	if err != nil {
		return err
	}
	page := postPage{
		SiteTitle: b.opts.Title,
		Post:      p,
		Content:   content,
		Related:   render.Related(p, published, b.opts.RelatedCount),
	}
	if err := postTmpl.Execute(w, page); err != nil {
		return fmt.Errorf("site: render post %s: %w", p.Slug, err)
	}
	return nil
}

// RenderIndexPage writes the listing page for the given posts.
func (b *Builder) RenderIndexPage(w io.Writer, posts []*post.Post) error {
	if err := indexTmpl.Execute(w, indexPage{SiteTitle: b.opts.Title, Posts: posts}); err != nil {
		return fmt.Errorf("site: render index: %w", err)
	}
	return nil
}

// RenderFeed writes the JSON Feed for the given posts.
func (b *Builder) RenderFeed(w io.Writer, posts []*post.Post) error {
	data, err := b.encodeFeed(posts)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("site: write feed: %w", err)
	}
	return nil
}

func (b *Builder) writePost(outDir string, p *post.Post, published []*post.Post) error {
	dir := filepath.Join(outDir, "posts", filepath.FromSlash(p.Slug))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("site: ensure %s: %w", dir, err)
	}
	file, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return fmt.Errorf("site: create post page: %w", err)
	}
	defer file.Close()
	return b.RenderPostPage(file, p, published)
}

func (b *Builder) writeIndex(outDir string, published []*post.Post) error {
	file, err := os.Create(filepath.Join(outDir, "index.html"))
	if err != nil {
		return fmt.Errorf("site: create index: %w", err)
	}
	defer file.Close()
	return b.RenderIndexPage(file, published)
}

// feed types follow the JSON Feed 1.1 shape.
type feedAuthor struct {
	Name string `json:"name"`
}

type feedItem struct {
	ID            string       `json:"id"`
	URL           string       `json:"url"`
	Title         string       `json:"title"`
	DatePublished string       `json:"date_published"`
	ContentHTML   string       `json:"content_html"`
	Summary       string       `json:"summary,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	Authors       []feedAuthor `json:"authors"`
}

type feed struct {
	Version string     `json:"version"`
	Title   string     `json:"title"`
	HomeURL string     `json:"home_page_url,omitempty"`
	Items   []feedItem `json:"items"`
}

func (b *Builder) encodeFeed(published []*post.Post) ([]byte, error) {
	out := feed{
		Version: "https://jsonfeed.org/version/1.1",
		Title:   b.opts.Title,
		HomeURL: b.opts.BaseURL,
	}
	for _, p := range published {
		content, err := b.renderer.Render(p)
		if err != nil {
			return nil, err
		}
		item := feedItem{
			ID:            p.Slug,
			URL:           b.postURL(p),
			Title:         p.Meta.Title,
			DatePublished: p.Meta.Date.Format(time.RFC3339),
			ContentHTML:   string(content),
			Summary:       p.Meta.Summary,
			Tags:          p.Meta.Tags,
		}
		for _, author := range p.Meta.Authors {
			item.Authors = append(item.Authors, feedAuthor{Name: author})
		}
		out.Items = append(out.Items, item)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("site: encode feed: %w", err)
	}
	return data, nil
}

func (b *Builder) writeFeed(outDir string, published []*post.Post) error {
	data, err := b.encodeFeed(published)
	if err != nil {
		return err
	}
	path := filepath.Join(outDir, "feed.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("site: write %s: %w", path, err)
	}
	return nil
}

func (b *Builder) postURL(p *post.Post) string {
	if b.opts.BaseURL == "" {
		return "/posts/" + p.Slug + "/"
	}
	return b.opts.BaseURL + "/posts/" + p.Slug + "/"
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.SiteTitle}}</title></head>
<body>
<h1>{{.SiteTitle}}</h1>
<ul class="posts">
{{- range .Posts}}
  <li><a href="/posts/{{.Slug}}/">{{.Meta.Title}}</a> <time datetime="{{.Meta.Date.Format "2006-01-02"}}">{{.Meta.Date.Format "2006-01-02"}}</time></li>
{{- end}}
</ul>
</body>
</html>
`))

var postTmpl = template.Must(template.New("post").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Post.Meta.Title}} · {{.SiteTitle}}</title></head>
<body>
<article>
<h1>{{.Post.Meta.Title}}</h1>
<p class="byline">{{range $i, $a := .Post.Meta.Authors}}{{if $i}}, {{end}}{{$a}}{{end}} · <time datetime="{{.Post.Meta.Date.Format "2006-01-02"}}">{{.Post.Meta.Date.Format "January 2, 2006"}}</time></p>
{{.Content}}
</article>
{{- if .Related}}
<aside class="related">
<h2>Related posts</h2>
<ul>
{{- range .Related}}
  <li><a href="/posts/{{.Slug}}/">{{.Meta.Title}}</a></li>
{{- end}}
</ul>
</aside>
{{- end}}
</body>
</html>
`))
