// Package post defines the on-disk contract for a blog post: a Markdown
// document that opens with a `---`-fenced YAML metadata block followed by
// the post body. The metadata keys recognized here are the publishing
// contract consumed by the store, the linter, the site builder, and the
// preview server.

package post

import "time"

// Meta is the parsed front matter of a post.
type Meta struct {
	Title   string
	Date    time.Time
	Authors []string
	Tags    []string
	Summary string
	Draft   bool
}

// Post pairs parsed metadata with the raw Markdown body and the identity
// derived from the document's location in the content tree.
type Post struct {
	// Slug is the stable identifier derived from the path relative to the
	// content root. It is unique within a store.
	Slug string
	// Path is the absolute location of the source document.
	Path string
	Meta Meta
	Body []byte
}

// Published reports whether the post may appear in public listings. A post
// with no draft key in its front matter is published.
func (p *Post) Published() bool {
	return !p.Meta.Draft
}

// clone returns a defensive copy so callers cannot mutate store state
// through returned posts.
func (m Meta) clone() Meta {
	out := m
	out.Authors = append([]string(nil), m.Authors...)
	out.Tags = append([]string(nil), m.Tags...)
	return out
}

// Clone returns a deep copy of the post.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	out := &Post{
		Slug: p.Slug,
		Path: p.Path,
		Meta: p.Meta.clone(),
		Body: append([]byte(nil), p.Body...),
	}
	return out
}
