// Package store holds the read-only snapshot of a content tree. A store is
// built by scanning a directory for Markdown documents, addressing each one
// by a slug derived from its path relative to the root. Posts are
// independent of each other; the store never mutates documents.

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hollowpine/inkwell/internal/post"
)

var (
	// ErrNotFound indicates no post exists under the requested slug.
	ErrNotFound = errors.New("store: post not found")
	// ErrDuplicateSlug indicates two documents resolve to the same slug.
	ErrDuplicateSlug = errors.New("store: duplicate slug")
)

// DuplicatePolicy decides what happens when two documents resolve to the
// same slug. Silent overwriting is never an option.
type DuplicatePolicy string

const (
	// DuplicateReject fails the scan with ErrDuplicateSlug.
	DuplicateReject DuplicatePolicy = "reject"
	// DuplicatePreferLatest keeps the document with the later date and
	// drops the older one.
	DuplicatePreferLatest DuplicatePolicy = "prefer-latest"
)

// Store indexes posts by slug. All reads are synchronous; the mutex only
// guards the snapshot swap performed by Reload.
type Store struct {
	root   string
	policy DuplicatePolicy

	mu    sync.RWMutex
	posts map[string]*post.Post
}

// Option customizes a Store during construction.
type Option func(*Store)

// WithDuplicatePolicy overrides the default reject policy.
func WithDuplicatePolicy(policy DuplicatePolicy) Option {
	return func(s *Store) {
		if policy != "" {
			s.policy = policy
		}
	}
}

// Open scans the content root and builds the snapshot. A missing root is
// treated as an empty store to simplify first runs.
func Open(root string, opts ...Option) (*Store, error) {
	s := &Store{
		root:   filepath.Clean(root),
		policy: DuplicateReject,
		posts:  map[string]*post.Post{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Root returns the content directory backing this store.
func (s *Store) Root() string {
	return s.root
}

// Reload re-scans the content tree and atomically replaces the snapshot.
// On error the previous snapshot stays in place.
func (s *Store) Reload() error {
	posts, err := scan(s.root, s.policy)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
	return nil
}

// Get returns the post addressed by slug, or ErrNotFound.
func (s *Store) Get(slug string) (*post.Post, error) {
	s.mu.RLock()
	p, ok := s.posts[slug]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return p.Clone(), nil
}

// List returns every post, drafts included, as a fresh slice sorted
// reverse-chronologically with slug as a deterministic tiebreaker.
func (s *Store) List() []*post.Post {
	s.mu.RLock()
	out := make([]*post.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p.Clone())
	}
	s.mu.RUnlock()
	sortPosts(out)
	return out
}

// Published returns List minus drafts.
func (s *Store) Published() []*post.Post {
	all := s.List()
	out := all[:0]
	for _, p := range all {
		if p.Published() {
			out = append(out, p)
		}
	}
	return out
}

// Len reports the number of indexed posts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

func sortPosts(posts []*post.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Meta.Date.Equal(posts[j].Meta.Date) {
			return posts[i].Meta.Date.After(posts[j].Meta.Date)
		}
		return posts[i].Slug < posts[j].Slug
	})
}

func scan(root string, policy DuplicatePolicy) (map[string]*post.Post, error) {
	posts := map[string]*post.Post{}
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
		if !isMarkdownFile(entry.Name()) {
			return nil
		}
		p, err := load(root, path)
		if err != nil {
			return err
		}
		existing, ok := posts[p.Slug]
		if !ok {
			posts[p.Slug] = p
			return nil
		}
		switch policy {
		case DuplicatePreferLatest:
			posts[p.Slug] = preferLatest(existing, p)
			return nil
		default:
			return fmt.Errorf("%w: %q maps to both %s and %s", ErrDuplicateSlug, p.Slug, existing.Path, p.Path)
		}
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func load(root, path string) (*post.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	meta, body, err := post.ParseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	return &post.Post{
		Slug: post.SlugFromPath(root, path),
		Path: abs,
		Meta: meta,
		Body: body,
	}, nil
}

func preferLatest(a, b *post.Post) *post.Post {
	if b.Meta.Date.After(a.Meta.Date) {
		return b
	}
	if a.Meta.Date.After(b.Meta.Date) {
		return a
	}
	// Same date: pick the lexically later path so the choice is stable.
	if b.Path > a.Path {
		return b
	}
	return a
}

func isMarkdownFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
