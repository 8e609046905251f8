package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writePost(t *testing.T, root, rel, title, date string, draft bool) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	doc := fmt.Sprintf("---\ntitle: %q\ndate: %s\nauthors: [\"Mikołaj Wilczek\"]\n", title, date)
	if draft {
		doc += "draft: true\n"
	}
	doc += fmt.Sprintf("---\n\nBody of %s.\n", title)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpenMissingRootYieldsEmptyStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d posts", s.Len())
	}
}

func TestGetBySlugAndNotFound(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "port-in-use.md", "Port is already in use issue on the macOS", "2023-05-20T20:23:00+02:00", false)
	s, err := Open(root)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	p, err := s.Get("port-in-use")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if p.Meta.Title != "Port is already in use issue on the macOS" {
		t.Fatalf("wrong post: %q", p.Meta.Title)
	}
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDuplicateTitlesAtDistinctPathsCoexist(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "3d-printed-screws.md", "3D printed screws", "2023-03-01T10:00:00+01:00", false)
	writePost(t, root, "3d-printed-screws-edit/index.md", "3D printed screws", "2023-07-01T10:00:00+02:00", false)
	s, err := Open(root)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected both same-titled posts indexed, got %d", s.Len())
	}
	if _, err := s.Get("3d-printed-screws"); err != nil {
		t.Fatalf("flat post missing: %v", err)
	}
	if _, err := s.Get("3d-printed-screws-edit"); err != nil {
		t.Fatalf("bundle post missing: %v", err)
	}
}

func TestDuplicateSlugRejectedByDefault(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "screws.md", "3D printed screws", "2023-03-01T10:00:00+01:00", false)
	writePost(t, root, "screws/index.md", "3D printed screws", "2023-07-01T10:00:00+02:00", false)
	if _, err := Open(root); !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("err = %v, want ErrDuplicateSlug", err)
	}
}

func TestDuplicateSlugPreferLatestKeepsNewerDate(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "screws.md", "3D printed screws", "2023-03-01T10:00:00+01:00", false)
	writePost(t, root, "screws/index.md", "3D printed screws (EDIT)", "2023-07-01T10:00:00+02:00", false)
	s, err := Open(root, WithDuplicatePolicy(DuplicatePreferLatest))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	p, err := s.Get("screws")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if p.Meta.Title != "3D printed screws (EDIT)" {
		t.Fatalf("expected the later revision to win, got %q", p.Meta.Title)
	}
}

func TestListOrdersReverseChronologically(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "older.md", "Older", "2022-01-01T00:00:00+00:00", false)
	writePost(t, root, "newest.md", "Newest", "2024-01-01T00:00:00+00:00", false)
	writePost(t, root, "middle.md", "Middle", "2023-01-01T00:00:00+00:00", false)
	s, err := Open(root)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	got := s.List()
	want := []string{"newest", "middle", "older"}
	for i, slug := range want {
		if got[i].Slug != slug {
			t.Fatalf("List()[%d] = %s, want %s", i, got[i].Slug, slug)
		}
	}
	// Restartable: a second call yields an independent, identical sequence.
	again := s.List()
	if len(again) != len(got) {
		t.Fatalf("second List() length %d, want %d", len(again), len(got))
	}
	got[0].Meta.Title = "mutated"
	if fresh, _ := s.Get("newest"); fresh.Meta.Title != "Newest" {
		t.Fatal("mutating a listed post leaked into the store")
	}
}

func TestPublishedExcludesDrafts(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "injectable-task.md", "Injectable Task", "2024-01-10T09:00:00+01:00", true)
	writePost(t, root, "public.md", "Public", "2023-01-01T00:00:00+00:00", false)
	s, err := Open(root)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	published := s.Published()
	if len(published) != 1 || published[0].Slug != "public" {
		t.Fatalf("Published() = %v, want only the public post", published)
	}
	if len(s.List()) != 2 {
		t.Fatal("List() must still include drafts")
	}
}

func TestScanSurfacesMalformedDocuments(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "broken.md"), []byte("---\ntitle: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(root); err == nil {
		t.Fatal("expected scan error for malformed front matter")
	}
}

func TestScanSkipsHiddenAndUnderscoreDirs(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "visible.md", "Visible", "2023-01-01T00:00:00+00:00", false)
	writePost(t, root, ".obsidian/hidden.md", "Hidden", "2023-01-01T00:00:00+00:00", false)
	writePost(t, root, "_drafts/parked.md", "Parked", "2023-01-01T00:00:00+00:00", false)
	s, err := Open(root)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected only the visible post, got %d", s.Len())
	}
}
