package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hollowpine/inkwell/internal/site"
	"github.com/hollowpine/inkwell/internal/store"
)

func writeDoc(t *testing.T, root, rel, title, date string, draft bool) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	doc := fmt.Sprintf("---\ntitle: %q\ndate: %s\nauthors: [\"Mikołaj Wilczek\"]\n", title, date)
	if draft {
		doc += "draft: true\n"
	}
	doc += fmt.Sprintf("---\n\nBody of **%s**.\n", title)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newFixture(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	writeDoc(t, root, "netcat.md", "Checking ports with netcat on the macOS", "2023-06-01T10:00:00+02:00", false)
	writeDoc(t, root, "injectable-task.md", "Injectable Task", "2024-01-10T09:00:00+01:00", true)
	st, err := store.Open(root)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	builder := site.NewBuilder(st, site.Options{Title: "Hollow Pine Notes", RelatedCount: 3})
	return New(st, builder, nil), root
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestIndexListsPublishedOnly(t *testing.T) {
	srv, _ := newFixture(t)
	rec := get(t, srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Checking ports with netcat") {
		t.Fatalf("published post missing from index:\n%s", body)
	}
	if strings.Contains(body, "Injectable Task") {
		t.Fatal("draft appeared on the default index")
	}
}

func TestIndexIncludesDraftsWhenAsked(t *testing.T) {
	srv, _ := newFixture(t)
	rec := get(t, srv, "/?drafts=1")
	if !strings.Contains(rec.Body.String(), "Injectable Task") {
		t.Fatal("draft missing from drafts=1 index")
	}
}

func TestPostPageRendersMarkdown(t *testing.T) {
	srv, _ := newFixture(t)
	rec := get(t, srv, "/posts/netcat/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<strong>") {
		t.Fatalf("markdown not rendered:\n%s", rec.Body.String())
	}
}

func TestUnknownPostIs404(t *testing.T) {
	srv, _ := newFixture(t)
	rec := get(t, srv, "/posts/no-such-post")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("404 body is not JSON: %v", err)
	}
	if payload["slug"] != "no-such-post" {
		t.Fatalf("404 payload = %v", payload)
	}
}

func TestDraftHiddenWithoutFlag(t *testing.T) {
	srv, _ := newFixture(t)
	if rec := get(t, srv, "/posts/injectable-task"); rec.Code != http.StatusNotFound {
		t.Fatalf("draft served without drafts=1: %d", rec.Code)
	}
	rec := get(t, srv, "/posts/injectable-task?drafts=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("draft not served with drafts=1: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Injectable Task") {
		t.Fatal("draft page missing title")
	}
}

func TestFeedExcludesDrafts(t *testing.T) {
	srv, _ := newFixture(t)
	rec := get(t, srv, "/feed.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var parsed struct {
		Version string `json:"version"`
		Items   []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("feed does not parse: %v", err)
	}
	if parsed.Version != "https://jsonfeed.org/version/1.1" {
		t.Fatalf("wrong feed version: %s", parsed.Version)
	}
	if len(parsed.Items) != 1 || parsed.Items[0].ID != "netcat" {
		t.Fatalf("unexpected feed items: %+v", parsed.Items)
	}
}

func TestHealthReportsPostCount(t *testing.T) {
	srv, _ := newFixture(t)
	rec := get(t, srv, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload struct {
		Status string `json:"status"`
		Posts  int    `json:"posts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Status != "ok" || payload.Posts != 2 {
		t.Fatalf("health payload = %+v", payload)
	}
}

func TestReloadPicksUpNewPosts(t *testing.T) {
	srv, root := newFixture(t)
	writeDoc(t, root, "weakmap.md", "JavaScript WeakMap", "2024-03-01T12:00:00+00:00", false)

	sub := srv.hub.subscribe()
	defer srv.hub.unsubscribe(sub)
	srv.reload()

	rec := get(t, srv, "/")
	if !strings.Contains(rec.Body.String(), "JavaScript WeakMap") {
		t.Fatal("new post missing after reload")
	}
	select {
	case <-sub:
	default:
		t.Fatal("reload did not notify subscribers")
	}
}

func TestReloadKeepsSnapshotOnBrokenTree(t *testing.T) {
	srv, root := newFixture(t)
	if err := os.WriteFile(filepath.Join(root, "broken.md"), []byte("---\ntitle: [\n---\nbody\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv.reload()

	rec := get(t, srv, "/")
	if !strings.Contains(rec.Body.String(), "Checking ports with netcat") {
		t.Fatal("previous snapshot lost after failed reload")
	}
}
