package render

import (
	"strings"
	"testing"
	"time"

	"github.com/hollowpine/inkwell/internal/post"
)

func testPost(slug, title string, date time.Time, tags []string, draft bool) *post.Post {
	return &post.Post{
		Slug: slug,
		Meta: post.Meta{
			Title:   title,
			Date:    date,
			Authors: []string{"Mikołaj Wilczek"},
			Tags:    tags,
			Draft:   draft,
		},
	}
}

func TestRenderProducesHTMLWithLanguageClass(t *testing.T) {
	p := &post.Post{
		Slug: "netcat",
		Body: []byte("# Checking ports\n\n```bash\nnc -vz localhost 8080\n```\n"),
	}
	html, err := New().Render(p)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	got := string(html)
	if !strings.Contains(got, "<h1") {
		t.Fatalf("heading missing from output: %s", got)
	}
	if !strings.Contains(got, `class="language-bash"`) {
		t.Fatalf("code language class stripped: %s", got)
	}
}

func TestRenderSanitizesScriptPayloads(t *testing.T) {
	p := &post.Post{
		Slug: "evil",
		Body: []byte("hello <script>alert(1)</script> world\n"),
	}
	html, err := New().Render(p)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(string(html), "<script") {
		t.Fatalf("script survived sanitation: %s", html)
	}
}

func TestRenderSupportsGFMTables(t *testing.T) {
	p := &post.Post{
		Slug: "table",
		Body: []byte("| cmd | port |\n| --- | --- |\n| lsof | 8080 |\n"),
	}
	html, err := New().Render(p)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(string(html), "<table") {
		t.Fatalf("GFM table not rendered: %s", html)
	}
}

func TestRelatedPrefersSharedTags(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	target := testPost("screws", "3D printed screws", base, []string{"3d-printing"}, false)
	byTag := testPost("printer-profiles", "Printer profiles", base.AddDate(0, 1, 0), []string{"3d-printing"}, false)
	byTitle := testPost("screws-edit", "3D printed screws revisited", base.AddDate(0, 2, 0), nil, false)
	unrelated := testPost("weakmap", "JavaScript WeakMap", base, nil, false)
	draft := testPost("injectable-task", "Injectable Task screws printed 3D", base, []string{"3d-printing"}, true)

	got := Related(target, []*post.Post{unrelated, byTitle, byTag, draft, target}, 2)
	if len(got) != 2 {
		t.Fatalf("len(related) = %d, want 2", len(got))
	}
	for _, p := range got {
		if p.Slug == "injectable-task" {
			t.Fatal("draft leaked into related posts")
		}
		if p.Slug == "screws" {
			t.Fatal("post related to itself")
		}
	}
	if got[0].Slug != "screws-edit" && got[0].Slug != "printer-profiles" {
		t.Fatalf("unexpected top result: %s", got[0].Slug)
	}
}

func TestRelatedIsDeterministic(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	target := testPost("a", "Networking commands", base, nil, false)
	candidates := []*post.Post{
		testPost("b", "More networking commands", base, nil, false),
		testPost("c", "Networking commands again", base, nil, false),
	}
	first := Related(target, candidates, 5)
	second := Related(target, candidates, 5)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Slug != second[i].Slug {
			t.Fatalf("order differs at %d: %s vs %s", i, first[i].Slug, second[i].Slug)
		}
	}
}

func TestRelatedEmptyWhenNothingShared(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	target := &post.Post{
		Slug: "a",
		Meta: post.Meta{Title: "Zygote", Date: base, Authors: []string{"x"}},
	}
	other := &post.Post{
		Slug: "b",
		Meta: post.Meta{Title: "Quasar", Date: base, Authors: []string{"y"}},
	}
	if got := Related(target, []*post.Post{other}, 3); len(got) != 0 {
		t.Fatalf("expected no related posts, got %v", got)
	}
}
