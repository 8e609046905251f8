package post

import (
	"path/filepath"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Port is already in use issue on the macOS", "port-is-already-in-use-issue-on-the-macos"},
		{"3D printed screws", "3d-printed-screws"},
		{"Mikołaj Wilczek", "mikolaj-wilczek"},
		{"Café // Über---Straße", "cafe-uber-strasse"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"UPPER_case_mixed", "upper-case-mixed"},
		{"", ""},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugFromPath(t *testing.T) {
	root := filepath.FromSlash("/blog/content/posts")
	cases := []struct {
		rel  string
		want string
	}{
		{"port-in-use.md", "port-in-use"},
		{"2023/Swift Concurrency.md", "2023/swift-concurrency"},
		{"3d-printed-screws/index.md", "3d-printed-screws"},
		{"index.md", "index"},
		{"Notes/Home Automation.markdown", "notes/home-automation"},
	}
	for _, tc := range cases {
		path := filepath.Join(root, filepath.FromSlash(tc.rel))
		if got := SlugFromPath(root, path); got != tc.want {
			t.Fatalf("SlugFromPath(%q) = %q, want %q", tc.rel, got, tc.want)
		}
	}
}
