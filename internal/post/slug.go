package post

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldReplacer handles letters that NFD decomposition leaves alone.
var foldReplacer = strings.NewReplacer(
	"ł", "l", "Ł", "l",
	"ø", "o", "Ø", "o",
	"đ", "d", "Đ", "d",
	"ß", "ss",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"þ", "th", "Þ", "th",
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL-safe identifier from a title or path segment:
// diacritics folded, lowercased, runs of non-alphanumerics collapsed to
// single hyphens. "Mikołaj Wilczek" becomes "mikolaj-wilczek".
func Slugify(s string) string {
	folded, _, err := transform.String(deaccent, s)
	if err != nil {
		folded = s
	}
	folded = foldReplacer.Replace(folded)
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress leading hyphens
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SlugFromPath derives the stable identifier from a document's location:
// <root>/2023/hello.md becomes 2023/hello, and a directory bundle
// <root>/hello/index.md becomes hello. Every segment is slugified so the
// identifier is URL-safe regardless of how the file was named.
func SlugFromPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	rel = filepath.ToSlash(rel)
	if base := filepath.Base(rel); base == "index" {
		rel = filepath.ToSlash(filepath.Dir(rel))
		if rel == "." {
			rel = "index"
		}
	}
	segments := strings.Split(rel, "/")
	for i, segment := range segments {
		segments[i] = Slugify(segment)
	}
	return strings.Join(segments, "/")
}
