package post

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("post: missing frontmatter")
	// ErrMalformedFrontMatter indicates the metadata block could not be parsed
	// or is missing a required key.
	ErrMalformedFrontMatter = errors.New("post: malformed frontmatter")
)

// timeLayout is the timestamp format required in front matter: ISO-8601
// with an explicit UTC offset. Offset-less dates do not parse.
const timeLayout = "2006-01-02T15:04:05Z07:00"

// SplitFrontMatter separates the raw YAML metadata block from the body of a
// document that starts with `---` fences. CRLF input is normalized.
func SplitFrontMatter(content []byte) (metaBytes, body []byte, err error) {
	if len(content) == 0 {
		return nil, nil, ErrMissingFrontMatter
	}
	normalized := normalizeNewlines(content)
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, nil, ErrMissingFrontMatter
	}
	rest := normalized[4:]
	parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
	if len(parts) < 2 {
		return nil, nil, fmt.Errorf("%w: unterminated fence", ErrMalformedFrontMatter)
	}
	return parts[0], parts[1], nil
}

// ParseFrontMatter extracts the metadata block and body from a document that
// starts with `---` YAML fences. Parsing is pure: the same bytes always
// produce the same metadata and body.
func ParseFrontMatter(content []byte) (Meta, []byte, error) {
	metaBytes, body, err := SplitFrontMatter(content)
	if err != nil {
		return Meta{}, nil, err
	}
	var fm frontMatter
	if err := yaml.Unmarshal(metaBytes, &fm); err != nil {
		return Meta{}, nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	meta, err := fm.toMeta()
	if err != nil {
		return Meta{}, nil, err
	}
	return meta, body, nil
}

// WriteFrontMatter renders metadata + body with YAML fences. It refuses
// metadata that would not survive a round trip through ParseFrontMatter.
func WriteFrontMatter(meta Meta, body []byte) ([]byte, error) {
	if err := validateMeta(meta); err != nil {
		return nil, err
	}
	fm := frontMatter{}
	fm.fromMeta(meta)
	data, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("post: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// frontMatter is the YAML shape of the metadata block. Date stays a string
// during decoding so the offset requirement can be enforced explicitly.
type frontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Authors []string `yaml:"authors"`
	Tags    []string `yaml:"tags,omitempty"`
	Summary string   `yaml:"summary,omitempty"`
	Draft   bool     `yaml:"draft,omitempty"`
}

func (f frontMatter) toMeta() (Meta, error) {
	if strings.TrimSpace(f.Title) == "" {
		return Meta{}, fmt.Errorf("%w: title is required", ErrMalformedFrontMatter)
	}
	date, err := ParseDate(f.Date)
	if err != nil {
		return Meta{}, err
	}
	if len(f.Authors) == 0 {
		return Meta{}, fmt.Errorf("%w: authors is required", ErrMalformedFrontMatter)
	}
	authors := make([]string, 0, len(f.Authors))
	for i, author := range f.Authors {
		if strings.TrimSpace(author) == "" {
			return Meta{}, fmt.Errorf("%w: authors[%d] is empty", ErrMalformedFrontMatter, i)
		}
		authors = append(authors, author)
	}
	return Meta{
		Title:   f.Title,
		Date:    date,
		Authors: authors,
		Tags:    append([]string(nil), f.Tags...),
		Summary: f.Summary,
		Draft:   f.Draft,
	}, nil
}

func (f *frontMatter) fromMeta(meta Meta) {
	f.Title = meta.Title
	f.Date = meta.Date.Format(timeLayout)
	f.Authors = append([]string(nil), meta.Authors...)
	f.Tags = append([]string(nil), meta.Tags...)
	f.Summary = meta.Summary
	f.Draft = meta.Draft
}

func validateMeta(meta Meta) error {
	if strings.TrimSpace(meta.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrMalformedFrontMatter)
	}
	if meta.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrMalformedFrontMatter)
	}
	if len(meta.Authors) == 0 {
		return fmt.Errorf("%w: authors is required", ErrMalformedFrontMatter)
	}
	for i, author := range meta.Authors {
		if strings.TrimSpace(author) == "" {
			return fmt.Errorf("%w: authors[%d] is empty", ErrMalformedFrontMatter, i)
		}
	}
	return nil
}

// ParseDate requires an explicit UTC offset and keeps it as authored
// instead of normalizing to UTC, so a post written at +02:00 renders with
// its local publication time.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrMalformedFrontMatter)
	}
	t, err := time.Parse(timeLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be ISO-8601 with a UTC offset", ErrMalformedFrontMatter, trimmed)
	}
	return t, nil
}

func normalizeNewlines(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
