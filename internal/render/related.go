package render

import (
	"sort"
	"strings"

	"github.com/hollowpine/inkwell/internal/post"
)

// Scoring weights: an explicit shared tag is a stronger signal than a
// shared author, which in a mostly single-author blog says little.
const (
	sharedTagScore    = 4
	sharedTitleScore  = 2
	sharedAuthorScore = 1
)

// titleStopwords are tokens too common to indicate relatedness.
var titleStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "for": {}, "how": {}, "in": {},
	"is": {}, "of": {}, "on": {}, "the": {}, "to": {}, "with": {},
}

// Related picks up to n published posts most similar to p, scored by shared
// tags, title token overlap, and shared authors. The result is
// deterministic: ties break by date (newer first) and then slug. p itself
// and drafts never appear.
func Related(p *post.Post, candidates []*post.Post, n int) []*post.Post {
	if p == nil || n <= 0 {
		return nil
	}
	tags := toSet(p.Meta.Tags, strings.ToLower)
	authors := toSet(p.Meta.Authors, nil)
	titleTokens := titleTokenSet(p.Meta.Title)

	type scored struct {
		post  *post.Post
		score int
	}
	var ranked []scored
	for _, candidate := range candidates {
		if candidate == nil || candidate.Slug == p.Slug || !candidate.Published() {
			continue
		}
		score := 0
		for _, tag := range candidate.Meta.Tags {
			if _, ok := tags[strings.ToLower(tag)]; ok {
				score += sharedTagScore
			}
		}
		for token := range titleTokenSet(candidate.Meta.Title) {
			if _, ok := titleTokens[token]; ok {
				score += sharedTitleScore
			}
		}
		for _, author := range candidate.Meta.Authors {
			if _, ok := authors[author]; ok {
				score += sharedAuthorScore
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{post: candidate, score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		di, dj := ranked[i].post.Meta.Date, ranked[j].post.Meta.Date
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return ranked[i].post.Slug < ranked[j].post.Slug
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]*post.Post, len(ranked))
	for i, entry := range ranked {
		out[i] = entry.post
	}
	return out
}

func titleTokenSet(title string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, token := range strings.Fields(strings.ToLower(title)) {
		token = strings.Trim(token, `.,:;!?"'()[]`)
		if len(token) < 2 {
			continue
		}
		if _, stop := titleStopwords[token]; stop {
			continue
		}
		out[token] = struct{}{}
	}
	return out
}

func toSet(values []string, normalize func(string) string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if normalize != nil {
			v = normalize(v)
		}
		out[v] = struct{}{}
	}
	return out
}
