package tagging

import (
	"sort"

	"github.com/agext/levenshtein"
)

const similarityThreshold = 70

// SuggestSimilar returns known tags that look like the typed tag, best match
// first, up to limit. A suggestion counts when the similarity ratio exceeds
// 70 and the match is not the tag itself.
func SuggestSimilar(tag string, known []string, limit int) []string {
	tag = NormalizeTag(tag)
	if tag == "" || limit <= 0 {
		return nil
	}

	type scored struct {
		tag   string
		ratio int
	}
	var matches []scored
	seen := make(map[string]struct{}, len(known))
	for _, raw := range known {
		candidate := NormalizeTag(raw)
		if candidate == "" || candidate == tag {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}

		if r := Ratio(tag, candidate); r > similarityThreshold {
			matches = append(matches, scored{tag: candidate, ratio: r})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].ratio != matches[j].ratio {
			return matches[i].ratio > matches[j].ratio
		}
		return matches[i].tag < matches[j].tag
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.tag)
	}
	return out
}

// Ratio is a 0-100 similarity score between two strings: edit distance over
// the longer length. Equal strings score 100.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	return int(100 * levenshtein.Similarity(a, b, nil))
}
