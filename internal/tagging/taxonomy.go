package tagging

import (
	"sort"
	"strings"
)

const (
	TagOutage      = "outage"
	TagMaintenance = "maintenance"
	TagRegulatory  = "regulatory"
	TagForecast    = "forecast"
)

var predefinedTags = []string{
	TagOutage,
	TagMaintenance,
	TagRegulatory,
	TagForecast,
}

// PredefinedTags returns the built-in tag taxonomy.
func PredefinedTags() []string {
	out := make([]string, len(predefinedTags))
	copy(out, predefinedTags)
	return out
}

// IsPredefined reports whether a tag belongs to the built-in taxonomy.
func IsPredefined(tag string) bool {
	tag = NormalizeTag(tag)
	for _, t := range predefinedTags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeTag canonicalizes a tag for storage and comparison.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTagList normalizes and deduplicates tags. Custom tags are kept as
// long as they are non-empty after normalization. The result is sorted.
func NormalizeTagList(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		t := NormalizeTag(raw)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Merge combines the taxonomy with tags already in use, normalized and
// sorted, for filter menus.
func Merge(inUse []string) []string {
	return NormalizeTagList(append(PredefinedTags(), inUse...))
}
