package intel

import (
	"strings"

	"gasmap/core-go/internal/tagging"
)

// Filter narrows an entry listing. Zero-value fields are inert; set fields
// combine as AND, mirroring the hierarchical filter panel of the dashboard.
type Filter struct {
	Counterparty string
	PointType    string
	PointName    string
	Tags         []string
	Search       string
}

// Matches reports whether an entry passes the filter.
func (f Filter) Matches(e Entry) bool {
	if f.Counterparty != "" && !strings.EqualFold(f.Counterparty, e.Counterparty) {
		return false
	}
	if f.PointType != "" && f.PointType != e.PointType {
		return false
	}
	if f.PointName != "" && !strings.EqualFold(f.PointName, e.PointName) {
		return false
	}

	if len(f.Tags) > 0 {
		want := tagging.NormalizeTagList(f.Tags)
		if !anyTagMatch(want, e.Tags) {
			return false
		}
	}

	if f.Search != "" && !searchMatches(f.Search, e) {
		return false
	}

	return true
}

func anyTagMatch(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

// searchMatches scans every user-visible field, case-insensitively.
func searchMatches(needle string, e Entry) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	fields := []string{
		e.Info,
		e.Country,
		e.PointName,
		e.PointType,
		e.Counterparty,
		e.Period,
		e.Author,
		strings.Join(e.Tags, ","),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
