package tagging

import (
	"reflect"
	"testing"
)

func TestNormalizeTag(t *testing.T) {
	if got := NormalizeTag("  Maintenance "); got != "maintenance" {
		t.Fatalf("unexpected normalization %q", got)
	}
	if got := NormalizeTag("   "); got != "" {
		t.Fatalf("blank tag should normalize to empty, got %q", got)
	}
}

func TestNormalizeTagList(t *testing.T) {
	got := NormalizeTagList([]string{"Outage", " outage ", "Custom-Tag", "", "forecast"})
	want := []string{"custom-tag", "forecast", "outage"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := NormalizeTagList(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestIsPredefined(t *testing.T) {
	for _, tag := range PredefinedTags() {
		if !IsPredefined(tag) {
			t.Fatalf("taxonomy tag %q not recognized", tag)
		}
	}
	if !IsPredefined("  OUTAGE ") {
		t.Fatal("predefined check must normalize first")
	}
	if IsPredefined("bespoke") {
		t.Fatal("custom tag must not count as predefined")
	}
}

func TestMerge(t *testing.T) {
	got := Merge([]string{"Bespoke", "outage"})
	want := []string{"bespoke", "forecast", "maintenance", "outage", "regulatory"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio("outage", "outage"); got != 100 {
		t.Fatalf("equal strings must score 100, got %d", got)
	}
	if got := Ratio("", ""); got != 100 {
		t.Fatalf("two empty strings must score 100, got %d", got)
	}
	if got := Ratio("abc", "xyz"); got != 0 {
		t.Fatalf("disjoint strings must score 0, got %d", got)
	}
	if got := Ratio("maintenence", "maintenance"); got <= similarityThreshold {
		t.Fatalf("one-letter typo should score above threshold, got %d", got)
	}
	// One edit over the longer length: 100 * 5/6, truncated.
	if got := Ratio("point", "points"); got != 83 {
		t.Fatalf("expected distance-over-length scoring, got %d", got)
	}
}

func TestSuggestSimilar(t *testing.T) {
	known := []string{"outage", "maintenance", "regulatory", "forecast"}

	got := SuggestSimilar("maintenence", known, 3)
	if len(got) != 1 || got[0] != "maintenance" {
		t.Fatalf("expected the typo to match maintenance, got %v", got)
	}

	if got := SuggestSimilar("outage", known, 3); len(got) != 0 {
		t.Fatalf("exact match must not suggest itself, got %v", got)
	}

	if got := SuggestSimilar("zzzz", known, 3); len(got) != 0 {
		t.Fatalf("unrelated tag must yield no suggestions, got %v", got)
	}

	if got := SuggestSimilar("maintenence", known, 0); got != nil {
		t.Fatalf("zero limit must yield nil, got %v", got)
	}
}

func TestSuggestSimilar_OrderAndLimit(t *testing.T) {
	known := []string{"points", "pointes", "pointz", "point"}

	got := SuggestSimilar("pointa", known, 2)
	if len(got) != 2 {
		t.Fatalf("expected the limit to cap suggestions, got %v", got)
	}
	first := Ratio("pointa", got[0])
	second := Ratio("pointa", got[1])
	if first < second {
		t.Fatalf("suggestions must be best match first, got %v", got)
	}
}
