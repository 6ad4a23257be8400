// Package projector turns the interconnector catalog and a country filter
// into renderable map geometry. It is a pure transform: no state, no side
// effects, identical inputs always produce identical output.
package projector

import (
	"sort"
	"strings"

	"gasmap/core-go/internal/catalog"
)

// CountryFilter is a set of country names. The empty filter means "show all".
// Matching is case-insensitive and ignores surrounding whitespace.
type CountryFilter struct {
	set map[string]struct{}
}

// NewCountryFilter builds a filter from raw selection values. Blank values
// are dropped; values that match no catalog country are inert, not an error.
func NewCountryFilter(countries []string) CountryFilter {
	set := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		set[c] = struct{}{}
	}
	return CountryFilter{set: set}
}

// Empty reports whether the filter selects everything.
func (f CountryFilter) Empty() bool {
	return len(f.set) == 0
}

// Matches reports whether a country passes the filter. An empty filter
// matches every country.
func (f CountryFilter) Matches(country string) bool {
	if f.Empty() {
		return true
	}
	_, ok := f.set[strings.ToLower(strings.TrimSpace(country))]
	return ok
}

// Values returns the normalized filter values, sorted.
func (f CountryFilter) Values() []string {
	out := make([]string, 0, len(f.set))
	for c := range f.set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Segment is a rendered line between two markers with its midpoint
// annotation. The midpoint is the coordinate-wise mean of the endpoints.
type Segment struct {
	From     catalog.Point      `json:"from"`
	To       catalog.Point      `json:"to"`
	Midpoint catalog.Coordinate `json:"midpoint"`
}

// Spoke is a line from a country centroid to a marker, mirroring how the
// dashboard draws each interconnector against the networks it joins.
type Spoke struct {
	Country string             `json:"country"`
	Origin  catalog.Coordinate `json:"origin"`
	Point   string             `json:"point"`
	Target  catalog.Coordinate `json:"target"`
}

// Projection is the renderable layer handed to the map-drawing surface.
type Projection struct {
	Markers  []catalog.Point `json:"markers"`
	Segments []Segment       `json:"segments"`
	Spokes   []Spoke         `json:"spokes"`
}

// Project selects the markers whose country passes the filter, the link
// segments whose endpoints both pass, and the centroid spokes for every
// selected marker. Points with out-of-range coordinates are skipped rather
// than rendered; the catalog validates at construction, so this only guards
// callers projecting hand-built slices.
func Project(points []catalog.Point, links []catalog.Link, filter CountryFilter) Projection {
	markers := make([]catalog.Point, 0, len(points))
	selected := make(map[string]catalog.Point, len(points))
	for _, p := range points {
		if !validCoordinates(p) {
			continue
		}
		if !filter.Matches(p.Country) {
			continue
		}
		if _, dup := selected[p.Name]; dup {
			continue
		}
		selected[p.Name] = p
		markers = append(markers, p)
	}
	sort.SliceStable(markers, func(i, j int) bool { return markers[i].Name < markers[j].Name })

	segments := make([]Segment, 0, len(links))
	for _, l := range links {
		from, okFrom := selected[l.From]
		to, okTo := selected[l.To]
		if !okFrom || !okTo {
			continue
		}
		segments = append(segments, Segment{
			From: from,
			To:   to,
			Midpoint: catalog.Coordinate{
				Lat: (from.Lat + to.Lat) / 2,
				Lon: (from.Lon + to.Lon) / 2,
			},
		})
	}
	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].From.Name != segments[j].From.Name {
			return segments[i].From.Name < segments[j].From.Name
		}
		return segments[i].To.Name < segments[j].To.Name
	})

	spokes := make([]Spoke, 0, 2*len(markers))
	for _, m := range markers {
		for _, country := range []string{m.Country, m.Counterparty} {
			origin, ok := catalog.Centroid(country)
			if !ok {
				continue
			}
			spokes = append(spokes, Spoke{
				Country: country,
				Origin:  origin,
				Point:   m.Name,
				Target:  m.Coordinate(),
			})
		}
	}
	sort.SliceStable(spokes, func(i, j int) bool {
		if spokes[i].Point != spokes[j].Point {
			return spokes[i].Point < spokes[j].Point
		}
		return spokes[i].Country < spokes[j].Country
	})

	return Projection{Markers: markers, Segments: segments, Spokes: spokes}
}

func validCoordinates(p catalog.Point) bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}
