// Package geojson converts map projections into GeoJSON for external
// map-drawing surfaces.
package geojson

import (
	"fmt"

	"gasmap/core-go/internal/catalog"
	"gasmap/core-go/internal/projector"
)

// FeatureCollection is a standard GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single geographic feature with geometry and properties.
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// Geometry holds either a Point ([lon, lat]) or a LineString
// ([[lon, lat], ...]). Exactly one of Coordinates/Line is set, matching the
// GeoJSON "coordinates" member for the given Type.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

func point(c catalog.Coordinate) Geometry {
	return Geometry{Type: "Point", Coordinates: []float64{c.Lon, c.Lat}}
}

func line(from, to catalog.Coordinate) Geometry {
	return Geometry{Type: "LineString", Coordinates: [][]float64{
		{from.Lon, from.Lat},
		{to.Lon, to.Lat},
	}}
}

// FromProjection renders a projection as a FeatureCollection: one Point
// feature per marker and per segment midpoint, one LineString per segment
// and per centroid spoke.
func FromProjection(p projector.Projection) FeatureCollection {
	features := make([]Feature, 0, len(p.Markers)+2*len(p.Segments)+len(p.Spokes))

	for _, m := range p.Markers {
		features = append(features, Feature{
			Type: "Feature",
			Properties: map[string]any{
				"kind":    "marker",
				"name":    m.Name,
				"country": m.Country,
				"tooltip": markerTooltip(m),
			},
			Geometry: point(m.Coordinate()),
		})
	}

	for _, s := range p.Segments {
		id := s.From.Name + "|" + s.To.Name
		features = append(features, Feature{
			Type: "Feature",
			Properties: map[string]any{
				"kind": "segment",
				"id":   id,
				"from": s.From.Name,
				"to":   s.To.Name,
			},
			Geometry: line(s.From.Coordinate(), s.To.Coordinate()),
		})
		features = append(features, Feature{
			Type: "Feature",
			Properties: map[string]any{
				"kind":    "midpoint",
				"segment": id,
			},
			Geometry: point(s.Midpoint),
		})
	}

	for _, sp := range p.Spokes {
		features = append(features, Feature{
			Type: "Feature",
			Properties: map[string]any{
				"kind":    "spoke",
				"country": sp.Country,
				"point":   sp.Point,
			},
			Geometry: line(sp.Origin, sp.Target),
		})
	}

	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

func markerTooltip(m catalog.Point) string {
	if m.Counterparty == "" {
		return fmt.Sprintf("%s (%s)", m.Name, m.Country)
	}
	return fmt.Sprintf("%s (%s - %s)", m.Name, m.Country, m.Counterparty)
}
