package catalog

import "sort"

// Country centroids used as the origin of spoke lines on the rendered map.
// Values match the dashboard's original middle-point table.
var centroids = map[string]Coordinate{
	"Turkey":   {Lat: 39.0, Lon: 35.2},
	"Bulgaria": {Lat: 42.8, Lon: 25.3},
	"Romania":  {Lat: 45.9, Lon: 24.9},
	"Greece":   {Lat: 39.1, Lon: 22.9},
	"Serbia":   {Lat: 44.0, Lon: 20.5},
	"Hungary":  {Lat: 47.2, Lon: 19.5},
	"Croatia":  {Lat: 45.1, Lon: 15.6},
	"Slovenia": {Lat: 46.1, Lon: 14.8},
	"Austria":  {Lat: 47.5, Lon: 14.6},
	"Slovakia": {Lat: 48.7, Lon: 19.7},
	"Ukraine":  {Lat: 48.4, Lon: 31.0},
	"Moldova":  {Lat: 47.0, Lon: 28.8},
}

// Centroid returns the map centroid for a country, when one is defined.
func Centroid(country string) (Coordinate, bool) {
	c, ok := centroids[country]
	return c, ok
}

// CentroidCountries returns the countries with a defined centroid, sorted.
// These are the countries market-intelligence entries can be filed under.
func CentroidCountries() []string {
	out := make([]string, 0, len(centroids))
	for c := range centroids {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
