package catalog

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed data/interconnectors.csv data/links.yaml
var defaultData embed.FS

var validate = validator.New()

// Coordinate is a WGS84 position.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point is one gas interconnector point. Identity is Name. Country is the
// side of the border the point belongs to; Counterparty is the network on the
// other side.
type Point struct {
	Name         string  `json:"name" validate:"required"`
	Country      string  `json:"country" validate:"required"`
	Counterparty string  `json:"counterparty,omitempty"`
	Lat          float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon          float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Coordinate returns the point position.
func (p Point) Coordinate() Coordinate {
	return Coordinate{Lat: p.Lat, Lon: p.Lon}
}

// Link is a physical connection between two catalog points, identified by
// their names. The topology is configuration data, never inferred.
type Link struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Catalog is the immutable set of interconnector points and links. It is
// constructed once at startup and passed to consumers explicitly.
type Catalog struct {
	points    []Point
	links     []Link
	byName    map[string]Point
	countries []string
}

type linksFile struct {
	Links []Link `yaml:"links"`
}

// LoadDefault builds the catalog from the data files embedded in the binary.
func LoadDefault(log zerolog.Logger) (*Catalog, error) {
	points, err := defaultData.Open("data/interconnectors.csv")
	if err != nil {
		return nil, err
	}
	defer points.Close()

	links, err := defaultData.Open("data/links.yaml")
	if err != nil {
		return nil, err
	}
	defer links.Close()

	return Load(log, points, links)
}

// LoadFiles builds the catalog from override files on disk. An empty path
// falls back to the embedded default for that file.
func LoadFiles(log zerolog.Logger, pointsPath, linksPath string) (*Catalog, error) {
	openOr := func(path, embedded string) (io.ReadCloser, error) {
		if strings.TrimSpace(path) == "" {
			f, err := defaultData.Open(embedded)
			if err != nil {
				return nil, err
			}
			return f, nil
		}
		return os.Open(path)
	}

	points, err := openOr(pointsPath, "data/interconnectors.csv")
	if err != nil {
		return nil, err
	}
	defer points.Close()

	links, err := openOr(linksPath, "data/links.yaml")
	if err != nil {
		return nil, err
	}
	defer links.Close()

	return Load(log, points, links)
}

// Load parses the interconnector CSV and link topology YAML. Malformed rows
// are skipped with a warning; they never abort the load. Links that name an
// unknown point are rejected.
func Load(log zerolog.Logger, pointsCSV, linksYAML io.Reader) (*Catalog, error) {
	points, err := parsePoints(log, pointsCSV)
	if err != nil {
		return nil, fmt.Errorf("parse interconnector catalog: %w", err)
	}

	raw, err := io.ReadAll(linksYAML)
	if err != nil {
		return nil, fmt.Errorf("read link topology: %w", err)
	}
	var lf linksFile
	if err := yaml.Unmarshal(raw, &lf); err != nil {
		return nil, fmt.Errorf("parse link topology: %w", err)
	}

	return New(points, lf.Links)
}

// New builds a catalog from already-parsed records. Points failing the
// coordinate invariants are rejected here rather than skipped; loaders filter
// before calling.
func New(points []Point, links []Link) (*Catalog, error) {
	byName := make(map[string]Point, len(points))
	for _, p := range points {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("point %q: %w", p.Name, err)
		}
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate point name %q", p.Name)
		}
		byName[p.Name] = p
	}

	for _, l := range links {
		if _, ok := byName[l.From]; !ok {
			return nil, fmt.Errorf("link references unknown point %q", l.From)
		}
		if _, ok := byName[l.To]; !ok {
			return nil, fmt.Errorf("link references unknown point %q", l.To)
		}
		if l.From == l.To {
			return nil, fmt.Errorf("link %q connects a point to itself", l.From)
		}
	}

	countrySet := make(map[string]struct{})
	for _, p := range points {
		countrySet[p.Country] = struct{}{}
		if p.Counterparty != "" {
			countrySet[p.Counterparty] = struct{}{}
		}
	}
	countries := make([]string, 0, len(countrySet))
	for c := range countrySet {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	sorted := append([]Point(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	return &Catalog{
		points:    sorted,
		links:     append([]Link(nil), links...),
		byName:    byName,
		countries: countries,
	}, nil
}

func parsePoints(log zerolog.Logger, r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "country", "lat", "lon"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("catalog csv missing %q column", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []Point
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		p := Point{
			Name:         field(row, "name"),
			Country:      field(row, "country"),
			Counterparty: field(row, "counterparty"),
		}

		lat, latErr := strconv.ParseFloat(field(row, "lat"), 64)
		lon, lonErr := strconv.ParseFloat(field(row, "lon"), 64)
		if p.Name == "" || p.Country == "" || latErr != nil || lonErr != nil {
			log.Warn().Strs("row", row).Msg("skipping malformed catalog row")
			continue
		}
		p.Lat = lat
		p.Lon = lon

		if err := validate.Struct(p); err != nil {
			log.Warn().Str("point", p.Name).Err(err).Msg("skipping catalog row with out-of-range coordinates")
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Points returns the catalog points sorted by name. The returned slice is a
// copy; the catalog itself never mutates.
func (c *Catalog) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// Links returns the configured link topology.
func (c *Catalog) Links() []Link {
	out := make([]Link, len(c.links))
	copy(out, c.links)
	return out
}

// Lookup returns the point with the given name.
func (c *Catalog) Lookup(name string) (Point, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Countries returns the sorted distinct union of Country and Counterparty
// values across the catalog.
func (c *Catalog) Countries() []string {
	out := make([]string, len(c.countries))
	copy(out, c.countries)
	return out
}

// Len reports how many points the catalog holds.
func (c *Catalog) Len() int {
	return len(c.points)
}
