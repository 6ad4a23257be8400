// Package intel holds the market-intelligence entries attached to the gas
// network: who reported what, at which point, for which delivery period.
package intel

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"gasmap/core-go/internal/catalog"
	"gasmap/core-go/internal/tagging"
)

const (
	PointTypeVirtual       = "virtual_point"
	PointTypeCrossborder   = "crossborder_point"
	PointTypeStorage       = "storage"
	PointTypeEntireCountry = "entire_country"
)

// EntireCountryPointName is the fixed point name used for country-wide
// entries.
const EntireCountryPointName = "Entire Country"

var (
	// VirtualPoints and StoragePoints are the well-known point menus; custom
	// names are accepted alongside them.
	VirtualPoints = []string{"MGP", "AT-VTP"}
	StoragePoints = []string{"MMBF", "HEXUM"}

	CapacityUnits = []string{"kWh/h", "MWh/h", "GWh/h", "m3/h"}
	VolumeUnits   = []string{"MW", "MWh", "GW", "GWh"}
)

var validate = validator.New()

// Measurement is a non-negative value with a unit.
type Measurement struct {
	Value float64 `json:"value" validate:"gte=0"`
	Unit  string  `json:"unit" validate:"required"`
}

// Entry is one piece of market intelligence.
type Entry struct {
	ID           string       `json:"id"`
	Author       string       `json:"author" validate:"required"`
	Counterparty string       `json:"counterparty" validate:"required"`
	Country      string       `json:"country" validate:"required"`
	PointType    string       `json:"point_type" validate:"required"`
	PointName    string       `json:"point_name"`
	Period       string       `json:"period" validate:"required"`
	Info         string       `json:"info"`
	Capacity     *Measurement `json:"capacity,omitempty"`
	Volume       *Measurement `json:"volume,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Summary renders the one-line digest shown in entry listings.
func (e Entry) Summary() string {
	return fmt.Sprintf("%s at %s (%s) from %s on %s - source: %s",
		e.Info, e.PointName, e.PointType, e.Counterparty, e.Period, e.Author)
}

// Normalize canonicalizes the mutable parts of an entry before storage:
// tag list normalization and the fixed point name for country-wide entries.
func (e *Entry) Normalize() {
	e.Tags = tagging.NormalizeTagList(e.Tags)
	if e.PointType == PointTypeEntireCountry {
		e.PointName = EntireCountryPointName
	}
}

// Validate checks the entry against the data model: required fields, known
// point type, catalog country, known units, non-negative measurements.
func (e Entry) Validate() error {
	if err := validate.Struct(e); err != nil {
		if ferrs, ok := err.(validator.ValidationErrors); ok && len(ferrs) > 0 {
			f := ferrs[0]
			return fmt.Errorf("%s: failed %q validation", f.Field(), f.Tag())
		}
		return err
	}

	switch e.PointType {
	case PointTypeVirtual, PointTypeCrossborder, PointTypeStorage, PointTypeEntireCountry:
	default:
		return fmt.Errorf("PointType: unknown point type %q", e.PointType)
	}

	if e.PointType != PointTypeEntireCountry && e.PointName == "" {
		return fmt.Errorf("PointName: required for point type %q", e.PointType)
	}

	if _, ok := catalog.Centroid(e.Country); !ok {
		return fmt.Errorf("Country: %q is not a covered country", e.Country)
	}

	if e.Capacity != nil && !containsString(CapacityUnits, e.Capacity.Unit) {
		return fmt.Errorf("Capacity.Unit: unknown unit %q", e.Capacity.Unit)
	}
	if e.Volume != nil && !containsString(VolumeUnits, e.Volume.Unit) {
		return fmt.Errorf("Volume.Unit: unknown unit %q", e.Volume.Unit)
	}

	if !ValidPeriod(e.Period) {
		return fmt.Errorf("Period: %q is not a valid period", e.Period)
	}

	return nil
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
