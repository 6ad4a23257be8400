package httpapi

import (
	"net/http"
	"strings"
	"time"

	"gasmap/core-go/internal/catalog"
	"gasmap/core-go/internal/geojson"
	"gasmap/core-go/internal/projector"
)

type mapCounts struct {
	Markers  int `json:"markers"`
	Segments int `json:"segments"`
	Spokes   int `json:"spokes"`
}

type mapResponse struct {
	Filter   []string            `json:"filter"`
	Markers  []catalog.Point     `json:"markers"`
	Segments []projector.Segment `json:"segments"`
	Spokes   []projector.Spoke   `json:"spokes"`
	Counts   mapCounts           `json:"counts"`
	Guidance *string             `json:"guidance,omitempty"`
}

// parseListParam accepts repeated query params and comma-separated lists;
// blank values are dropped.
func parseListParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *Handler) project(r *http.Request) (projector.Projection, projector.CountryFilter) {
	filter := projector.NewCountryFilter(parseListParam(r.URL.Query()["countries"]))

	start := time.Now()
	proj := projector.Project(h.catalog.Points(), h.catalog.Links(), filter)
	h.metrics.ObserveProjection(len(proj.Markers), time.Since(start))

	return proj, filter
}

func (h *Handler) handleGetMap(w http.ResponseWriter, r *http.Request) {
	if !h.ensureCatalog(w) {
		return
	}

	proj, filter := h.project(r)

	resp := mapResponse{
		Filter:   filter.Values(),
		Markers:  proj.Markers,
		Segments: proj.Segments,
		Spokes:   proj.Spokes,
		Counts: mapCounts{
			Markers:  len(proj.Markers),
			Segments: len(proj.Segments),
			Spokes:   len(proj.Spokes),
		},
	}
	if resp.Filter == nil {
		resp.Filter = []string{}
	}

	if len(proj.Markers) == 0 {
		guidance := "No interconnector points match the selected countries."
		if h.catalog.Len() == 0 {
			guidance = "Catalog is empty; nothing to display."
		}
		resp.Guidance = &guidance
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetMapGeoJSON(w http.ResponseWriter, r *http.Request) {
	if !h.ensureCatalog(w) {
		return
	}

	proj, _ := h.project(r)
	h.writeJSON(w, http.StatusOK, geojson.FromProjection(proj))
}
