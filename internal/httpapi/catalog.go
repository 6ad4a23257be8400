package httpapi

import (
	"net/http"

	"gasmap/core-go/internal/catalog"
)

func (h *Handler) handleListPoints(w http.ResponseWriter, r *http.Request) {
	if !h.ensureCatalog(w) {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"points": h.catalog.Points(),
		"links":  h.catalog.Links(),
	})
}

func (h *Handler) handleListCountries(w http.ResponseWriter, r *http.Request) {
	if !h.ensureCatalog(w) {
		return
	}
	// "covered" drives the entry form's country menu; only countries with a
	// map centroid can carry intelligence entries.
	h.writeJSON(w, http.StatusOK, map[string]any{
		"countries": h.catalog.Countries(),
		"covered":   catalog.CentroidCountries(),
	})
}
