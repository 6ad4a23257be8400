package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"gasmap/core-go/internal/intel"
	"gasmap/core-go/internal/tagging"
)

type entryPayload struct {
	Author       string             `json:"author"`
	Counterparty string             `json:"counterparty"`
	Country      string             `json:"country"`
	PointType    string             `json:"point_type"`
	PointName    string             `json:"point_name"`
	Period       string             `json:"period"`
	Info         string             `json:"info"`
	Capacity     *intel.Measurement `json:"capacity,omitempty"`
	Volume       *intel.Measurement `json:"volume,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
}

func (p entryPayload) toEntry() intel.Entry {
	return intel.Entry{
		Author:       strings.TrimSpace(p.Author),
		Counterparty: strings.TrimSpace(p.Counterparty),
		Country:      strings.TrimSpace(p.Country),
		PointType:    strings.TrimSpace(p.PointType),
		PointName:    strings.TrimSpace(p.PointName),
		Period:       strings.TrimSpace(p.Period),
		Info:         strings.TrimSpace(p.Info),
		Capacity:     p.Capacity,
		Volume:       p.Volume,
		Tags:         p.Tags,
	}
}

type entryResponse struct {
	intel.Entry
	Summary string `json:"summary"`
}

func toEntryResponse(e intel.Entry) entryResponse {
	return entryResponse{Entry: e, Summary: e.Summary()}
}

func (h *Handler) writeEntryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, intel.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not_found", "entry not found", nil)
	case errors.Is(err, intel.ErrDuplicate):
		h.writeError(w, http.StatusConflict, "duplicate_entry", "an entry for this point, period and counterparty already exists", nil)
	default:
		h.writeError(w, http.StatusBadRequest, "validation_failed", err.Error(), nil)
	}
}

func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := intel.Filter{
		Counterparty: strings.TrimSpace(q.Get("counterparty")),
		PointType:    strings.TrimSpace(q.Get("point_type")),
		PointName:    strings.TrimSpace(q.Get("point_name")),
		Tags:         parseListParam(q["tags"]),
		Search:       strings.TrimSpace(q.Get("q")),
	}

	entries := h.entries.List(filter)
	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toEntryResponse(e))
	}

	// "counterparties" spans the whole store, not just the filtered page; it
	// feeds the filter panel's counterparty menu.
	h.writeJSON(w, http.StatusOK, map[string]any{
		"entries":        resp,
		"count":          len(resp),
		"counterparties": h.entries.Counterparties(),
	})
}

func (h *Handler) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryPayload
	if err := decodeJSONStrict(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid json body", map[string]any{"error": err.Error()})
		return
	}

	created, err := h.entries.Create(req.toEntry())
	if err != nil {
		h.writeEntryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toEntryResponse(created))
}

func (h *Handler) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := h.entries.Get(id)
	if err != nil {
		h.writeEntryError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEntryResponse(e))
}

func (h *Handler) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req entryPayload
	if err := decodeJSONStrict(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid json body", map[string]any{"error": err.Error()})
		return
	}

	updated, err := h.entries.Update(id, req.toEntry())
	if err != nil {
		h.writeEntryError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEntryResponse(updated))
}

func (h *Handler) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	author := strings.TrimSpace(r.URL.Query().Get("author"))

	deleted, err := h.entries.Delete(id, author)
	if err != nil {
		h.writeEntryError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEntryResponse(deleted))
}

func (h *Handler) handleEntryHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimitParam(r.URL.Query().Get("limit"), 50, 500)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid limit", map[string]any{"error": err.Error()})
		return
	}

	records := h.entries.History(limit)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"history": records,
		"count":   len(records),
	})
}

func (h *Handler) handleExportEntries(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("gas_snapshot_%s.csv", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	if err := h.entries.ExportCSV(w); err != nil {
		h.log.Error().Err(err).Msg("entries export failed")
	}
}

func (h *Handler) handleListTags(w http.ResponseWriter, r *http.Request) {
	inUse := h.entries.TagsInUse()
	resp := map[string]any{
		"predefined": tagging.PredefinedTags(),
		"in_use":     inUse,
		"all":        tagging.Merge(inUse),
	}

	if typed := strings.TrimSpace(r.URL.Query().Get("similar_to")); typed != "" {
		suggestions := tagging.SuggestSimilar(typed, tagging.Merge(inUse), 3)
		if suggestions == nil {
			suggestions = []string{}
		}
		resp["suggestions"] = suggestions
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2099 {
			h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid year", map[string]any{"year": raw})
			return
		}
		year = parsed
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"codes": intel.Codes(year, 3),
	})
}

func parseLimitParam(value string, fallback, max int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New("invalid value")
	}
	if parsed <= 0 {
		return 0, errors.New("must be positive")
	}
	if parsed > max {
		parsed = max
	}
	return parsed, nil
}
