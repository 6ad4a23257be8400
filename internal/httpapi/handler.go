package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"gasmap/core-go/internal/catalog"
	"gasmap/core-go/internal/intel"
	"gasmap/core-go/internal/metrics"
	"gasmap/core-go/internal/webui"
)

type Handler struct {
	log     zerolog.Logger
	catalog *catalog.Catalog
	entries *intel.Store
	metrics *metrics.Metrics
}

func NewHandler(log zerolog.Logger, cat *catalog.Catalog, entries *intel.Store, m *metrics.Metrics) *Handler {
	if entries == nil {
		entries = intel.NewStore()
	}
	return &Handler{log: log, catalog: cat, entries: entries, metrics: m}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(h.accessLog)

	// Health
	r.Get("/healthz", h.handleHealthz)
	r.Get("/readyz", h.handleReadyZ)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	// API
	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/map", func(r chi.Router) {
				r.Get("/", h.handleGetMap)
				r.Get("/geojson", h.handleGetMapGeoJSON)
			})

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/points", h.handleListPoints)
				r.Get("/countries", h.handleListCountries)
			})

			r.Route("/entries", func(r chi.Router) {
				r.Get("/", h.handleListEntries)
				r.Post("/", h.handleCreateEntry)
				r.Get("/export", h.handleExportEntries)
				r.Get("/history", h.handleEntryHistory)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.handleGetEntry)
					r.Put("/", h.handleUpdateEntry)
					r.Delete("/", h.handleDeleteEntry)
				})
			})

			r.Get("/tags", h.handleListTags)
			r.Get("/periods", h.handleListPeriods)
		})
	})

	// Dashboard shell.
	r.Handle("/*", http.FileServerFS(webui.Assets()))

	return r
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		h.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", elapsed.Milliseconds()).
			Msg("http_request")

		// Metric labels use the chi route pattern to keep cardinality bounded.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		h.metrics.ObserveHTTPRequest(r.Method, path, ww.Status(), elapsed)
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, msg string, details map[string]any) {
	resp := map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	}
	if details != nil {
		resp["error"].(map[string]any)["details"] = details
	}
	h.writeJSON(w, status, resp)
}

func decodeJSONStrict(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("unexpected extra data after JSON body")
		}
		return err
	}
	return nil
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleReadyZ(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		h.writeError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog not loaded", nil)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ready": true, "points": h.catalog.Len()})
}

func (h *Handler) ensureCatalog(w http.ResponseWriter) bool {
	if h.catalog == nil {
		h.writeError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog not loaded", nil)
		return false
	}
	return true
}
