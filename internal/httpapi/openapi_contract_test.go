package httpapi

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"gasmap/core-go/internal/intel"
)

var httpMethods = map[string]struct{}{
	http.MethodGet: {}, http.MethodPost: {}, http.MethodPut: {},
	http.MethodPatch: {}, http.MethodDelete: {}, http.MethodHead: {},
	http.MethodOptions: {},
}

// The router and api/openapi.yaml must describe the same API surface; any
// route added to one without the other fails here.
func TestRouterMatchesOpenAPI(t *testing.T) {
	spec := specRoutes(t)
	router := routerRoutes(t)

	var drift []string
	for _, missing := range sortedDiff(spec, router) {
		drift = append(drift, "documented but not routed: "+missing)
	}
	for _, extra := range sortedDiff(router, spec) {
		drift = append(drift, "routed but not documented: "+extra)
	}
	if len(drift) > 0 {
		t.Fatalf("router and api/openapi.yaml disagree:\n  %s", strings.Join(drift, "\n  "))
	}
}

// specRoutes reads METHOD+path pairs out of api/openapi.yaml. Paths there are
// rooted at /v1 with servers.url=/api, so /api is prepended to compare
// against the router.
func specRoutes(t *testing.T) map[string]struct{} {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	specPath := filepath.Join(filepath.Dir(thisFile), "..", "..", "api", "openapi.yaml")

	raw, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatalf("read %q: %v", specPath, err)
	}
	var doc struct {
		Paths map[string]map[string]any `yaml:"paths"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("parse %q: %v", specPath, err)
	}

	out := make(map[string]struct{})
	for path, ops := range doc.Paths {
		for op := range ops {
			method := strings.ToUpper(op)
			if _, ok := httpMethods[method]; !ok {
				continue
			}
			out[method+" "+trimRoute("/api"+path)] = struct{}{}
		}
	}
	return out
}

// routerRoutes walks the chi mux and collects every /api route.
func routerRoutes(t *testing.T) map[string]struct{} {
	t.Helper()

	h := NewHandler(zerolog.New(io.Discard), nil, intel.NewStore(), nil)
	mux, ok := h.Router().(*chi.Mux)
	if !ok {
		t.Fatalf("expected *chi.Mux from Handler.Router(), got %T", h.Router())
	}

	out := make(map[string]struct{})
	walker := func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if _, ok := httpMethods[method]; !ok {
			return nil
		}
		route = trimRoute(route)
		if strings.HasPrefix(route, "/api/") {
			out[method+" "+route] = struct{}{}
		}
		return nil
	}
	if err := chi.Walk(mux, walker); err != nil {
		t.Fatalf("walk chi router: %v", err)
	}
	return out
}

func trimRoute(route string) string {
	if len(route) > 1 {
		return strings.TrimSuffix(route, "/")
	}
	return route
}

func sortedDiff(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
