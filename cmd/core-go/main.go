package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gasmap/core-go/internal/catalog"
	"gasmap/core-go/internal/httpapi"
	"gasmap/core-go/internal/intel"
	"gasmap/core-go/internal/metrics"
)

func main() {
	addr := envOr("HTTP_ADDR", ":8081")
	logLevel := envOr("LOG_LEVEL", "info")
	catalogPath := envOr("CATALOG_PATH", "")
	linksPath := envOr("LINKS_PATH", "")

	logger := httpapi.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.LoadFiles(logger, catalogPath, linksPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load interconnector catalog")
	}
	if cat.Len() == 0 {
		logger.Warn().Msg("catalog is empty; map will render the nothing-to-display state")
	}
	logger.Info().Int("points", cat.Len()).Int("links", len(cat.Links())).Msg("catalog loaded")

	m := metrics.New()
	h := httpapi.NewHandler(logger, cat, intel.NewStore(), m)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("gasmap-core listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info().Msg("shutdown complete")
}

func envOr(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
