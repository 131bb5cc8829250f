// cmd/ingest/main.go
//
// Standalone ingest server for the forecast pipeline's output files.
// The pipeline POSTs fresh CSVs here; they are written to the data
// directory and mirrored to object storage when one is configured. The
// API server picks them up on its next dataset sync.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/alkhair/demand-analytics/internal/cache"
	"github.com/alkhair/demand-analytics/internal/config"
	"github.com/alkhair/demand-analytics/internal/storage"
	"github.com/alkhair/demand-analytics/pkg/logger"
)

const maxUploadBytes = 256 << 20

type ingestServer struct {
	cfg              *config.Config
	objectStore      storage.ObjectStorage
	marketShareCache cache.MarketShareCache
	orderCache       cache.OrderCache
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	srv := &ingestServer{cfg: cfg}
	if cfg.Storage.Endpoint != "" {
		objectStore, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect object storage")
		}
		srv.objectStore = objectStore
	}

	// The API server caches derived results in redis; drop them when
	// fresh data arrives so it never serves stale breakdowns.
	if cfg.Cache.Enabled {
		marketShareCache, err := cache.NewMarketShareCache(cfg.Cache)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect cache")
		}
		orderCache, err := cache.NewOrderCache(cfg.Cache)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect cache")
		}
		srv.marketShareCache = marketShareCache
		srv.orderCache = orderCache
	}

	r := mux.NewRouter()
	r.HandleFunc("/ingest/upload/{kind}", srv.handleUpload).Methods("POST")
	r.HandleFunc("/ingest/refresh", srv.handleRefresh).Methods("POST")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Log.Info().Str("addr", addr).Msg("Ingest server starting")
	logger.Log.Fatal().Err(http.ListenAndServe(addr, r)).Msg("Ingest server stopped")
}

// datasetFile maps an upload kind onto its configured filename.
func (s *ingestServer) datasetFile(kind string) (string, bool) {
	switch kind {
	case "weekly":
		return s.cfg.Data.WeeklyFile, s.cfg.Data.WeeklyFile != ""
	case "daily":
		return s.cfg.Data.DailyFile, s.cfg.Data.DailyFile != ""
	case "predictions":
		return s.cfg.Data.PredictionsFile, s.cfg.Data.PredictionsFile != ""
	}
	return "", false
}

func (s *ingestServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	name, ok := s.datasetFile(kind)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown dataset kind %q", kind), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		http.Error(w, "empty upload", http.StatusBadRequest)
		return
	}

	dest := filepath.Join(s.cfg.Data.Dir, name)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		http.Error(w, "failed to prepare data directory", http.StatusInternalServerError)
		return
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		logger.Log.Error().Err(err).Str("dest", dest).Msg("Failed to write upload")
		http.Error(w, "failed to store upload", http.StatusInternalServerError)
		return
	}

	if s.objectStore != nil {
		if err := s.objectStore.UploadObject(r.Context(), name, body); err != nil {
			logger.Log.Error().Err(err).Str("object", name).Msg("Failed to mirror upload")
			http.Error(w, "stored locally but failed to mirror to object storage", http.StatusBadGateway)
			return
		}
	}

	s.invalidateCaches(r)

	logger.Log.Info().Str("kind", kind).Int("bytes", len(body)).Msg("Dataset file ingested")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "ingested %s (%d bytes)\n", kind, len(body))
}

func (s *ingestServer) invalidateCaches(r *http.Request) {
	if s.marketShareCache != nil {
		if err := s.marketShareCache.InvalidateAll(r.Context()); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to invalidate market share cache")
		}
	}
	if s.orderCache != nil {
		if err := s.orderCache.InvalidateAll(r.Context()); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to invalidate order cache")
		}
	}
}

func (s *ingestServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.objectStore == nil {
		http.Error(w, "object storage is not configured", http.StatusConflict)
		return
	}

	if err := storage.SyncDataset(r.Context(), s.objectStore, s.cfg.Data); err != nil {
		http.Error(w, "refresh failed", http.StatusInternalServerError)
		return
	}

	s.invalidateCaches(r)

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("refreshed\n"))
}
