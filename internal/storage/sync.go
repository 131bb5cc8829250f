package storage

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/alkhair/demand-analytics/internal/config"
)

// SyncDataset downloads the pipeline output files into the local data
// directory. Objects are looked up by filename at the bucket root. A
// missing object is logged and skipped so a partial pipeline run still
// serves whatever it produced.
func SyncDataset(ctx context.Context, store ObjectStorage, cfg config.DataConfig) error {
	for _, name := range []string{cfg.WeeklyFile, cfg.DailyFile, cfg.PredictionsFile} {
		if name == "" {
			continue
		}
		dest := filepath.Join(cfg.Dir, name)
		if err := store.DownloadObject(ctx, name, dest); err != nil {
			log.Warn().Err(err).Str("object", name).Msg("dataset object unavailable")
			continue
		}
		log.Info().Str("object", name).Str("dest", dest).Msg("dataset object downloaded")
	}
	return ctx.Err()
}
