package repository

import (
	"context"
	"fmt"

	"github.com/debemdeboas/draftboard/internal/config"
	"github.com/debemdeboas/draftboard/internal/db"
)

// Open builds the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	repoLogger.Info().Str("backend", cfg.Backend).Msg("Opening blog store")

	switch cfg.Backend {
	case config.BackendSQLite:
		sqlite := db.NewSQLite(cfg.SQLitePath)
		if err := sqlite.InitDB(); err != nil {
			sqlite.Close()
			return nil, err
		}
		return NewDBBlogRepository(sqlite), nil
	case config.BackendMemory:
		return NewMemoryBlogRepository(), nil
	case config.BackendBolt:
		return NewBoltBlogRepository(cfg.BoltPath)
	case config.BackendS3:
		return NewS3BlogRepository(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
