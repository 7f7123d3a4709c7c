package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/PasteImport/internal/config"
	"github.com/JonMunkholm/PasteImport/internal/core"
)

// Open connects to the database named by cfg and prepares its schema.
func Open(ctx context.Context, cfg config.DatabaseConfig) (core.Store, error) {
	if cfg.IsPostgres() {
		s, err := OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return s, nil
	}

	s, err := OpenSQLite(ctx, cfg.SQLitePath())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	slog.Info("using sqlite store", "path", cfg.SQLitePath())
	return s, nil
}
