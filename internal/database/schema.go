package database

import (
	"context"
	"fmt"
	"log/slog"

	"blogapi/internal/config"
	"blogapi/internal/middleware"

	"gorm.io/gorm"
)

// ApplySchema creates or syncs the users, posts and comments tables when
// DB_AUTO_MIGRATE is enabled.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if !cfg.DBAutoMigrate {
		middleware.Logger.InfoContext(ctx, "Skipping GORM AutoMigrate", slog.String("env", cfg.Env))
		return nil
	}

	middleware.Logger.InfoContext(ctx, "Running GORM AutoMigrate", slog.String("env", cfg.Env))
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	middleware.Logger.InfoContext(ctx, "Database migration completed")
	return nil
}
