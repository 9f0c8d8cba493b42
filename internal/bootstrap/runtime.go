// Package bootstrap wires the database and Redis for the commands and
// ensures the root admin account exists.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"blogapi/internal/auth"
	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultRootAdminName = "root"

// InitRuntime connects to DB and Redis and bootstraps the root admin.
func InitRuntime(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := EnsureRootAdmin(ctx, cfg, repository.NewUserRepository(db)); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap root admin: %w", err)
	}

	return db, r, nil
}

// EnsureRootAdmin creates the ADMIN described by ROOT_ADMIN_* when no user
// holds that email yet, and promotes the existing user otherwise. It does
// nothing when ROOT_ADMIN_EMAIL is empty.
func EnsureRootAdmin(ctx context.Context, cfg *config.Config, users repository.UserRepository) error {
	email := strings.ToLower(strings.TrimSpace(cfg.RootAdminEmail))
	if email == "" {
		return nil
	}
	if cfg.RootAdminPassword == "" {
		return fmt.Errorf("ROOT_ADMIN_PASSWORD must be set when ROOT_ADMIN_EMAIL is set")
	}

	name := strings.TrimSpace(cfg.RootAdminName)
	if name == "" {
		name = defaultRootAdminName
	}

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Type == models.UserTypeAdmin {
			return nil
		}
		if err := users.SetType(ctx, existing.ID, models.UserTypeAdmin); err != nil {
			return err
		}
		middleware.Logger.Info("root admin promoted", slog.Uint64("user_id", uint64(existing.ID)))
		return nil
	}

	hash, err := auth.HashPassword(cfg.RootAdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}
	root := &models.User{
		Type:         models.UserTypeAdmin,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := users.Create(ctx, root); err != nil {
		return err
	}

	middleware.Logger.Info("root admin created", slog.Uint64("user_id", uint64(root.ID)), slog.String("email", email))
	return nil
}
