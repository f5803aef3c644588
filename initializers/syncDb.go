package initializers

import (
	"context"
	"log/slog"

	"github.com/Kariqs/tannaro-api/repository"
)

func SyncDatabase(ctx context.Context, store repository.Store, logger *slog.Logger) error {
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}
	logger.Info("database synced successfully")
	return nil
}

type AdminSeeder interface {
	SeedAdmin(ctx context.Context, name, email, password string) error
}

// SeedAdmin creates or refreshes the bootstrap admin when ADMIN_EMAIL and
// ADMIN_PASSWORD are set.
func SeedAdmin(ctx context.Context, cfg Config, auth AdminSeeder, logger *slog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Debug("no bootstrap admin configured")
		return nil
	}
	return auth.SeedAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
}
