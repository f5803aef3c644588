package initializers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kariqs/tannaro-api/repository"
)

const connectTimeout = 10 * time.Second

// ConnectToDB opens the backend named by DB_DRIVER.
func ConnectToDB(ctx context.Context, cfg Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.DBDriver {
	case "memory":
		logger.Warn("using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), nil
	case "mongodb", "":
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		store, err := repository.NewMongoStore(ctx, repository.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
			Username: cfg.MongoUsername,
			Password: cfg.MongoPassword,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		logger.Info("connected to mongodb", "database", cfg.MongoDatabase)
		return store, nil
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}

// LoginAttempts picks the rate limit store. The mongodb backend needs a
// MongoDB store; anything else falls back to memory.
func LoginAttempts(cfg Config, store repository.Store, logger *slog.Logger) repository.AttemptRepository {
	if cfg.RateLimitBackend == "mongodb" {
		if mongoStore, ok := store.(*repository.MongoStore); ok {
			return mongoStore
		}
		logger.Warn("RATE_LIMIT_BACKEND=mongodb requires DB_DRIVER=mongodb, using memory")
	}
	return repository.NewMemoryAttempts()
}
