package storage

import (
	"context"
	"fmt"

	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Open builds the repository selected by cfg, wrapped in the Redis preferences
// cache when it is enabled. The "none" backend returns a nil Repository.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var repo Repository
	switch cfg.Backend {
	case constants.StorageBackendNone:
		logger.Info("persistence disabled", zap.String("op", "storage.Open"))
		return nil, nil
	case "", constants.StorageBackendMemory:
		repo = NewMemoryStore(logger)
	case constants.StorageBackendSQLite:
		store, err := NewSQLiteStore(cfg.SQLite.Path, logger)
		if err != nil {
			return nil, err
		}
		repo = store
	case constants.StorageBackendMongo:
		store, err := ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout, logger)
		if err != nil {
			return nil, err
		}
		repo = store
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}

	if !cfg.Redis.Enabled {
		return repo, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	logger.Info("caching preferences in redis",
		zap.String("op", "storage.Open"),
		zap.String("address", cfg.Redis.Address),
		zap.Duration("ttl", cfg.Redis.TTL))
	return &ownedCache{
		CachedPreferences: NewCachedPreferences(repo, client, cfg.Redis.TTL, logger),
		client:            client,
	}, nil
}

// ownedCache is a CachedPreferences whose Redis client was created by Open.
type ownedCache struct {
	*CachedPreferences
	client *redis.Client
}

// Close closes the repository and the Redis client.
func (c *ownedCache) Close() error {
	return multierr.Append(c.CachedPreferences.Close(), c.client.Close())
}
