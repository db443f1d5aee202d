package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const preferencesKeyPrefix = "fincalc:preferences:"

func preferencesKey(calculatorType string) string {
	return preferencesKeyPrefix + calculatorType
}

// CachedPreferences wraps a Repository with a Redis read-through cache for
// preferences. History calls go straight to the wrapped repository. A cache that
// cannot be reached is logged and bypassed.
type CachedPreferences struct {
	Repository

	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedPreferences caches preferences of repo in client for ttl. A zero ttl
// keeps entries until they are overwritten.
func NewCachedPreferences(repo Repository, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *CachedPreferences {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedPreferences{Repository: repo, client: client, ttl: ttl, logger: logger}
}

// SavePreferences drops the cached entry, writes through to the repository,
// then refreshes the cache. The old entry is dropped even when the refresh fails.
func (c *CachedPreferences) SavePreferences(ctx context.Context, calculatorType string, defaults map[string]any) (*PreferencesRecord, error) {
	c.invalidate(ctx, calculatorType)
	record, err := c.Repository.SavePreferences(ctx, calculatorType, defaults)
	if err != nil {
		return nil, err
	}
	if !c.store(ctx, record) {
		c.invalidate(ctx, calculatorType)
	}
	return record, nil
}

// Preferences serves from the cache when possible and populates it on a miss.
func (c *CachedPreferences) Preferences(ctx context.Context, calculatorType string) (*PreferencesRecord, error) {
	data, err := c.client.Get(ctx, preferencesKey(calculatorType)).Bytes()
	switch {
	case err == nil:
		var record PreferencesRecord
		if jsonErr := json.Unmarshal(data, &record); jsonErr == nil {
			return &record, nil
		}
		c.logger.Warn("discarding unreadable cached preferences",
			zap.String("op", "storage.CachedPreferences.Preferences"),
			zap.String("type", calculatorType))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("preferences cache unavailable",
			zap.String("op", "storage.CachedPreferences.Preferences"),
			zap.String("type", calculatorType),
			zap.Error(err))
	}

	record, err := c.Repository.Preferences(ctx, calculatorType)
	if err != nil {
		return nil, err
	}
	c.store(ctx, record)
	return record, nil
}

// store caches record and reports whether the cache now holds it.
func (c *CachedPreferences) store(ctx context.Context, record *PreferencesRecord) bool {
	data, err := json.Marshal(record)
	if err != nil {
		return false
	}
	if err := c.client.Set(ctx, preferencesKey(record.CalculatorType), data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache preferences",
			zap.String("op", "storage.CachedPreferences.store"),
			zap.String("type", record.CalculatorType),
			zap.Error(err))
		return false
	}
	return true
}

func (c *CachedPreferences) invalidate(ctx context.Context, calculatorType string) {
	if err := c.client.Del(ctx, preferencesKey(calculatorType)).Err(); err != nil {
		c.logger.Warn("failed to invalidate cached preferences",
			zap.String("op", "storage.CachedPreferences.invalidate"),
			zap.String("type", calculatorType),
			zap.Error(err))
	}
}

// Close closes the wrapped repository.
func (c *CachedPreferences) Close() error {
	return c.Repository.Close()
}
