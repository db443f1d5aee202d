package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis implements the Get, Set and Del commands the cache uses. Every other
// command panics through the nil embedded interface.
type fakeRedis struct {
	redis.Cmdable

	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
	delErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	value, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(value), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	data, ok := value.([]byte)
	if !ok {
		return redis.NewStatusResult("", errors.New("unexpected value type"))
	}
	f.data[key] = data
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.delErr != nil {
		return redis.NewIntResult(0, f.delErr)
	}
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			delete(f.ttls, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

// countingRepo counts Preferences lookups that reach the backend.
type countingRepo struct {
	Repository
	lookups int
}

func (c *countingRepo) Preferences(ctx context.Context, calculatorType string) (*PreferencesRecord, error) {
	c.lookups++
	return c.Repository.Preferences(ctx, calculatorType)
}

func newCachedFixture(t *testing.T) (*CachedPreferences, *countingRepo, *fakeRedis) {
	t.Helper()
	backend := &countingRepo{Repository: NewMemoryStore(nil)}
	client := newFakeRedis()
	return NewCachedPreferences(backend, client, 10*time.Minute, nil), backend, client
}

func TestCachedPreferencesReadThrough(t *testing.T) {
	cache, backend, client := newCachedFixture(t)
	ctx := context.Background()

	_, err := backend.Repository.SavePreferences(ctx, "sip", map[string]any{"years": 15.0})
	require.NoError(t, err)

	first, err := cache.Preferences(ctx, "sip")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.lookups)
	assert.Contains(t, client.data, preferencesKey("sip"))
	assert.Equal(t, 10*time.Minute, client.ttls[preferencesKey("sip")])

	second, err := cache.Preferences(ctx, "sip")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.lookups, "second read should be served from the cache")
	assert.Equal(t, first.DefaultValues, second.DefaultValues)
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt))
}

func TestCachedPreferencesWriteThrough(t *testing.T) {
	cache, backend, client := newCachedFixture(t)
	ctx := context.Background()

	_, err := cache.SavePreferences(ctx, "fd", map[string]any{"principal": 100000.0})
	require.NoError(t, err)
	_, err = cache.SavePreferences(ctx, "fd", map[string]any{"principal": 200000.0})
	require.NoError(t, err)

	got, err := cache.Preferences(ctx, "fd")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"principal": 200000.0}, got.DefaultValues)
	assert.Equal(t, 0, backend.lookups)

	stored, err := backend.Repository.Preferences(ctx, "fd")
	require.NoError(t, err)
	assert.Equal(t, got.DefaultValues, stored.DefaultValues)
	assert.Len(t, client.data, 1)
}

func TestCachedPreferencesFailedRefreshDropsOldEntry(t *testing.T) {
	cache, backend, client := newCachedFixture(t)
	ctx := context.Background()

	_, err := cache.SavePreferences(ctx, "sip", map[string]any{"years": 10.0})
	require.NoError(t, err)
	require.Contains(t, client.data, preferencesKey("sip"))

	client.setErr = errors.New("connection reset")
	_, err = cache.SavePreferences(ctx, "sip", map[string]any{"years": 20.0})
	require.NoError(t, err)
	assert.NotContains(t, client.data, preferencesKey("sip"))
	client.setErr = nil

	got, err := cache.Preferences(ctx, "sip")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"years": 20.0}, got.DefaultValues)
	assert.Equal(t, 1, backend.lookups)
}

func TestCachedPreferencesBypassesUnavailableCache(t *testing.T) {
	cache, backend, client := newCachedFixture(t)
	ctx := context.Background()
	client.getErr = errors.New("connection refused")
	client.setErr = errors.New("connection refused")

	saved, err := cache.SavePreferences(ctx, "rd", map[string]any{"monthlyDeposit": 5000.0})
	require.NoError(t, err)
	assert.Equal(t, "rd", saved.CalculatorType)

	for i := 1; i <= 2; i++ {
		got, err := cache.Preferences(ctx, "rd")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"monthlyDeposit": 5000.0}, got.DefaultValues)
		assert.Equal(t, i, backend.lookups)
	}
}

func TestCachedPreferencesDiscardsUnreadableEntry(t *testing.T) {
	cache, backend, client := newCachedFixture(t)
	ctx := context.Background()

	_, err := backend.Repository.SavePreferences(ctx, "nsc", map[string]any{"years": 5.0})
	require.NoError(t, err)
	client.data[preferencesKey("nsc")] = []byte("{not json")

	got, err := cache.Preferences(ctx, "nsc")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"years": 5.0}, got.DefaultValues)
	assert.Equal(t, 1, backend.lookups)
	assert.NotEqual(t, "{not json", string(client.data[preferencesKey("nsc")]))
}

func TestCachedPreferencesNotFound(t *testing.T) {
	cache, _, client := newCachedFixture(t)

	_, err := cache.Preferences(context.Background(), "apy")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, client.data)
}

func TestCachedPreferencesDelegatesHistory(t *testing.T) {
	cache, backend, _ := newCachedFixture(t)
	ctx := context.Background()

	_, err := cache.SaveCalculation(ctx, "gst", map[string]any{"amount": 1000.0}, map[string]any{"gstAmount": 180.0})
	require.NoError(t, err)

	records, err := backend.Repository.History(ctx, "gst")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	viaCache, err := cache.History(ctx, "gst")
	require.NoError(t, err)
	assert.Equal(t, records, viaCache)
	assert.NoError(t, cache.Close())
}
