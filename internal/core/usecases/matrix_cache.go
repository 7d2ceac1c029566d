package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/ports"
	"github.com/samirrijal/stopsequencer/internal/pkg/logging"
	"github.com/samirrijal/stopsequencer/internal/pkg/metrics"
)

// CachedMatrix wraps a MatrixProvider with a read-through cache keyed on the
// exact coordinate list. Only successful answers are cached, and a cached
// answer is never served in place of a failed call.
type CachedMatrix struct {
	inner ports.MatrixProvider
	cache ports.CacheService
	ttl   int
}

// NewCachedMatrix returns inner unchanged when cache is nil or ttl is not positive.
func NewCachedMatrix(inner ports.MatrixProvider, cache ports.CacheService, ttlSeconds int) ports.MatrixProvider {
	if cache == nil || ttlSeconds <= 0 {
		return inner
	}
	return &CachedMatrix{inner: inner, cache: cache, ttl: ttlSeconds}
}

func (m *CachedMatrix) Name() string { return m.inner.Name() }

func (m *CachedMatrix) Durations(ctx context.Context, points []domain.GeoPoint) ([]domain.MatrixEntry, error) {
	key := matrixCacheKey(m.inner.Name(), points)

	if data, err := m.cache.Get(ctx, key); err == nil {
		var entries []domain.MatrixEntry
		if err := json.Unmarshal(data, &entries); err == nil {
			metrics.CacheHits.WithLabelValues("matrix").Inc()
			return entries, nil
		}
	}
	metrics.CacheMisses.WithLabelValues("matrix").Inc()

	entries, err := m.inner.Durations(ctx, points)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		if data, err := json.Marshal(entries); err == nil {
			if err := m.cache.Set(ctx, key, data, m.ttl); err != nil {
				logging.FromContext(ctx).Debug("matrix cache write failed", "error", err)
			}
		}
	}
	return entries, nil
}

// matrixCacheKey hashes the provider name and coordinates at 1e-6 degrees.
func matrixCacheKey(provider string, points []domain.GeoPoint) string {
	h := sha256.New()
	fmt.Fprint(h, provider)
	for _, p := range points {
		fmt.Fprintf(h, "|%.6f,%.6f", p.Lat, p.Lng)
	}
	return "matrix:" + provider + ":" + hex.EncodeToString(h.Sum(nil))
}
