package metno

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-insight/internal/cache"
	"github.com/couchcryptid/weather-insight/internal/domain"
	"github.com/couchcryptid/weather-insight/internal/observability"
)

// forecastSource is implemented by fetchers that report an expiry alongside the data.
type forecastSource interface {
	FetchForecast(ctx context.Context, lat, lon float64) (Forecast, error)
}

// CachedFetcher wraps a ForecastFetcher with a TTL cache keyed by coordinate.
// When the inner fetcher reports an Expires time, entries live until the
// earlier of that time and the cache TTL.
type CachedFetcher struct {
	inner   domain.ForecastFetcher
	cache   *cache.Cache[[]domain.ForecastEntry]
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewCachedFetcher creates a cache decorator around a fetcher. clock must be
// the clock the cache was built with.
func NewCachedFetcher(inner domain.ForecastFetcher, c *cache.Cache[[]domain.ForecastEntry], clock clockwork.Clock, metrics *observability.Metrics) *CachedFetcher {
	return &CachedFetcher{inner: inner, cache: c, clock: clock, metrics: metrics}
}

func (f *CachedFetcher) Fetch(ctx context.Context, lat, lon float64) ([]domain.ForecastEntry, error) {
	key := formatCoord(lat) + "," + formatCoord(lon)
	if entries, ok := f.cache.Get(key); ok {
		f.metrics.CacheLookups.WithLabelValues("forecast", "hit").Inc()
		return entries, nil
	}
	f.metrics.CacheLookups.WithLabelValues("forecast", "miss").Inc()

	src, ok := f.inner.(forecastSource)
	if !ok {
		entries, err := f.inner.Fetch(ctx, lat, lon)
		if err != nil {
			return nil, err
		}
		f.cache.Set(key, entries)
		return entries, nil
	}

	fc, err := src.FetchForecast(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	f.cache.SetWithTTL(key, fc.Entries, f.lifetime(fc.Expires))
	return fc.Entries, nil
}

// lifetime caps the cache TTL at the upstream expiry. An expiry already in
// the past yields zero, which leaves the response uncached.
func (f *CachedFetcher) lifetime(expires time.Time) time.Duration {
	ttl := f.cache.TTL()
	if expires.IsZero() {
		return ttl
	}
	if until := expires.Sub(f.clock.Now()); until < ttl {
		return until
	}
	return ttl
}
