package ipapi

import (
	"context"

	"github.com/couchcryptid/weather-insight/internal/cache"
	"github.com/couchcryptid/weather-insight/internal/domain"
	"github.com/couchcryptid/weather-insight/internal/observability"
)

// CachedResolver wraps a LocationResolver with a TTL cache keyed by IP.
type CachedResolver struct {
	inner   domain.LocationResolver
	cache   *cache.Cache[domain.Location]
	metrics *observability.Metrics
}

// NewCachedResolver creates a cache decorator around a resolver.
func NewCachedResolver(inner domain.LocationResolver, c *cache.Cache[domain.Location], metrics *observability.Metrics) *CachedResolver {
	return &CachedResolver{inner: inner, cache: c, metrics: metrics}
}

func (r *CachedResolver) Resolve(ctx context.Context, ip string) (domain.Location, error) {
	// The empty address means "whoever is asking" and is not a stable key.
	if ip == "" {
		return r.inner.Resolve(ctx, ip)
	}
	if loc, ok := r.cache.Get(ip); ok {
		r.metrics.CacheLookups.WithLabelValues("location", "hit").Inc()
		return loc, nil
	}
	r.metrics.CacheLookups.WithLabelValues("location", "miss").Inc()

	loc, err := r.inner.Resolve(ctx, ip)
	if err != nil {
		return loc, err
	}
	r.cache.Set(ip, loc)
	return loc, nil
}
