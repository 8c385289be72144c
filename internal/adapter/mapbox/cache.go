package mapbox

import (
	"context"
	"strings"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	"github.com/couchcryptid/hotspot-map-service/internal/observability"
	lru "github.com/hashicorp/golang-lru"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache keyed on the
// lower-cased location and area.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lru.Cache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) (*CachedGeocoder, error) {
	cache, err := lru.New(maxEntries)
	if err != nil {
		return nil, err
	}
	return &CachedGeocoder{
		inner:   inner,
		cache:   cache,
		metrics: metrics,
	}, nil
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, name, area string) (domain.GeocodingResult, error) {
	key := cacheKey(name, area)
	if v, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return v.(domain.GeocodingResult), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ForwardGeocode(ctx, name, area)
	if err != nil {
		return result, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if result.FormattedAddress != "" {
		c.cache.Add(key, result)
	}
	return result, nil
}

func cacheKey(name, area string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(area))
}
