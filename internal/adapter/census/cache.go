package census

import (
	"context"
	"sync"

	"github.com/couchcryptid/risk-map-service/internal/domain"
	"github.com/couchcryptid/risk-map-service/internal/observability"
	"golang.org/x/sync/singleflight"
)

// RegionLoader fetches the full region set for a granularity.
type RegionLoader interface {
	Regions(ctx context.Context, g domain.Granularity) ([]domain.Region, error)
}

// CachedSource wraps a RegionLoader with a process-wide, load-once cache.
// Boundary data never changes at runtime, so entries are never evicted.
// Returned slices are shared between callers and must not be modified.
type CachedSource struct {
	inner   RegionLoader
	metrics *observability.Metrics
	group   singleflight.Group

	mu      sync.RWMutex
	regions map[domain.Granularity][]domain.Region
}

// NewCachedSource creates a cache decorator around a region loader.
func NewCachedSource(inner RegionLoader, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		metrics: metrics,
		regions: make(map[domain.Granularity][]domain.Region),
	}
}

// Regions returns the cached region set, loading it on first use. Concurrent
// first calls for the same granularity share a single load.
func (c *CachedSource) Regions(ctx context.Context, g domain.Granularity) ([]domain.Region, error) {
	if regions, ok := c.get(g); ok {
		c.metrics.RegionCache.WithLabelValues(string(g), "hit").Inc()
		return regions, nil
	}
	c.metrics.RegionCache.WithLabelValues(string(g), "miss").Inc()

	v, err, _ := c.group.Do(string(g), func() (any, error) {
		if regions, ok := c.get(g); ok {
			return regions, nil
		}
		// The load is shared, so one caller going away must not abort it for the rest.
		regions, err := c.inner.Regions(context.WithoutCancel(ctx), g)
		if err != nil {
			return nil, err
		}
		// Only cache non-empty sets so a bad download can be retried.
		if len(regions) > 0 {
			c.put(g, regions)
		}
		return regions, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Region), nil
}

// Loaded reports whether a region set for g is cached.
func (c *CachedSource) Loaded(g domain.Granularity) bool {
	_, ok := c.get(g)
	return ok
}

func (c *CachedSource) get(g domain.Granularity) ([]domain.Region, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	regions, ok := c.regions[g]
	return regions, ok
}

func (c *CachedSource) put(g domain.Granularity, regions []domain.Region) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regions[g] = regions
	c.metrics.RegionsLoaded.WithLabelValues(string(g)).Set(float64(len(regions)))
}
