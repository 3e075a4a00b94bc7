package riskmap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/risk-map-service/internal/domain"
	"github.com/couchcryptid/risk-map-service/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// RegionSource provides the region set for a granularity.
type RegionSource interface {
	Regions(ctx context.Context, g domain.Granularity) ([]domain.Region, error)
}

// LayerPublisher announces built layers to downstream consumers.
type LayerPublisher interface {
	PublishLayer(ctx context.Context, summary domain.LayerSummary) error
}

// Builder assembles risk map layers from a region source and a score provider.
type Builder struct {
	source    RegionSource
	scores    domain.ScoreProvider
	publisher LayerPublisher
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Builder. Pass a nil publisher to disable layer announcements.
func New(source RegionSource, scores domain.ScoreProvider, publisher LayerPublisher, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Builder {
	return &Builder{
		source:    source,
		scores:    scores,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// Build produces the styled layer for a granularity and hazard. Scores are
// regenerated on every call; region geometry comes from the source.
func (b *Builder) Build(ctx context.Context, g domain.Granularity, h domain.Hazard) (domain.MapLayer, error) {
	if !g.Valid() {
		b.metrics.BuildErrors.WithLabelValues("invalid_input").Inc()
		return domain.MapLayer{}, fmt.Errorf("%w: %q", domain.ErrInvalidGranularity, g)
	}
	if !h.Valid() {
		b.metrics.BuildErrors.WithLabelValues("invalid_input").Inc()
		return domain.MapLayer{}, fmt.Errorf("%w: %q", domain.ErrInvalidHazard, h)
	}

	start := b.clock.Now()

	regions, err := b.loadRegions(ctx, g)
	if err != nil {
		b.metrics.BuildErrors.WithLabelValues("data_unavailable").Inc()
		return domain.MapLayer{}, err
	}

	table := b.scores.Scores(domain.RegionNames(regions))
	layer := domain.NewMapLayer(g, h, regions, table, b.clock.Now())

	b.metrics.LayersBuilt.WithLabelValues(string(g), string(h)).Inc()
	b.metrics.BuildDuration.WithLabelValues(string(g)).Observe(b.clock.Since(start).Seconds())

	summary := layer.Summary(uuid.NewString())
	b.logger.Debug("layer built",
		"layer_id", summary.ID,
		"granularity", g,
		"hazard", h,
		"regions", summary.Regions,
		"unmatched", summary.Unmatched,
	)
	b.publish(ctx, summary)

	return layer, nil
}

// loadRegions fetches regions and folds every failure, including an empty
// set, into ErrDataUnavailable.
func (b *Builder) loadRegions(ctx context.Context, g domain.Granularity) ([]domain.Region, error) {
	regions, err := b.source.Regions(ctx, g)
	if err != nil {
		if errors.Is(err, domain.ErrDataUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s regions: %w", domain.ErrDataUnavailable, g, err)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: %s region set is empty", domain.ErrDataUnavailable, g)
	}
	b.ready.Store(true)
	return regions, nil
}

func (b *Builder) publish(ctx context.Context, summary domain.LayerSummary) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.PublishLayer(ctx, summary); err != nil {
		b.metrics.PublishErrors.Inc()
		b.logger.Warn("publish layer summary failed",
			"layer_id", summary.ID,
			"granularity", summary.Granularity,
			"hazard", summary.Hazard,
			"error", err,
		)
		return
	}
	b.metrics.LayersPublished.Inc()
}

// Prefetch loads the region sets for the given granularities so the first
// user request does not pay for the download. Failures are logged; the next
// Build retries them.
func (b *Builder) Prefetch(ctx context.Context, granularities ...domain.Granularity) error {
	var errs []error
	for _, g := range granularities {
		if _, err := b.loadRegions(ctx, g); err != nil {
			b.logger.Error("prefetch regions failed", "granularity", g, "error", err)
			errs = append(errs, err)
			continue
		}
		b.logger.Info("regions prefetched", "granularity", g)
	}
	return errors.Join(errs...)
}

// CheckReadiness returns nil once any region set has loaded, or an error
// describing why the service is not yet ready.
func (b *Builder) CheckReadiness(_ context.Context) error {
	if !b.ready.Load() {
		return errors.New("no region data loaded yet")
	}
	return nil
}
