package census

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/couchcryptid/risk-map-service/internal/domain"
	"github.com/couchcryptid/risk-map-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Client loads region boundaries from census cartographic boundary shapefile archives.
type Client struct {
	urls         map[domain.Granularity]string
	httpClient   *http.Client
	retryBackoff time.Duration
	clock        clockwork.Clock
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewClient creates a census shapefile client. A failed fetch is retried once
// after retryBackoff.
func NewClient(stateURL, countyURL string, timeout, retryBackoff time.Duration, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		urls: map[domain.Granularity]string{
			domain.State:  stateURL,
			domain.County: countyURL,
		},
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryBackoff: retryBackoff,
		clock:        clock,
		metrics:      metrics,
		logger:       logger,
	}
}

// Regions downloads and decodes the boundary archive for a granularity.
func (c *Client) Regions(ctx context.Context, g domain.Granularity) ([]domain.Region, error) {
	u, ok := c.urls[g]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidGranularity, g)
	}

	start := c.clock.Now()
	regions, err := c.fetch(ctx, g, u)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		c.logger.Warn("shapefile fetch failed, retrying",
			"granularity", g,
			"backoff", c.retryBackoff,
			"error", err,
		)
		c.metrics.RegionFetchRetries.WithLabelValues(string(g)).Inc()
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		regions, err = c.fetch(ctx, g, u)
		if err != nil {
			return nil, err
		}
	}

	c.metrics.RegionFetchDuration.WithLabelValues(string(g)).Observe(c.clock.Since(start).Seconds())
	c.logger.Info("regions loaded", "granularity", g, "count", len(regions))
	return regions, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.retryBackoff <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(c.retryBackoff):
		return nil
	}
}

// fetch streams the archive to a temp file, since shapefile decoding needs
// random access to the zip.
func (c *Client) fetch(ctx context.Context, g domain.Granularity, u string) ([]domain.Region, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s shapefile request: %w", g, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("census download error: status %d: %s", resp.StatusCode, body)
	}

	f, err := os.CreateTemp("", "census-*.zip")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return nil, fmt.Errorf("download %s shapefile: %w", g, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	regions, err := readShapefileZip(f.Name(), g)
	if err != nil {
		return nil, fmt.Errorf("decode %s shapefile: %w", g, err)
	}
	return regions, nil
}
