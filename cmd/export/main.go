// Command export builds a single risk map layer and writes it as a GeoJSON
// FeatureCollection, for static hosting or offline inspection. It runs the
// same census loader and builder as the service.
//
// Usage:
//
//	go run ./cmd/export \
//	  -view County \
//	  -hazard Flood \
//	  -seed 42 \
//	  -out data/county_flood.geojson
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/risk-map-service/internal/adapter/census"
	"github.com/couchcryptid/risk-map-service/internal/config"
	"github.com/couchcryptid/risk-map-service/internal/domain"
	"github.com/couchcryptid/risk-map-service/internal/observability"
	"github.com/couchcryptid/risk-map-service/internal/riskmap"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	view := flag.String("view", string(domain.State), "granularity: State or County")
	hazard := flag.String("hazard", string(domain.Earthquake), "hazard: Earthquake or Flood")
	seed := flag.Uint64("seed", domain.DefaultSeed, "score seed")
	out := flag.String("out", "", "output path for the GeoJSON FeatureCollection")
	stateURL := flag.String("state-url", config.DefaultStateShapefileURL, "state boundary shapefile archive")
	countyURL := flag.String("county-url", config.DefaultCountyShapefileURL, "county boundary shapefile archive")
	timeout := flag.Duration("timeout", 2*time.Minute, "download timeout per attempt")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	g, err := domain.ParseGranularity(*view)
	if err != nil {
		return err
	}
	h, err := domain.ParseHazard(*hazard)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewUnregisteredMetrics()
	clock := clockwork.NewRealClock()

	client := census.NewClient(*stateURL, *countyURL, *timeout, 2*time.Second, clock, metrics, logger)
	source := census.NewCachedSource(client, metrics)
	builder := riskmap.New(source, domain.SeededScores{Seed: *seed}, nil, clock, logger, metrics)

	log.Printf("building %s %s layer (seed %d)", g, h, *seed)
	layer, err := builder.Build(context.Background(), g, h)
	if err != nil {
		return fmt.Errorf("build layer: %w", err)
	}

	if err := writeJSON(*out, layer.FeatureCollection()); err != nil {
		return fmt.Errorf("writing layer: %w", err)
	}
	log.Printf("wrote %d features: %s", len(layer.Regions), *out)

	printStats(layer)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(layer domain.MapLayer) {
	summary := layer.Summary("")

	fmt.Printf("\n=== %s ===\n", layer.Name)
	fmt.Printf("Regions: %d (unmatched: %d)\n", summary.Regions, summary.Unmatched)
	for i, b := range layer.Buckets {
		fmt.Printf("  %-9s [%2d,%2d%s %s  %d\n", b.Label, b.Min, b.Max, closing(i, len(layer.Buckets)), b.Color, summary.BucketCounts[i])
	}
}

func closing(i, n int) string {
	if i == n-1 {
		return "]"
	}
	return ")"
}
