package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const (
	DefaultStateShapefileURL  = "https://www2.census.gov/geo/tiger/GENZ2020/shp/cb_2020_us_state_20m.zip"
	DefaultCountyShapefileURL = "https://www2.census.gov/geo/tiger/GENZ2020/shp/cb_2020_us_county_20m.zip"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Census shapefile source configuration.
	StateShapefileURL  string
	CountyShapefileURL string
	FetchTimeout       time.Duration
	FetchRetryBackoff  time.Duration
	PrefetchRegions    bool

	ScoreSeed uint64

	// Layer summary publishing (optional).
	KafkaEnabled    bool
	KafkaBrokers    []string
	KafkaLayerTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	retryBackoff, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_RETRY_BACKOFF", "2s"))
	if err != nil || retryBackoff < 0 {
		return nil, errors.New("invalid FETCH_RETRY_BACKOFF")
	}

	seed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("SCORE_SEED", "42"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid SCORE_SEED")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		StateShapefileURL:  sharedcfg.EnvOrDefault("STATE_SHAPEFILE_URL", DefaultStateShapefileURL),
		CountyShapefileURL: sharedcfg.EnvOrDefault("COUNTY_SHAPEFILE_URL", DefaultCountyShapefileURL),
		FetchTimeout:       fetchTimeout,
		FetchRetryBackoff:  retryBackoff,
		PrefetchRegions:    parseBool("PREFETCH_REGIONS", true),

		ScoreSeed: seed,

		KafkaEnabled:    parseBool("KAFKA_ENABLED", false),
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaLayerTopic: sharedcfg.EnvOrDefault("KAFKA_LAYER_TOPIC", "risk-map-layers"),
	}

	if cfg.StateShapefileURL == "" {
		return nil, errors.New("STATE_SHAPEFILE_URL is required")
	}
	if cfg.CountyShapefileURL == "" {
		return nil, errors.New("COUNTY_SHAPEFILE_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaLayerTopic == "" {
		return nil, errors.New("KAFKA_LAYER_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true"
	}
	return def
}
