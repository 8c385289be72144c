package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/robfig/cron/v3"
)

// Hotspot sources.
const (
	SourceReference = "reference"
	SourceFile      = "file"
	SourceKafka     = "kafka"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream dashboard counters.
	APIBase              string
	StatsTimeout         time.Duration
	StatsRefreshSchedule string // cron spec; empty fetches once at startup only

	// Hotspot source selection.
	HotspotSource string
	HotspotFile   string

	// Live feed, used when HotspotSource is "kafka".
	KafkaBrokers       []string
	KafkaHotspotTopic  string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Interactive map behaviour.
	DragThreshold    float64
	RecenterOnSelect bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	statsTimeout, err := parsePositiveDuration("STATS_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	dragThreshold, err := parseDragThreshold()
	if err != nil {
		return nil, err
	}

	mapboxCacheSize, err := parseMapboxCacheSize()
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		APIBase:              strings.TrimRight(sharedcfg.EnvOrDefault("API_BASE", "http://localhost:8080/api"), "/"),
		StatsTimeout:         statsTimeout,
		StatsRefreshSchedule: strings.TrimSpace(sharedcfg.EnvOrDefault("STATS_REFRESH_SCHEDULE", "@every 1m")),

		HotspotSource: strings.ToLower(sharedcfg.EnvOrDefault("HOTSPOT_SOURCE", SourceReference)),
		HotspotFile:   os.Getenv("HOTSPOT_FILE"),

		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaHotspotTopic:  sharedcfg.EnvOrDefault("KAFKA_HOTSPOT_TOPIC", "hotspot-updates"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "hotspot-map"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,

		DragThreshold:    dragThreshold,
		RecenterOnSelect: os.Getenv("RECENTER_ON_SELECT") == "true",
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if u, err := url.Parse(c.APIBase); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("invalid API_BASE: must be an absolute URL")
	}
	if c.StatsRefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.StatsRefreshSchedule); err != nil {
			return fmt.Errorf("invalid STATS_REFRESH_SCHEDULE: %w", err)
		}
	}

	switch c.HotspotSource {
	case SourceReference:
	case SourceFile:
		if c.HotspotFile == "" {
			return errors.New("HOTSPOT_SOURCE is file but HOTSPOT_FILE is not set")
		}
	case SourceKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required")
		}
		if c.KafkaHotspotTopic == "" {
			return errors.New("KAFKA_HOTSPOT_TOPIC is required")
		}
	default:
		return fmt.Errorf("invalid HOTSPOT_SOURCE %q: want reference, file or kafka", c.HotspotSource)
	}

	if c.MapboxEnabled && c.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	return nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseDragThreshold() (float64, error) {
	s := os.Getenv("DRAG_THRESHOLD")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !(v >= 0) || math.IsInf(v, 1) {
		return 0, errors.New("invalid DRAG_THRESHOLD: must be a finite, non-negative number of pixels")
	}
	return v, nil
}

func parseMapboxCacheSize() (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault("MAPBOX_CACHE_SIZE", "1000"))
	if err != nil || n <= 0 {
		return 0, errors.New("invalid MAPBOX_CACHE_SIZE: must be a positive integer")
	}
	return n, nil
}
