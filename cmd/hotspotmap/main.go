package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/hotspot-map-service/internal/adapter/dashboard"
	httpadapter "github.com/couchcryptid/hotspot-map-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/hotspot-map-service/internal/adapter/kafka"
	"github.com/couchcryptid/hotspot-map-service/internal/adapter/mapbox"
	"github.com/couchcryptid/hotspot-map-service/internal/config"
	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	"github.com/couchcryptid/hotspot-map-service/internal/mapview"
	"github.com/couchcryptid/hotspot-map-service/internal/observability"
	"github.com/couchcryptid/hotspot-map-service/internal/pipeline"
	"github.com/couchcryptid/hotspot-map-service/internal/provider"
	"github.com/joho/godotenv"
)

// hotspotSource is a provider that also backs /readyz.
type hotspotSource interface {
	domain.HotspotProvider
	CheckReadiness(ctx context.Context) error
}

func main() {
	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, closeFeed, err := openSource(ctx, cfg, metrics, logger)
	if err != nil {
		logger.Error("failed to open hotspot source", "source", cfg.HotspotSource, "error", err)
		os.Exit(1)
	}

	stats := dashboard.NewService(
		dashboard.NewClient(cfg.APIBase, cfg.StatsTimeout, metrics, logger),
		cfg.StatsTimeout,
		logger,
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Ready:    source,
		Hotspots: source,
		Stats:    stats,
		Metrics:  metrics,
		MapOptions: mapview.Options{
			Projection:       mapview.DefaultProjection,
			DragThreshold:    cfg.DragThreshold,
			RecenterOnSelect: cfg.RecenterOnSelect,
		},
	}, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start dashboard stats refresh. The first fetch runs before serving
	// continues; failures keep the built-in defaults.
	if err := stats.Start(ctx, cfg.StatsRefreshSchedule); err != nil {
		logger.Error("failed to schedule stats refresh", "error", err)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	stats.Stop()
	if err := closeFeed(); err != nil {
		logger.Error("hotspot feed close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// openSource builds the configured hotspot provider. For the kafka source it
// also starts the feed pipeline; the returned func closes the feed reader.
func openSource(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (hotspotSource, func() error, error) {
	noop := func() error { return nil }

	switch cfg.HotspotSource {
	case config.SourceFile:
		p, err := provider.NewFile(cfg.HotspotFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("serving hotspots from seed file", "path", cfg.HotspotFile)
		return p, noop, nil

	case config.SourceKafka:
		var initial []domain.Hotspot
		if cfg.HotspotFile != "" {
			hs, err := provider.LoadFile(cfg.HotspotFile)
			if err != nil {
				return nil, nil, fmt.Errorf("seed live snapshot: %w", err)
			}
			initial = hs
		}
		live := provider.NewLive(initial, logger)
		reader := startFeed(ctx, cfg, live, metrics, logger)
		return live, reader.Close, nil

	default:
		logger.Info("serving compiled-in reference hotspots")
		return provider.NewReference(), noop, nil
	}
}

// startFeed runs the Kafka pipeline into live until ctx is cancelled.
func startFeed(ctx context.Context, cfg *config.Config, live *provider.Live, metrics *observability.Metrics, logger *slog.Logger) *kafkaadapter.Reader {
	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		proj := mapview.DefaultProjection
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger).
			WithProximity(domain.Coordinates{Lat: proj.Lat0, Lng: proj.Lng0})
		cached, err := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		if err != nil {
			logger.Warn("mapbox cache disabled", "error", err)
			geocoder = client
		} else {
			geocoder = cached
		}
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	transformer := pipeline.NewTransformer(geocoder, logger)
	p := pipeline.New(reader, transformer, live, logger, metrics, cfg.BatchSize)

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("feed pipeline error", "error", err)
		}
	}()

	logger.Info("consuming hotspot feed",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.KafkaHotspotTopic,
		"group_id", cfg.KafkaGroupID,
	)
	return reader
}
