// Command feedseed publishes a YAML hotspot seed file to the hotspot feed
// topic, for demos and local testing of HOTSPOT_SOURCE=kafka.
//
// Usage:
//
//	go run ./cmd/feedseed -touch data/hotspots.yaml
//	go run ./cmd/feedseed -remove data/hotspots.yaml
//
// Brokers and topic default to KAFKA_BROKERS and KAFKA_HOTSPOT_TOPIC.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	kafkaadapter "github.com/couchcryptid/hotspot-map-service/internal/adapter/kafka"
	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	"github.com/couchcryptid/hotspot-map-service/internal/provider"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	brokers := flag.String("brokers", sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092"), "comma-separated Kafka brokers")
	topic := flag.String("topic", sharedcfg.EnvOrDefault("KAFKA_HOTSPOT_TOPIC", "hotspot-updates"), "hotspot feed topic")
	remove := flag.Bool("remove", false, "publish removals for every hotspot in the file instead of upserts")
	touch := flag.Bool("touch", false, "stamp every hotspot with the current time")
	timeout := flag.Duration("timeout", 30*time.Second, "publish timeout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <seed.yaml>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), sharedcfg.ParseBrokers(*brokers), *topic, *remove, *touch, *timeout, logger); err != nil {
		logger.Error("feedseed failed", "error", err)
		os.Exit(1)
	}
}

func run(path string, brokers []string, topic string, remove, touch bool, timeout time.Duration, logger *slog.Logger) error {
	hotspots, err := provider.LoadFile(path)
	if err != nil {
		return err
	}
	msgs := buildMessages(hotspots, remove, touch, time.Now().UTC())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	w := kafkaadapter.NewWriter(brokers, topic, logger)
	defer func() {
		if err := w.Close(); err != nil {
			logger.Warn("kafka writer close error", "error", err)
		}
	}()

	if err := w.Publish(ctx, msgs); err != nil {
		return err
	}
	logger.Info("published hotspot seed", "path", path, "topic", topic, "messages", len(msgs), "remove", remove)
	return nil
}

// buildMessages turns seed records into feed messages.
func buildMessages(hotspots []domain.Hotspot, remove, touch bool, now time.Time) []domain.HotspotMessage {
	msgs := make([]domain.HotspotMessage, 0, len(hotspots))
	for _, h := range hotspots {
		if remove {
			msgs = append(msgs, domain.HotspotMessage{ID: h.ID, Removed: true})
			continue
		}
		if touch {
			h.UpdatedAt = now
		}
		msgs = append(msgs, h.Message())
	}
	return msgs
}
