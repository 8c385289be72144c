package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes hotspot messages to the feed topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for topic. Keys are hotspot IDs, so
// the hash balancer keeps every update for one hotspot on one partition.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes msgs in a single WriteMessages call.
func (w *Writer) Publish(ctx context.Context, msgs []domain.HotspotMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]kafkago.Message, len(msgs))
	for i := range msgs {
		m, err := serializeToMessage(msgs[i])
		if err != nil {
			return err
		}
		out[i] = m
	}
	if err := w.writer.WriteMessages(ctx, out...); err != nil {
		return fmt.Errorf("publish %d hotspot messages: %w", len(out), err)
	}
	w.logger.Debug("published hotspot messages", "count", len(out), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a HotspotMessage into a Kafka message.
func serializeToMessage(msg domain.HotspotMessage) (kafkago.Message, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize hotspot %d: %w", msg.ID, err)
	}
	headers := []kafkago.Header{{Key: "severity", Value: []byte(msg.Severity)}}
	if msg.Removed {
		headers = append(headers, kafkago.Header{Key: "removed", Value: []byte("true")})
	}
	return kafkago.Message{
		Key:     []byte(strconv.Itoa(msg.ID)),
		Value:   data,
		Headers: headers,
	}, nil
}
