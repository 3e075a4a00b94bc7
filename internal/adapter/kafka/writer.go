package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/risk-map-service/internal/config"
	"github.com/couchcryptid/risk-map-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces layer summaries to a Kafka topic.
// It implements riskmap.LayerPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured layer topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaLayerTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishLayer serializes a layer summary and writes it to the layer topic.
func (w *Writer) PublishLayer(ctx context.Context, summary domain.LayerSummary) error {
	msg, err := serializeToMessage(summary)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write layer summary: %w", err)
	}
	w.logger.Debug("layer summary published", "layer_id", summary.ID, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a LayerSummary into a Kafka message.
func serializeToMessage(summary domain.LayerSummary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize layer summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "granularity", Value: []byte(summary.Granularity)},
			{Key: "hazard", Value: []byte(summary.Hazard)},
			{Key: "generated_at", Value: []byte(summary.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
