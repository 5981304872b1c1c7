// Package kafka publishes scored-track summaries for downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/fire-risk-service/internal/config"
	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

// Writer produces track summaries to the sink topic.
// It implements service.SummaryPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSummary serializes and publishes one track summary.
func (w *Writer) PublishSummary(ctx context.Context, summary domain.TrackSummary) error {
	msg, err := serializeToMessage(summary)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a TrackSummary into a Kafka message keyed by
// track ID so summaries for one track land on one partition.
func serializeToMessage(summary domain.TrackSummary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize track summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.TrackID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "points", Value: []byte(strconv.Itoa(summary.Points))},
			{Key: "scored_at", Value: []byte(summary.ScoredAt.Format(time.RFC3339))},
		},
	}, nil
}
