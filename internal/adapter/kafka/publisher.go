// Package kafka publishes end-of-run bleaching alert summaries so that
// downstream notification services can consume them.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/reefwatch/coral-alert-etl/internal/domain"
)

// Publisher produces alert summaries to a Kafka topic.
// It implements pipeline.AlertPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the alert summary topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishSummaries serializes and publishes all site summaries in a single
// WriteMessages call.
func (p *Publisher) PublishSummaries(ctx context.Context, summaries []domain.AlertSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(summaries))
	for i := range summaries {
		msg, err := serializeSummary(summaries[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeSummary marshals an AlertSummary into a Kafka message keyed by
// site code.
func serializeSummary(summary domain.AlertSummary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.SiteCode),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "alert_level", Value: []byte(strconv.Itoa(int(summary.AlertLevel)))},
			{Key: "generated_at", Value: []byte(summary.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
