package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/nndss-dashboard/internal/config"
	"github.com/couchcryptid/nndss-dashboard/internal/dashboard"
)

// Publisher produces view events to a Kafka topic.
// It implements dashboard.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// publishBatchTimeout bounds how long a view event waits in the writer before
// it is flushed. Each render publishes a single message synchronously.
const publishBatchTimeout = 10 * time.Millisecond

// NewPublisher creates a Kafka producer for the configured view topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchSize:              1,
		BatchTimeout:           publishBatchTimeout,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes a view event and writes it to the topic. Events for the
// same selection share a key and therefore a partition.
func (p *Publisher) Publish(ctx context.Context, event dashboard.ViewEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write view event: %w", err)
	}
	p.logger.Debug("view event published", "event_id", event.ID, "key", string(msg.Key))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a ViewEvent into a Kafka message.
func serializeToMessage(event dashboard.ViewEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize view event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Selection.Disease + "|" + event.Selection.Location),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "generated_at", Value: []byte(event.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
