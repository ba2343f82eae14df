package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/nndss-dashboard/internal/config"
	"github.com/couchcryptid/nndss-dashboard/internal/dashboard"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2023, 3, 16, 12, 0, 0, 0, time.UTC)
	change := domain.NewComparison("Ohio", "Measles", 4, 2)
	event := dashboard.ViewEvent{
		ID:           "evt-1",
		SessionID:    "sess-1",
		Selection:    dashboard.Selection{Disease: "Measles", Location: "Ohio"},
		GeneratedAt:  now,
		WeeklyChange: &change,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("Measles|Ohio"), msg.Key)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("evt-1"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var decoded dashboard.ViewEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "sess-1", decoded.SessionID)
	require.NotNil(t, decoded.WeeklyChange)
	assert.Equal(t, domain.DirectionDecreased, decoded.WeeklyChange.Direction)
	assert.Nil(t, decoded.YearlyChange)
}

func TestNewPublisher(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"broker-1:9092", "broker-2:9092"}, KafkaTopic: "views"}

	p := NewPublisher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer p.Close()

	assert.Equal(t, "views", p.writer.Topic)
	assert.Equal(t, kafkago.RequireAll, p.writer.RequiredAcks)
	assert.IsType(t, &kafkago.Hash{}, p.writer.Balancer)
	assert.Equal(t, 1, p.writer.BatchSize)
	assert.Equal(t, publishBatchTimeout, p.writer.BatchTimeout)
	assert.Less(t, p.writer.BatchTimeout, 100*time.Millisecond)
}
