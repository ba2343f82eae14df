//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/nndss-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/nndss-dashboard/internal/config"
	"github.com/couchcryptid/nndss-dashboard/internal/dashboard"
	"github.com/couchcryptid/nndss-dashboard/internal/dataset"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
	"github.com/couchcryptid/nndss-dashboard/internal/observability"
)

const testViewTopic = "test-dashboard-views"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("nndss-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestDashboardPublishesViewEvents renders the dashboard from the sample
// tables and reads the resulting view event back from Kafka.
func TestDashboardPublishesViewEvents(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	broker := startKafka(ctx, t)
	createTopic(t, broker, testViewTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testViewTopic}
	publisher := kafka.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	tables, err := dataset.NewLoader("../dataset/testdata/weekly.csv", "../dataset/testdata/annual.csv", discardLogger()).Load(ctx)
	require.NoError(t, err)

	svc := dashboard.NewService(tables, dashboard.Periods{
		RankingWeekYear: 2024,
		RankingWeek:     11,
		RankingYear:     2024,
		ComparisonYear:  2024,
	}, publisher, discardLogger(), observability.NewMetricsForTesting())

	vm, err := svc.Render(ctx, dashboard.Selection{})
	require.NoError(t, err)
	require.Equal(t, dashboard.Selection{Disease: "Measles", Location: "California"}, vm.Selection)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testViewTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	t.Cleanup(func() { _ = reader.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err, "read view event")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "Measles|California", string(msg.Key))
	assert.NotEmpty(t, headers["event_id"])
	assert.Equal(t, "2024-03-14T12:00:00Z", headers["generated_at"])

	var event dashboard.ViewEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, headers["event_id"], event.ID)
	require.NotNil(t, event.WeeklyChange)
	assert.InDelta(t, 10, event.WeeklyChange.PreviousCases, 1e-9)
	assert.InDelta(t, 5, event.WeeklyChange.CurrentCases, 1e-9)
	assert.Equal(t, domain.DirectionDecreased, event.WeeklyChange.Direction)
	assert.Nil(t, event.YearlyChange, "no annual rows for 2024")
}
