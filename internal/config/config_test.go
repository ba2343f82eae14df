package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "NNDSS_Weekly_Data_20240503.csv", cfg.WeeklyDataPath)
	assert.Equal(t, "merged_data_CaseCount_stateabbr.csv", cfg.AnnualDataPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2024, cfg.RankingWeekYear)
	assert.Equal(t, 11, cfg.RankingWeek)
	assert.Equal(t, 2023, cfg.RankingYear)
	assert.Equal(t, 2023, cfg.ComparisonYear)
	assert.Zero(t, cfg.ComparisonWeek)
	assert.Equal(t, 10, cfg.TopN)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "disease-dashboard-views", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("WEEKLY_DATA_PATH", "/data/weekly.csv")
	t.Setenv("ANNUAL_DATA_PATH", "/data/annual.csv")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("RANKING_WEEK_YEAR", "2025")
	t.Setenv("RANKING_WEEK", "3")
	t.Setenv("RANKING_YEAR", "2024")
	t.Setenv("COMPARISON_YEAR", "2025")
	t.Setenv("COMPARISON_WEEK", "4")
	t.Setenv("TOP_N", "5")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "views")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/weekly.csv", cfg.WeeklyDataPath)
	assert.Equal(t, "/data/annual.csv", cfg.AnnualDataPath)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2025, cfg.RankingWeekYear)
	assert.Equal(t, 3, cfg.RankingWeek)
	assert.Equal(t, 2024, cfg.RankingYear)
	assert.Equal(t, 2025, cfg.ComparisonYear)
	assert.Equal(t, 4, cfg.ComparisonWeek)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "views", cfg.KafkaTopic)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidIntegers(t *testing.T) {
	tests := []struct {
		env   string
		value string
	}{
		{"RANKING_WEEK", "0"},
		{"RANKING_WEEK", "54"},
		{"RANKING_WEEK_YEAR", "twenty"},
		{"COMPARISON_WEEK", "-1"},
		{"TOP_N", "0"},
		{"TOP_N", "51"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.env)
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}
