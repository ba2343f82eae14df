package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	WeeklyDataPath  string
	AnnualDataPath  string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Reference periods. Zero comparison fields are resolved from the clock.
	RankingWeekYear int
	RankingWeek     int
	RankingYear     int
	ComparisonYear  int
	ComparisonWeek  int
	TopN            int

	// Kafka view event publishing.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		WeeklyDataPath:  sharedcfg.EnvOrDefault("WEEKLY_DATA_PATH", "NNDSS_Weekly_Data_20240503.csv"),
		AnnualDataPath:  sharedcfg.EnvOrDefault("ANNUAL_DATA_PATH", "merged_data_CaseCount_stateabbr.csv"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "disease-dashboard-views"),
	}

	ints := []struct {
		env string
		def int
		min int
		max int
		dst *int
	}{
		{"RANKING_WEEK_YEAR", 2024, 1900, 2999, &cfg.RankingWeekYear},
		{"RANKING_WEEK", 11, 1, 53, &cfg.RankingWeek},
		{"RANKING_YEAR", 2023, 1900, 2999, &cfg.RankingYear},
		{"COMPARISON_YEAR", 2023, 0, 2999, &cfg.ComparisonYear},
		{"COMPARISON_WEEK", 0, 0, 53, &cfg.ComparisonWeek},
		{"TOP_N", 10, 1, 50, &cfg.TopN},
	}
	for _, f := range ints {
		v, err := parseIntInRange(f.env, f.def, f.min, f.max)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}
	cfg.KafkaEnabled = len(cfg.KafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		cfg.KafkaEnabled = v == "true"
	}

	if cfg.WeeklyDataPath == "" {
		return nil, errors.New("WEEKLY_DATA_PATH is required")
	}
	if cfg.AnnualDataPath == "" {
		return nil, errors.New("ANNUAL_DATA_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parseIntInRange(env string, def, minVal, maxVal int) (int, error) {
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minVal || n > maxVal {
		return 0, fmt.Errorf("invalid %s: must be an integer in [%d, %d]", env, minVal, maxVal)
	}
	return n, nil
}
