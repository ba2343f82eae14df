package domain

import "fmt"

// Metric selects the annual table measure a map or trend is built from.
type Metric string

const (
	MetricCaseCount     Metric = "case_count"
	MetricPublishedRate Metric = "published_rate"
)

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricCaseCount, MetricPublishedRate:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMetric, s)
	}
}

// Column returns the annual table column backing the metric.
func (m Metric) Column() (string, error) {
	switch m {
	case MetricCaseCount:
		return ColAnnualCaseCount, nil
	case MetricPublishedRate:
		return ColAnnualRate, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMetric, string(m))
	}
}
