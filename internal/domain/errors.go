package domain

import "errors"

var (
	// ErrDataUnavailable reports that an input table is missing or unparsable.
	// It is fatal at startup.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrNoDataForSelection reports that a user-chosen combination matched no
	// row. Callers render a placeholder instead of failing.
	ErrNoDataForSelection = errors.New("no data for selection")

	// ErrInvalidMetric reports an unsupported aggregation metric.
	ErrInvalidMetric = errors.New("invalid metric")
)
