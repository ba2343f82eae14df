package domain

import (
	"fmt"
	"math"
	"time"
)

// Direction labels the sign of a period-over-period change.
type Direction string

const (
	DirectionIncreased Direction = "increased"
	DirectionDecreased Direction = "decreased"
	DirectionSteady    Direction = "steady"
)

// DirectionOf maps a percent change to its direction label.
func DirectionOf(pct float64) Direction {
	switch {
	case pct > 0:
		return DirectionIncreased
	case pct < 0:
		return DirectionDecreased
	default:
		return DirectionSteady
	}
}

// Phrase is the wording used in change annotations.
func (d Direction) Phrase() string {
	if d == DirectionSteady {
		return "remained steady"
	}
	return string(d)
}

// PercentChange returns (current-previous)/previous*100, or 0 when previous is 0.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// Period kinds for a ComparisonResult.
const (
	PeriodWeek = "week"
	PeriodYear = "year"
)

// ComparisonResult is the change in case counts for one (location, disease)
// pair between a previous and a current period.
type ComparisonResult struct {
	Location      string    `json:"location"`
	Disease       string    `json:"disease"`
	Period        string    `json:"period"`
	PreviousLabel string    `json:"previous_label"`
	CurrentLabel  string    `json:"current_label"`
	PreviousCases float64   `json:"previous_cases"`
	CurrentCases  float64   `json:"current_cases"`
	PercentChange float64   `json:"percent_change"`
	Direction     Direction `json:"direction"`
}

// NewComparison fills in the percent change and direction for two counts.
func NewComparison(location, disease string, previous, current float64) ComparisonResult {
	pct := PercentChange(current, previous)
	return ComparisonResult{
		Location:      location,
		Disease:       disease,
		PreviousCases: previous,
		CurrentCases:  current,
		PercentChange: pct,
		Direction:     DirectionOf(pct),
	}
}

// Annotation renders the change the way the dashboard prints it,
// e.g. "Change: -50.00% (decreased)".
func (c ComparisonResult) Annotation() string {
	prefix := "Change"
	if c.Period == PeriodYear {
		prefix = "Annual Change"
	}
	return fmt.Sprintf("%s: %.2f%% (%s)", prefix, c.PercentChange, c.Direction.Phrase())
}

// PreviousWeek returns the MMWR week before (year, week). Week 1 wraps to
// week 52 of the previous year.
//
// The year rolls back whenever the result is week 52, so week 53 maps to
// week 52 of the prior year as well. Years with 53 weeks are a known gap:
// the intended handling for them is undefined.
func PreviousWeek(year, week int) (int, int) {
	lastWeek := 52
	if week > 1 {
		lastWeek = week - 1
	}
	lastWeeksYear := year
	if lastWeek == 52 {
		lastWeeksYear = year - 1
	}
	return lastWeeksYear, lastWeek
}

// ReferenceWeek resolves the comparison period. A zero year or week is taken
// from the ISO calendar of now.
func ReferenceWeek(now time.Time, year, week int) (int, int) {
	isoYear, isoWeek := now.ISOWeek()
	if year == 0 {
		year = isoYear
	}
	if week == 0 {
		week = isoWeek
	}
	return year, week
}

// ColorRange returns the choropleth color domain [0, 0.8*max] over the
// non-missing values. States above the cap render at full saturation.
func ColorRange(values []*float64) [2]float64 {
	hi := math.Inf(-1)
	for _, v := range values {
		if v == nil || math.IsNaN(*v) {
			continue
		}
		hi = math.Max(hi, *v)
	}
	if math.IsInf(hi, -1) {
		return [2]float64{0, 0}
	}
	return [2]float64{0, 0.8 * hi}
}
