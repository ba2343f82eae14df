package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		expected float64
	}{
		{"halved", 5, 10, -50},
		{"grew by half", 150, 100, 50},
		{"unchanged", 7, 7, 0},
		{"both zero", 0, 0, 0},
		{"zero previous", 42, 0, 0},
		{"dropped to zero", 0, 12, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PercentChange(tt.current, tt.previous), 1e-9)
		})
	}
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, DirectionIncreased, DirectionOf(0.01))
	assert.Equal(t, DirectionDecreased, DirectionOf(-50))
	assert.Equal(t, DirectionSteady, DirectionOf(0))
}

func TestNewComparison_ZeroPreviousIsSteady(t *testing.T) {
	for _, current := range []float64{0, 1, 250} {
		c := NewComparison("Ohio", "Measles", 0, current)
		assert.Zero(t, c.PercentChange)
		assert.Equal(t, DirectionSteady, c.Direction)
	}
}

func TestComparisonResult_Annotation(t *testing.T) {
	weekly := NewComparison("California", "Measles", 10, 5)
	weekly.Period = PeriodWeek
	assert.Equal(t, "Change: -50.00% (decreased)", weekly.Annotation())

	yearly := NewComparison("California", "Measles", 100, 150)
	yearly.Period = PeriodYear
	assert.Equal(t, "Annual Change: 50.00% (increased)", yearly.Annotation())

	steady := NewComparison("California", "Measles", 0, 3)
	steady.Period = PeriodWeek
	assert.Equal(t, "Change: 0.00% (remained steady)", steady.Annotation())
}

func TestPreviousWeek(t *testing.T) {
	tests := []struct {
		name       string
		year, week int
		wantYear   int
		wantWeek   int
	}{
		{"mid year", 2024, 11, 2024, 10},
		{"week two", 2024, 2, 2024, 1},
		{"wraps week one", 2024, 1, 2023, 52},
		{"week 53 rolls the year back", 2020, 53, 2019, 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, w := PreviousWeek(tt.year, tt.week)
			assert.Equal(t, tt.wantYear, y)
			assert.Equal(t, tt.wantWeek, w)
		})
	}
}

func TestReferenceWeek(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC))
	SetClock(fake)
	t.Cleanup(func() { SetClock(nil) })

	year, week := ReferenceWeek(Clock().Now(), 2023, 0)
	assert.Equal(t, 2023, year)
	assert.Equal(t, 11, week)

	year, week = ReferenceWeek(Clock().Now(), 0, 0)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 11, week)

	year, week = ReferenceWeek(Clock().Now(), 2022, 30)
	assert.Equal(t, 2022, year)
	assert.Equal(t, 30, week)
}

func TestColorRange(t *testing.T) {
	v := func(f float64) *float64 { return &f }

	assert.Equal(t, [2]float64{0, 80}, ColorRange([]*float64{v(10), nil, v(100), v(40)}))
	assert.Equal(t, [2]float64{0, 0}, ColorRange(nil))
	assert.Equal(t, [2]float64{0, 0}, ColorRange([]*float64{nil}))
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("case_count")
	require.NoError(t, err)
	col, err := m.Column()
	require.NoError(t, err)
	assert.Equal(t, ColAnnualCaseCount, col)

	m, err = ParseMetric("published_rate")
	require.NoError(t, err)
	col, err = m.Column()
	require.NoError(t, err)
	assert.Equal(t, ColAnnualRate, col)

	_, err = ParseMetric("median")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidMetric))

	_, err = Metric("bogus").Column()
	assert.ErrorIs(t, err, ErrInvalidMetric)
}

func TestGeoPoint_Value(t *testing.T) {
	cases, rate := 12.0, 3.4
	p := GeoPoint{CaseCount: &cases, PublishedRate: &rate}

	assert.Equal(t, &cases, p.Value(MetricCaseCount))
	assert.Equal(t, &rate, p.Value(MetricPublishedRate))
	assert.Nil(t, p.Value(Metric("other")))
}
