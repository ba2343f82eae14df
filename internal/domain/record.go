package domain

// Weekly table columns.
const (
	ColWeeklyYear     = "Current MMWR Year"
	ColWeeklyWeek     = "MMWR WEEK"
	ColWeeklyLabel    = "Label"
	ColWeeklyCases    = "Current week"
	ColWeeklyYTD      = "Cumulative YTD Current MMWR Year"
	ColWeeklyLocation = "LOCATION1"
)

// Annual table columns.
const (
	ColAnnualDisease    = "Disease"
	ColAnnualYear       = "Year"
	ColAnnualState      = "States"
	ColAnnualStateAbbr  = "state_abbr"
	ColAnnualCaseCount  = "Case Count"
	ColAnnualRate       = "Published Rate"
	ColAnnualPopulation = "Population for Published Rate"
)

// WeeklyColumns lists the weekly table columns the dashboard reads.
var WeeklyColumns = []string{
	ColWeeklyYear, ColWeeklyWeek, ColWeeklyLabel, ColWeeklyCases, ColWeeklyYTD, ColWeeklyLocation,
}

// AnnualColumns lists the annual table columns the dashboard reads.
var AnnualColumns = []string{
	ColAnnualDisease, ColAnnualYear, ColAnnualState, ColAnnualStateAbbr,
	ColAnnualCaseCount, ColAnnualRate, ColAnnualPopulation,
}

// DefaultTopN is the ranking length shown on the dashboard.
const DefaultTopN = 10

// RankingEntry is one bar of a top-N disease chart.
type RankingEntry struct {
	Disease    string  `json:"disease"`
	TotalCases float64 `json:"total_cases"`
}

// GeoPoint is one state/year cell of a choropleth. Nil measures are missing
// in the source table.
type GeoPoint struct {
	StateAbbr     string   `json:"state_abbr"`
	State         string   `json:"state"`
	Year          int      `json:"year"`
	CaseCount     *float64 `json:"case_count"`
	PublishedRate *float64 `json:"published_rate"`
	Population    *float64 `json:"population"`
}

// Value returns the point's measure for metric, or nil if it is missing.
func (p GeoPoint) Value(metric Metric) *float64 {
	switch metric {
	case MetricCaseCount:
		return p.CaseCount
	case MetricPublishedRate:
		return p.PublishedRate
	default:
		return nil
	}
}

// TrendPoint is one year of a disease trend line. Value is nil for a year
// with no published rate, which renders as a gap.
type TrendPoint struct {
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
}
