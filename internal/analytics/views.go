package analytics

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/nndss-dashboard/internal/dataset"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

// MapView is a choropleth of one disease, animated by year.
type MapView struct {
	Disease    string            `json:"disease"`
	Metric     domain.Metric     `json:"metric"`
	Years      []int             `json:"years"`
	ColorRange [2]float64        `json:"color_range"`
	Points     []domain.GeoPoint `json:"points"`
}

// ChoroplethSeries returns every state/year row of the annual table for a
// disease, ordered by year then state abbreviation. Missing measures stay nil.
func ChoroplethSeries(annual dataset.AnnualTable, disease string) ([]domain.GeoPoint, error) {
	df := dataset.Where(annual.Frame(), domain.ColAnnualDisease, disease)
	if df.Err != nil {
		return nil, df.Err
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("choropleth for %q: %w", disease, domain.ErrNoDataForSelection)
	}

	years, err := df.Col(domain.ColAnnualYear).Int()
	if err != nil {
		return nil, fmt.Errorf("choropleth for %q: %w", disease, err)
	}
	abbrs := df.Col(domain.ColAnnualStateAbbr).Records()
	states := df.Col(domain.ColAnnualState).Records()
	counts := df.Col(domain.ColAnnualCaseCount).Float()
	rates := df.Col(domain.ColAnnualRate).Float()
	pops := df.Col(domain.ColAnnualPopulation).Float()

	points := make([]domain.GeoPoint, df.Nrow())
	for i := range points {
		points[i] = domain.GeoPoint{
			StateAbbr:     abbrs[i],
			State:         states[i],
			Year:          years[i],
			CaseCount:     dataset.FloatPtr(counts[i]),
			PublishedRate: dataset.FloatPtr(rates[i]),
			Population:    dataset.FloatPtr(pops[i]),
		}
	}
	slices.SortStableFunc(points, func(a, b domain.GeoPoint) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		return cmp.Compare(a.StateAbbr, b.StateAbbr)
	})
	return points, nil
}

// BuildMap returns the choropleth of a disease colored by metric. The color
// range spans all years so frames share one scale.
func BuildMap(annual dataset.AnnualTable, disease string, metric domain.Metric) (MapView, error) {
	if _, err := metric.Column(); err != nil {
		return MapView{}, err
	}
	points, err := ChoroplethSeries(annual, disease)
	if err != nil {
		return MapView{}, err
	}

	values := make([]*float64, len(points))
	var years []int
	for i, p := range points {
		values[i] = p.Value(metric)
		if len(years) == 0 || years[len(years)-1] != p.Year {
			years = append(years, p.Year)
		}
	}

	return MapView{
		Disease:    disease,
		Metric:     metric,
		Years:      years,
		ColorRange: domain.ColorRange(values),
		Points:     points,
	}, nil
}

// TrendSeries aggregates a disease's annual rows by year: case_count sums
// case counts (missing as zero) and published_rate averages the published
// rates that are present. A year without any published rate keeps a point
// with a nil value so the line shows a gap.
func TrendSeries(annual dataset.AnnualTable, disease string, metric domain.Metric) ([]domain.TrendPoint, error) {
	col, err := metric.Column()
	if err != nil {
		return nil, err
	}

	df := dataset.Where(annual.Frame(), domain.ColAnnualDisease, disease)
	if df.Err != nil {
		return nil, df.Err
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("%s trend for %q: %w", metric, disease, domain.ErrNoDataForSelection)
	}
	df = df.Select([]string{domain.ColAnnualYear, col})
	allYears, err := df.Col(domain.ColAnnualYear).Int()
	if err != nil {
		return nil, fmt.Errorf("%s trend for %q: %w", metric, disease, err)
	}

	var typ dataframe.AggregationType
	switch metric {
	case domain.MetricCaseCount:
		df = dataset.FillZero(df, col)
		typ = dataframe.Aggregation_SUM
	case domain.MetricPublishedRate:
		var n int
		df, n = present(df, col)
		if n == 0 {
			return nil, fmt.Errorf("%s trend for %q: %w", metric, disease, domain.ErrNoDataForSelection)
		}
		typ = dataframe.Aggregation_MEAN
	}

	agg, valueCol, err := aggregate(df, domain.ColAnnualYear, col, typ)
	if err != nil {
		return nil, fmt.Errorf("%s trend for %q: %w", metric, disease, err)
	}
	years, err := agg.Col(domain.ColAnnualYear).Int()
	if err != nil {
		return nil, fmt.Errorf("%s trend for %q: %w", metric, disease, err)
	}
	values := agg.Col(valueCol).Float()

	byYear := make(map[int]*float64, len(allYears))
	for _, y := range allYears {
		byYear[y] = nil
	}
	for i := range years {
		byYear[years[i]] = dataset.FloatPtr(values[i])
	}

	trend := make([]domain.TrendPoint, 0, len(byYear))
	for y, v := range byYear {
		trend = append(trend, domain.TrendPoint{Year: y, Value: v})
	}
	slices.SortFunc(trend, func(a, b domain.TrendPoint) int { return cmp.Compare(a.Year, b.Year) })
	return trend, nil
}
