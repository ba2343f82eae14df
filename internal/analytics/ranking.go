package analytics

import (
	"cmp"
	"errors"
	"slices"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/nndss-dashboard/internal/dataset"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

// TopDiseasesByWeek ranks diseases by the sum of "Current week" cases reported
// in the given MMWR year and week.
//
// The result holds at most n entries (domain.DefaultTopN when n <= 0) in
// ascending order of total, so the largest total is last. Equal totals are
// ranked by disease name, and the ascending order is the exact reverse of
// that ranking.
func TopDiseasesByWeek(weekly dataset.WeeklyTable, year, week, n int) ([]domain.RankingEntry, error) {
	df := dataset.Where(weekly.Frame(), domain.ColWeeklyYear, year)
	df = dataset.Where(df, domain.ColWeeklyWeek, week)
	return topN(df, domain.ColWeeklyCases, n)
}

// TopDiseasesByYear ranks diseases by the sum of year-to-date cumulative
// counts across every week of the given MMWR year. Ordering follows
// TopDiseasesByWeek.
func TopDiseasesByYear(weekly dataset.WeeklyTable, year, n int) ([]domain.RankingEntry, error) {
	df := dataset.Where(weekly.Frame(), domain.ColWeeklyYear, year)
	return topN(df, domain.ColWeeklyYTD, n)
}

func topN(df dataframe.DataFrame, valueCol string, n int) ([]domain.RankingEntry, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	if n <= 0 {
		n = domain.DefaultTopN
	}
	if df.Nrow() == 0 {
		return []domain.RankingEntry{}, nil
	}

	agg, sumCol, err := aggregate(df, domain.ColWeeklyLabel, valueCol, dataframe.Aggregation_SUM)
	if errors.Is(err, errNoGroups) {
		return []domain.RankingEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	labels := agg.Col(domain.ColWeeklyLabel).Records()
	totals := agg.Col(sumCol).Float()
	entries := make([]domain.RankingEntry, len(labels))
	for i := range labels {
		entries[i] = domain.RankingEntry{Disease: labels[i], TotalCases: totals[i]}
	}

	slices.SortFunc(entries, func(a, b domain.RankingEntry) int {
		if c := cmp.Compare(b.TotalCases, a.TotalCases); c != 0 {
			return c
		}
		return cmp.Compare(a.Disease, b.Disease)
	})
	entries = entries[:min(n, len(entries))]
	slices.Reverse(entries)
	return entries, nil
}
