package xlsx_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/nndss-dashboard/internal/adapter/xlsx"
	"github.com/couchcryptid/nndss-dashboard/internal/dashboard"
	"github.com/couchcryptid/nndss-dashboard/internal/dataset"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

func sampleView() dashboard.ViewModel {
	weekly := domain.NewComparison("Ohio", "Measles", 4, 2)
	weekly.Period = domain.PeriodWeek
	weekly.PreviousLabel = "2023-W10"
	weekly.CurrentLabel = "2023-W11"

	caseTrend := []domain.TrendPoint{{Year: 2022, Value: dataset.FloatPtr(10)}, {Year: 2023, Value: dataset.FloatPtr(25)}}
	rateTrend := []domain.TrendPoint{{Year: 2022}, {Year: 2023, Value: dataset.FloatPtr(0.06)}}

	return dashboard.ViewModel{
		Selection:   dashboard.Selection{Disease: "Measles", Location: "Ohio"},
		GeneratedAt: time.Date(2023, time.March, 16, 0, 0, 0, 0, time.UTC),
		WeeklyTop: []domain.RankingEntry{
			{Disease: "Measles", TotalCases: 2},
			{Disease: "Pertussis", TotalCases: 7},
		},
		AnnualTop:    []domain.RankingEntry{{Disease: "Pertussis", TotalCases: 30}},
		CaseTrend:    dashboard.Panel[[]domain.TrendPoint]{Data: &caseTrend},
		RateTrend:    dashboard.Panel[[]domain.TrendPoint]{Data: &rateTrend},
		WeeklyChange: dashboard.Panel[domain.ComparisonResult]{Data: &weekly},
		YearlyChange: dashboard.Panel[domain.ComparisonResult]{NoData: true, Message: "No data available for this selection."},
	}
}

func rows(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()
	got, err := f.GetRows(sheet)
	require.NoError(t, err)
	return got
}

func TestExport_Sheets(t *testing.T) {
	f, err := xlsx.Export(sampleView())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{xlsx.SheetWeeklyTop, xlsx.SheetAnnualTop, xlsx.SheetTrends, xlsx.SheetChanges}, f.GetSheetList())
}

func TestExport_RankingLargestFirst(t *testing.T) {
	f, err := xlsx.Export(sampleView())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, [][]string{
		{"Rank", "Disease", "Total Cases"},
		{"1", "Pertussis", "7"},
		{"2", "Measles", "2"},
	}, rows(t, f, xlsx.SheetWeeklyTop))
}

func TestExport_TrendsMergedByYear(t *testing.T) {
	f, err := xlsx.Export(sampleView())
	require.NoError(t, err)
	defer f.Close()

	got := rows(t, f, xlsx.SheetTrends)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Measles", "2022", "10"}, got[1])
	assert.Equal(t, []string{"Measles", "2023", "25", "0.06"}, got[2])
}

func TestExport_ChangesWithPlaceholder(t *testing.T) {
	f, err := xlsx.Export(sampleView())
	require.NoError(t, err)
	defer f.Close()

	got := rows(t, f, xlsx.SheetChanges)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"week", "Ohio", "Measles", "2023-W10", "2023-W11", "4", "2", "-50", "decreased"}, got[1])
	assert.Equal(t, []string{"year", "Ohio", "Measles", "No data available for this selection."}, got[2])
}

func TestExport_WritesWorkbook(t *testing.T) {
	f, err := xlsx.Export(sampleView())
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	reopened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Len(t, reopened.GetSheetList(), 4)
}
