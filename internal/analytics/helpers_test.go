package analytics_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/nndss-dashboard/internal/dataset"
)

const (
	weeklyHeader = "Current MMWR Year,MMWR WEEK,Label,Current week,Cumulative YTD Current MMWR Year,LOCATION1"
	annualHeader = "Disease,Year,States,state_abbr,Case Count,Published Rate,Population for Published Rate"
)

func weeklyTable(t *testing.T, rows ...string) dataset.WeeklyTable {
	t.Helper()
	table, err := dataset.ReadWeekly(strings.NewReader(weeklyHeader + "\n" + strings.Join(rows, "\n") + "\n"))
	require.NoError(t, err)
	return table
}

func annualTable(t *testing.T, rows ...string) dataset.AnnualTable {
	t.Helper()
	table, err := dataset.ReadAnnual(strings.NewReader(annualHeader + "\n" + strings.Join(rows, "\n") + "\n"))
	require.NoError(t, err)
	return table
}
