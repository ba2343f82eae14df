// Package xlsx renders a dashboard view as an Excel workbook.
package xlsx

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/nndss-dashboard/internal/dashboard"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

// ContentType is the MIME type of the exported workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, in workbook order.
const (
	SheetWeeklyTop = "Weekly Top 10"
	SheetAnnualTop = "Annual Top 10"
	SheetTrends    = "Trends"
	SheetChanges   = "Changes"
)

// Export builds a workbook from a rendered view. The caller owns the file
// and should Close it.
func Export(vm dashboard.ViewModel) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetWeeklyTop); err != nil {
		f.Close() //nolint:errcheck // discarding a failed workbook
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetAnnualTop, SheetTrends, SheetChanges} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close() //nolint:errcheck // discarding a failed workbook
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close() //nolint:errcheck // discarding a failed workbook
		return nil, fmt.Errorf("create header style: %w", err)
	}

	sheets := map[string][][]any{
		SheetWeeklyTop: rankingRows(vm.WeeklyTop),
		SheetAnnualTop: rankingRows(vm.AnnualTop),
		SheetTrends:    trendRows(vm),
		SheetChanges:   changeRows(vm),
	}
	for _, name := range []string{SheetWeeklyTop, SheetAnnualTop, SheetTrends, SheetChanges} {
		if err := writeSheet(f, name, sheets[name], bold); err != nil {
			f.Close() //nolint:errcheck // discarding a failed workbook
			return nil, err
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}
	return nil
}

// rankingRows lists the largest total first.
func rankingRows(entries []domain.RankingEntry) [][]any {
	rows := [][]any{{"Rank", "Disease", "Total Cases"}}
	for i := len(entries) - 1; i >= 0; i-- {
		rows = append(rows, []any{len(entries) - i, entries[i].Disease, entries[i].TotalCases})
	}
	return rows
}

// trendRows merges the case and rate trends by year. Years without a
// published rate leave the rate cell empty.
func trendRows(vm dashboard.ViewModel) [][]any {
	rows := [][]any{{"Disease", "Year", "Case Count", "Published Rate"}}
	if vm.CaseTrend.NoData {
		return append(rows, []any{vm.Selection.Disease, vm.CaseTrend.Message})
	}

	byYear := make(map[int][]any)
	var years []int
	if vm.CaseTrend.Data != nil {
		for _, p := range *vm.CaseTrend.Data {
			byYear[p.Year] = []any{vm.Selection.Disease, p.Year, cellValue(p.Value), nil}
			years = append(years, p.Year)
		}
	}
	if vm.RateTrend.Data != nil {
		for _, p := range *vm.RateTrend.Data {
			row, ok := byYear[p.Year]
			if !ok {
				row = []any{vm.Selection.Disease, p.Year, nil, nil}
				years = append(years, p.Year)
			}
			row[3] = cellValue(p.Value)
			byYear[p.Year] = row
		}
	}
	sort.Ints(years)
	for _, y := range years {
		rows = append(rows, byYear[y])
	}
	return rows
}

// cellValue leaves the cell empty for a missing value.
func cellValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func changeRows(vm dashboard.ViewModel) [][]any {
	rows := [][]any{{
		"Period", "Location", "Disease", "Previous", "Current",
		"Previous Cases", "Current Cases", "Percent Change", "Direction",
	}}
	for _, p := range []struct {
		period string
		panel  dashboard.Panel[domain.ComparisonResult]
	}{
		{domain.PeriodWeek, vm.WeeklyChange},
		{domain.PeriodYear, vm.YearlyChange},
	} {
		if p.panel.Data == nil {
			rows = append(rows, []any{p.period, vm.Selection.Location, vm.Selection.Disease, p.panel.Message})
			continue
		}
		c := *p.panel.Data
		rows = append(rows, []any{
			c.Period, c.Location, c.Disease, c.PreviousLabel, c.CurrentLabel,
			c.PreviousCases, c.CurrentCases, c.PercentChange, string(c.Direction),
		})
	}
	return rows
}
