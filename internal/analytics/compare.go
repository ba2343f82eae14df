package analytics

import (
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/nndss-dashboard/internal/dataset"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

// Column names of the joined comparison frame.
const (
	colPrevious = "Previous Cases"
	colCurrent  = "Current Cases"
)

// WeekOverWeek compares a location's cases of one disease in the given MMWR
// week against the week before it (see domain.PreviousWeek).
//
// Both weeks are projected to (location, disease, cases) and full outer
// joined, with a side that has no row counted as zero cases. If the pair is
// absent from both weeks the error wraps domain.ErrNoDataForSelection.
func WeekOverWeek(weekly dataset.WeeklyTable, year, week int, location, disease string) (domain.ComparisonResult, error) {
	prevYear, prevWeek := domain.PreviousWeek(year, week)

	previous := weekProjection(weekly, prevYear, prevWeek, colPrevious)
	current := weekProjection(weekly, year, week, colCurrent)

	joined, err := joinPeriods(previous, current, domain.ColWeeklyLocation, domain.ColWeeklyLabel)
	if err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("week over week: %w", err)
	}

	row := dataset.Where(joined, domain.ColWeeklyLocation, location)
	row = dataset.Where(row, domain.ColWeeklyLabel, disease)
	prevCases, curCases, err := firstRow(row)
	if err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("week over week %s/%s for %q in %q: %w",
			weekLabel(prevYear, prevWeek), weekLabel(year, week), disease, location, err)
	}

	res := domain.NewComparison(location, disease, prevCases, curCases)
	res.Period = domain.PeriodWeek
	res.PreviousLabel = weekLabel(prevYear, prevWeek)
	res.CurrentLabel = weekLabel(year, week)
	return res, nil
}

// YearOverYear compares a state's annual case count of one disease in the
// given year against the year before. Missing or non-numeric counts and
// states absent from one year count as zero.
func YearOverYear(annual dataset.AnnualTable, year int, location, disease string) (domain.ComparisonResult, error) {
	previous := yearProjection(annual, year-1, disease, colPrevious)
	current := yearProjection(annual, year, disease, colCurrent)

	joined, err := joinPeriods(previous, current, domain.ColAnnualState)
	if err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("year over year: %w", err)
	}

	prevCases, curCases, err := firstRow(dataset.Where(joined, domain.ColAnnualState, location))
	if err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("year over year %d/%d for %q in %q: %w",
			year-1, year, disease, location, err)
	}

	res := domain.NewComparison(location, disease, prevCases, curCases)
	res.Period = domain.PeriodYear
	res.PreviousLabel = strconv.Itoa(year - 1)
	res.CurrentLabel = strconv.Itoa(year)
	return res, nil
}

func weekProjection(weekly dataset.WeeklyTable, year, week int, as string) dataframe.DataFrame {
	df := dataset.Where(weekly.Frame(), domain.ColWeeklyYear, year)
	df = dataset.Where(df, domain.ColWeeklyWeek, week)
	df = df.Select([]string{domain.ColWeeklyLocation, domain.ColWeeklyLabel, domain.ColWeeklyCases})
	df = dataset.DropMissing(df, domain.ColWeeklyLocation)
	df = dataset.DropMissing(df, domain.ColWeeklyLabel)
	return df.Rename(as, domain.ColWeeklyCases)
}

func yearProjection(annual dataset.AnnualTable, year int, disease, as string) dataframe.DataFrame {
	df := dataset.Where(annual.Frame(), domain.ColAnnualYear, year)
	df = dataset.Where(df, domain.ColAnnualDisease, disease)
	df = df.Select([]string{domain.ColAnnualState, domain.ColAnnualCaseCount})
	df = dataset.DropMissing(df, domain.ColAnnualState)
	return df.Rename(as, domain.ColAnnualCaseCount)
}

// joinPeriods full outer joins the previous and current projections on keys
// and fills every missing count with zero.
func joinPeriods(previous, current dataframe.DataFrame, keys ...string) (dataframe.DataFrame, error) {
	if previous.Err != nil {
		return previous, previous.Err
	}
	if current.Err != nil {
		return current, current.Err
	}
	if previous.Nrow() == 0 && current.Nrow() == 0 {
		return previous, domain.ErrNoDataForSelection
	}

	joined := previous.OuterJoin(current, keys...)
	if joined.Err != nil {
		return joined, joined.Err
	}
	joined = dataset.FillZero(joined, colPrevious, colCurrent)
	return joined, joined.Err
}

func weekLabel(year, week int) string {
	return fmt.Sprintf("%d-W%02d", year, week)
}
