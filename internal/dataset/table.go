package dataset

import (
	"fmt"
	"io"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

var weeklyTypes = map[string]series.Type{
	domain.ColWeeklyYear:     series.Int,
	domain.ColWeeklyWeek:     series.Int,
	domain.ColWeeklyLabel:    series.String,
	domain.ColWeeklyCases:    series.Float,
	domain.ColWeeklyYTD:      series.Float,
	domain.ColWeeklyLocation: series.String,
}

var annualTypes = map[string]series.Type{
	domain.ColAnnualDisease:    series.String,
	domain.ColAnnualYear:       series.Int,
	domain.ColAnnualState:      series.String,
	domain.ColAnnualStateAbbr:  series.String,
	domain.ColAnnualCaseCount:  series.Float,
	domain.ColAnnualRate:       series.Float,
	domain.ColAnnualPopulation: series.Float,
}

// WeeklyTable holds the weekly surveillance rows. Case columns never contain
// missing values.
type WeeklyTable struct {
	df dataframe.DataFrame
}

// Frame returns the underlying dataframe. Callers must not mutate it.
func (t WeeklyTable) Frame() dataframe.DataFrame { return t.df }

// Len returns the number of rows.
func (t WeeklyTable) Len() int { return t.df.Nrow() }

// AnnualTable holds the annual case count and rate rows. Case Count keeps
// missing values as NaN.
type AnnualTable struct {
	df dataframe.DataFrame
}

// Frame returns the underlying dataframe. Callers must not mutate it.
func (t AnnualTable) Frame() dataframe.DataFrame { return t.df }

// Len returns the number of rows.
func (t AnnualTable) Len() int { return t.df.Nrow() }

// Diseases returns the distinct annual diseases in file order.
func (t AnnualTable) Diseases() []string { return Distinct(t.df, domain.ColAnnualDisease) }

// States returns the distinct annual states in file order.
func (t AnnualTable) States() []string { return Distinct(t.df, domain.ColAnnualState) }

// Tables is the read-only pair of inputs loaded once per process.
type Tables struct {
	Weekly WeeklyTable
	Annual AnnualTable
}

// ReadWeekly parses a weekly surveillance CSV.
func ReadWeekly(r io.Reader) (WeeklyTable, error) {
	df, err := readFrame(r, weeklyTypes, domain.WeeklyColumns)
	if err != nil {
		return WeeklyTable{}, fmt.Errorf("weekly table: %w", err)
	}
	if err := requireIntegers(df, domain.ColWeeklyYear, domain.ColWeeklyWeek); err != nil {
		return WeeklyTable{}, fmt.Errorf("weekly table: %w", err)
	}
	df = FillZero(df, domain.ColWeeklyCases, domain.ColWeeklyYTD)
	if df.Err != nil {
		return WeeklyTable{}, fmt.Errorf("weekly table: %w: %w", domain.ErrDataUnavailable, df.Err)
	}
	return WeeklyTable{df: df}, nil
}

// ReadAnnual parses an annual case count CSV.
func ReadAnnual(r io.Reader) (AnnualTable, error) {
	df, err := readFrame(r, annualTypes, domain.AnnualColumns)
	if err != nil {
		return AnnualTable{}, fmt.Errorf("annual table: %w", err)
	}
	if err := requireIntegers(df, domain.ColAnnualYear); err != nil {
		return AnnualTable{}, fmt.Errorf("annual table: %w", err)
	}
	return AnnualTable{df: df}, nil
}

func readFrame(r io.Reader, types map[string]series.Type, required []string) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
		// "NA" is a valid label or place; unparsable numbers still load as NaN.
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return df, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, df.Err)
	}

	names := df.Names()
	for _, col := range required {
		if !slices.Contains(names, col) {
			return df, fmt.Errorf("%w: missing column %q", domain.ErrDataUnavailable, col)
		}
	}
	return df, nil
}

// requireIntegers rejects rows whose key columns did not parse as integers.
func requireIntegers(df dataframe.DataFrame, cols ...string) error {
	for _, col := range cols {
		for i, missing := range df.Col(col).IsNaN() {
			if missing {
				// +2: one for the header row, one for 1-based line numbers.
				return fmt.Errorf("%w: line %d: column %q is not an integer", domain.ErrDataUnavailable, i+2, col)
			}
		}
	}
	return nil
}
