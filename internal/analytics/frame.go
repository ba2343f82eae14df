package analytics

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/nndss-dashboard/internal/dataset"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

var errNoGroups = errors.New("no keyed rows")

// aggregate groups df by key and applies typ to value. It returns the grouped
// frame and the name of the aggregated column. Rows without a key are left out
// of every group.
func aggregate(df dataframe.DataFrame, key, value string, typ dataframe.AggregationType) (dataframe.DataFrame, string, error) {
	df = dataset.DropMissing(df, key)
	if df.Err == nil && df.Nrow() == 0 {
		return df, "", errNoGroups
	}
	agg := df.GroupBy(key).Aggregation([]dataframe.AggregationType{typ}, []string{value})
	if agg.Err != nil {
		return agg, "", fmt.Errorf("aggregate %q by %q: %w", value, key, agg.Err)
	}
	for _, name := range agg.Names() {
		if name != key {
			return agg, name, nil
		}
	}
	return agg, "", fmt.Errorf("aggregate %q by %q: no aggregated column", value, key)
}

// firstRow returns the previous and current counts of the first row of a
// joined comparison frame.
func firstRow(df dataframe.DataFrame) (previous, current float64, err error) {
	if df.Err != nil {
		return 0, 0, df.Err
	}
	if df.Nrow() == 0 {
		return 0, 0, domain.ErrNoDataForSelection
	}
	return df.Col(colPrevious).Float()[0], df.Col(colCurrent).Float()[0], nil
}

// present returns the rows of df where col is not missing, and how many
// there are. The frame is only meaningful when the count is positive.
func present(df dataframe.DataFrame, col string) (dataframe.DataFrame, int) {
	if df.Err != nil || df.Nrow() == 0 {
		return df, 0
	}
	var idx []int
	for i, v := range df.Col(col).Float() {
		if !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 || len(idx) == df.Nrow() {
		return df, len(idx)
	}
	return df.Subset(idx), len(idx)
}
