package dataset

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Where keeps the rows whose column equals value. Chained calls AND together.
func Where(df dataframe.DataFrame, col string, value any) dataframe.DataFrame {
	if df.Err != nil || df.Nrow() == 0 {
		return df
	}
	return df.Filter(dataframe.F{Colname: col, Comparator: series.Eq, Comparando: value})
}

// DropMissing keeps the rows where col holds a value. gota stores a literal
// "NaN" string as missing, so such keys cannot be grouped or matched.
func DropMissing(df dataframe.DataFrame, col string) dataframe.DataFrame {
	if df.Err != nil || df.Nrow() == 0 {
		return df
	}
	missing := df.Col(col).IsNaN()
	keep := make([]bool, len(missing))
	dropped := 0
	for i, na := range missing {
		keep[i] = !na
		if na {
			dropped++
		}
	}
	if dropped == 0 {
		return df
	}
	return df.Subset(keep)
}

// FillZero returns a copy of df with missing values in the given float
// columns replaced by 0.
func FillZero(df dataframe.DataFrame, cols ...string) dataframe.DataFrame {
	if df.Err != nil {
		return df
	}
	df = df.Copy()
	for _, col := range cols {
		if df.Err != nil {
			return df
		}
		vals := df.Col(col).Float()
		for i, v := range vals {
			if math.IsNaN(v) {
				vals[i] = 0
			}
		}
		df = df.Mutate(series.New(vals, series.Float, col))
	}
	return df
}

// Distinct returns the non-empty values of a column in first-seen order.
func Distinct(df dataframe.DataFrame, col string) []string {
	if df.Err != nil || df.Nrow() == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	missing := df.Col(col).IsNaN()
	for i, v := range df.Col(col).Records() {
		if v == "" || missing[i] {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// FloatPtr converts a possibly-missing value to a pointer, nil when missing.
func FloatPtr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
