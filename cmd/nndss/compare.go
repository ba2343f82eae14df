package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/nndss-dashboard/internal/config"
	"github.com/couchcryptid/nndss-dashboard/internal/dashboard"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

func newCompareCmd(opts *rootOptions, cfg *config.Config) *cobra.Command {
	var (
		sel    dashboard.Selection
		period string
		year   int
		week   int
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a disease's cases against the previous week or year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if period != domain.PeriodWeek && period != domain.PeriodYear {
				return fmt.Errorf("--period must be %q or %q", domain.PeriodWeek, domain.PeriodYear)
			}
			svc, err := loadService(cmd, opts, cfg)
			if err != nil {
				return err
			}

			var result domain.ComparisonResult
			if period == domain.PeriodWeek {
				result, err = svc.WeeklyChange(sel, year, week)
			} else {
				result, err = svc.YearlyChange(sel, year)
			}
			if errors.Is(err, domain.ErrNoDataForSelection) {
				fmt.Fprintln(cmd.OutOrStdout(), "No data available for this selection.")
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s in %s\n", result.Disease, result.Location)
			fmt.Fprintf(out, "  %s: %.0f\n", result.PreviousLabel, result.PreviousCases)
			fmt.Fprintf(out, "  %s: %.0f\n", result.CurrentLabel, result.CurrentCases)
			fmt.Fprintln(out, result.Annotation())
			return nil
		},
	}
	cmd.Flags().StringVar(&sel.Disease, "disease", "", "disease label")
	cmd.Flags().StringVar(&sel.Location, "location", "", "state or reporting area")
	cmd.Flags().StringVar(&period, "period", domain.PeriodWeek, "week or year")
	cmd.Flags().IntVar(&year, "year", 0, "reference year (default COMPARISON_YEAR)")
	cmd.Flags().IntVar(&week, "week", 0, "reference MMWR week (default the current ISO week)")
	_ = cmd.MarkFlagRequired("disease")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}
