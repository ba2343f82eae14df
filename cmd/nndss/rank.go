package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/nndss-dashboard/internal/config"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

func newRankCmd(opts *rootOptions, cfg *config.Config) *cobra.Command {
	var year, week, n int

	rank := &cobra.Command{
		Use:   "rank",
		Short: "Show the diseases with the most cases",
	}

	weekly := &cobra.Command{
		Use:   "weekly",
		Short: "Top diseases for one MMWR week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd, opts, cfg)
			if err != nil {
				return err
			}
			entries, err := svc.WeeklyRanking(year, week, n)
			if err != nil {
				return err
			}
			printRanking(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	weekly.Flags().IntVar(&year, "year", 0, "MMWR year (default RANKING_WEEK_YEAR)")
	weekly.Flags().IntVar(&week, "week", 0, "MMWR week (default RANKING_WEEK)")
	weekly.Flags().IntVarP(&n, "top", "n", 0, "number of diseases (default TOP_N)")

	annual := &cobra.Command{
		Use:   "annual",
		Short: "Top diseases by year-to-date cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd, opts, cfg)
			if err != nil {
				return err
			}
			entries, err := svc.AnnualRanking(year, n)
			if err != nil {
				return err
			}
			printRanking(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	annual.Flags().IntVar(&year, "year", 0, "MMWR year (default RANKING_YEAR)")
	annual.Flags().IntVarP(&n, "top", "n", 0, "number of diseases (default TOP_N)")

	rank.AddCommand(weekly, annual)
	return rank
}

// printRanking lists the largest total first.
func printRanking(w io.Writer, entries []domain.RankingEntry) {
	for i := len(entries) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "%2d. %-50s %10.0f\n", len(entries)-i, entries[i].Disease, entries[i].TotalCases)
	}
}
