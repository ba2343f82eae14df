// Command nndss answers dashboard questions from the command line using the
// same surveillance tables and computations as the dashboard service.
//
// Usage:
//
//	nndss rank weekly --year 2024 --week 11
//	nndss rank annual --year 2023 -n 5
//	nndss compare --disease Measles --location Ohio --period year
//	nndss export --disease Measles --location Ohio -o dashboard.xlsx
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/nndss-dashboard/internal/config"
	"github.com/couchcryptid/nndss-dashboard/internal/dashboard"
	"github.com/couchcryptid/nndss-dashboard/internal/dataset"
	"github.com/couchcryptid/nndss-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	weeklyPath string
	annualPath string
	verbose    bool
}

// newRootCmd builds the command tree. Environment configuration supplies the
// flag defaults and reference periods.
func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "nndss",
		Short:        "Query NNDSS disease surveillance data",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.weeklyPath, "weekly", cfg.WeeklyDataPath, "weekly surveillance CSV")
	root.PersistentFlags().StringVar(&opts.annualPath, "annual", cfg.AnnualDataPath, "annual case count CSV")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log loading details to stdout")

	root.AddCommand(
		newRankCmd(opts, cfg),
		newCompareCmd(opts, cfg),
		newExportCmd(opts, cfg),
	)
	return root
}

// loadService reads both tables and builds a dashboard service without a
// publisher.
func loadService(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) (*dashboard.Service, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.verbose {
		logger = sharedobs.NewLogger("debug", "text")
	}

	tables, err := dataset.NewLoader(opts.weeklyPath, opts.annualPath, logger).Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}
	return dashboard.NewService(tables, dashboard.Periods{
		RankingWeekYear: cfg.RankingWeekYear,
		RankingWeek:     cfg.RankingWeek,
		RankingYear:     cfg.RankingYear,
		ComparisonYear:  cfg.ComparisonYear,
		ComparisonWeek:  cfg.ComparisonWeek,
		TopN:            cfg.TopN,
	}, nil, logger, observability.NewMetricsForTesting()), nil // unregistered: the CLI serves no /metrics
}
