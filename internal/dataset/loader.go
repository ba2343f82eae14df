package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

// Loader reads both dashboard tables from disk.
type Loader struct {
	weeklyPath string
	annualPath string
	logger     *slog.Logger
}

// NewLoader creates a Loader for the given file paths.
func NewLoader(weeklyPath, annualPath string, logger *slog.Logger) *Loader {
	return &Loader{
		weeklyPath: weeklyPath,
		annualPath: annualPath,
		logger:     logger,
	}
}

// Load reads the weekly and annual tables concurrently. Any failure is
// reported as domain.ErrDataUnavailable and no partial result is returned.
func (l *Loader) Load(ctx context.Context) (*Tables, error) {
	start := time.Now()
	var tables Tables

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := readFile(gctx, l.weeklyPath, ReadWeekly)
		if err != nil {
			return err
		}
		tables.Weekly = t
		return nil
	})
	g.Go(func() error {
		t, err := readFile(gctx, l.annualPath, ReadAnnual)
		if err != nil {
			return err
		}
		tables.Annual = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Info("tables loaded",
		"weekly_path", l.weeklyPath,
		"weekly_rows", tables.Weekly.Len(),
		"annual_path", l.annualPath,
		"annual_rows", tables.Annual.Len(),
		"duration", time.Since(start),
	)
	return &tables, nil
}

func readFile[T any](ctx context.Context, path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}
	defer f.Close()

	t, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
