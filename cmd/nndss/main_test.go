package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/nndss-dashboard/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		WeeklyDataPath:  filepath.Join("..", "..", "internal", "dataset", "testdata", "weekly.csv"),
		AnnualDataPath:  filepath.Join("..", "..", "internal", "dataset", "testdata", "annual.csv"),
		RankingWeekYear: 2024,
		RankingWeek:     11,
		RankingYear:     2024,
		ComparisonYear:  2024,
		ComparisonWeek:  11,
		TopN:            10,
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(testConfig())
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRankWeekly(t *testing.T) {
	out, err := execute(t, "rank", "weekly")
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "Measles")
	assert.Contains(t, string(lines[0]), "7")
	assert.Contains(t, string(lines[1]), "Pertussis")
}

func TestRankWeekly_Verbose(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	out, err := execute(t, "rank", "weekly", "--verbose")
	require.NoError(t, err)

	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[1]), "Pertussis")
}

func TestRankAnnual_Top(t *testing.T) {
	out, err := execute(t, "rank", "annual", "--year", "2023", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Pertussis")
	assert.Contains(t, out, "410")
}

func TestCompare(t *testing.T) {
	out, err := execute(t, "compare", "--disease", "Measles", "--location", "California")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-W10: 10")
	assert.Contains(t, out, "2024-W11: 5")
	assert.Contains(t, out, "Change: -50.00% (decreased)")
}

func TestCompare_AnnualNoData(t *testing.T) {
	out, err := execute(t, "compare", "--disease", "Measles", "--location", "Texas", "--period", "year", "--year", "2023")
	require.NoError(t, err)
	assert.Contains(t, out, "No data available")
}

func TestCompare_InvalidPeriod(t *testing.T) {
	_, err := execute(t, "compare", "--disease", "Measles", "--location", "Ohio", "--period", "month")
	require.Error(t, err)
}

func TestCompare_MissingData(t *testing.T) {
	_, err := execute(t, "--weekly", "does-not-exist.csv", "compare", "--disease", "Measles", "--location", "Ohio")
	require.Error(t, err)
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	out, err := execute(t, "export", "--disease", "Measles", "--location", "California", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 4)
}
