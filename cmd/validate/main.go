// Command validate checks the two NNDSS input files before they are served.
// It verifies required columns, integer periods, value ranges, and reports
// row counts, missing values, and the distinct diseases and locations.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -weekly NNDSS_Weekly_Data_20240503.csv \
//	  -annual merged_data_CaseCount_stateabbr.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/couchcryptid/nndss-dashboard/internal/dataset"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	weeklyPath := flag.String("weekly", "", "path to the weekly surveillance CSV")
	annualPath := flag.String("annual", "", "path to the annual case count CSV")
	flag.Parse()

	if *weeklyPath == "" || *annualPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*weeklyPath, *annualPath); code != 0 {
		os.Exit(code)
	}
}

func run(weeklyPath, annualPath string) int {
	fmt.Println("=== NNDSS Data Integrity Validation ===")
	fmt.Println()

	weeklyRaw, err := loadCSV(weeklyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load weekly CSV: %v\n", err)
		return 1
	}
	annualRaw, err := loadCSV(annualPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load annual CSV: %v\n", err)
		return 1
	}

	weekly, weeklyErr := readWeekly(weeklyPath)
	annual, annualErr := readAnnual(annualPath)

	phases := []*phase{
		validateWeekly(weekly, weeklyErr),
		validateAnnual(annual, annualErr),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d weekly, %d annual\n", len(weeklyRaw.rows), len(annualRaw.rows))
	printMissing("weekly", weeklyRaw, domain.WeeklyColumns)
	printMissing("annual", annualRaw, domain.AnnualColumns)
	if annualErr == nil {
		fmt.Printf("Distinct: %d diseases, %d locations\n", len(annual.Diseases()), len(annual.States()))
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// rawTable keeps the untyped cells so missing values can be counted before
// the loader fills them.
type rawTable struct {
	header map[string]int
	rows   [][]string
}

func loadCSV(path string) (rawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return rawTable{}, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return rawTable{}, err
	}
	if len(all) < 2 {
		return rawTable{}, fmt.Errorf("no data rows in %s", path)
	}

	header := make(map[string]int, len(all[0]))
	for i, h := range all[0] {
		header[strings.TrimSpace(h)] = i
	}
	return rawTable{header: header, rows: all[1:]}, nil
}

// missing counts empty cells in a column. Absent columns report -1.
func (t rawTable) missing(col string) int {
	idx, ok := t.header[col]
	if !ok {
		return -1
	}
	n := 0
	for _, row := range t.rows {
		if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
			n++
		}
	}
	return n
}

func printMissing(name string, t rawTable, cols []string) {
	var parts []string
	for _, col := range cols {
		if n := t.missing(col); n != 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", col, n))
		}
	}
	if len(parts) == 0 {
		fmt.Printf("Missing values (%s): none\n", name)
		return
	}
	fmt.Printf("Missing values (%s): %s\n", name, strings.Join(parts, ", "))
}

func readWeekly(path string) (dataset.WeeklyTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset.WeeklyTable{}, err
	}
	defer f.Close()
	return dataset.ReadWeekly(f)
}

func readAnnual(path string) (dataset.AnnualTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset.AnnualTable{}, err
	}
	defer f.Close()
	return dataset.ReadAnnual(f)
}

// ── Phases ──

func validateWeekly(t dataset.WeeklyTable, loadErr error) *phase {
	p := &phase{name: "Weekly table"}
	if loadErr != nil {
		p.errorf("load: %v", loadErr)
		return p
	}

	df := t.Frame()
	weeks := df.Col(domain.ColWeeklyWeek).Float()
	cases := df.Col(domain.ColWeeklyCases).Float()
	ytd := df.Col(domain.ColWeeklyYTD).Float()
	labels := df.Col(domain.ColWeeklyLabel).Records()
	for i := range weeks {
		line := i + 2
		if weeks[i] < 1 || weeks[i] > 53 {
			p.errorf("line %d: MMWR week %v out of range 1-53", line, weeks[i])
		}
		if cases[i] < 0 {
			p.errorf("line %d: negative current week count %v", line, cases[i])
		}
		if ytd[i] < 0 {
			p.errorf("line %d: negative year-to-date count %v", line, ytd[i])
		}
		if strings.TrimSpace(labels[i]) == "" {
			p.errorf("line %d: empty disease label", line)
		}
	}
	return p
}

func validateAnnual(t dataset.AnnualTable, loadErr error) *phase {
	p := &phase{name: "Annual table"}
	if loadErr != nil {
		p.errorf("load: %v", loadErr)
		return p
	}

	df := t.Frame()
	abbrs := df.Col(domain.ColAnnualStateAbbr).Records()
	states := df.Col(domain.ColAnnualState).Records()
	counts := df.Col(domain.ColAnnualCaseCount).Float()
	rates := df.Col(domain.ColAnnualRate).Float()
	for i := range abbrs {
		line := i + 2
		if len(strings.TrimSpace(abbrs[i])) != 2 {
			p.errorf("line %d: state_abbr %q is not 2 characters", line, abbrs[i])
		}
		if strings.TrimSpace(states[i]) == "" {
			p.errorf("line %d: empty state", line)
		}
		if !math.IsNaN(counts[i]) && counts[i] < 0 {
			p.errorf("line %d: negative case count %v", line, counts[i])
		}
		if !math.IsNaN(rates[i]) && rates[i] < 0 {
			p.errorf("line %d: negative published rate %v", line, rates[i])
		}
	}
	return p
}
