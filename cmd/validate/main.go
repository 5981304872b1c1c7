// Command validate performs integrity checks over a fire dataset directory:
// it runs the same loader the service uses and reports per-file row counts,
// drop rates, and year coverage, so dataset problems surface before deploy
// rather than as silent corpus shrinkage.
//
// Usage:
//
//	go run ./cmd/validate -data-dir ./data/fire
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/fire-risk-service/internal/corpus"
	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/observability"
)

// maxDropRate is the drop fraction above which a file is flagged.
const maxDropRate = 0.25

func main() {
	dataDir := flag.String("data-dir", "", "directory containing yearly FIRMS CSV files")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataDir); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string) int {
	fmt.Println("=== Fire Dataset Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := corpus.NewLoader(dataDir, logger, observability.NewMetricsForTesting())

	c, report, err := loader.Load(context.Background())
	if errors.Is(err, domain.ErrCorpusEmpty) {
		printFiles(report)
		fmt.Println("\nFAIL: no usable detections in dataset directory")
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	printFiles(report)

	var warnings []string
	warnings = append(warnings, checkDropRates(report)...)
	warnings = append(warnings, checkYearCoverage(report)...)

	fmt.Println()
	fmt.Printf("Detections: %d across %d files (%d skipped)\n",
		len(c), report.Loaded(), report.Skipped())

	if len(warnings) > 0 {
		fmt.Println()
		for _, w := range warnings {
			fmt.Printf("  WARN: %s\n", w)
		}
		fmt.Println("\nValidation passed with warnings.")
		return 0
	}

	fmt.Println("\nAll validations passed.")
	return 0
}

func printFiles(report *corpus.Report) {
	for _, f := range report.Files {
		if f.Err != nil {
			fmt.Printf("  %-40s SKIPPED: %v\n", f.Name, f.Err)
			continue
		}
		fmt.Printf("  %-40s year=%d rows=%d dropped=%d\n", f.Name, f.Year, f.Rows, f.Dropped)
	}
}

// checkDropRates flags files losing an unusual share of rows to coercion.
func checkDropRates(report *corpus.Report) []string {
	var warnings []string
	for _, f := range report.Files {
		if f.Err != nil {
			continue
		}
		total := f.Rows + f.Dropped
		if total == 0 {
			warnings = append(warnings, fmt.Sprintf("%s: no data rows", f.Name))
			continue
		}
		rate := float64(f.Dropped) / float64(total)
		if rate > maxDropRate {
			warnings = append(warnings,
				fmt.Sprintf("%s: %.0f%% of rows dropped (%d of %d)", f.Name, rate*100, f.Dropped, total))
		}
	}
	return warnings
}

// checkYearCoverage flags target years with no contributing file.
func checkYearCoverage(report *corpus.Report) []string {
	covered := map[int]bool{}
	for _, f := range report.Files {
		if f.Err == nil {
			covered[f.Year] = true
		}
	}

	var warnings []string
	for _, year := range corpus.Years() {
		if !covered[year] {
			warnings = append(warnings, fmt.Sprintf("no usable dataset file for year %d", year))
		}
	}
	return warnings
}
