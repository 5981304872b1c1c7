// Package corpus loads yearly FIRMS detection archives into an in-memory
// fire corpus.
package corpus

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/observability"
)

// earliestYear is the oldest dataset year considered. FIRMS VIIRS archives
// start in 2012 but the corpus was calibrated against 2015 onward.
const earliestYear = 2015

// FileResult records the outcome of loading one (year, file) pair.
type FileResult struct {
	Name    string
	Year    int
	Rows    int // retained
	Dropped int
	Err     error // non-nil when the file was skipped entirely

	detections []domain.Detection
}

// Report accumulates per-file outcomes of a load. Per-file failures live
// here, not in the load error: a bad file is skipped and logged, never fatal.
type Report struct {
	Files []FileResult
}

// Loaded returns the number of files that contributed rows.
func (r *Report) Loaded() int {
	n := 0
	for _, f := range r.Files {
		if f.Err == nil {
			n++
		}
	}
	return n
}

// Skipped returns the number of files that failed to read or parse.
func (r *Report) Skipped() int {
	return len(r.Files) - r.Loaded()
}

// Loader reads every yearly dataset file in a directory and produces a
// unified, cleaned corpus.
type Loader struct {
	dir     string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader for the given dataset directory.
func NewLoader(dir string, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{dir: dir, logger: logger, metrics: metrics}
}

// Years returns the target year range, most recent first: from one year
// before the current calendar year down to 2015 inclusive.
func Years() []int {
	var years []int
	for y := domain.Now().Year() - 1; y >= earliestYear; y-- {
		years = append(years, y)
	}
	return years
}

// Load scans the directory for files whose names contain a year token in
// range, parses each as a FIRMS CSV, and concatenates the surviving rows.
// Unreadable or unparseable files are skipped with a warning and recorded in
// the report. Returns domain.ErrCorpusEmpty when no rows survive at all.
// The context bounds the file-scan phase; dataset directories can be large.
func (l *Loader) Load(ctx context.Context) (domain.Corpus, *Report, error) {
	start := time.Now()

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read dataset dir: %w", err)
	}

	var corpus domain.Corpus
	report := &Report{}

	for _, year := range Years() {
		token := strconv.Itoa(year)
		for _, entry := range entries {
			if entry.IsDir() || !strings.Contains(entry.Name(), token) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, nil, fmt.Errorf("corpus load interrupted: %w", err)
			}

			result := l.loadFile(filepath.Join(l.dir, entry.Name()), year)
			report.Files = append(report.Files, result)

			if result.Err != nil {
				l.logger.Warn("dataset file skipped",
					"file", entry.Name(), "year", year, "error", result.Err)
				l.metrics.DatasetFiles.WithLabelValues("skipped").Inc()
				continue
			}

			l.logger.Info("dataset file loaded",
				"file", entry.Name(), "year", year,
				"rows", result.Rows, "dropped", result.Dropped)
			l.metrics.DatasetFiles.WithLabelValues("loaded").Inc()
			l.metrics.RowsDropped.Add(float64(result.Dropped))

			corpus = append(corpus, result.detections...)
		}
	}

	if len(corpus) == 0 {
		return nil, report, domain.ErrCorpusEmpty
	}

	l.metrics.CorpusDetections.Set(float64(len(corpus)))
	l.metrics.CorpusLoadSeconds.Observe(time.Since(start).Seconds())
	l.logger.Info("corpus loaded",
		"detections", len(corpus),
		"files_loaded", report.Loaded(), "files_skipped", report.Skipped())

	return corpus, report, nil
}

func (l *Loader) loadFile(path string, year int) FileResult {
	result := FileResult{Name: filepath.Base(path), Year: year}

	f, err := os.Open(path)
	if err != nil {
		result.Err = fmt.Errorf("open: %w", err)
		return result
	}
	defer f.Close()

	detections, dropped, err := parseCSV(f, year)
	if err != nil {
		result.Err = err
		return result
	}

	result.Rows = len(detections)
	result.Dropped = dropped
	result.detections = detections
	return result
}

// parseCSV reads a FIRMS CSV stream, dropping rows that fail coercion.
// The header must contain columns mappable to latitude, longitude,
// brightness, frp, and date; otherwise the whole file is rejected.
func parseCSV(r io.Reader, year int) ([]domain.Detection, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows; they drop during parse

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	seen := map[string]bool{}
	for i, name := range header {
		columns[i] = domain.CanonicalColumn(name)
		seen[columns[i]] = true
	}
	for _, required := range []string{"latitude", "longitude", "brightness", "frp", "date"} {
		if !seen[required] {
			return nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	var detections []domain.Detection
	dropped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row: %w", err)
		}

		rec := domain.Record{}
		for i, value := range row {
			if i < len(columns) {
				rec[columns[i]] = value
			}
		}

		detection, err := domain.ParseRecord(rec, year)
		if err != nil {
			dropped++
			continue
		}
		detections = append(detections, detection)
	}

	return detections, dropped, nil
}
