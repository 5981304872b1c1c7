// Command genfixtures generates synthetic FIRMS-style yearly CSV files for
// local development and load testing. The output matches the VIIRS column
// layout the corpus loader expects, including a fraction of deliberately
// broken rows so the drop path gets exercised.
//
// Usage:
//
//	go run ./cmd/genfixtures -out data/fire -years 2015-2025 -per-year 500 -seed 42
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const header = "latitude,longitude,bright_ti4,scan,track,acq_date,acq_time,satellite,confidence,version,bright_ti5,frp,daynight\n"

// badRowFraction controls how many rows get a missing frp value.
const badRowFraction = 0.05

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/fire", "output directory for yearly CSV files")
	years := flag.String("years", "2015-2025", "inclusive year range, e.g. 2015-2025")
	perYear := flag.Int("per-year", 500, "detections per year")
	seed := flag.Int64("seed", 1, "random seed for reproducible fixtures")
	lat := flag.Float64("lat", 40.0, "center latitude of the synthetic fire region")
	lon := flag.Float64("lon", -5.0, "center longitude of the synthetic fire region")
	spread := flag.Float64("spread", 2.0, "max offset from center, in degrees")
	flag.Parse()

	from, to, err := parseYearRange(*years)
	if err != nil {
		flag.Usage()
		return err
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	for year := from; year <= to; year++ {
		name := fmt.Sprintf("viirs_snpp_%d.csv", year)
		path := filepath.Join(*out, name)
		if err := writeYear(path, year, *perYear, *lat, *lon, *spread, rng); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		log.Printf("%s: %d rows", name, *perYear)
	}
	return nil
}

func parseYearRange(s string) (int, int, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid -years %q, want FROM-TO", s)
	}
	from, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid -years %q: %w", s, err)
	}
	to, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid -years %q: %w", s, err)
	}
	if from > to {
		return 0, 0, fmt.Errorf("invalid -years %q: from > to", s)
	}
	return from, to, nil
}

func writeYear(path string, year, rows int, lat, lon, spread float64, rng *rand.Rand) error {
	var b strings.Builder
	b.WriteString(header)

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		rowLat := lat + (rng.Float64()*2-1)*spread
		rowLon := lon + (rng.Float64()*2-1)*spread
		// Typical VIIRS fire pixels sit in the 300-450 K range.
		brightness := 300.0 + rng.Float64()*150.0
		frp := rng.Float64() * 80.0
		date := start.AddDate(0, 0, rng.Intn(365)).Format("2006-01-02")
		acqTime := fmt.Sprintf("%02d%02d", rng.Intn(24), rng.Intn(60))

		frpField := fmt.Sprintf("%.1f", frp)
		if rng.Float64() < badRowFraction {
			frpField = ""
		}

		fmt.Fprintf(&b, "%.4f,%.4f,%.1f,0.4,0.4,%s,%s,N,n,2.0NRT,%.1f,%s,N\n",
			rowLat, rowLon, brightness, date, acqTime, brightness-40.0, frpField)
	}

	return os.WriteFile(path, []byte(b.String()), 0o600)
}
