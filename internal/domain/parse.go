package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// columnAliases maps instrument-specific FIRMS column names to the canonical
// names the parser expects.
var columnAliases = map[string]string{
	"bright_ti4": "brightness", // VIIRS I-4 band
	"acq_date":   "date",
}

// dateLayouts are the acquisition-date formats accepted across FIRMS export
// vintages, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	time.RFC3339,
}

// CanonicalColumn normalizes a CSV header name: lower-cased, trimmed, and
// renamed through the instrument alias table.
func CanonicalColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := columnAliases[name]; ok {
		return canonical
	}
	return name
}

// Record is a single raw CSV row keyed by canonical column name.
type Record map[string]string

// ParseRecord converts a raw row into a Detection stamped with the source
// year. It returns an error when any of latitude, longitude, brightness, or
// frp fails numeric coercion, or when the date is unparseable; callers drop
// such rows rather than aborting the load.
func ParseRecord(rec Record, year int) (Detection, error) {
	lat, err := parseCoord(rec, "latitude")
	if err != nil {
		return Detection{}, err
	}
	lon, err := parseCoord(rec, "longitude")
	if err != nil {
		return Detection{}, err
	}
	brightness, err := parseField(rec, "brightness")
	if err != nil {
		return Detection{}, err
	}
	frp, err := parseField(rec, "frp")
	if err != nil {
		return Detection{}, err
	}
	date, err := parseDate(rec["date"])
	if err != nil {
		return Detection{}, err
	}

	return Detection{
		Lat:        lat,
		Lon:        lon,
		Brightness: brightness,
		FRP:        frp,
		Date:       date,
		Year:       year,
	}, nil
}

func parseField(rec Record, key string) (float64, error) {
	raw, ok := rec[key]
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	// strconv accepts "NaN" and "Inf"; treat them as coercion failures.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite %s", key)
	}
	return v, nil
}

func parseCoord(rec Record, key string) (float64, error) {
	v, err := parseField(rec, key)
	if err != nil {
		return 0, err
	}
	limit := 90.0
	if key == "longitude" {
		limit = 180.0
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("%s out of range: %g", key, v)
	}
	return v, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}
