package domain

import (
	"errors"
	"math"
	"time"

	"github.com/paulmach/orb"
)

// DefaultSearchRadius is the radius query distance in degrees (~5.5 km at
// moderate latitudes).
const DefaultSearchRadius = 0.05

// Calibration constants for the risk model. These were tuned against the
// flat-degree distance metric and are deliberately not configurable.
const (
	countSaturation    = 20.0
	intensityDivisor   = 50.0
	brightnessBaseline = 300.0
	brightnessDivisor  = 200.0

	weightCount      = 0.4
	weightIntensity  = 0.3
	weightBrightness = 0.2
	weightProximity  = 0.1
)

var (
	// ErrCorpusEmpty indicates that no usable detections survived loading.
	// Scoring cannot proceed against an empty corpus.
	ErrCorpusEmpty = errors.New("fire corpus is empty")

	// ErrInvalidInput indicates a track point with non-finite or
	// out-of-domain coordinates.
	ErrInvalidInput = errors.New("invalid track point")
)

// Detection is a single recorded wildfire thermal-anomaly observation.
// Immutable after load.
type Detection struct {
	Lat        float64
	Lon        float64
	Brightness float64 // brightness temperature, Kelvin
	FRP        float64 // fire radiative power, MW
	Date       time.Time
	Year       int // source-file year, kept for partitioning
}

// Point returns the detection's coordinate as an orb lon/lat point.
func (d Detection) Point() orb.Point {
	return orb.Point{d.Lon, d.Lat}
}

// Corpus is the full in-memory set of historical detections used as the risk
// reference set. Read-only after load; safe for concurrent radius queries.
type Corpus []Detection

// TrackPoint is a single point of a user's track. Only coordinates are
// consulted by the scorer.
type TrackPoint struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Point returns the track point's coordinate as an orb lon/lat point.
func (p TrackPoint) Point() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// Valid reports whether the point's coordinates are finite and within the
// WGS-84 domain.
func (p TrackPoint) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// RiskFactors holds the four sub-scores computed from the detections within
// the search radius of a track point.
type RiskFactors struct {
	Count      float64 // in [0,1], saturates at 20 detections
	Intensity  float64 // unbounded above 1 before clipping
	Brightness float64 // can be negative for cool detections
	Proximity  float64 // in [0,1], 1.0 for a coincident detection
}

// Factors computes the risk factors for a set of matched detections.
// minDist is the planar degree-space distance to the nearest match and radius
// the query radius that produced the set. Must not be called with an empty
// match set; a point with no matches scores zero without factor computation.
func Factors(matches []Detection, minDist, radius float64) RiskFactors {
	var sumFRP, sumBrightness float64
	for _, d := range matches {
		sumFRP += d.FRP
		sumBrightness += d.Brightness
	}
	n := float64(len(matches))

	return RiskFactors{
		Count:      math.Min(n/countSaturation, 1.0),
		Intensity:  (sumFRP / n) / intensityDivisor,
		Brightness: ((sumBrightness / n) - brightnessBaseline) / brightnessDivisor,
		Proximity:  (radius - minDist) / radius,
	}
}

// Risk combines the four factors into the published score, clipped to [0,1].
func (f RiskFactors) Risk() float64 {
	risk := weightCount*f.Count +
		weightIntensity*f.Intensity +
		weightBrightness*f.Brightness +
		weightProximity*f.Proximity
	return clip(risk, 0.0, 1.0)
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TrackSummary is the per-track aggregate published for downstream consumers
// such as the map renderer.
type TrackSummary struct {
	TrackID  string    `json:"track_id"`
	Points   int       `json:"points"`
	MeanRisk float64   `json:"mean_risk"`
	MaxRisk  float64   `json:"max_risk"`
	ScoredAt time.Time `json:"scored_at"`
}
