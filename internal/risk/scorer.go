// Package risk scores track points for wildfire proximity risk against a
// loaded detection corpus.
package risk

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/spatial"
)

// TrackScorer maps an ordered track point sequence to a positionally aligned
// risk score slice.
type TrackScorer interface {
	ScoreTrack(points []domain.TrackPoint) ([]float64, error)
}

// Scorer is a pure, stateless-per-call TrackScorer. The spatial index is
// built once in NewScorer and never mutated afterwards, so a single Scorer
// is safe for concurrent use.
type Scorer struct {
	corpus domain.Corpus
	index  spatial.Index
	radius float64
}

// NewScorer builds the spatial index over the corpus. Returns
// domain.ErrCorpusEmpty for an empty corpus. A non-positive radius falls
// back to domain.DefaultSearchRadius.
func NewScorer(corpus domain.Corpus, radius float64) (*Scorer, error) {
	if len(corpus) == 0 {
		return nil, domain.ErrCorpusEmpty
	}
	if radius <= 0 {
		radius = domain.DefaultSearchRadius
	}

	points := make([]orb.Point, len(corpus))
	for i, d := range corpus {
		points[i] = d.Point()
	}
	index, err := spatial.NewQuadtreeIndex(points)
	if err != nil {
		return nil, fmt.Errorf("build spatial index: %w", err)
	}

	return &Scorer{corpus: corpus, index: index, radius: radius}, nil
}

// Radius returns the search radius in degrees.
func (s *Scorer) Radius() float64 {
	return s.radius
}

// ScoreTrack computes one risk score in [0,1] per track point, positionally
// aligned with the input. Points with no detections within the search radius
// score exactly 0. Any invalid point fails the whole call with
// domain.ErrInvalidInput; no partial results are returned.
func (s *Scorer) ScoreTrack(points []domain.TrackPoint) ([]float64, error) {
	for i, p := range points {
		if !p.Valid() {
			return nil, fmt.Errorf("point %d (%g, %g): %w", i, p.Lat, p.Lon, domain.ErrInvalidInput)
		}
	}

	scores := make([]float64, len(points))
	for i, p := range points {
		matches := s.index.Within(p.Point(), s.radius)
		if len(matches) == 0 {
			continue
		}

		nearby := make([]domain.Detection, len(matches))
		minDist := math.MaxFloat64
		for j, m := range matches {
			nearby[j] = s.corpus[m.Index]
			if m.Distance < minDist {
				minDist = m.Distance
			}
		}

		scores[i] = domain.Factors(nearby, minDist, s.radius).Risk()
	}
	return scores, nil
}
