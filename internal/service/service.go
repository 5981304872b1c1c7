// Package service owns the corpus lifecycle and exposes track scoring to the
// adapters.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/fire-risk-service/internal/corpus"
	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/observability"
	"github.com/couchcryptid/fire-risk-service/internal/risk"
)

// CorpusLoader produces a fresh corpus from the dataset source.
type CorpusLoader interface {
	Load(ctx context.Context) (domain.Corpus, *corpus.Report, error)
}

// SummaryPublisher delivers per-track aggregates to downstream consumers.
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, summary domain.TrackSummary) error
}

// ScoredTrack is the result of scoring one track.
type ScoredTrack struct {
	TrackID string
	Points  []domain.TrackPoint
	Scores  []float64 // positionally aligned with Points
	Summary domain.TrackSummary
}

// snapshot bundles a corpus with the scorer built over it. Swapped atomically
// on refresh; never mutated afterwards, so concurrent scoring calls are safe
// without locking.
type snapshot struct {
	scorer     risk.TrackScorer
	detections int
	loadedAt   time.Time
}

// Service loads the corpus, keeps the active scorer, and scores tracks.
type Service struct {
	loader    CorpusLoader
	publisher SummaryPublisher // nil when the summary feed is disabled
	logger    *slog.Logger
	metrics   *observability.Metrics

	radius    float64
	cacheSize int

	snap atomic.Pointer[snapshot]
}

// New creates a Service. The publisher may be nil to disable the summary feed.
func New(loader CorpusLoader, publisher SummaryPublisher, radius float64, cacheSize int,
	logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		loader:    loader,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		radius:    radius,
		cacheSize: cacheSize,
	}
}

// Refresh loads the corpus and swaps in a new scorer. On failure the previous
// snapshot, if any, stays active.
func (s *Service) Refresh(ctx context.Context) error {
	c, report, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("refresh corpus: %w", err)
	}

	scorer, err := risk.NewScorer(c, s.radius)
	if err != nil {
		return fmt.Errorf("build scorer: %w", err)
	}

	var cached risk.TrackScorer = scorer
	if s.cacheSize > 0 {
		cached = risk.NewCachedScorer(scorer, s.cacheSize, s.metrics)
	}

	s.snap.Store(&snapshot{
		scorer:     cached,
		detections: len(c),
		loadedAt:   domain.Now(),
	})

	s.logger.Info("corpus refreshed",
		"detections", len(c),
		"files_loaded", report.Loaded(),
		"files_skipped", report.Skipped(),
		"radius_deg", s.radius)
	return nil
}

// CheckReadiness returns nil once a corpus has been loaded successfully.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.snap.Load() == nil {
		return errors.New("corpus has not been loaded yet")
	}
	return nil
}

// ScoreTrack scores the track against the active corpus and, when the
// summary feed is enabled, publishes a per-track aggregate. Publish failures
// are logged, not returned; scoring results remain valid without the feed.
func (s *Service) ScoreTrack(ctx context.Context, trackID string, points []domain.TrackPoint) (ScoredTrack, error) {
	snap := s.snap.Load()
	if snap == nil {
		return ScoredTrack{}, domain.ErrCorpusEmpty
	}

	start := time.Now()
	scores, err := snap.scorer.ScoreTrack(points)
	if err != nil {
		return ScoredTrack{}, err
	}

	s.metrics.TracksScored.Inc()
	s.metrics.PointsScored.Add(float64(len(scores)))
	s.metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	for _, score := range scores {
		s.metrics.RiskScores.Observe(score)
	}

	result := ScoredTrack{
		TrackID: trackID,
		Points:  points,
		Scores:  scores,
		Summary: summarize(trackID, scores),
	}

	if s.publisher != nil && len(scores) > 0 {
		if err := s.publisher.PublishSummary(ctx, result.Summary); err != nil {
			s.logger.Warn("summary publish failed", "track_id", trackID, "error", err)
			s.metrics.PublishErrors.Inc()
		} else {
			s.metrics.SummariesPublished.Inc()
		}
	}

	return result, nil
}

// Detections reports the size of the active corpus, 0 before the first load.
func (s *Service) Detections() int {
	if snap := s.snap.Load(); snap != nil {
		return snap.detections
	}
	return 0
}

func summarize(trackID string, scores []float64) domain.TrackSummary {
	summary := domain.TrackSummary{
		TrackID:  trackID,
		Points:   len(scores),
		ScoredAt: domain.Now(),
	}
	if len(scores) == 0 {
		return summary
	}

	var sum float64
	for _, score := range scores {
		sum += score
		if score > summary.MaxRisk {
			summary.MaxRisk = score
		}
	}
	summary.MeanRisk = sum / float64(len(scores))
	return summary
}
