package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// fire-risk service.
type Metrics struct {
	// Corpus loading metrics.
	CorpusDetections  prometheus.Gauge
	CorpusLoadSeconds prometheus.Histogram
	DatasetFiles      *prometheus.CounterVec // labels: outcome={loaded,skipped}
	RowsDropped       prometheus.Counter

	// Scoring metrics.
	TracksScored    prometheus.Counter
	PointsScored    prometheus.Counter
	ScoringDuration prometheus.Histogram
	RiskScores      prometheus.Histogram
	ScoreCache      *prometheus.CounterVec // labels: result={hit,miss}

	// Summary feed metrics.
	SummariesPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CorpusDetections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fire_risk",
			Name:      "corpus_detections",
			Help:      "Number of detections in the active corpus.",
		}),
		CorpusLoadSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fire_risk",
			Name:      "corpus_load_duration_seconds",
			Help:      "Duration of a complete corpus load including index build.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		DatasetFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "dataset_files_total",
			Help:      "Dataset files processed by outcome.",
		}, []string{"outcome"}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "rows_dropped_total",
			Help:      "Rows dropped during load for missing or malformed fields.",
		}),
		TracksScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "tracks_scored_total",
			Help:      "Total tracks scored.",
		}),
		PointsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "points_scored_total",
			Help:      "Total track points scored.",
		}),
		ScoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fire_risk",
			Name:      "scoring_duration_seconds",
			Help:      "Duration of a single track scoring call.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		RiskScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fire_risk",
			Name:      "risk_score",
			Help:      "Distribution of published per-point risk scores.",
			Buckets:   []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}),
		ScoreCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "score_cache_total",
			Help:      "Score cache lookups by result.",
		}, []string{"result"}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "summaries_published_total",
			Help:      "Track summaries written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "publish_errors_total",
			Help:      "Failed summary publishes.",
		}),
	}

	prometheus.MustRegister(
		m.CorpusDetections,
		m.CorpusLoadSeconds,
		m.DatasetFiles,
		m.RowsDropped,
		m.TracksScored,
		m.PointsScored,
		m.ScoringDuration,
		m.RiskScores,
		m.ScoreCache,
		m.SummariesPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CorpusDetections:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fire_risk", Name: "corpus_detections"}),
		CorpusLoadSeconds:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fire_risk", Name: "corpus_load_duration_seconds"}),
		DatasetFiles:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_risk", Name: "dataset_files_total"}, []string{"outcome"}),
		RowsDropped:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "rows_dropped_total"}),
		TracksScored:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "tracks_scored_total"}),
		PointsScored:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "points_scored_total"}),
		ScoringDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fire_risk", Name: "scoring_duration_seconds"}),
		RiskScores:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fire_risk", Name: "risk_score"}),
		ScoreCache:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_risk", Name: "score_cache_total"}, []string{"result"}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "summaries_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "publish_errors_total"}),
	}
}
