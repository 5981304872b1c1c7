// Package httpapi exposes health, metrics, and track-scoring HTTP endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/service"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// TrackScorer scores a track against the active corpus.
type TrackScorer interface {
	ScoreTrack(ctx context.Context, trackID string, points []domain.TrackPoint) (service.ScoredTrack, error)
}

// Server exposes the scoring API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	scorer     TrackScorer
	logger     *slog.Logger
}

// NewServer creates an HTTP server with scoring and operational routes.
func NewServer(addr string, scorer TrackScorer, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		scorer: scorer,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /api/v1/tracks/score", s.handleScore)
	mux.HandleFunc("POST /api/v1/tracks/score/geojson", s.handleScoreGeoJSON)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// scoreRequest is the JSON body for both scoring endpoints.
type scoreRequest struct {
	TrackID string              `json:"track_id"`
	Points  []domain.TrackPoint `json:"points"`
}

// scoreResponse is the aligned-scores shape consumed by the track backend.
type scoreResponse struct {
	TrackID  string    `json:"track_id"`
	Points   int       `json:"points"`
	Scores   []float64 `json:"scores"`
	MeanRisk float64   `json:"mean_risk"`
	MaxRisk  float64   `json:"max_risk"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	result, ok := s.score(w, r)
	if !ok {
		return
	}

	scores := result.Scores
	if scores == nil {
		scores = []float64{}
	}
	writeJSON(w, http.StatusOK, scoreResponse{
		TrackID:  result.TrackID,
		Points:   len(scores),
		Scores:   scores,
		MeanRisk: result.Summary.MeanRisk,
		MaxRisk:  result.Summary.MaxRisk,
	})
}

// handleScoreGeoJSON returns the scored track as a FeatureCollection with a
// per-point "risk" property, the shape map renderers consume directly.
func (s *Server) handleScoreGeoJSON(w http.ResponseWriter, r *http.Request) {
	result, ok := s.score(w, r)
	if !ok {
		return
	}

	fc := geojson.NewFeatureCollection()
	for i, p := range result.Points {
		f := geojson.NewFeature(p.Point())
		f.Properties["index"] = i
		f.Properties["risk"] = result.Scores[i]
		fc.Append(f)
	}

	writeJSON(w, http.StatusOK, fc)
}

// score parses the request and runs the scorer, writing the error response
// itself when something fails.
func (s *Server) score(w http.ResponseWriter, r *http.Request) (service.ScoredTrack, bool) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return service.ScoredTrack{}, false
	}

	result, err := s.scorer.ScoreTrack(r.Context(), req.TrackID, req.Points)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
		return service.ScoredTrack{}, false
	case errors.Is(err, domain.ErrCorpusEmpty):
		writeError(w, http.StatusServiceUnavailable, "fire corpus not loaded")
		return service.ScoredTrack{}, false
	case err != nil:
		s.logger.Error("score track failed", "track_id", req.TrackID, "error", err)
		writeError(w, http.StatusInternalServerError, "scoring failed")
		return service.ScoredTrack{}, false
	}

	return result, true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
