package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	scoredAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	summary := domain.TrackSummary{
		TrackID:  "track-17",
		Points:   120,
		MeanRisk: 0.18,
		MaxRisk:  0.74,
		ScoredAt: scoredAt,
	}

	msg, err := serializeToMessage(summary)
	require.NoError(t, err)

	assert.Equal(t, []byte("track-17"), msg.Key)
	assert.Contains(t, string(msg.Value), `"track_id":"track-17"`)
	assert.Contains(t, string(msg.Value), `"max_risk":0.74`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "points", msg.Headers[0].Key)
	assert.Equal(t, []byte("120"), msg.Headers[0].Value)
	assert.Equal(t, "scored_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(scoredAt.Format(time.RFC3339)), msg.Headers[1].Value)
}
