//go:build firms

package firms

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real FIRMS API and require a valid FIRMS_MAP_KEY env var.
// Run with: go test -tags=firms ./internal/adapter/firms/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	key := os.Getenv("FIRMS_MAP_KEY")
	if key == "" {
		t.Fatal("FIRMS_MAP_KEY must be set to run smoke tests")
	}
	return &Client{
		mapKey:     key,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    "https://firms.modaps.eosdis.nasa.gov/api/area/csv",
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_DownloadYear(t *testing.T) {
	c := smokeClient(t)

	// A small bounding box around Portugal keeps the download quick.
	data, err := c.DownloadYear(context.Background(), "-10,36,-6,42", 2023)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "latitude")
	assert.Contains(t, lines[0], "longitude")
	assert.Contains(t, lines[0], "frp")
}

func TestSmoke_DownloadYear_BadKey(t *testing.T) {
	c := smokeClient(t)
	c.mapKey = "not-a-real-key"

	_, err := c.DownloadYear(context.Background(), "-10,36,-6,42", 2023)
	assert.Error(t, err)
}
