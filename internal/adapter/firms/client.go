// Package firms downloads detection archives from the NASA FIRMS area API
// into the local dataset directory.
package firms

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// source is the FIRMS dataset the service is calibrated against.
const source = "VIIRS_SNPP_SP"

// Client fetches yearly FIRMS CSV exports. Feature-flagged via
// FIRMS_SYNC_ENABLED / FIRMS_MAP_KEY; the loader works from whatever files
// are already on disk when syncing is off.
type Client struct {
	mapKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a FIRMS area API client.
func NewClient(mapKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		mapKey: mapKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://firms.modaps.eosdis.nasa.gov/api/area/csv",
		logger:  logger,
	}
}

// DownloadYear fetches the detection CSV for one year over the given area
// and returns the raw body.
func (c *Client) DownloadYear(ctx context.Context, area string, year int) ([]byte, error) {
	// Path shape: {base}/{map_key}/{source}/{area}/{day_range}/{start_date}.
	u := fmt.Sprintf("%s/%s/%s/%s/365/%d-01-01",
		c.baseURL, url.PathEscape(c.mapKey), source, url.PathEscape(area), year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firms request for %d: %w", year, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("firms API error: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read firms response: %w", err)
	}
	return data, nil
}

// EnsureYears downloads any year in the range that has no matching file in
// the dataset directory. Download failures are logged and skipped; missing
// archives only shrink the corpus, they never block startup.
func (c *Client) EnsureYears(ctx context.Context, dir, area string, years []int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dataset dir: %w", err)
	}

	for _, year := range years {
		if hasYearFile(entries, year) {
			continue
		}

		data, err := c.DownloadYear(ctx, area, year)
		if err != nil {
			c.logger.Warn("firms download failed", "year", year, "error", err)
			continue
		}

		name := fmt.Sprintf("viirs_snpp_%d.csv", year)
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		c.logger.Info("firms archive downloaded", "year", year, "file", name, "bytes", len(data))
	}
	return nil
}

func hasYearFile(entries []os.DirEntry, year int) bool {
	token := fmt.Sprintf("%d", year)
	for _, e := range entries {
		if !e.IsDir() && strings.Contains(e.Name(), token) {
			return true
		}
	}
	return false
}
