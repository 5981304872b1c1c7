package corpus_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fire-risk-service/internal/corpus"
	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/observability"
)

const viirsHeader = "latitude,longitude,bright_ti4,scan,track,acq_date,acq_time,satellite,confidence,version,bright_ti5,frp,daynight\n"

func freezeAt(t *testing.T, year int) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newLoader(dir string) *corpus.Loader {
	return corpus.NewLoader(dir, discardLogger(), observability.NewMetricsForTesting())
}

func TestYears(t *testing.T) {
	freezeAt(t, 2026)
	years := corpus.Years()

	require.NotEmpty(t, years)
	assert.Equal(t, 2025, years[0])
	assert.Equal(t, 2015, years[len(years)-1])
	assert.Len(t, years, 11)
}

func TestLoad_DropsRowsMissingFRP(t *testing.T) {
	freezeAt(t, 2023)
	dir := t.TempDir()
	writeFile(t, dir, "viirs_snpp_2022.csv", viirsHeader+
		"37.1,-6.1,330.5,0.4,0.4,2022-08-01,0130,N,n,2.0NRT,290.1,12.5,N\n"+
		"37.2,-6.2,331.0,0.4,0.4,2022-08-01,0130,N,n,2.0NRT,290.2,8.1,N\n"+
		"37.3,-6.3,332.0,0.4,0.4,2022-08-01,0130,N,n,2.0NRT,290.3,,N\n"+
		"37.4,-6.4,333.0,0.4,0.4,2022-08-01,0130,N,n,2.0NRT,290.4,bad,N\n"+
		"37.5,-6.5,334.0,0.4,0.4,2022-08-01,0130,N,n,2.0NRT,290.5,3.3,N\n")

	c, report, err := newLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, c, 3)
	require.Len(t, report.Files, 1)
	assert.Equal(t, 3, report.Files[0].Rows)
	assert.Equal(t, 2, report.Files[0].Dropped)
	assert.Equal(t, 2022, c[0].Year)
	assert.Equal(t, 330.5, c[0].Brightness)
}

func TestLoad_EmptyDirectoryFailsCorpusEmpty(t *testing.T) {
	freezeAt(t, 2023)

	_, _, err := newLoader(t.TempDir()).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorpusEmpty)
}

func TestLoad_MissingDirectoryFails(t *testing.T) {
	freezeAt(t, 2023)

	_, _, err := newLoader("/nonexistent/fire/data").Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCorpusEmpty)
}

func TestLoad_SkipsBadFileAndContinues(t *testing.T) {
	freezeAt(t, 2023)
	dir := t.TempDir()
	writeFile(t, dir, "broken_2022.csv", "latitude,longitude\n1,2\n")
	writeFile(t, dir, "viirs_snpp_2021.csv", viirsHeader+
		"40.0,3.0,335.0,0.4,0.4,2021-07-15,0200,N,n,2.0NRT,295.0,20.0,N\n")

	c, report, err := newLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, c, 1)
	assert.Equal(t, 1, report.Loaded())
	assert.Equal(t, 1, report.Skipped())

	for _, f := range report.Files {
		if f.Name == "broken_2022.csv" {
			assert.ErrorContains(t, f.Err, "missing required column")
		}
	}
}

func TestLoad_IgnoresFilesOutsideYearRange(t *testing.T) {
	freezeAt(t, 2023)
	dir := t.TempDir()
	// Current year and pre-2015 files are out of range.
	writeFile(t, dir, "viirs_snpp_2023.csv", viirsHeader+
		"40.0,3.0,335.0,0.4,0.4,2023-07-15,0200,N,n,2.0NRT,295.0,20.0,N\n")
	writeFile(t, dir, "viirs_snpp_2014.csv", viirsHeader+
		"40.0,3.0,335.0,0.4,0.4,2014-07-15,0200,N,n,2.0NRT,295.0,20.0,N\n")

	_, _, err := newLoader(dir).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorpusEmpty)
}

func TestLoad_ConcatenatesAcrossYears(t *testing.T) {
	freezeAt(t, 2023)
	dir := t.TempDir()
	writeFile(t, dir, "viirs_snpp_2022.csv", viirsHeader+
		"40.0,3.0,335.0,0.4,0.4,2022-07-15,0200,N,n,2.0NRT,295.0,20.0,N\n")
	writeFile(t, dir, "modis_2020.csv",
		"latitude,longitude,brightness,acq_date,frp\n"+
			"41.0,4.0,320.0,2020-06-10,9.5\n")

	c, report, err := newLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, c, 2)
	assert.Equal(t, 2, report.Loaded())
	// Years descend: 2022 rows precede 2020 rows.
	assert.Equal(t, 2022, c[0].Year)
	assert.Equal(t, 2020, c[1].Year)
}

func TestLoad_CancelledContext(t *testing.T) {
	freezeAt(t, 2023)
	dir := t.TempDir()
	writeFile(t, dir, "viirs_snpp_2022.csv", viirsHeader+
		"40.0,3.0,335.0,0.4,0.4,2022-07-15,0200,N,n,2.0NRT,295.0,20.0,N\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newLoader(dir).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
