package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "./data/fire", cfg.FireDataDir)
	assert.Equal(t, 0.05, cfg.SearchRadius)
	assert.Equal(t, 24*time.Hour, cfg.ReloadInterval)
	assert.Equal(t, 256, cfg.ScoreCacheSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "track-risk-summaries", cfg.KafkaSinkTopic)
	assert.False(t, cfg.FIRMSEnabled)
	assert.Equal(t, "world", cfg.FIRMSArea)
	assert.Equal(t, 60*time.Second, cfg.FIRMSTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("FIRE_DATA_DIR", "/srv/fire")
	t.Setenv("SEARCH_RADIUS_DEG", "0.1")
	t.Setenv("CORPUS_RELOAD_INTERVAL", "6h")
	t.Setenv("SCORE_CACHE_SIZE", "64")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("FIRMS_MAP_KEY", "test-map-key")
	t.Setenv("FIRMS_AREA", "-10,35,5,45")
	t.Setenv("FIRMS_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/srv/fire", cfg.FireDataDir)
	assert.Equal(t, 0.1, cfg.SearchRadius)
	assert.Equal(t, 6*time.Hour, cfg.ReloadInterval)
	assert.Equal(t, 64, cfg.ScoreCacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.True(t, cfg.FIRMSEnabled)
	assert.Equal(t, "test-map-key", cfg.FIRMSMapKey)
	assert.Equal(t, "-10,35,5,45", cfg.FIRMSArea)
	assert.Equal(t, 10*time.Second, cfg.FIRMSTimeout)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidSearchRadius(t *testing.T) {
	t.Setenv("SEARCH_RADIUS_DEG", "-0.05")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEARCH_RADIUS_DEG")
}

func TestLoad_NegativeCacheSize(t *testing.T) {
	t.Setenv("SCORE_CACHE_SIZE", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCORE_CACHE_SIZE")
}

func TestLoad_KafkaEnabledRequiresBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_FIRMSEnabledRequiresKey(t *testing.T) {
	t.Setenv("FIRMS_SYNC_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIRMS_MAP_KEY")
}
