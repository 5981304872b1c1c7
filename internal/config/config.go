package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Corpus configuration.
	FireDataDir    string
	SearchRadius   float64       // degrees
	ReloadInterval time.Duration // 0 disables periodic reloads
	ScoreCacheSize int           // 0 disables the scored-track cache

	// Kafka summary feed configuration.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string

	// FIRMS archive sync configuration.
	FIRMSEnabled bool
	FIRMSMapKey  string
	FIRMSArea    string
	FIRMSTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	reloadInterval, err := parseDuration("CORPUS_RELOAD_INTERVAL", "24h")
	if err != nil {
		return nil, err
	}
	firmsTimeout, err := parseDuration("FIRMS_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	radius, err := parseRadius()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseInt("SCORE_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	firmsKey := os.Getenv("FIRMS_MAP_KEY")
	firmsEnabled := firmsKey != ""
	if v := os.Getenv("FIRMS_SYNC_ENABLED"); v != "" {
		firmsEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FireDataDir:    envOrDefault("FIRE_DATA_DIR", "./data/fire"),
		SearchRadius:   radius,
		ReloadInterval: reloadInterval,
		ScoreCacheSize: cacheSize,

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "track-risk-summaries"),

		FIRMSEnabled: firmsEnabled,
		FIRMSMapKey:  firmsKey,
		FIRMSArea:    envOrDefault("FIRMS_AREA", "world"),
		FIRMSTimeout: firmsTimeout,
	}

	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	if cfg.ReloadInterval < 0 {
		return nil, errors.New("invalid CORPUS_RELOAD_INTERVAL")
	}
	if cfg.ScoreCacheSize < 0 {
		return nil, errors.New("invalid SCORE_CACHE_SIZE")
	}
	if cfg.FireDataDir == "" {
		return nil, errors.New("FIRE_DATA_DIR is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is not set")
	}
	if cfg.FIRMSEnabled && cfg.FIRMSMapKey == "" {
		return nil, errors.New("FIRMS_SYNC_ENABLED is true but FIRMS_MAP_KEY is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseRadius() (float64, error) {
	s := os.Getenv("SEARCH_RADIUS_DEG")
	if s == "" {
		return 0.05, nil
	}
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || r <= 0 {
		return 0, errors.New("invalid SEARCH_RADIUS_DEG")
	}
	return r, nil
}

func parseBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
