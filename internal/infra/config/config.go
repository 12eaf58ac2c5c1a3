package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment
// variables.
type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string

	StorageMode string
	MongoURI    string
	MongoDB     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SnapshotTTL   time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	PMSBaseURL string
	PMSAPIKey  string
	PMSTimeout time.Duration

	ChunkDays        int
	MaxHorizonMonths int
	ResyncSpec       string
	ResyncTimeout    time.Duration
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:           getEnv("APP_ENV", "dev"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		StorageMode:   strings.ToLower(getEnv("STORAGE_MODE", "memory")),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDB:       getEnv("MONGO_DB", "innsync"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "innsync.availability"),
		PMSBaseURL:    os.Getenv("PMS_BASE_URL"),
		PMSAPIKey:     os.Getenv("PMS_API_KEY"),
		ResyncSpec:    getEnv("RESYNC_CRON", "30 3 * * *"),
	}

	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	redisDB, err := parseIntEnv("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.RedisDB = redisDB

	snapshotTTL, err := parseDurationEnv("SNAPSHOT_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.SnapshotTTL = snapshotTTL

	pmsTimeout, err := parseDurationEnv("PMS_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.PMSTimeout = pmsTimeout

	chunkDays, err := parseIntEnv("CHUNK_DAYS", 90)
	if err != nil {
		return Config{}, err
	}
	cfg.ChunkDays = chunkDays

	horizon, err := parseIntEnv("MAX_HORIZON_MONTHS", 60)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxHorizonMonths = horizon

	resyncTimeout, err := parseDurationEnv("RESYNC_TIMEOUT", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.ResyncTimeout = resyncTimeout

	if cfg.PMSBaseURL == "" {
		return Config{}, fmt.Errorf("PMS_BASE_URL is required")
	}
	switch cfg.StorageMode {
	case "memory":
	case "mongo":
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_MODE %q", cfg.StorageMode)
	}
	if cfg.ChunkDays <= 0 {
		return Config{}, fmt.Errorf("CHUNK_DAYS must be positive")
	}
	if cfg.MaxHorizonMonths <= 0 {
		return Config{}, fmt.Errorf("MAX_HORIZON_MONTHS must be positive")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}
