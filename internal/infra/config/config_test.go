package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"innsync/internal/infra/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PMS_BASE_URL", "https://pms.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "memory", cfg.StorageMode)
	require.Equal(t, 90, cfg.ChunkDays)
	require.Equal(t, 60, cfg.MaxHorizonMonths)
	require.Equal(t, "30 3 * * *", cfg.ResyncSpec)
	require.Equal(t, 15*time.Second, cfg.PMSTimeout)
	require.Equal(t, 24*time.Hour, cfg.SnapshotTTL)
	require.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_RequiresPMSBaseURL(t *testing.T) {
	t.Setenv("PMS_BASE_URL", "")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_MongoModeRequiresURI(t *testing.T) {
	t.Setenv("PMS_BASE_URL", "https://pms.example.com")
	t.Setenv("STORAGE_MODE", "mongo")

	_, err := config.Load()
	require.Error(t, err)

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "mongo", cfg.StorageMode)
	require.Equal(t, "innsync", cfg.MongoDB)
}

func TestLoad_RejectsUnknownStorageMode(t *testing.T) {
	t.Setenv("PMS_BASE_URL", "https://pms.example.com")
	t.Setenv("STORAGE_MODE", "dynamo")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_ParsesOverrides(t *testing.T) {
	t.Setenv("PMS_BASE_URL", "https://pms.example.com")
	t.Setenv("CHUNK_DAYS", "120")
	t.Setenv("MAX_HORIZON_MONTHS", "24")
	t.Setenv("PMS_TIMEOUT", "5s")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 120, cfg.ChunkDays)
	require.Equal(t, 24, cfg.MaxHorizonMonths)
	require.Equal(t, 5*time.Second, cfg.PMSTimeout)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_RejectsBadNumbers(t *testing.T) {
	t.Setenv("PMS_BASE_URL", "https://pms.example.com")
	t.Setenv("CHUNK_DAYS", "ninety")

	_, err := config.Load()
	require.Error(t, err)

	t.Setenv("CHUNK_DAYS", "0")
	_, err = config.Load()
	require.Error(t, err)
}
