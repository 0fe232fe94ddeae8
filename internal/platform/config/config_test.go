package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MemoryDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, 10*time.Second, cfg.PersistenceTimeout)
	assert.True(t, cfg.TaxRate.IsZero())
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_ParsesOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "POSTGRES")
	t.Setenv("PGSQL_URL", "postgres://localhost/bizledger")
	t.Setenv("PERSISTENCE_BASE_URL", "http://docs.internal/")
	t.Setenv("PERSISTENCE_TIMEOUT", "3s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("KAFKA_TOPIC", "")
	t.Setenv("TAX_RATE", "0.18")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
	assert.Equal(t, "http://docs.internal", cfg.PersistenceBaseURL)
	assert.Equal(t, 3*time.Second, cfg.PersistenceTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "bizledger.events", cfg.KafkaTopic)
	assert.Equal(t, "0.18", cfg.TaxRate.String())
}

func TestLoadConfig_Rejects(t *testing.T) {
	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "postgres")
		t.Setenv("PGSQL_URL", "")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "PGSQL_URL")
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "sqlite")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "unknown STORAGE_BACKEND")
	})

	t.Run("bad tax rate", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "memory")
		t.Setenv("TAX_RATE", "18")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "TAX_RATE")
	})
}
