package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, 500, cfg.Store.InsertBatchSize)
	assert.Equal(t, 1000, cfg.Store.ExportChunkSize)
	assert.Equal(t, "ANDRITZ", cfg.Reconcile.Organization)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Log.Level = "info"
		cfg.Log.Format = "text"
		cfg.CSV.Delimiter = ";"
		cfg.Store.InsertBatchSize = 500
		cfg.Store.ExportChunkSize = 1000
		cfg.Reconcile.Organization = "ANDRITZ"
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, validateConfig(valid()))
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.Log.Level = "loud"
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("bad delimiter", func(t *testing.T) {
		cfg := valid()
		cfg.CSV.Delimiter = ";;"
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("bad batch size", func(t *testing.T) {
		cfg := valid()
		cfg.Store.InsertBatchSize = 0
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("empty organization", func(t *testing.T) {
		cfg := valid()
		cfg.Reconcile.Organization = ""
		assert.Error(t, validateConfig(cfg))
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("FISCAL_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("FISCAL_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("FISCAL_TEST_MISSING", "fallback"))
}
