package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("ETFSCOPE_MAX_RETRIES", "")
	t.Setenv("ETFSCOPE_BACKOFF_FACTOR", "")

	cfg := DefaultConfig()

	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2.0, cfg.BackoffFactor)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, DefaultOverlapEndpoint, cfg.OverlapEndpoint)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ETFSCOPE_MAX_RETRIES", "5")
	t.Setenv("ETFSCOPE_BACKOFF_FACTOR", "1.5")
	t.Setenv("ETFSCOPE_REQUEST_TIMEOUT", "3s")
	t.Setenv("ETFSCOPE_OVERLAP_ENDPOINT", "http://localhost:9999/compare")
	t.Setenv("ETFSCOPE_LOW_OVERLAP", "20")
	t.Setenv("ETFSCOPE_DEBUG", "true")

	cfg := DefaultConfig()

	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 1.5, cfg.BackoffFactor)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "http://localhost:9999/compare", cfg.OverlapEndpoint)
	assert.Equal(t, 20.0, cfg.LowOverlapThreshold)
	assert.True(t, cfg.Debug)
}

func TestLoadFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("ETFSCOPE_MAX_RETRIES", "many")
	t.Setenv("ETFSCOPE_REQUEST_TIMEOUT", "soon")

	cfg := DefaultConfig()

	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		MaxRetries:           0,
		BackoffFactor:        0,
		RequestTimeout:       0,
		LowOverlapThreshold:  70,
		HighOverlapThreshold: 60,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries")
	assert.Contains(t, err.Error(), "backoff factor")
	assert.Contains(t, err.Error(), "request timeout")
	assert.Contains(t, err.Error(), "overlap endpoint")
	assert.Contains(t, err.Error(), "low overlap threshold")
}
