package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// The database URL is the only setting without a default.
	t.Setenv("RECALL_DATABASE_URL", "postgres://localhost:5432/recall_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 20, cfg.Study.NewCardLimit)
	assert.Equal(t, 50, cfg.Study.CustomSessionCap)
	assert.True(t, cfg.Study.RevealAllMarkers)
	assert.Equal(t, "UTC", cfg.Study.Timezone)
	assert.Equal(t, 1.3, cfg.SRS.MinEaseFactor)
	assert.Equal(t, 1, cfg.SRS.FirstIntervalDays)
	assert.Equal(t, 6, cfg.SRS.SecondIntervalDays)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RECALL_DATABASE_URL", "postgres://localhost:5432/recall_test")
	t.Setenv("RECALL_SERVER_PORT", "9000")
	t.Setenv("RECALL_SERVER_LOG_LEVEL", "debug")
	t.Setenv("RECALL_STUDY_NEW_CARD_LIMIT", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 5, cfg.Study.NewCardLimit)
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("RECALL_DATABASE_URL", "postgres://localhost:5432/recall_test")
	t.Setenv("RECALL_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	// No RECALL_DATABASE_URL in the environment.
	_, err := Load()
	require.Error(t, err)
}
