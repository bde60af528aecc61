package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 2, cfg.Retrieval.TopK)
	assert.Equal(t, 8000, cfg.Retrieval.MaxContextChars)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "brain-bee-data", cfg.Storage.Bucket)
}

func TestLoadStorageEnabled(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("STORAGE_ENABLED", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.Storage.Enabled)
}

func TestLoadInvalidBoolFallsBack(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("STORAGE_ENABLED", "yep")

	cfg, err := Load()

	require.NoError(t, err)
	assert.False(t, cfg.Storage.Enabled)
}

func TestValidateRejectsBadOverlap(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("CHUNK_SIZE", "100")
	t.Setenv("CHUNK_OVERLAP", "100")

	_, err := Load()
	assert.ErrorContains(t, err, "CHUNK_OVERLAP")
}

func TestValidateRequiresOpenAIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}
