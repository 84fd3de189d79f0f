package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("TRANSLATOR_API_KEY", "test-key")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Translator.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Translator.APIURL)
	assert.Equal(t, language.Japanese, cfg.Translator.TargetLanguage)
	assert.Equal(t, 25, cfg.Pipeline.ChunkSize)
	assert.Equal(t, 5*time.Second, cfg.Worker.PollInterval)
	assert.Equal(t, "data/yomisub.db", cfg.DBPath)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("TRANSLATOR_API_KEY", "test-key")
	t.Setenv("CHUNK_SIZE", "10")
	t.Setenv("WORKER_POLL_INTERVAL", "1")
	t.Setenv("TARGET_LANGUAGE", "fr")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Pipeline.ChunkSize)
	assert.Equal(t, time.Second, cfg.Worker.PollInterval)
	assert.Equal(t, language.French, cfg.Translator.TargetLanguage)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Setenv("TRANSLATOR_API_KEY", "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRANSLATOR_API_KEY")
}

func TestNew_RejectsNonPositiveChunkSize(t *testing.T) {
	t.Setenv("TRANSLATOR_API_KEY", "test-key")
	t.Setenv("CHUNK_SIZE", "0")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHUNK_SIZE")
}
