package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge/schema"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultSharedTTLSeconds, cfg.Cache.TTLSeconds)
	assert.Equal(t, DefaultCacheOpTimeoutMs, cfg.Cache.OpTimeoutMs)
	assert.Equal(t, DefaultFallbackMaxEntries, cfg.Cache.Fallback.MaxEntries)
	assert.Equal(t, cfg.Cache.TTLSeconds, cfg.Cache.Fallback.TTLSeconds)
	assert.Equal(t, DefaultInferenceTimeout, cfg.Inference.TimeoutSeconds)
	assert.Equal(t, DefaultPreamble, cfg.Prompt.Preamble)
	assert.Len(t, cfg.Decoding, len(schema.Categories()))
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Cache.TTLSeconds = 120
	cfg.Decoding = map[schema.Category]schema.DecodingProfile{
		schema.CategoryGreeting: {Temperature: 1.5, MaxOutputTokens: 50},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, 120, cfg.Cache.TTLSeconds)
	assert.Equal(t, 1.5, cfg.Decoding[schema.CategoryGreeting].Temperature)
	// Missing categories are still filled in.
	assert.NotZero(t, cfg.Decoding[schema.CategoryHours].MaxOutputTokens)
}

func TestDurationAccessors(t *testing.T) {
	cfg := &Config{}
	cfg.Cache.TTLSeconds = 60
	cfg.Cache.OpTimeoutMs = 250
	cfg.Inference.TimeoutSeconds = 30

	assert.Equal(t, time.Minute, cfg.Cache.SharedTTL())
	assert.Equal(t, 250*time.Millisecond, cfg.Cache.OpTimeout())
	assert.Equal(t, 30*time.Second, cfg.Inference.Budget())
}

func TestProfileForIsTotal(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	for _, cat := range schema.Categories() {
		assert.NotZero(t, cfg.ProfileFor(cat).MaxOutputTokens, "category %s", cat)
	}
	// Unknown category still resolves.
	assert.NotZero(t, cfg.ProfileFor(schema.Category("bogus")).MaxOutputTokens)
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := &Config{}
	cfg.Cache.TTLSeconds = -1
	cfg.Cache.OpTimeoutMs = 60_000
	cfg.Inference.BaseURL = "ftp://backend"
	cfg.Decoding = map[schema.Category]schema.DecodingProfile{
		schema.CategoryOther: {Temperature: 3.0},
	}

	err := cfg.Validate()
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 4)
	assert.Contains(t, err.Error(), "configuration error")
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Inference.BaseURL = "http://127.0.0.1:8082"
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
cache:
  addr: "127.0.0.1:6379"
  ttl_seconds: 600
  fallback:
    max_entries: 50
inference:
  base_url: "http://localhost:9000"
  timeout_seconds: 10
decoding:
  greeting:
    temperature: 1.1
    max_output_tokens: 80
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", cfg.Cache.Addr)
	assert.Equal(t, 600, cfg.Cache.TTLSeconds)
	assert.Equal(t, 50, cfg.Cache.Fallback.MaxEntries)
	assert.Equal(t, "http://localhost:9000", cfg.Inference.BaseURL)
	assert.Equal(t, 10, cfg.Inference.TimeoutSeconds)
	assert.Equal(t, 1.1, cfg.Decoding[schema.CategoryGreeting].Temperature)
	// Defaults fill everything the file omitted.
	assert.Equal(t, DefaultMaxItems, cfg.Prompt.MaxItems)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
cache:
  addr: "file-addr:6379"
inference:
  base_url: "http://file-backend"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("CONCIERGE_CACHE_ADDR", "env-addr:6379")
	t.Setenv("CONCIERGE_INFERENCE_TIMEOUT_SECONDS", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-addr:6379", cfg.Cache.Addr)
	assert.Equal(t, "http://file-backend", cfg.Inference.BaseURL)
	assert.Equal(t, 7, cfg.Inference.TimeoutSeconds)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("inference:\n  base_url: \"\"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url is required")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}
