package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load reads a yaml config file, layers environment overrides on top and
// fills defaults. An empty path yields a config built purely from environment
// and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays CONCIERGE_* environment variables onto the config.
func (c *Config) applyEnv() {
	envString("CONCIERGE_CACHE_ADDR", &c.Cache.Addr)
	envString("CONCIERGE_CACHE_PASSWORD", &c.Cache.Password)
	envInt("CONCIERGE_CACHE_DB", &c.Cache.DB)
	envInt("CONCIERGE_CACHE_TTL_SECONDS", &c.Cache.TTLSeconds)
	envInt("CONCIERGE_CACHE_OP_TIMEOUT_MS", &c.Cache.OpTimeoutMs)
	envInt("CONCIERGE_FALLBACK_MAX_ENTRIES", &c.Cache.Fallback.MaxEntries)
	envInt("CONCIERGE_FALLBACK_TTL_SECONDS", &c.Cache.Fallback.TTLSeconds)
	envString("CONCIERGE_INFERENCE_BASE_URL", &c.Inference.BaseURL)
	envString("CONCIERGE_INFERENCE_API_KEY", &c.Inference.APIKey)
	envInt("CONCIERGE_INFERENCE_TIMEOUT_SECONDS", &c.Inference.TimeoutSeconds)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
