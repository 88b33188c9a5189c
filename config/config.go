package config

import (
	"time"

	"concierge/schema"
)

// Config represents the main configuration structure for the orchestration
// subsystem. The zero value is unusable; call ApplyDefaults (or Load, which
// does it for you) before handing it to the client.
type Config struct {
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Inference InferenceConfig `json:"inference" yaml:"inference"`
	Prompt    PromptConfig    `json:"prompt" yaml:"prompt"`
	// Decoding maps a classification category to its generation parameters.
	// Missing categories fall back to built-in defaults.
	Decoding map[schema.Category]schema.DecodingProfile `json:"decoding,omitempty" yaml:"decoding,omitempty"`
}

// CacheConfig configures the shared Redis tier and the in-process fallback.
type CacheConfig struct {
	Addr        string `json:"addr" yaml:"addr"`
	Password    string `json:"password,omitempty" yaml:"password,omitempty"`
	DB          int    `json:"db,omitempty" yaml:"db,omitempty"`
	TTLSeconds  int    `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
	OpTimeoutMs int    `json:"op_timeout_ms,omitempty" yaml:"op_timeout_ms,omitempty"`

	Fallback FallbackConfig `json:"fallback" yaml:"fallback"`
}

// FallbackConfig bounds the in-process LRU used when Redis is unreachable.
type FallbackConfig struct {
	MaxEntries int `json:"max_entries,omitempty" yaml:"max_entries,omitempty"`
	TTLSeconds int `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// InferenceConfig configures the job-based remote generation backend.
type InferenceConfig struct {
	BaseURL        string           `json:"base_url" yaml:"base_url"`
	APIKey         string           `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	TimeoutSeconds int              `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	HTTP           HTTPClientConfig `json:"http,omitempty" yaml:"http,omitempty"`
}

// HTTPClientConfig tunes the outbound HTTP client used for submit calls.
type HTTPClientConfig struct {
	TimeoutMs              int `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry                  int `json:"retry,omitempty" yaml:"retry,omitempty"`
	BackoffMinMs           int `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
	BackoffMaxMs           int `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty"`
	MaxConsecutiveFailures int `json:"max_consecutive_failures,omitempty" yaml:"max_consecutive_failures,omitempty"`
	CircuitOpenSeconds     int `json:"circuit_open_seconds,omitempty" yaml:"circuit_open_seconds,omitempty"`
}

// PromptConfig bounds the assembled context and sets the role preamble.
type PromptConfig struct {
	Preamble        string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	MaxContextBytes int    `json:"max_context_bytes,omitempty" yaml:"max_context_bytes,omitempty"`
	MaxItems        int    `json:"max_items,omitempty" yaml:"max_items,omitempty"`
}

const (
	DefaultSharedTTLSeconds   = 3600
	DefaultCacheOpTimeoutMs   = 1500
	DefaultFallbackMaxEntries = 500
	DefaultInferenceTimeout   = 30 // seconds
	DefaultMaxContextBytes    = 4096
	DefaultMaxItems           = 15

	DefaultPreamble = "You are a friendly assistant for a food business. " +
		"Answer only from the provided catalog context. If the context has " +
		"no answer, say the item is not available."
)

// DefaultDecoding is the built-in category decoding table. Overview and item
// lookups decode conservatively with room for listings; greetings run hotter
// and shorter.
func DefaultDecoding() map[schema.Category]schema.DecodingProfile {
	return map[schema.Category]schema.DecodingProfile{
		schema.CategoryGreeting:        {Temperature: 0.9, MaxOutputTokens: 120},
		schema.CategoryCatalogOverview: {Temperature: 0.3, MaxOutputTokens: 400},
		schema.CategorySpecificItem:    {Temperature: 0.2, MaxOutputTokens: 350},
		schema.CategoryDietaryFilter:   {Temperature: 0.2, MaxOutputTokens: 350},
		schema.CategoryRecommendation:  {Temperature: 0.7, MaxOutputTokens: 300},
		schema.CategoryHours:           {Temperature: 0.2, MaxOutputTokens: 120},
		schema.CategoryOther:           {Temperature: 0.6, MaxOutputTokens: 250},
	}
}

// ApplyDefaults fills in zero-valued fields. It never overrides a set value.
func (c *Config) ApplyDefaults() {
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = DefaultSharedTTLSeconds
	}
	if c.Cache.OpTimeoutMs <= 0 {
		c.Cache.OpTimeoutMs = DefaultCacheOpTimeoutMs
	}
	if c.Cache.Fallback.MaxEntries <= 0 {
		c.Cache.Fallback.MaxEntries = DefaultFallbackMaxEntries
	}
	if c.Cache.Fallback.TTLSeconds <= 0 {
		c.Cache.Fallback.TTLSeconds = c.Cache.TTLSeconds
	}
	if c.Inference.TimeoutSeconds <= 0 {
		c.Inference.TimeoutSeconds = DefaultInferenceTimeout
	}
	if c.Prompt.Preamble == "" {
		c.Prompt.Preamble = DefaultPreamble
	}
	if c.Prompt.MaxContextBytes <= 0 {
		c.Prompt.MaxContextBytes = DefaultMaxContextBytes
	}
	if c.Prompt.MaxItems <= 0 {
		c.Prompt.MaxItems = DefaultMaxItems
	}
	defaults := DefaultDecoding()
	if c.Decoding == nil {
		c.Decoding = defaults
		return
	}
	for cat, prof := range defaults {
		if _, ok := c.Decoding[cat]; !ok {
			c.Decoding[cat] = prof
		}
	}
}

// SharedTTL returns the shared-tier TTL as a duration.
func (c *CacheConfig) SharedTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// OpTimeout returns the per-operation timeout for shared-tier calls.
func (c *CacheConfig) OpTimeout() time.Duration {
	return time.Duration(c.OpTimeoutMs) * time.Millisecond
}

// FallbackTTL returns the fallback-tier TTL as a duration.
func (c *CacheConfig) FallbackTTL() time.Duration {
	return time.Duration(c.Fallback.TTLSeconds) * time.Second
}

// Budget returns the overall wall-clock budget for one generation.
func (c *InferenceConfig) Budget() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProfileFor looks up the decoding profile for a category, falling back to
// the built-in table so the lookup is total.
func (c *Config) ProfileFor(cat schema.Category) schema.DecodingProfile {
	if prof, ok := c.Decoding[cat]; ok {
		return prof
	}
	if prof, ok := DefaultDecoding()[cat]; ok {
		return prof
	}
	return DefaultDecoding()[schema.CategoryOther]
}
