package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("found %d configuration error(s):\n", len(errs)))
	for i, err := range errs {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Message))
	}
	return b.String()
}

// Validate validates the complete configuration
func (c *Config) Validate() error {
	var errs ValidationErrors

	if err := c.validateCache(); err != nil {
		errs = append(errs, err...)
	}
	if err := c.validateInference(); err != nil {
		errs = append(errs, err...)
	}
	if err := c.validatePrompt(); err != nil {
		errs = append(errs, err...)
	}
	if err := c.validateDecoding(); err != nil {
		errs = append(errs, err...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateCache validates the cache tier configuration
func (c *Config) validateCache() ValidationErrors {
	var errs ValidationErrors

	if c.Cache.TTLSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:   "cache.ttl_seconds",
			Message: fmt.Sprintf("cache.ttl_seconds must be non-negative, got %d", c.Cache.TTLSeconds),
		})
	}

	if c.Cache.Fallback.MaxEntries < 0 {
		errs = append(errs, ValidationError{
			Field:   "cache.fallback.max_entries",
			Message: fmt.Sprintf("fallback.max_entries must be non-negative, got %d", c.Cache.Fallback.MaxEntries),
		})
	}

	if c.Cache.OpTimeoutMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "cache.op_timeout_ms",
			Message: fmt.Sprintf("cache.op_timeout_ms must be non-negative, got %d", c.Cache.OpTimeoutMs),
		})
	}

	// A shared-tier op must never stall a request for a meaningful slice of
	// the inference budget.
	if c.Cache.OpTimeoutMs > 10_000 {
		errs = append(errs, ValidationError{
			Field:   "cache.op_timeout_ms",
			Message: fmt.Sprintf("cache.op_timeout_ms %d is too large (max recommended: 10000)", c.Cache.OpTimeoutMs),
		})
	}

	return errs
}

// validateInference validates the inference backend configuration
func (c *Config) validateInference() ValidationErrors {
	var errs ValidationErrors

	if c.Inference.BaseURL == "" {
		errs = append(errs, ValidationError{
			Field:   "inference.base_url",
			Message: "inference base_url is required",
		})
	} else if !strings.HasPrefix(c.Inference.BaseURL, "http://") && !strings.HasPrefix(c.Inference.BaseURL, "https://") {
		errs = append(errs, ValidationError{
			Field:   "inference.base_url",
			Message: fmt.Sprintf("inference base_url must be an http(s) URL, got %q", c.Inference.BaseURL),
		})
	}

	if c.Inference.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:   "inference.timeout_seconds",
			Message: fmt.Sprintf("inference.timeout_seconds must be non-negative, got %d", c.Inference.TimeoutSeconds),
		})
	}

	if c.Inference.HTTP.Retry < 0 {
		errs = append(errs, ValidationError{
			Field:   "inference.http.retry",
			Message: fmt.Sprintf("inference.http.retry must be non-negative, got %d", c.Inference.HTTP.Retry),
		})
	}

	return errs
}

// validatePrompt validates prompt assembly bounds
func (c *Config) validatePrompt() ValidationErrors {
	var errs ValidationErrors

	if c.Prompt.MaxContextBytes < 0 {
		errs = append(errs, ValidationError{
			Field:   "prompt.max_context_bytes",
			Message: fmt.Sprintf("prompt.max_context_bytes must be non-negative, got %d", c.Prompt.MaxContextBytes),
		})
	}

	if c.Prompt.MaxItems < 0 {
		errs = append(errs, ValidationError{
			Field:   "prompt.max_items",
			Message: fmt.Sprintf("prompt.max_items must be non-negative, got %d", c.Prompt.MaxItems),
		})
	}

	if c.Prompt.MaxItems > 100 {
		errs = append(errs, ValidationError{
			Field:   "prompt.max_items",
			Message: fmt.Sprintf("prompt.max_items %d is too large (max recommended: 100)", c.Prompt.MaxItems),
		})
	}

	return errs
}

// validateDecoding validates per-category decoding profiles
func (c *Config) validateDecoding() ValidationErrors {
	var errs ValidationErrors

	for cat, prof := range c.Decoding {
		if prof.Temperature < 0 || prof.Temperature > 2 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("decoding[%s].temperature", cat),
				Message: fmt.Sprintf("temperature must be in [0, 2], got %.2f", prof.Temperature),
			})
		}
		if prof.MaxOutputTokens < 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("decoding[%s].max_output_tokens", cat),
				Message: fmt.Sprintf("max_output_tokens must be non-negative, got %d", prof.MaxOutputTokens),
			})
		}
	}

	return errs
}
