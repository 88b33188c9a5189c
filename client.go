package concierge

import (
	"context"
	"fmt"

	"concierge/assemble"
	"concierge/cache"
	"concierge/catalog"
	"concierge/classify"
	"concierge/config"
	"concierge/history"
	"concierge/inference"
	"concierge/orchestrator"
)

// Client is the embedding point for the response subsystem: it owns the
// classifier, cache, inference client and orchestrator, and exposes the one
// operation the web layer calls.
type Client struct {
	cfg     *config.Config
	cache   *cache.Tiered
	catalog catalog.Provider
	history history.Store
	orch    *orchestrator.Orchestrator
}

// Option adjusts client construction.
type Option func(*Client)

// WithCatalog replaces the default in-memory catalog provider.
func WithCatalog(p catalog.Provider) Option {
	return func(c *Client) { c.catalog = p }
}

// WithHistory sets the conversation history store. Without it, turns are
// discarded.
func WithHistory(s history.Store) Option {
	return func(c *Client) { c.history = s }
}

// NewClient validates the configuration and wires the pipeline.
func NewClient(cfg *config.Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("create client failed, err: %w", err)
	}

	c := &Client{
		cfg:     cfg,
		catalog: catalog.NewStaticProvider(),
		history: history.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.cache = cache.NewTiered(cfg.Cache)
	c.orch = orchestrator.New(
		cfg,
		classify.New(cfg.Decoding),
		assemble.New(cfg.Prompt.MaxItems, cfg.Prompt.MaxContextBytes),
		c.cache,
		inference.New(cfg.Inference),
		c.catalog,
		c.history,
	)
	return c, nil
}

// Respond answers one inbound message for a tenant's client. It never
// returns an error; failures degrade to a fixed fallback answer.
func (c *Client) Respond(ctx context.Context, tenantID, clientID, rawText, senderRole string) string {
	return c.orch.Respond(ctx, tenantID, clientID, rawText, senderRole)
}

// Catalog returns the provider serving catalog snapshots, so the embedding
// application can feed it when the default in-memory provider is in use.
func (c *Client) Catalog() catalog.Provider {
	return c.catalog
}

// InvalidateTenant drops every cached response for a tenant, in both cache
// tiers. Call it after a catalog update.
func (c *Client) InvalidateTenant(ctx context.Context, tenantID string) {
	c.cache.Clear(ctx, cache.TenantPattern(tenantID))
}

// InvalidateAll drops all cached responses.
func (c *Client) InvalidateAll(ctx context.Context) {
	c.cache.ClearAll(ctx)
}

// CacheStats reports cache health for diagnostics endpoints.
func (c *Client) CacheStats(ctx context.Context) cache.Stats {
	return c.cache.Stats(ctx)
}

// Close releases held connections.
func (c *Client) Close() error {
	return c.cache.Close()
}
