package catalog

import (
	"context"
	"sync"

	"concierge/schema"
)

// Provider serves immutable, point-in-time reads of a tenant's catalog.
// Snapshots may be stale within seconds to minutes; the orchestration core
// never mutates them.
type Provider interface {
	Snapshot(ctx context.Context, tenantID string) ([]schema.CatalogItem, error)
	Hours(ctx context.Context, tenantID string) (string, error)
}

// StaticProvider is an in-memory Provider, fed by whatever owns the catalog
// of record. Reads return copies so callers can treat snapshots as immutable.
type StaticProvider struct {
	mu    sync.RWMutex
	items map[string][]schema.CatalogItem
	hours map[string]string
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		items: make(map[string][]schema.CatalogItem),
		hours: make(map[string]string),
	}
}

// SetCatalog replaces a tenant's catalog wholesale.
func (p *StaticProvider) SetCatalog(tenantID string, items []schema.CatalogItem) {
	cloned := make([]schema.CatalogItem, len(items))
	copy(cloned, items)
	p.mu.Lock()
	p.items[tenantID] = cloned
	p.mu.Unlock()
}

// SetHours sets a tenant's operating-hours text.
func (p *StaticProvider) SetHours(tenantID, hours string) {
	p.mu.Lock()
	p.hours[tenantID] = hours
	p.mu.Unlock()
}

func (p *StaticProvider) Snapshot(_ context.Context, tenantID string) ([]schema.CatalogItem, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	items := p.items[tenantID]
	out := make([]schema.CatalogItem, len(items))
	copy(out, items)
	return out, nil
}

func (p *StaticProvider) Hours(_ context.Context, tenantID string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hours[tenantID], nil
}
