package cache

import (
	"context"
	"strings"
	"time"

	"concierge/common/logger"
	"concierge/config"
	"concierge/metrics"
)

// Tiered is the two-level response cache: a shared network-backed tier with
// TTL, and a bounded in-process LRU used transparently when the shared tier
// is unreachable. A cache outage must never surface as a request failure, so
// Get and Set return no errors.
type Tiered struct {
	shared      SharedStore // nil when the shared tier is disabled
	fallback    *LRU
	sharedTTL   time.Duration
	fallbackTTL time.Duration
	opTimeout   time.Duration
}

// Stats is a point-in-time snapshot of cache health.
type Stats struct {
	SharedAvailable bool `json:"shared_available"`
	FallbackEntries int  `json:"fallback_entries"`
}

// NewTiered builds the cache from configuration. An empty cache addr
// disables the shared tier entirely; the fallback still serves.
func NewTiered(cfg config.CacheConfig) *Tiered {
	var shared SharedStore
	if cfg.Addr != "" {
		shared = NewRedisStore(cfg)
	}
	return NewTieredWithStore(shared, cfg)
}

// NewTieredWithStore builds the cache around an explicit shared store.
// Tests use this to simulate shared-tier outages.
func NewTieredWithStore(shared SharedStore, cfg config.CacheConfig) *Tiered {
	return &Tiered{
		shared:      shared,
		fallback:    NewLRU(cfg.Fallback.MaxEntries, cfg.FallbackTTL()),
		sharedTTL:   cfg.SharedTTL(),
		fallbackTTL: cfg.FallbackTTL(),
		opTimeout:   cfg.OpTimeout(),
	}
}

// Tier labels for cache hits.
const (
	TierShared   = "shared"
	TierFallback = "fallback"
)

// Get looks the key up in the shared tier first and reports which tier
// answered. A connectivity failure (not a logical miss) is absorbed: the
// fallback tier answers instead and the failure is only logged and counted.
func (t *Tiered) Get(ctx context.Context, key string) (string, string, bool) {
	if t.shared != nil {
		opCtx, cancel := context.WithTimeout(ctx, t.opTimeout)
		val, ok, err := t.shared.Get(opCtx, key)
		cancel()
		if err == nil {
			if ok {
				metrics.IncCacheOp(TierShared, "hit")
				return val, TierShared, true
			}
			metrics.IncCacheOp(TierShared, "miss")
			return "", "", false
		}
		t.noteSharedFailure("get", err)
	}

	if val, ok := t.fallback.Get(key); ok {
		metrics.IncCacheOp(TierFallback, "hit")
		return val, TierFallback, true
	}
	metrics.IncCacheOp(TierFallback, "miss")
	return "", "", false
}

// Set writes to the shared tier and mirrors successful writes into the
// fallback so fallback reads stay warm while the shared tier is healthy. On
// shared failure the value lands in the fallback only.
func (t *Tiered) Set(ctx context.Context, key, value string) {
	if t.shared != nil {
		opCtx, cancel := context.WithTimeout(ctx, t.opTimeout)
		err := t.shared.Set(opCtx, key, value, t.sharedTTL)
		cancel()
		if err == nil {
			metrics.IncCacheOp(TierShared, "set")
			t.fallback.Set(key, value, t.fallbackTTL)
			return
		}
		t.noteSharedFailure("set", err)
	}
	t.fallback.Set(key, value, t.fallbackTTL)
	metrics.IncCacheOp(TierFallback, "set")
}

// Clear removes entries matching a glob pattern from both tiers. The
// fallback matches on the pattern's literal part, which is enough for the
// tenant-scoped patterns this system generates.
func (t *Tiered) Clear(ctx context.Context, pattern string) {
	if t.shared != nil {
		opCtx, cancel := context.WithTimeout(ctx, t.opTimeout)
		if err := t.shared.DeleteMatching(opCtx, pattern); err != nil {
			t.noteSharedFailure("clear", err)
		}
		cancel()
	}
	t.fallback.PurgeMatching(strings.Trim(pattern, "*"))
}

// ClearAll drops everything from both tiers.
func (t *Tiered) ClearAll(ctx context.Context) {
	t.Clear(ctx, "*")
	t.fallback.Purge()
}

// Stats probes shared-tier reachability and reports fallback size.
func (t *Tiered) Stats(ctx context.Context) Stats {
	s := Stats{FallbackEntries: t.fallback.Len()}
	if t.shared != nil {
		opCtx, cancel := context.WithTimeout(ctx, t.opTimeout)
		s.SharedAvailable = t.shared.Ping(opCtx) == nil
		cancel()
	}
	return s
}

// Close releases the shared-tier connection.
func (t *Tiered) Close() error {
	if t.shared != nil {
		return t.shared.Close()
	}
	return nil
}

func (t *Tiered) noteSharedFailure(op string, err error) {
	metrics.IncSharedFailure()
	logger.Warnf("cache: shared tier %s failed, serving from fallback: %v", op, err)
}
