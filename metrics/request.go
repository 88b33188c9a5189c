package metrics

import (
	"encoding/json"
	"time"

	"concierge/common/logger"
)

// RequestMetrics records the full trace of one respond() call. It is logged
// as a single JSON line so request traces can be grepped and aggregated.
type RequestMetrics struct {
	RequestID string    `json:"request_id"`
	TenantID  string    `json:"tenant_id"`
	Timestamp time.Time `json:"timestamp"`

	Category string `json:"category"`
	Language string `json:"language"`

	CacheChecked bool   `json:"cache_checked"`
	CacheHit     bool   `json:"cache_hit"`
	CacheTier    string `json:"cache_tier,omitempty"` // "shared" | "fallback"
	CacheStored  bool   `json:"cache_stored"`

	ContextBytes int  `json:"context_bytes"`
	ContextEmpty bool `json:"context_empty"`

	InferenceCalled    bool   `json:"inference_called"`
	InferenceLatencyMs int64  `json:"inference_latency_ms,omitempty"`
	InferenceOutcome   string `json:"inference_outcome,omitempty"` // "ok" | "failed" | "timeout"

	Source         string `json:"source"` // "cache" | "template" | "inference" | "fallback" | "none"
	TotalLatencyMs int64  `json:"total_latency_ms"`
	Success        bool   `json:"success"`
	ErrorMsg       string `json:"error_msg,omitempty"`
}

// NewRequestMetrics creates a record stamped with the current time.
func NewRequestMetrics(requestID, tenantID string) *RequestMetrics {
	return &RequestMetrics{
		RequestID: requestID,
		TenantID:  tenantID,
		Timestamp: time.Now(),
	}
}

// RecordInference fills the inference fields from one generation attempt.
func (m *RequestMetrics) RecordInference(outcome string, latency time.Duration) {
	m.InferenceCalled = true
	m.InferenceOutcome = outcome
	m.InferenceLatencyMs = latency.Milliseconds()
}

// LogJSON writes the record as one JSON log line.
func (m *RequestMetrics) LogJSON() {
	if data, err := json.Marshal(m); err == nil {
		logger.Infof("[REQUEST_METRICS] %s", string(data))
	}
}
