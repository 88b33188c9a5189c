package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Turn is one recorded conversation turn.
type Turn struct {
	ID       string    `json:"id"`
	TenantID string    `json:"tenant_id"`
	ClientID string    `json:"client_id"`
	Role     string    `json:"role"` // "user" | "assistant"
	Text     string    `json:"text"`
	At       time.Time `json:"at"`
}

// NewTurn stamps a turn with a fresh ID and the current time.
func NewTurn(tenantID, clientID, role, text string) Turn {
	return Turn{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		ClientID: clientID,
		Role:     role,
		Text:     text,
		At:       time.Now(),
	}
}

// Store persists conversation turns. The orchestrator treats it as
// fire-and-forget: a failing store must never block a response.
type Store interface {
	RecordTurn(ctx context.Context, turn Turn) error
}

// Nop discards every turn.
type Nop struct{}

func (Nop) RecordTurn(context.Context, Turn) error { return nil }

// MemStore keeps turns in memory, for tests and local runs.
type MemStore struct {
	mu    sync.Mutex
	turns []Turn
}

func NewMemStore() *MemStore { return &MemStore{} }

func (m *MemStore) RecordTurn(_ context.Context, turn Turn) error {
	m.mu.Lock()
	m.turns = append(m.turns, turn)
	m.mu.Unlock()
	return nil
}

// Turns returns a copy of everything recorded so far.
func (m *MemStore) Turns() []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Turn, len(m.turns))
	copy(out, m.turns)
	return out
}
