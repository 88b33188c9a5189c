package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const historyKeyPrefix = "hist:"

// RedisOptions configures the Redis-backed history store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int

	// TTL bounds how long an idle conversation is kept. Zero means 24h.
	TTL time.Duration
	// MaxTurns bounds the per-conversation list length. Zero means 200.
	MaxTurns int
}

// RedisStore keeps each conversation as a Redis list, newest turn first.
// Every write refreshes the conversation's TTL and trims the list, so idle
// conversations age out and active ones stay bounded.
type RedisStore struct {
	client   *redis.Client
	ttl      time.Duration
	maxTurns int
}

// NewRedisStore connects a history store. It does not ping; a dead Redis
// shows up as RecordTurn errors, which the orchestrator only logs.
func NewRedisStore(opts RedisOptions) *RedisStore {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = 200
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		ttl:      opts.TTL,
		maxTurns: opts.MaxTurns,
	}
}

func conversationKey(tenantID, clientID string) string {
	return historyKeyPrefix + tenantID + ":" + clientID
}

func (s *RedisStore) RecordTurn(ctx context.Context, turn Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("encode turn: %w", err)
	}
	key := conversationKey(turn.TenantID, turn.ClientID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.maxTurns-1))
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	return nil
}

// Recent returns up to n most recent turns of a conversation, newest first.
func (s *RedisStore) Recent(ctx context.Context, tenantID, clientID string, n int) ([]Turn, error) {
	if n <= 0 {
		return nil, nil
	}
	key := conversationKey(tenantID, clientID)
	raws, err := s.client.LRange(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read conversation: %w", err)
	}
	turns := make([]Turn, 0, len(raws))
	for _, raw := range raws {
		var t Turn
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			continue
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// Clear drops a single conversation.
func (s *RedisStore) Clear(ctx context.Context, tenantID, clientID string) error {
	return s.client.Del(ctx, conversationKey(tenantID, clientID)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
