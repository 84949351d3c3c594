package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyPrefix     = "idem:"
	DefaultIdempotencyTTL = 24 * time.Hour
)

// StoredResponse is a response kept for Idempotency-Key replay.
type StoredResponse struct {
	Status      int       `json:"status"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

type IdempotencyStore interface {
	Get(ctx context.Context, key, path string) (*StoredResponse, error)
	Store(ctx context.Context, key, path string, resp StoredResponse) error
}

type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &RedisIdempotencyStore{client: client, ttl: ttl}
}

func (s *RedisIdempotencyStore) idemKey(key, path string) string {
	return idempotencyPrefix + path + ":" + key
}

// Get returns nil, nil when nothing is stored under key for path.
func (s *RedisIdempotencyStore) Get(ctx context.Context, key, path string) (*StoredResponse, error) {
	val, err := s.client.Get(ctx, s.idemKey(key, path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}
	var resp StoredResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, fmt.Errorf("decode idempotency entry: %w", err)
	}
	return &resp, nil
}

// Store keeps the first response only; later stores for the same key are no-ops.
func (s *RedisIdempotencyStore) Store(ctx context.Context, key, path string, resp StoredResponse) error {
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode idempotency entry: %w", err)
	}
	if err := s.client.SetNX(ctx, s.idemKey(key, path), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("set idempotency key: %w", err)
	}
	return nil
}
