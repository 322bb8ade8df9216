package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// IdempotencyStore records the response of a completed create so a
// client retry with the same Idempotency-Key replays it instead of
// producing a second record. Backed by Redis; without Redis the store
// is disabled and creates behave as plain non-idempotent POSTs.
type IdempotencyStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// StoredResponse is a recorded HTTP response.
type StoredResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

func NewIdempotencyStore(redisClient *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		redis: redisClient,
		ttl:   24 * time.Hour,
	}
}

func (s *IdempotencyStore) Enabled() bool {
	return s != nil && s.redis != nil
}

// Lookup returns the recorded response for key, or nil when the key has
// not been seen.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (*StoredResponse, error) {
	data, err := s.redis.Get(ctx, idempotencyKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stored StoredResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Save records the response produced for key.
func (s *IdempotencyStore) Save(ctx context.Context, key string, status int, body []byte) error {
	data, err := json.Marshal(StoredResponse{Status: status, Body: body})
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, idempotencyKey(key), data, s.ttl).Err()
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("idem:cars:%s", key)
}
