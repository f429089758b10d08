package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyState describes the outcome of claiming an idempotency key.
type IdempotencyState int

const (
	IdempotencyStateFresh IdempotencyState = iota
	IdempotencyStateInProgress
	IdempotencyStateReplay
	IdempotencyStateConflict
)

// CachedResponse is the stored result of a completed request, replayed
// verbatim when the same key arrives again.
type CachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type IdempotencyBegin struct {
	State  IdempotencyState
	Cached *CachedResponse
}

// IdempotencyStore enforces the single-result rule across retries of one
// logical request: a key is claimed once and every later arrival either
// replays the recorded result or is rejected.
type IdempotencyStore interface {
	Begin(ctx context.Context, scope, key, fingerprint string, ttl time.Duration) (IdempotencyBegin, error)
	Complete(ctx context.Context, scope, key, fingerprint string, resp CachedResponse, ttl time.Duration) error
}

type idempotencyRecord struct {
	State       string          `json:"state"`
	Fingerprint string          `json:"fingerprint"`
	Response    *CachedResponse `json:"response,omitempty"`
}

const (
	idemStateInProgress = "in_progress"
	idemStateCompleted  = "completed"
)

type RedisIdempotencyStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisIdempotencyStore(client redis.UniversalClient, prefix string) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, prefix: prefix}
}

func (s *RedisIdempotencyStore) Begin(ctx context.Context, scope, key, fingerprint string, ttl time.Duration) (IdempotencyBegin, error) {
	rkey := s.key(scope, key)
	fresh, err := json.Marshal(idempotencyRecord{State: idemStateInProgress, Fingerprint: fingerprint})
	if err != nil {
		return IdempotencyBegin{}, err
	}

	claimed, err := s.client.SetNX(ctx, rkey, fresh, ttl).Result()
	if err != nil {
		return IdempotencyBegin{}, fmt.Errorf("claim idempotency key: %w", err)
	}
	if claimed {
		return IdempotencyBegin{State: IdempotencyStateFresh}, nil
	}

	raw, err := s.client.Get(ctx, rkey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Key expired between SetNX and Get; treat as a fresh claim race
			// the caller should retry.
			return IdempotencyBegin{State: IdempotencyStateInProgress}, nil
		}
		return IdempotencyBegin{}, fmt.Errorf("load idempotency record: %w", err)
	}
	var record idempotencyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return IdempotencyBegin{}, fmt.Errorf("decode idempotency record: %w", err)
	}
	if record.Fingerprint != fingerprint {
		return IdempotencyBegin{State: IdempotencyStateConflict}, nil
	}
	if record.State == idemStateCompleted && record.Response != nil {
		return IdempotencyBegin{State: IdempotencyStateReplay, Cached: record.Response}, nil
	}
	return IdempotencyBegin{State: IdempotencyStateInProgress}, nil
}

func (s *RedisIdempotencyStore) Complete(ctx context.Context, scope, key, fingerprint string, resp CachedResponse, ttl time.Duration) error {
	raw, err := json.Marshal(idempotencyRecord{State: idemStateCompleted, Fingerprint: fingerprint, Response: &resp})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(scope, key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("store idempotency result: %w", err)
	}
	return nil
}

func (s *RedisIdempotencyStore) key(scope, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, scope, key)
}
