package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

var (
	_ ports.SessionStore  = (*RedisStore)(nil)
	_ ports.HealthChecker = (*RedisStore)(nil)
)

// DefaultKeyPrefix namespaces session keys in a shared redis.
const DefaultKeyPrefix = "qg:session:"

// RedisStore persists sessions as JSON strings with a per-key TTL so that
// several replicas can serve the same browser.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore pings the server before returning so misconfiguration fails
// at startup rather than on the first sign-in.
func NewRedisStore(ctx context.Context, client *redis.Client, prefix string, ttl time.Duration) (*RedisStore, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &RedisStore{client: client, prefix: prefix, ttl: ttl}, nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.SessionRecord, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.NewNotFoundError("session", id)
		}
		return nil, domain.NewUnavailableError("redis", err.Error())
	}

	var rec domain.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}

	return &rec, nil
}

// Save overwrites the record and restarts its TTL.
func (s *RedisStore) Save(ctx context.Context, rec *domain.SessionRecord) error {
	if rec == nil || rec.ID == "" {
		return domain.NewValidationError("session.id", "is required")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", rec.ID, err)
	}

	if err := s.client.Set(ctx, s.key(rec.ID), data, s.ttl).Err(); err != nil {
		return domain.NewUnavailableError("redis", err.Error())
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return domain.NewUnavailableError("redis", err.Error())
	}

	return nil
}

// Name implements ports.HealthChecker.
func (s *RedisStore) Name() string {
	return "session-store"
}

// Check implements ports.HealthChecker.
func (s *RedisStore) Check(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
