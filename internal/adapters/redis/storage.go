package redis

// Package redis provides a Redis-backed session record store for gateway
// deployments where the session must survive instance replacement.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
	"github.com/dentnotion/dentnotion/internal/ports"
)

const defaultKey = "dentnotion:session"

// Storage keeps the session record under a single key with a TTL. A zero TTL
// stores the record without expiry.
type Storage struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

var _ ports.SessionStorage = (*Storage)(nil)

// NewStorage creates a Redis-backed session store.
func NewStorage(client redis.UniversalClient, ttl time.Duration) *Storage {
	return &Storage{client: client, key: defaultKey, ttl: ttl}
}

// NewStorageWithKey creates a Redis session store under a custom key, for
// running several gateways against one Redis.
func NewStorageWithKey(client redis.UniversalClient, key string, ttl time.Duration) *Storage {
	if key == "" {
		key = defaultKey
	}
	return &Storage{client: client, key: key, ttl: ttl}
}

func (s *Storage) Load(ctx context.Context) (domainsession.Record, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainsession.Record{}, ports.ErrNoRecord
		}
		return domainsession.Record{}, fmt.Errorf("redis get: %w", err)
	}

	var rec domainsession.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return domainsession.Record{}, fmt.Errorf("decode session record: %w", err)
	}
	return rec, nil
}

func (s *Storage) Save(ctx context.Context, rec domainsession.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Storage) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
