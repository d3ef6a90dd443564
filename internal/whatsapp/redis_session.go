package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "wa_session:"

// RedisSessionStore keeps conversation state in Redis so the dialogue
// survives a process restart. Same interface and TTL semantics as the memory
// backing.
type RedisSessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisSessionStore creates a Redis-backed store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{redis: client, ttl: ttl}
}

var _ SessionStore = (*RedisSessionStore)(nil)

func (s *RedisSessionStore) Get(ctx context.Context, sender string) (*Session, error) {
	data, err := s.redis.Get(ctx, sessionKeyPrefix+sender).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("whatsapp: read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("whatsapp: parse session: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, sender string, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("whatsapp: marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKeyPrefix+sender, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("whatsapp: write session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sender string) error {
	if err := s.redis.Del(ctx, sessionKeyPrefix+sender).Err(); err != nil {
		return fmt.Errorf("whatsapp: delete session: %w", err)
	}
	return nil
}
