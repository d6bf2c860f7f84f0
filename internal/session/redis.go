package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"docsign_web/internal/shared"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "docsign:session:"

// RedisStore keeps sessions in Redis so several web instances can share them.
type RedisStore struct {
	redis *redis.Client
}

func NewRedisStore(r *redis.Client) *RedisStore {
	return &RedisStore{redis: r}
}

func (s *RedisStore) Save(ctx context.Context, sess *shared.Session, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session marshal failed: %w", err)
	}
	if err := s.redis.Set(ctx, redisKeyPrefix+sess.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("session set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*shared.Session, error) {
	data, err := s.redis.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrSessionNotFound
		}
		return nil, fmt.Errorf("session get failed: %w", err)
	}
	var sess shared.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session unmarshal failed: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session del failed: %w", err)
	}
	return nil
}
