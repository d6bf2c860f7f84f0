package session

import (
	"context"
	"fmt"
	"time"

	"docsign_web/internal/config"
	"docsign_web/internal/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewStore builds the store selected by SESSION_STORE. The returned cleanup
// closes the redis connection when there is one.
func NewStore(cfg *config.Config, logger *zap.Logger) (shared.SessionStore, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("Using redis session store", zap.String("addr", cfg.RedisAddr))
		cleanup := func() {
			if err := client.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}
		return NewRedisStore(client), cleanup, nil
	default:
		logger.Info("Using in-memory session store")
		store := NewMemoryStore(MemoryStoreConfig{
			DefaultExpiration: cfg.SessionTTL,
			CleanupInterval:   10 * time.Minute,
		})
		return store, func() {}, nil
	}
}
