package session

import (
	"context"
	"time"

	"docsign_web/internal/shared"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process. Entries expire on their own.
type MemoryStore struct {
	cache *cache.Cache
}

// MemoryStoreConfig holds the configuration for the MemoryStore.
type MemoryStoreConfig struct {
	DefaultExpiration time.Duration
	CleanupInterval   time.Duration
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore(cfg MemoryStoreConfig) *MemoryStore {
	return &MemoryStore{cache: cache.New(cfg.DefaultExpiration, cfg.CleanupInterval)}
}

func (s *MemoryStore) Save(ctx context.Context, sess *shared.Session, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	cp := *sess
	s.cache.Set(sess.ID, &cp, ttl)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*shared.Session, error) {
	v, found := s.cache.Get(id)
	if !found {
		return nil, shared.ErrSessionNotFound
	}
	cp := *v.(*shared.Session)
	return &cp, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}
