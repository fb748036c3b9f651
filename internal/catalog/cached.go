package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Aquilabot/SmartPC-API/internal/models"
)

const (
	defaultCacheSize = 1024
	defaultCacheTTL  = 5 * time.Minute
)

// CachedStore puts an LRU in front of the component lookups of a Store.
// Writes made through it invalidate the cached entry; writes made elsewhere
// become visible once the entry expires.
type CachedStore struct {
	Store

	// Resolve holds the read side so a batch never straddles a write.
	mu    sync.RWMutex
	cache *expirable.LRU[string, models.Component]
}

func NewCachedStore(store Store, size int, ttl time.Duration) *CachedStore {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedStore{
		Store: store,
		cache: expirable.NewLRU[string, models.Component](size, nil, ttl),
	}
}

// Resolve answers a batch from the cache only when every id is cached.
// Otherwise the whole batch is read from the store in one call and every
// cached entry of the batch is refreshed.
func (s *CachedStore) Resolve(ctx context.Context, ids []string) (map[string]models.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.Component, len(ids))
	for _, id := range ids {
		c, ok := s.cache.Get(id)
		if !ok {
			out = nil
			break
		}
		out[id] = cloneComponent(c)
	}
	if out != nil {
		return out, nil
	}

	fetched, err := s.Store.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		c, ok := fetched[id]
		if !ok {
			s.cache.Remove(id)
			continue
		}
		s.cache.Add(id, cloneComponent(c))
	}
	return fetched, nil
}

func (s *CachedStore) Get(ctx context.Context, id string) (models.Component, error) {
	found, err := s.Resolve(ctx, []string{id})
	if err != nil {
		return models.Component{}, err
	}
	c, ok := found[id]
	if !ok {
		return models.Component{}, ErrNotFound
	}
	return c, nil
}

func (s *CachedStore) Put(ctx context.Context, c models.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Store.Put(ctx, c); err != nil {
		return err
	}
	s.cache.Remove(c.ID)
	return nil
}

// Len reports the number of cached components.
func (s *CachedStore) Len() int {
	return s.cache.Len()
}
