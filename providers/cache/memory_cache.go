package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"recipebot.app/planner"
)

// GenericCacheInterface defines generic cache operations
type GenericCacheInterface interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
	Clear(ctx context.Context)
}

// ShoppingCacheInterface defines the interface for shopping list caching
type ShoppingCacheInterface interface {
	Get(key string) (*planner.ShoppingList, bool)
	Set(key string, value *planner.ShoppingList, ttl time.Duration)
	InvalidateUser(userID string)
	Clear()
}

// Key builds the cache key for a user's shopping list range
func Key(userID, startDate, endDate string) string {
	return fmt.Sprintf("shopping:%s:%s:%s", userID, startDate, endDate)
}

// UserPrefix is the key prefix covering every cached range of one user
func UserPrefix(userID string) string {
	return fmt.Sprintf("shopping:%s:", userID)
}

type cacheEntry struct {
	Data      []byte
	ExpiresAt time.Time
}

type MemoryCache struct {
	data   map[string]cacheEntry
	mutex  sync.RWMutex
	ticker *time.Ticker
	stopCh chan struct{}
}

func NewMemoryCache() GenericCacheInterface {
	cache := &MemoryCache{
		data:   make(map[string]cacheEntry),
		ticker: time.NewTicker(5 * time.Minute),
		stopCh: make(chan struct{}),
	}

	go cache.cleanup()
	return cache
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		return nil, false
	}

	return entry.Data, true
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if value == nil {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheEntry{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	}
}

func (c *MemoryCache) Delete(ctx context.Context, key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
}

func (c *MemoryCache) DeleteByPrefix(ctx context.Context, prefix string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
}

func (c *MemoryCache) Clear(ctx context.Context) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]cacheEntry)
}

// ShoppingListCache wraps a generic cache with shopping-list-specific operations
type ShoppingListCache struct {
	cache GenericCacheInterface
}

func NewShoppingListCache(cache GenericCacheInterface) ShoppingCacheInterface {
	return &ShoppingListCache{
		cache: cache,
	}
}

func (s *ShoppingListCache) Get(key string) (*planner.ShoppingList, bool) {
	data, found := s.cache.Get(context.Background(), key)
	if !found {
		return nil, false
	}

	var list planner.ShoppingList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false
	}

	return &list, true
}

func (s *ShoppingListCache) Set(key string, value *planner.ShoppingList, ttl time.Duration) {
	if value == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	s.cache.Set(context.Background(), key, data, ttl)
}

func (s *ShoppingListCache) InvalidateUser(userID string) {
	s.cache.DeleteByPrefix(context.Background(), UserPrefix(userID))
}

func (s *ShoppingListCache) Clear() {
	s.cache.Clear(context.Background())
}

func (c *MemoryCache) cleanup() {
	for {
		select {
		case <-c.ticker.C:
			c.removeExpiredEntries()
		case <-c.stopCh:
			c.ticker.Stop()
			return
		}
	}
}

func (c *MemoryCache) removeExpiredEntries() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.After(entry.ExpiresAt) {
			delete(c.data, key)
		}
	}
}
