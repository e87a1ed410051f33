package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("cache: key not found")
	ErrMaxSize  = errors.New("cache: at capacity")
)

type memoryItem struct {
	value      []byte
	expiresAt  time.Time
	hasExpiry  bool
	accessedAt time.Time
}

// memoryCache is an in-process LRU-evicting cache with a background
// expiry sweep, used in single-instance deployments that have no Redis.
type memoryCache struct {
	mu      sync.RWMutex
	items   map[string]*memoryItem
	config  *Config
	cleanup *time.Ticker
	done    chan struct{}
}

func newMemoryCache(config *Config) *memoryCache {
	mc := &memoryCache{
		items:   make(map[string]*memoryItem),
		config:  config,
		cleanup: time.NewTicker(time.Minute),
		done:    make(chan struct{}),
	}
	go mc.sweep()
	return mc
}

func (mc *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	item, ok := mc.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	if item.hasExpiry && time.Now().After(item.expiresAt) {
		return nil, ErrNotFound
	}
	item.accessedAt = time.Now()
	return item.value, nil
}

func (mc *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.items[key]; !exists && mc.config.MaxSize > 0 && len(mc.items) >= mc.config.MaxSize {
		mc.evictLRU()
	}
	if ttl == 0 {
		ttl = mc.config.DefaultTTL
	}
	item := &memoryItem{value: value, accessedAt: time.Now()}
	if ttl > 0 {
		item.hasExpiry = true
		item.expiresAt = time.Now().Add(ttl)
	}
	mc.items[key] = item
	return nil
}

func (mc *memoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	delete(mc.items, key)
	return nil
}

func (mc *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	item, ok := mc.items[key]
	if !ok {
		return false, nil
	}
	if item.hasExpiry && time.Now().After(item.expiresAt) {
		return false, nil
	}
	return true, nil
}

func (mc *memoryCache) Clear(ctx context.Context) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.items = make(map[string]*memoryItem)
	return nil
}

func (mc *memoryCache) Close() error {
	mc.cleanup.Stop()
	close(mc.done)
	return nil
}

func (mc *memoryCache) sweep() {
	for {
		select {
		case <-mc.cleanup.C:
			mc.mu.Lock()
			now := time.Now()
			for key, item := range mc.items {
				if item.hasExpiry && now.After(item.expiresAt) {
					delete(mc.items, key)
				}
			}
			mc.mu.Unlock()
		case <-mc.done:
			return
		}
	}
}

// evictLRU drops the least recently accessed item. Called with mc.mu held.
func (mc *memoryCache) evictLRU() {
	var oldestKey string
	var oldestAt time.Time
	for key, item := range mc.items {
		if oldestKey == "" || item.accessedAt.Before(oldestAt) {
			oldestKey, oldestAt = key, item.accessedAt
		}
	}
	if oldestKey != "" {
		delete(mc.items, oldestKey)
	}
}
