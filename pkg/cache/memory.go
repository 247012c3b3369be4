package cache

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"
)

// MemoryCache is an in-process Cache for tests and single-node development.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	value   []byte
	expires time.Time
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryItem), now: time.Now}
}

func (m *MemoryCache) live(key string) (memoryItem, bool) {
	it, ok := m.items[key]
	if !ok {
		return it, false
	}
	if !it.expires.IsZero() && m.now().After(it.expires) {
		delete(m.items, key)
		return it, false
	}
	return it, true
}

func (m *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	it, ok := m.live(key)
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(it.value, dest)
}

func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	it := memoryItem{value: raw}
	if ttl > 0 {
		it.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = it
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *MemoryCache) DeletePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.items {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.items, k)
		}
	}
	return nil
}

func (m *MemoryCache) Take(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	it, ok := m.live(key)
	delete(m.items, key)
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(it.value, dest)
}

func (m *MemoryCache) Ping(context.Context) error {
	return nil
}

func (m *MemoryCache) Increment(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	if it, ok := m.live(key); ok {
		if err := json.Unmarshal(it.value, &n); err != nil {
			return 0, err
		}
	}
	n++
	raw, _ := json.Marshal(n)
	it := m.items[key]
	it.value = raw
	m.items[key] = it
	return n, nil
}

func (m *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.live(key)
	return ok, nil
}

func (m *MemoryCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.live(key); ok {
		it.expires = m.now().Add(ttl)
		m.items[key] = it
	}
	return nil
}

// TTL follows Redis: -2 for a missing key, -1 for a key without expiry.
func (m *MemoryCache) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.live(key)
	if !ok {
		return -2, nil
	}
	if it.expires.IsZero() {
		return -1, nil
	}
	return it.expires.Sub(m.now()), nil
}
