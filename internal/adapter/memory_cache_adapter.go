package adapter

import (
	"context"
	"sync"
	"time"

	"studynote-ai/internal/domain"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCacheAdapter implements domain.Cache in process memory. It is the
// default result-slot store for a single server instance.
type MemoryCacheAdapter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCacheAdapter creates an empty in-memory cache.
func NewMemoryCacheAdapter() *MemoryCacheAdapter {
	return &MemoryCacheAdapter{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get retrieves an item, returning domain.ErrCacheMiss for absent or expired keys.
func (m *MemoryCacheAdapter) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", domain.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		if current, still := m.entries[key]; still && current == entry {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return "", domain.ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores value under key. A zero expiration keeps it until deleted.
func (m *MemoryCacheAdapter) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	entry := memoryEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = m.now().Add(expiration)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryCacheAdapter) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCacheAdapter) Ping(ctx context.Context) error {
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (m *MemoryCacheAdapter) Sweep() int {
	now := m.now()
	removed := 0

	m.mu.Lock()
	defer m.mu.Unlock()
	for key, entry := range m.entries {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until the returned stop func is called.
func (m *MemoryCacheAdapter) StartSweeper(interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

var _ domain.Cache = (*MemoryCacheAdapter)(nil)
