package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pharmacy-dashboard/internal/api"
)

const cleanupInterval = time.Minute

// CachedMetadata is a metadata response held in memory until ExpiresAt
type CachedMetadata struct {
	Metadata  *api.Metadata
	StoredAt  time.Time
	ExpiresAt time.Time
}

// IsExpired checks if the cached entry has expired
func (c *CachedMetadata) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// Manager caches metadata responses by key so page loads across sessions
// share one upstream fetch per TTL window.
type Manager struct {
	memory   sync.Map // map[string]*CachedMetadata
	disabled bool
	ttl      time.Duration
	logger   zerolog.Logger

	mu     sync.Mutex
	hits   int64
	misses int64

	// Cleanup goroutine control
	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a new cache manager. A disabled manager always misses.
func NewManager(disabled bool, ttl time.Duration, logger zerolog.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	manager := &Manager{
		disabled: disabled || ttl <= 0,
		ttl:      ttl,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	if !manager.disabled {
		go manager.cleanupLoop()
	}

	return manager
}

// Get returns the cached metadata for key
func (m *Manager) Get(key string) (*api.Metadata, bool) {
	if m.disabled {
		return nil, false
	}

	if value, ok := m.memory.Load(key); ok {
		cached := value.(*CachedMetadata)
		if !cached.IsExpired() {
			m.count(true)
			return cached.Metadata, true
		}
		m.memory.Delete(key)
	}

	m.count(false)
	return nil, false
}

// Set stores metadata under key for the configured TTL
func (m *Manager) Set(key string, meta *api.Metadata) {
	if m.disabled || meta == nil {
		return
	}

	now := time.Now()
	m.memory.Store(key, &CachedMetadata{
		Metadata:  meta,
		StoredAt:  now,
		ExpiresAt: now.Add(m.ttl),
	})
}

// ForceInvalidate removes a cached entry and returns its age, or nil if
// nothing was cached under key.
func (m *Manager) ForceInvalidate(key string) *time.Duration {
	if m.disabled {
		return nil
	}

	value, ok := m.memory.LoadAndDelete(key)
	if !ok {
		return nil
	}
	age := time.Since(value.(*CachedMetadata).StoredAt)
	return &age
}

// IsEnabled returns true if caching is enabled
func (m *Manager) IsEnabled() bool {
	return !m.disabled
}

// GetTTL returns the cache TTL duration
func (m *Manager) GetTTL() time.Duration {
	return m.ttl
}

func (m *Manager) count(hit bool) {
	m.mu.Lock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
	m.mu.Unlock()
}

// cleanupLoop runs periodically to clean up expired entries
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup removes expired entries
func (m *Manager) cleanup() int {
	removed := 0
	m.memory.Range(func(key, value interface{}) bool {
		if value.(*CachedMetadata).IsExpired() {
			m.memory.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		m.logger.Debug().Int("removed", removed).Msg("cleaned up expired metadata cache entries")
	}
	return removed
}

// GetStats returns cache statistics
func (m *Manager) GetStats() CacheStats {
	stats := CacheStats{
		Disabled: m.disabled,
		TTL:      m.ttl,
	}

	if m.disabled {
		return stats
	}

	m.memory.Range(func(key, value interface{}) bool {
		stats.Total++
		if value.(*CachedMetadata).IsExpired() {
			stats.Expired++
		}
		return true
	})

	m.mu.Lock()
	stats.Hits = m.hits
	stats.Misses = m.misses
	m.mu.Unlock()

	return stats
}

// Close shuts down the cleanup goroutine
func (m *Manager) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// CacheStats represents cache statistics
type CacheStats struct {
	Disabled bool          `json:"disabled"`
	TTL      time.Duration `json:"ttl"`
	Total    int           `json:"total"`
	Expired  int           `json:"expired"`
	Hits     int64         `json:"hits"`
	Misses   int64         `json:"misses"`
}
