// Package cache provides key/value cache implementations behind the domain
// Cache port: an in-process store for single-instance deployments and a Redis
// store for shared use across replicas.
package cache

import (
	"sync"
	"time"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a size- and TTL-bounded in-process cache. Eviction is FIFO on
// insertion order, which is cheap and close enough to LRU for content-hash
// keyed workloads. Safe for concurrent use.
type Memory struct {
	capacity int
	mu       sync.RWMutex
	m        map[string]memoryEntry
	ord      []string
	now      func() time.Time
}

// NewMemory constructs a Memory cache holding at most capacity entries.
// Capacity below 1 is raised to 1.
func NewMemory(capacity int) *Memory {
	if capacity < 1 {
		capacity = 1
	}
	return &Memory{
		capacity: capacity,
		m:        make(map[string]memoryEntry, capacity),
		ord:      make([]string, 0, capacity),
		now:      time.Now,
	}
}

var _ domain.Cache = (*Memory)(nil)

// Get returns the value for key if present and unexpired.
func (c *Memory) Get(_ domain.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed
		// the entry.
		if cur, live := c.m[key]; live && !cur.expiresAt.IsZero() && c.now().After(cur.expiresAt) {
			delete(c.m, key)
			c.dropOrd(key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value under key. A ttl of zero means no expiry.
func (c *Memory) Set(_ domain.Context, key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.m[key]; exists {
		c.m[key] = memoryEntry{value: value, expiresAt: exp}
		return nil
	}
	for len(c.ord) >= c.capacity {
		old := c.ord[0]
		c.ord = c.ord[1:]
		delete(c.m, old)
	}
	c.m[key] = memoryEntry{value: value, expiresAt: exp}
	c.ord = append(c.ord, key)
	return nil
}

// dropOrd removes key from the insertion order; callers hold the write lock.
// Leaving it behind would let a later Set of the same key append a duplicate,
// and evicting the stale duplicate would delete the live entry.
func (c *Memory) dropOrd(key string) {
	for i, k := range c.ord {
		if k == key {
			c.ord = append(c.ord[:i], c.ord[i+1:]...)
			return
		}
	}
}

// Len reports the number of entries currently stored, expired or not.
func (c *Memory) Len(_ domain.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m), nil
}
