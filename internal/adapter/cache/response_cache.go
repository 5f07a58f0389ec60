// Package cache implements the single-slot response cache: the last
// response body and status code served, reused probabilistically instead of
// forwarding to a replica.
package cache

import (
	"sync"

	"github.com/relaylb/relay/internal/core/domain"
)

// SingleSlot holds exactly one cached response at a time; a Put always
// overwrites whatever was there before.
type SingleSlot struct {
	mu     sync.RWMutex
	entry  domain.CacheEntry
	primed bool
}

func NewSingleSlot() *SingleSlot {
	return &SingleSlot{}
}

func (c *SingleSlot) Get() (domain.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.primed {
		return domain.CacheEntry{}, false
	}
	return c.entry, true
}

func (c *SingleSlot) Put(entry domain.CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = entry
	c.primed = true
}
