package server

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// cacheSize bounds each resume cache. Keys are (source, scale) pairs, and a
// portfolio has one resume, so a handful of scales is the working set.
const cacheSize = 32

// resumeCache holds resume documents for a fixed time, evicting the least
// recently used entry past cacheSize. A zero ttl disables caching.
type resumeCache[V any] struct {
	lru *expirable.LRU[string, V] // nil when disabled
}

func newResumeCache[V any](ttl time.Duration) *resumeCache[V] {
	if ttl <= 0 {
		return &resumeCache[V]{}
	}
	return &resumeCache[V]{lru: expirable.NewLRU[string, V](cacheSize, nil, ttl)}
}

func (c *resumeCache[V]) Get(key string) (V, bool) {
	if c.lru == nil {
		var zero V
		return zero, false
	}
	return c.lru.Get(key)
}

func (c *resumeCache[V]) Put(key string, v V) {
	if c.lru != nil {
		c.lru.Add(key, v)
	}
}

// Purge drops every entry.
func (c *resumeCache[V]) Purge() {
	if c.lru != nil {
		c.lru.Purge()
	}
}

func (c *resumeCache[V]) Len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
