// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used
cache keyed by strings.

[Cache] stores values as they are; [Compressed] stores byte slices
zstd-compressed and hands out decompressed copies.
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"
)

// ErrInvalidSize is returned for a non-positive capacity.
var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity LRU cache that is safe for concurrent use.
// The zero value is not ready for use; construct it with [New].
type Cache[V any] struct {
	size    int
	order   *list.List // front is the most recently used
	items   map[string]*list.Element
	mu      sync.Mutex
	onEvict func(key string, value V)
}

type entry[V any] struct {
	key   string
	value V
}

// Option configures a [Cache].
type Option[V any] func(*Cache[V])

// WithEvictCallback registers fn to run, outside the cache lock, for every
// entry dropped because the cache was full.
func WithEvictCallback[V any](fn func(key string, value V)) Option[V] {
	return func(c *Cache[V]) { c.onEvict = fn }
}

// New creates a cache holding at most size entries.
func New[V any](size int, opts ...Option[V]) (*Cache[V], error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache[V]{
		size:  size,
		order: list.New(),
		items: make(map[string]*list.Element, size),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Add inserts or replaces the value for key and marks it most recently used.
// It reports whether an older entry was evicted to make room.
func (c *Cache[V]) Add(key string, value V) bool {
	c.mu.Lock()

	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		el.Value.(*entry[V]).value = value
		c.mu.Unlock()

		return false
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value})

	var evicted *entry[V]

	if c.order.Len() > c.size {
		evicted = c.removeElement(c.order.Back())
	}

	c.mu.Unlock()

	if evicted != nil && c.onEvict != nil {
		c.onEvict(evicted.key, evicted.value)
	}

	return evicted != nil
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V

		return zero, false
	}

	c.order.MoveToFront(el)

	return el.Value.(*entry[V]).value, true
}

// Peek returns the value for key without touching the LRU order.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V

		return zero, false
	}

	return el.Value.(*entry[V]).value, true
}

// Remove deletes key and reports whether it was present.
func (c *Cache[V]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if ok {
		c.removeElement(el)
	}

	return ok
}

// RemoveFunc deletes every entry for which match returns true and returns
// the number of deleted entries. match runs under the cache lock.
func (c *Cache[V]) RemoveFunc(match func(key string, value V) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0

	for el := c.order.Back(); el != nil; {
		prev := el.Prev()

		if e := el.Value.(*entry[V]); match(e.key, e.value) {
			c.removeElement(el)
			removed++
		}

		el = prev
	}

	return removed
}

// Keys returns the keys from the oldest to the newest.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.items))
	for el := c.order.Back(); el != nil; el = el.Prev() {
		keys = append(keys, el.Value.(*entry[V]).key)
	}

	return keys
}

// Len returns the number of entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// Purge drops every entry without calling the evict callback.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	clear(c.items)
}

func (c *Cache[V]) removeElement(el *list.Element) *entry[V] {
	c.order.Remove(el)

	e := el.Value.(*entry[V])
	delete(c.items, e.key)

	return e
}
