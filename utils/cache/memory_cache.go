/*
 * Copyright 2025 The WeaveGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/weavego/weavego/api/types"
)

// Compile-time check MemoryCache implements types.Cache.
var _ types.Cache = (*MemoryCache)(nil)

var DefaultCache = NewMemoryCache(time.Minute * 5)

// MemoryCache is an in-memory cache implementation.
// It stores key-value pairs with optional expiration.
type MemoryCache struct {
	items      map[string]item
	mu         sync.RWMutex
	stopGc     chan struct{}
	ticker     *time.Ticker
	gcInterval time.Duration
}

// item represents a cached item with its value and expiration time.
// The expiration time is stored as Unix nano timestamp; 0 means never expire.
type item struct {
	value      interface{}
	expiration int64
}

// NewMemoryCache creates a new MemoryCache instance.
// Garbage collection starts lazily when the first expirable item is stored.
func NewMemoryCache(gcInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		items:      make(map[string]item),
		stopGc:     make(chan struct{}),
		gcInterval: time.Minute * 5,
	}
	if gcInterval > 0 {
		c.gcInterval = gcInterval
	}
	return c
}

// Set stores a value in the cache with the given key and an optional ttl
// duration string (e.g. "10m"). If ttl is empty or "0", the item never expires.
func (c *MemoryCache) Set(key string, value interface{}, ttl string) error {
	var expiration int64
	var dur time.Duration
	var err error

	if ttl != "" {
		dur, err = time.ParseDuration(ttl)
		if err != nil {
			return err
		}
	}

	if dur > 0 {
		expiration = time.Now().Add(dur).UnixNano()
	}

	c.mu.Lock()
	c.items[key] = item{
		value:      value,
		expiration: expiration,
	}
	// Start GC lazily once an expirable item exists.
	shouldStartGC := expiration > 0 && c.ticker == nil
	c.mu.Unlock()

	if shouldStartGC {
		c.StartGC()
	}

	return nil
}

// Get retrieves a value from the cache by its key.
// Returns nil if the key does not exist or has expired.
func (c *MemoryCache) Get(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found {
		return nil
	}

	if it.expiration > 0 && time.Now().UnixNano() > it.expiration {
		// Expired. The GC will take care of removal.
		return nil
	}

	return it.value
}

// Has checks if a key exists in the cache and has not expired.
func (c *MemoryCache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found {
		return false
	}

	if it.expiration > 0 && time.Now().UnixNano() > it.expiration {
		return false
	}

	return true
}

// Delete removes a cache item by key.
func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// DeleteByPrefix removes all cache items with the given prefix.
func (c *MemoryCache) DeleteByPrefix(prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

// GetByPrefix retrieves all non-expired values with keys matching the prefix.
func (c *MemoryCache) GetByPrefix(prefix string) map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]interface{})
	now := time.Now().UnixNano()

	for k, v := range c.items {
		if strings.HasPrefix(k, prefix) {
			if v.expiration == 0 || now <= v.expiration {
				result[k] = v.value
			}
		}
	}

	return result
}

// StartGC starts the garbage collection goroutine if not already running and
// if there are expirable items. Otherwise it is a no-op.
func (c *MemoryCache) StartGC() {
	c.mu.Lock()
	if c.ticker != nil {
		c.mu.Unlock()
		return
	}

	hasExpirable := false
	for _, itm := range c.items {
		if itm.expiration > 0 {
			hasExpirable = true
			break
		}
	}

	if !hasExpirable {
		c.mu.Unlock()
		return
	}

	c.ticker = time.NewTicker(c.gcInterval)
	c.stopGc = make(chan struct{})
	c.mu.Unlock()

	go func() {
		for {
			select {
			case <-c.ticker.C:
				c.deleteExpired()
			case <-c.stopGc:
				c.ticker.Stop()
				c.mu.Lock()
				c.ticker = nil
				c.mu.Unlock()
				return
			}
		}
	}()
}

// StopGC stops the garbage collection goroutine. Safe to call multiple times.
func (c *MemoryCache) StopGC() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker != nil && c.stopGc != nil {
		select {
		case <-c.stopGc:
			// already stopped
		default:
			close(c.stopGc)
		}
	}
}

// deleteExpired removes all expired items.
func (c *MemoryCache) deleteExpired() {
	now := time.Now().UnixNano()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.items {
		if v.expiration > 0 && now > v.expiration {
			delete(c.items, k)
		}
	}
}
