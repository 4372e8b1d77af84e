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

package types

// Cache defines the interface for cache storage
// Provides key-value based storage and retrieval functionality with expiration support
// Implementation classes must ensure thread safety
type Cache interface {
	// Set stores a key-value pair in cache with optional expiration
	// Parameters:
	//   - key: cache key (string)
	//   - value: value to store (interface{})
	//   - ttl: time-to-live duration string (e.g. "10m", "1h")
	// Returns:
	//   - error: returns error if ttl format is invalid
	// Note: If ttl is 0 or empty string, the item will never expire
	Set(key string, value interface{}, ttl string) error
	// Get retrieves a value from cache by key
	// Returns the stored value, nil if not exists or expired
	Get(key string) interface{}
	// Has checks if a key exists in cache and is not expired
	Has(key string) bool
	// Delete removes a cache item by key
	Delete(key string) error
	// DeleteByPrefix removes all cache items with the specified prefix
	DeleteByPrefix(prefix string) error
	// GetByPrefix retrieves all values with keys matching the specified prefix
	GetByPrefix(prefix string) map[string]interface{}
}
