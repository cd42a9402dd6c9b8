// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// LRU is a typed LRU cache on top of golang-lru, which records hit/miss.
type LRU[K comparable, V any] struct {
	cache     *lru.Cache
	hit, miss atomic.Int64
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{cache: cache}, nil
}

// Get looks up a key's value from the cache.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.cache.Get(key); ok {
		l.hit.Add(1)
		return v.(V), true
	}
	l.miss.Add(1)
	var zero V
	return zero, false
}

// Add adds or replaces a value in the cache.
func (l *LRU[K, V]) Add(key K, value V) {
	l.cache.Add(key, value)
}

// ContainsOrAdd adds the value unless key is cached, without updating recency.
// It reports whether key was already cached and whether an entry was evicted.
func (l *LRU[K, V]) ContainsOrAdd(key K, value V) (ok, evicted bool) {
	return l.cache.ContainsOrAdd(key, value)
}

// Remove evicts the key from the cache.
func (l *LRU[K, V]) Remove(key K) {
	l.cache.Remove(key)
}

// Purge clears the cache.
func (l *LRU[K, V]) Purge() {
	l.cache.Purge()
}

// Len returns the number of cached items.
func (l *LRU[K, V]) Len() int {
	return l.cache.Len()
}

// GetOrLoad first try to get from cache, do load if missed.
func (l *LRU[K, V]) GetOrLoad(key K, loader func(K) (V, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		return v, err
	}
	l.cache.Add(key, v)
	return v, nil
}

// Stats returns the number of hits and misses.
func (l *LRU[K, V]) Stats() (hit, miss int64) {
	return l.hit.Load(), l.miss.Load()
}
