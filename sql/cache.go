package sql

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/mitchellh/hashstructure"
)

// CacheKey returns a hash of the given value to be used as key in
// a cache.
func CacheKey(v interface{}) (uint64, error) {
	return hashstructure.Hash(v, nil)
}

// lookupCache keeps the catalog responses of one context. Only successful
// responses are kept, so a missing entry is asked again on every lookup.
type lookupCache struct {
	cache *lru.Cache
}

func newLookupCache(size int) *lookupCache {
	if size <= 0 {
		return nil
	}

	c, err := lru.New(size)
	if err != nil {
		return nil
	}
	return &lookupCache{c}
}

// Cached returns the value cached under key or computes it with fn. Values
// only live as long as the context.
func (c *Context) Cached(key interface{}, fn func() (interface{}, error)) (interface{}, error) {
	if c.cache == nil {
		return fn()
	}

	k, err := CacheKey(key)
	if err != nil {
		return fn()
	}

	if v, ok := c.cache.cache.Get(k); ok {
		return v, nil
	}

	v, err := fn()
	if err != nil {
		return nil, err
	}

	c.cache.cache.Add(k, v)
	return v, nil
}
