package icao

import lru "github.com/hashicorp/golang-lru/v2"

// NormalizationCache memoizes Normalize by raw input text. Normalize is
// pure and deterministic, so a plain size-bounded LRU is enough: no
// invalidation is ever needed, only eviction once the cache is full.
type NormalizationCache struct {
	cache *lru.Cache[string, NormalizationResult]
}

// NewNormalizationCache builds a cache holding up to size entries.
func NewNormalizationCache(size int) (*NormalizationCache, error) {
	c, err := lru.New[string, NormalizationResult](size)
	if err != nil {
		return nil, err
	}
	return &NormalizationCache{cache: c}, nil
}

func (c *NormalizationCache) Get(rawText string) (NormalizationResult, bool) {
	if c == nil || c.cache == nil {
		return NormalizationResult{}, false
	}
	return c.cache.Get(rawText)
}

func (c *NormalizationCache) Add(rawText string, result NormalizationResult) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Add(rawText, result)
}

// Len reports the number of entries currently cached.
func (c *NormalizationCache) Len() int {
	if c == nil || c.cache == nil {
		return 0
	}
	return c.cache.Len()
}
