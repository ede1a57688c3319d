package data

import (
	"sync"

	"github.com/tradekit/structurebot/pkg/types"
)

// MemoryCache is an in-memory Cache. Entries are stored and returned as
// copies so callers cannot mutate cached series.
type MemoryCache struct {
	mu    sync.RWMutex
	cache map[string][]types.OHLCV
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{cache: make(map[string][]types.OHLCV)}
}

func (c *MemoryCache) Get(key string) ([]types.OHLCV, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	out := make([]types.OHLCV, len(data))
	copy(out, data)
	return out, true
}

func (c *MemoryCache) Set(key string, data []types.OHLCV) {
	stored := make([]types.OHLCV, len(data))
	copy(stored, data)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = stored
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string][]types.OHLCV)
}

func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// CachedProvider wraps a Provider with a Cache keyed by source.
type CachedProvider struct {
	provider Provider
	cache    Cache
}

func NewCachedProvider(provider Provider, cache Cache) *CachedProvider {
	return &CachedProvider{provider: provider, cache: cache}
}

func (p *CachedProvider) GetName() string {
	return p.provider.GetName() + "+cache"
}

func (p *CachedProvider) LoadData(source string) ([]types.OHLCV, error) {
	if data, ok := p.cache.Get(source); ok {
		return data, nil
	}
	data, err := p.provider.LoadData(source)
	if err != nil {
		return nil, err
	}
	p.cache.Set(source, data)
	return data, nil
}

func (p *CachedProvider) ValidateData(data []types.OHLCV) error {
	return p.provider.ValidateData(data)
}
