package perft

import (
	"github.com/dgraph-io/ristretto/v2"
)

// MemoryCache is an in-process Cache with bounded size. Entries may be
// dropped at any time; a miss only costs a recount.
type MemoryCache struct {
	c *ristretto.Cache[uint64, uint64]
}

// NewMemoryCache returns a cache holding about maxEntries counts.
func NewMemoryCache(maxEntries int64) (*MemoryCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[uint64, uint64]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryCache{c: c}, nil
}

func key(hash uint64, depth int) uint64 {
	return hash ^ uint64(depth)*0x9E3779B97F4A7C15
}

// Lookup implements Cache.
func (m *MemoryCache) Lookup(hash uint64, depth int) (uint64, bool) {
	return m.c.Get(key(hash, depth))
}

// Record implements Cache.
func (m *MemoryCache) Record(hash uint64, depth int, nodes uint64) {
	m.c.Set(key(hash, depth), nodes, 1)
}

// Wait blocks until buffered writes are applied.
func (m *MemoryCache) Wait() {
	m.c.Wait()
}

// Close releases the cache.
func (m *MemoryCache) Close() {
	m.c.Close()
}
