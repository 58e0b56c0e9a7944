package gep

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize is the number of contexts a gene remembers evaluations for
const DefaultCacheSize = 256

// CacheStats describes the memo cache of a gene. Genes derived without
// touching their coding region share the cache, and therefore the stats, of
// their parent.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// memo caches evaluation results keyed by context identity. Entries are only
// ever added for successful evaluations.
type memo struct {
	entries *lru.Cache
	hits    atomic.Uint64
	misses  atomic.Uint64
}

func newMemo(size int) (*memo, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	entries, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating evaluation cache: %w", err)
	}

	return &memo{entries: entries}, nil
}

func (m *memo) get(key interface{}) (interface{}, bool) {
	v, ok := m.entries.Get(key)
	if ok {
		m.hits.Add(1)
		cacheHits.Inc()
	} else {
		m.misses.Add(1)
		cacheMisses.Inc()
	}
	return v, ok
}

func (m *memo) add(key, value interface{}) {
	m.entries.Add(key, value)
}

func (m *memo) stats() CacheStats {
	return CacheStats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Entries: m.entries.Len(),
	}
}
