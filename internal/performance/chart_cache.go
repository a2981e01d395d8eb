package performance

import (
	"sync"
	"time"
)

// DefaultChartCacheTTL keeps a rendered chart for one minute.
const DefaultChartCacheTTL = 60 * time.Second

type chartCacheEntry struct {
	createdAt time.Time
	image     []byte
}

// chartCache holds rendered PNGs by key until they expire.
type chartCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]chartCacheEntry
}

func newChartCache(ttl time.Duration) *chartCache {
	if ttl <= 0 {
		ttl = DefaultChartCacheTTL
	}
	return &chartCache{ttl: ttl, now: time.Now, entries: map[string]chartCacheEntry{}}
}

func (c *chartCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.createdAt.Add(c.ttl)) {
		delete(c.entries, key)
		return nil, false
	}
	img := make([]byte, len(entry.image))
	copy(img, entry.image)
	return img, true
}

func (c *chartCache) set(key string, img []byte) {
	c.mu.Lock()
	c.entries[key] = chartCacheEntry{createdAt: c.now(), image: img}
	c.mu.Unlock()
}
