package insights

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// Cache memoizes generated insights per filter set with a fixed TTL. Stale
// entries are evicted on access; there is no capacity bound beyond that.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	insights []Insight
	storedAt time.Time
}

// NewCache constructs a Cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached insights for the filter set if a fresh entry
// exists. A present-but-stale entry is evicted and reported as a miss.
func (c *Cache) Get(years []int, industries []string) ([]Insight, bool) {
	key := cacheKey(years, industries)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.insights, true
}

// Set stores insights for the filter set, overwriting any previous entry.
func (c *Cache) Set(years []int, industries []string, insights []Insight) {
	key := cacheKey(years, industries)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{insights: insights, storedAt: c.now()}
}

// Clear removes all cached entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len reports the number of live entries, stale or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey derives a canonical key from the filter set. Both lists are
// sorted before serialization so equivalent filters hit the same entry
// regardless of input ordering; empty and nil lists are equivalent.
func cacheKey(years []int, industries []string) string {
	type filters struct {
		Years      []int    `json:"years"`
		Industries []string `json:"industries"`
	}

	f := filters{}
	if len(years) > 0 {
		f.Years = append([]int(nil), years...)
		sort.Ints(f.Years)
	}
	if len(industries) > 0 {
		f.Industries = append([]string(nil), industries...)
		sort.Strings(f.Industries)
	}

	raw, _ := json.Marshal(f)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
