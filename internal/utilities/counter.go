package utilities

import (
	"sync"

	"github.com/antonio-alexander/go-learning-history/internal/data"
)

type Counter interface {
	Read(key string) (hitCount, missCount int)
	ReadAll() *data.CacheCounters
	IncrementHit(key string) (hitCount int)
	IncrementMiss(key string) (missCount int)
	Reset()
}

type cacheCounter struct {
	sync.Mutex
	hits   map[string]int
	misses map[string]int
}

// NewCounter creates a hit/miss counter; reads of an unknown key return
// -1 for both counts
func NewCounter() Counter {
	c := &cacheCounter{}
	c.Reset()
	return c
}

func (c *cacheCounter) Reset() {
	c.Lock()
	defer c.Unlock()

	c.hits, c.misses = make(map[string]int), make(map[string]int)
}

func (c *cacheCounter) Read(key string) (int, int) {
	c.Lock()
	defer c.Unlock()

	hit, hitFound := c.hits[key]
	miss, missFound := c.misses[key]
	if !hitFound && !missFound {
		return -1, -1
	}
	return hit, miss
}

func (c *cacheCounter) ReadAll() *data.CacheCounters {
	c.Lock()
	defer c.Unlock()

	counters := &data.CacheCounters{
		CounterHits:   make(map[string]int, len(c.hits)),
		CounterMisses: make(map[string]int, len(c.misses)),
	}
	for key, hit := range c.hits {
		counters.CounterHits[key] = hit
	}
	for key, miss := range c.misses {
		counters.CounterMisses[key] = miss
	}
	return counters
}

func (c *cacheCounter) IncrementHit(key string) int {
	c.Lock()
	defer c.Unlock()

	c.hits[key]++
	if _, ok := c.misses[key]; !ok {
		c.misses[key] = 0
	}
	return c.hits[key]
}

func (c *cacheCounter) IncrementMiss(key string) int {
	c.Lock()
	defer c.Unlock()

	c.misses[key]++
	if _, ok := c.hits[key]; !ok {
		c.hits[key] = 0
	}
	return c.misses[key]
}
