// Package cache holds account records close to the credential store.
//
// Account records never change after registration, so an entry can only be
// missing, never stale. The TTL and size bound exist to cap memory.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lborres/whatif/core"
)

// InMemoryCache is a size-bounded account cache. When full, the entry that
// was inserted first is dropped.
type InMemoryCache struct {
	mu      sync.Mutex
	index   map[string]*list.Element // username -> element holding *entry
	order   *list.List               // front is the oldest insertion
	ttl     time.Duration
	maxSize int

	counters counters
	now      func() time.Time
}

var _ core.CacheWithStats = (*InMemoryCache)(nil)

type entry struct {
	username  string
	account   core.Account
	expiresAt time.Time
}

type counters struct {
	hits, misses, sets, deletes, evictions atomic.Int64
}

func NewInMemoryCache(c core.CacheConfig) *InMemoryCache {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxSize == 0 {
		c.MaxSize = 500
	}

	return &InMemoryCache{
		index:   make(map[string]*list.Element, c.MaxSize),
		order:   list.New(),
		ttl:     c.TTL,
		maxSize: c.MaxSize,
		now:     time.Now,
	}
}

// Get hands out a copy, so callers cannot alter what later lookups see
func (c *InMemoryCache) Get(username string) (*core.Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[username]
	if !ok {
		c.counters.misses.Add(1)
		return nil, core.ErrCacheNotFound
	}

	e := el.Value.(*entry)
	if !c.now().Before(e.expiresAt) {
		c.unlink(el)
		c.counters.evictions.Add(1)
		c.counters.misses.Add(1)
		return nil, core.ErrCacheNotFound
	}

	c.counters.hits.Add(1)
	account := e.account
	return &account, nil
}

func (c *InMemoryCache) Set(username string, account *core.Account) error {
	if account == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if el, ok := c.index[username]; ok {
		e := el.Value.(*entry)
		e.account = *account
		e.expiresAt = expiresAt
		c.counters.sets.Add(1)
		return nil
	}

	for c.order.Len() >= c.maxSize {
		c.unlink(c.order.Front())
		c.counters.evictions.Add(1)
	}

	c.index[username] = c.order.PushBack(&entry{
		username:  username,
		account:   *account,
		expiresAt: expiresAt,
	})
	c.counters.sets.Add(1)
	return nil
}

func (c *InMemoryCache) Delete(username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[username]; ok {
		c.unlink(el)
		c.counters.deletes.Add(1)
	}
	return nil
}

func (c *InMemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index = make(map[string]*list.Element, c.maxSize)
	c.order.Init()
	return nil
}

func (c *InMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *InMemoryCache) Stats() core.CacheStats {
	return core.CacheStats{
		Hits:      c.counters.hits.Load(),
		Misses:    c.counters.misses.Load(),
		Sets:      c.counters.sets.Load(),
		Deletes:   c.counters.deletes.Load(),
		Evictions: c.counters.evictions.Load(),
		Size:      c.Len(),
		TTL:       c.ttl,
	}
}

// unlink removes el from both the list and the index; c.mu must be held
func (c *InMemoryCache) unlink(el *list.Element) {
	e := c.order.Remove(el).(*entry)
	delete(c.index, e.username)
}
