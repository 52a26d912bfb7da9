package pagestore

import (
	"container/list"
	"sync"

	"github.com/cockroachdb/swiss"
)

// Cache is a write-through LRU page cache in front of a Store.
//
// Pages are immutable once written, so cached pages never go stale and the
// cache needs no invalidation. Only whole-page transfers are cached; shorter
// reads and writes pass through.
type Cache struct {
	store    Store
	pageSize int
	maxPages int

	mu     sync.Mutex
	index  *swiss.Map[Addr, *list.Element]
	lru    *list.List // front is most recently used
	hits   uint64
	misses uint64
}

type cacheEntry struct {
	addr Addr
	page []byte
}

// CacheStats reports the effectiveness of a Cache.
type CacheStats struct {
	Pages  int
	Hits   uint64
	Misses uint64
}

// NewCache wraps store with a cache of up to maxPages pages of pageSize bytes.
func NewCache(store Store, pageSize int, maxPages int) *Cache {
	if maxPages < 1 {
		maxPages = 1
	}
	return &Cache{
		store:    store,
		pageSize: pageSize,
		maxPages: maxPages,
		index:    swiss.New[Addr, *list.Element](maxPages),
		lru:      list.New(),
	}
}

// ReadPage implements Store.
func (c *Cache) ReadPage(addr Addr, p []byte) error {
	if len(p) != c.pageSize {
		return c.store.ReadPage(addr, p)
	}
	c.mu.Lock()
	if elem, ok := c.index.Get(addr); ok {
		c.lru.MoveToFront(elem)
		copy(p, elem.Value.(*cacheEntry).page)
		c.hits++
		c.mu.Unlock()
		return nil
	}
	c.misses++
	c.mu.Unlock()
	if err := c.store.ReadPage(addr, p); err != nil {
		return err
	}
	c.put(addr, p)
	return nil
}

// WritePage implements Store.
func (c *Cache) WritePage(addr Addr, p []byte) error {
	if err := c.store.WritePage(addr, p); err != nil {
		return err
	}
	if len(p) == c.pageSize {
		c.put(addr, p)
	}
	return nil
}

func (c *Cache) put(addr Addr, p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.index.Get(addr); ok {
		c.lru.MoveToFront(elem)
		copy(elem.Value.(*cacheEntry).page, p)
		return
	}
	entry := &cacheEntry{addr: addr, page: append([]byte(nil), p...)}
	c.index.Put(addr, c.lru.PushFront(entry))
	for c.lru.Len() > c.maxPages {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		c.index.Delete(oldest.Value.(*cacheEntry).addr)
	}
}

// Stats returns the current cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Pages: c.lru.Len(), Hits: c.hits, Misses: c.misses}
}

// Clear drops all cached pages.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = swiss.New[Addr, *list.Element](c.maxPages)
	c.lru.Init()
}
