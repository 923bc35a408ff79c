package cache

import (
	"container/list"
	"sync"
)

// lru is a thread-safe fixed-size LRU map from blob keys to decompressed
// content, fronting the on-disk store.
type lru struct {
	mu        sync.Mutex
	maxSize   int
	entries   map[string]*list.Element
	evictList *list.List
}

type lruEntry struct {
	key   string
	value []byte
}

func newLRU(maxSize int) *lru {
	if maxSize <= 0 {
		maxSize = 64
	}
	return &lru{
		maxSize:   maxSize,
		entries:   make(map[string]*list.Element),
		evictList: list.New(),
	}
}

func (c *lru) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.evictList.MoveToFront(ent)
	return ent.Value.(*lruEntry).value, true
}

func (c *lru) put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.evictList.MoveToFront(ent)
		ent.Value.(*lruEntry).value = value
		return
	}

	c.entries[key] = c.evictList.PushFront(&lruEntry{key: key, value: value})
	if c.evictList.Len() > c.maxSize {
		oldest := c.evictList.Back()
		if oldest != nil {
			c.evictList.Remove(oldest)
			delete(c.entries, oldest.Value.(*lruEntry).key)
		}
	}
}

func (c *lru) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}
