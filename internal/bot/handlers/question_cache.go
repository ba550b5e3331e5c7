package handlers

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

const questionCacheLimit = 1000

// QuestionCache stores inline-mode question text between the inline query
// that offers the reading and the callback that requests it. Entries are
// evicted oldest-first once the cache is full, so a very stale button may
// no longer resolve.
type QuestionCache struct {
	mu    sync.Mutex
	byID  map[string]string
	order []string
}

// NewQuestionCache creates an empty question cache.
func NewQuestionCache() *QuestionCache {
	return &QuestionCache{byID: make(map[string]string)}
}

// Put stores a question and returns the short ID to embed in callback data.
func (c *QuestionCache) Put(question string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := fmt.Sprintf("%x", rand.Uint64())
	for len(c.order) >= questionCacheLimit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.byID, oldest)
	}
	c.byID[id] = question
	c.order = append(c.order, id)
	return id
}

// Get returns the question for an ID, or ok=false if it was never stored or
// has been evicted.
func (c *QuestionCache) Get(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.byID[id]
	return q, ok
}
