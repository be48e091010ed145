// Package cache holds rendered pages so public traffic does not re-render
// Markdown and re-read the posts directory on every request.
//
// Keys are request paths ("/", "/posts", "/posts/hello-world"); values are
// complete HTML documents. The post submission flow invalidates the three
// pages a new commit affects. Invalidation is idempotent and
// order-independent — deleting an absent key is a no-op, so the same set of
// keys can be invalidated any number of times in any order.
package cache

import (
	"context"
	"sync"
	"time"
)

// PageCache is a rendered-page store keyed by request path.
type PageCache interface {
	// Get returns the cached page for key, with ok=false on a miss.
	Get(ctx context.Context, key string) (string, bool)
	// Set stores the page for key.
	Set(ctx context.Context, key, page string) error
	// Invalidate removes the given keys. Missing keys are ignored.
	Invalidate(ctx context.Context, keys ...string) error
}

// memoryEntry pairs a page with its expiry deadline.
type memoryEntry struct {
	page    string
	expires time.Time
}

// Memory is an in-process PageCache. It is the default backend: correct for
// a single-server deployment, gone on restart, no infrastructure.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	clock   func() time.Time
}

// NewMemory creates a Memory cache. A zero ttl means entries never expire
// (they are still dropped by Invalidate).
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		clock:   time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", false
	}
	if !entry.expires.IsZero() && m.clock().After(entry.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false
	}
	return entry.page, true
}

func (m *Memory) Set(_ context.Context, key, page string) error {
	entry := memoryEntry{page: page}
	if m.ttl > 0 {
		entry.expires = m.clock().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Invalidate(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	m.mu.Unlock()
	return nil
}
