package pipeline

import "context"

// Cache maps a batch fingerprint to its repaired translated fragments.
// Entries are append-only: a fingerprint is written at most once per content
// and never invalidated, so repeated or concurrent Puts for the same
// fingerprint must be idempotent.
type Cache interface {
	Get(ctx context.Context, fingerprint string) ([]string, bool, error)
	Put(ctx context.Context, fingerprint string, fragments []string) error
}

// MemoryCache is an in-process Cache, used in tests and as a fallback when
// no durable store is configured.
type MemoryCache struct {
	entries map[string][]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]string)}
}

func (c *MemoryCache) Get(_ context.Context, fingerprint string) ([]string, bool, error) {
	fragments, ok := c.entries[fingerprint]
	return fragments, ok, nil
}

func (c *MemoryCache) Put(_ context.Context, fingerprint string, fragments []string) error {
	if _, ok := c.entries[fingerprint]; ok {
		return nil
	}
	c.entries[fingerprint] = append([]string(nil), fragments...)
	return nil
}
