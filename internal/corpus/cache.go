// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/insight-engine/pkg/types"
)

const defaultPrewarmConcurrency = 4

// cacheEntry memoizes a store answer. Misses are memoized too because the
// corpus is read-only for the life of the process.
type cacheEntry struct {
	records []types.ContentRecord
	found   bool
}

// CacheStats reports cache activity for diagnostics.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache lazily loads and memoizes records per (persona, axis, record type).
// Concurrent first access may read the store more than once for a key; the
// last write wins, which is safe because store content is deterministic.
type Cache struct {
	store       Store
	concurrency int

	mu      sync.RWMutex
	entries map[storeKey]cacheEntry

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache wraps store. concurrency bounds parallel reads during Prewarm;
// zero uses the default of 4.
func NewCache(store Store, concurrency int) *Cache {
	if concurrency <= 0 {
		concurrency = defaultPrewarmConcurrency
	}
	return &Cache{
		store:       store,
		concurrency: concurrency,
		entries:     make(map[storeKey]cacheEntry),
	}
}

// Load returns the records for the key, reading the store only on first
// access. The returned slice is shared and must not be modified.
func (c *Cache) Load(ctx context.Context, persona string, axis int, recordType types.RecordType) ([]types.ContentRecord, error) {
	key := storeKey{strings.ToLower(persona), axis, recordType}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
		if !entry.found {
			return nil, fmt.Errorf("%w: persona=%s axis=%d type=%s", ErrNotFound, persona, axis, recordType)
		}
		return entry.records, nil
	}

	c.misses.Add(1)
	records, err := c.store.Get(ctx, persona, axis, recordType)
	switch {
	case errors.Is(err, ErrNotFound):
		c.put(key, cacheEntry{})
		return nil, err
	case err != nil:
		return nil, err
	}

	c.put(key, cacheEntry{records: records, found: true})
	return records, nil
}

func (c *Cache) put(key storeKey, entry cacheEntry) {
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

// Prewarm loads every record type for the cross product of personas and
// axes. Missing keys are not errors.
func (c *Cache) Prewarm(ctx context.Context, personas []string, axes []int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, p := range personas {
		for _, a := range axes {
			for _, rt := range types.RecordTypes {
				persona, axis, recordType := p, a, rt
				g.Go(func() error {
					_, err := c.Load(gctx, persona, axis, recordType)
					if err != nil && !errors.Is(err, ErrNotFound) {
						return fmt.Errorf("prewarming %s/%d/%s: %w", persona, axis, recordType, err)
					}
					return nil
				})
			}
		}
	}
	return g.Wait()
}

// Clear drops all memoized state.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[storeKey]cacheEntry)
	c.mu.Unlock()
}

// Stats returns a snapshot of cache activity.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return CacheStats{Entries: n, Hits: c.hits.Load(), Misses: c.misses.Load()}
}
