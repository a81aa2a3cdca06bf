package mylist

import (
	"context"
	"slices"
	"sync"

	"github.com/handiism/otokonime/internal/model"
)

// Backend is the persisted store a Cache projects.
type Backend interface {
	Upsert(ctx context.Context, d *model.AnimeDetail, status model.ListStatus) error
	Remove(ctx context.Context, slug string) error
	GetAll(ctx context.Context) ([]model.ListItem, error)
}

// Cache is an in-memory, read-only projection of a Backend, sorted by
// AddedAt, most recent first.
//
// Mutations go through Add and Remove, which write and then reload the
// whole list. They are serialized, so concurrent callers cannot interleave
// a write between another caller's write and reload.
type Cache struct {
	backend Backend

	// mut serializes mutate-then-refresh cycles.
	mut sync.Mutex

	mu      sync.RWMutex
	items   []model.ListItem
	loading bool
}

// NewCache returns an empty Cache in the loading state.
func NewCache(backend Backend) *Cache {
	return &Cache{backend: backend, loading: true}
}

// Refresh reloads every record from the backend.
//
// On failure the cache is left empty and not loading, and the error is
// returned.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.refresh(ctx)
}

func (c *Cache) refresh(ctx context.Context) error {
	items, err := c.backend.GetAll(ctx)
	if err != nil {
		items = nil
	}
	slices.SortStableFunc(items, func(a, b model.ListItem) int {
		return b.AddedAt.Compare(a.AddedAt)
	})

	c.mu.Lock()
	c.items = items
	c.loading = false
	c.mu.Unlock()
	return err
}

// Add files d under status and reloads the list.
func (c *Cache) Add(ctx context.Context, d *model.AnimeDetail, status model.ListStatus) error {
	c.mut.Lock()
	defer c.mut.Unlock()

	if err := c.backend.Upsert(ctx, d, status); err != nil {
		return err
	}
	return c.refresh(ctx)
}

// Remove deletes slug from the list and reloads it.
func (c *Cache) Remove(ctx context.Context, slug string) error {
	c.mut.Lock()
	defer c.mut.Unlock()

	if err := c.backend.Remove(ctx, slug); err != nil {
		return err
	}
	return c.refresh(ctx)
}

// Loading reports whether the first load has not completed yet.
func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Items returns a copy of the cached list.
func (c *Cache) Items() []model.ListItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// ByStatus returns the cached items filed under status.
func (c *Cache) ByStatus(status model.ListStatus) []model.ListItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []model.ListItem
	for _, it := range c.items {
		if it.Status == status {
			out = append(out, it)
		}
	}
	return out
}

// Item returns the cached record for slug.
func (c *Cache) Item(slug string) (model.ListItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, it := range c.items {
		if it.Slug == slug {
			return it, true
		}
	}
	return model.ListItem{}, false
}

// Status returns the status slug is filed under.
func (c *Cache) Status(slug string) (model.ListStatus, bool) {
	it, ok := c.Item(slug)
	return it.Status, ok
}

// Counts returns the number of cached items per status.
func (c *Cache) Counts() map[model.ListStatus]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counts := make(map[model.ListStatus]int, len(model.ListStatuses()))
	for _, it := range c.items {
		counts[it.Status]++
	}
	return counts
}
