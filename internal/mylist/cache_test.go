package mylist

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/handiism/otokonime/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBackend struct {
	Backend
	err error
}

func (f failingBackend) GetAll(context.Context) ([]model.ListItem, error) {
	return nil, f.err
}

func TestCache_RefreshSortsNewestFirst(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	c := NewCache(st)
	assert.True(t, c.Loading())

	require.NoError(t, c.Add(ctx, &model.AnimeDetail{Anime: model.Anime{Slug: "first", Title: "First"}}, model.StatusWatching))
	require.NoError(t, c.Add(ctx, &model.AnimeDetail{Anime: model.Anime{Slug: "second", Title: "Second"}}, model.StatusCompleted))
	require.NoError(t, c.Add(ctx, &model.AnimeDetail{Anime: model.Anime{Slug: "third", Title: "Third"}}, model.StatusWatching))

	assert.False(t, c.Loading())
	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{items[0].Slug, items[1].Slug, items[2].Slug})

	status, ok := c.Status("second")
	assert.True(t, ok)
	assert.Equal(t, model.StatusCompleted, status)

	assert.Len(t, c.ByStatus(model.StatusWatching), 2)
	assert.Equal(t, 2, c.Counts()[model.StatusWatching])
}

func TestCache_ReAddMovesToFront(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	c := NewCache(st)

	require.NoError(t, c.Add(ctx, &model.AnimeDetail{Anime: model.Anime{Slug: "a", Title: "A"}}, model.StatusWatching))
	require.NoError(t, c.Add(ctx, &model.AnimeDetail{Anime: model.Anime{Slug: "b", Title: "B"}}, model.StatusWatching))
	require.NoError(t, c.Add(ctx, &model.AnimeDetail{Anime: model.Anime{Slug: "a", Title: "A"}}, model.StatusOnHold))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Slug)
	assert.Equal(t, model.StatusOnHold, items[0].Status)
}

func TestCache_Remove(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	c := NewCache(st)

	require.NoError(t, c.Add(ctx, &model.AnimeDetail{Anime: model.Anime{Slug: "a", Title: "A"}}, model.StatusWatching))
	require.NoError(t, c.Remove(ctx, "a"))
	require.NoError(t, c.Remove(ctx, "a"))

	_, ok := c.Status("a")
	assert.False(t, ok)
	assert.Empty(t, c.Items())
}

func TestCache_RejectedAddLeavesCacheUnchanged(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	c := NewCache(st)
	require.NoError(t, c.Add(ctx, &model.AnimeDetail{Anime: model.Anime{Slug: "a", Title: "A"}}, model.StatusWatching))

	err := c.Add(ctx, &model.AnimeDetail{Anime: model.Anime{Title: "no slug"}}, model.StatusWatching)
	assert.ErrorIs(t, err, ErrMissingSlug)
	assert.Len(t, c.Items(), 1)
}

func TestCache_RefreshFailureFallsBackToEmpty(t *testing.T) {
	boom := errors.New("disk on fire")
	c := NewCache(failingBackend{err: boom})

	err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Loading())
	assert.Empty(t, c.Items())
}

func TestCache_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	st := Open(filepath.Join(t.TempDir(), "list.db"))
	defer st.Close()
	c := NewCache(st)

	statuses := model.ListStatuses()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := &model.AnimeDetail{Anime: model.Anime{Slug: "same", Title: "Same"}}
			assert.NoError(t, c.Add(ctx, d, statuses[i%len(statuses)]))
		}(i)
	}
	wg.Wait()

	items := c.Items()
	require.Len(t, items, 1)

	stored, err := st.Get(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, stored.Status, items[0].Status, "last refresh reflects the last write")
}
