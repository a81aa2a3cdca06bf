package mylist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/handiism/otokonime/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "otokonime.db")
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	st := Open(path, WithClock(clock.now))
	t.Cleanup(func() { _ = st.Close() })
	return st, path
}

func TestStore_UpsertOngoingListing(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	a := model.Anime{Kind: model.KindOngoing, Slug: "a", Title: "A", Poster: "p.png", CurrentEpisode: "Episode 5"}
	require.NoError(t, st.UpsertAnime(ctx, a, model.StatusWatching))

	items, err := st.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, "a", got.Slug)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "p.png", got.Poster)
	assert.Equal(t, model.StatusWatching, got.Status)
	assert.Equal(t, "Episode 5", got.CurrentEpisode)
	assert.Empty(t, got.EpisodeCount)
	assert.Empty(t, got.Rating)
	assert.Nil(t, got.Genres)
}

func TestStore_UpsertDetail(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	d := &model.AnimeDetail{
		Anime: model.Anime{
			Slug:         "frieren",
			Title:        "Sousou no Frieren",
			Poster:       "f.jpg",
			Rating:       "9.1",
			Genres:       []model.Genre{{Name: "Adventure", Slug: "adventure"}},
			EpisodeCount: "28",
		},
		Status:   "Completed",
		Episodes: []model.Episode{{Episode: "Episode 28"}},
	}
	require.NoError(t, st.Upsert(ctx, d, model.StatusCompleted))

	got, err := st.Get(ctx, "frieren")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "9.1", got.Rating)
	assert.Equal(t, "28", got.EpisodeCount)
	assert.Empty(t, got.CurrentEpisode)
	assert.Equal(t, []model.Genre{{Name: "Adventure", Slug: "adventure"}}, got.Genres)
}

func TestStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	d := &model.AnimeDetail{Anime: model.Anime{Slug: "x", Title: "X"}}
	require.NoError(t, st.Upsert(ctx, d, model.StatusPlanToWatch))
	first, err := st.Get(ctx, "x")
	require.NoError(t, err)

	require.NoError(t, st.Upsert(ctx, d, model.StatusDropped))

	items, err := st.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.StatusDropped, items[0].Status)
	assert.True(t, items[0].AddedAt.After(first.AddedAt), "added_at is reset on overwrite")
}

func TestStore_UpsertMissingSlug(t *testing.T) {
	ctx := context.Background()
	st, path := newTestStore(t)

	err := st.Upsert(ctx, &model.AnimeDetail{Anime: model.Anime{Title: "No slug"}}, model.StatusWatching)
	assert.ErrorIs(t, err, ErrMissingSlug)

	err = st.Upsert(ctx, nil, model.StatusWatching)
	assert.ErrorIs(t, err, ErrMissingSlug)

	// Rejected before the database was even opened.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	items, err := st.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_UpsertMissingSlugLeavesRecordsUnchanged(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	require.NoError(t, st.Upsert(ctx, &model.AnimeDetail{Anime: model.Anime{Slug: "a", Title: "A"}}, model.StatusWatching))
	before, err := st.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, before, 1)

	err = st.Upsert(ctx, &model.AnimeDetail{Anime: model.Anime{Slug: "", Title: "Empty"}}, model.StatusDropped)
	require.ErrorIs(t, err, ErrMissingSlug)
	err = st.Upsert(ctx, &model.AnimeDetail{Anime: model.Anime{Slug: "   ", Title: "Blank"}}, model.StatusDropped)
	require.ErrorIs(t, err, ErrMissingSlug)

	after, err := st.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_UpsertInvalidStatus(t *testing.T) {
	st, _ := newTestStore(t)

	err := st.Upsert(context.Background(), &model.AnimeDetail{Anime: model.Anime{Slug: "x"}}, "finished")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStore_RemoveAbsent(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	require.NoError(t, st.UpsertAnime(ctx, model.Anime{Slug: "keep", Title: "Keep"}, model.StatusWatching))
	require.NoError(t, st.Remove(ctx, "missing"))

	items, err := st.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "keep", items[0].Slug)
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	require.NoError(t, st.UpsertAnime(ctx, model.Anime{Slug: "gone", Title: "Gone"}, model.StatusOnHold))
	require.NoError(t, st.Remove(ctx, "gone"))

	got, err := st.Get(ctx, "gone")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ByStatus(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	require.NoError(t, st.UpsertAnime(ctx, model.Anime{Slug: "a", Title: "A"}, model.StatusWatching))
	require.NoError(t, st.UpsertAnime(ctx, model.Anime{Slug: "b", Title: "B"}, model.StatusDropped))
	require.NoError(t, st.UpsertAnime(ctx, model.Anime{Slug: "c", Title: "C"}, model.StatusWatching))

	items, err := st.ByStatus(ctx, model.StatusWatching)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "list.db")

	st := Open(path)
	require.NoError(t, st.UpsertAnime(ctx, model.Anime{Slug: "a", Title: "A"}, model.StatusWatching))
	require.NoError(t, st.Close())

	st = Open(path)
	defer st.Close()
	got, err := st.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StatusWatching, got.Status)
}

func TestStore_Closed(t *testing.T) {
	st, _ := newTestStore(t)
	require.NoError(t, st.Close())

	_, err := st.GetAll(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStore_OpenFailureIsCached(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	// The parent of the database path is a regular file.
	st := Open(filepath.Join(blocker, "list.db"))
	defer st.Close()

	_, err1 := st.GetAll(context.Background())
	require.Error(t, err1)

	// Removing the obstacle does not trigger a second open.
	require.NoError(t, os.Remove(blocker))
	_, err2 := st.GetAll(context.Background())
	require.Error(t, err2)
	assert.True(t, errors.Is(err2, err1) || err2.Error() == err1.Error())
}
