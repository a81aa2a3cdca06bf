package tui

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/otokonime/internal/model"
	"github.com/handiism/otokonime/internal/mylist"
	"github.com/handiism/otokonime/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu       sync.Mutex
	fail     map[string]error
	keywords []string
	pages    []int
}

func (f *fakeCatalog) err(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.fail[op]
	delete(f.fail, op)
	return err
}

func (f *fakeCatalog) Home(context.Context) (*model.HomeData, error) {
	if err := f.err("home"); err != nil {
		return nil, err
	}
	return &model.HomeData{
		Ongoing: []model.Anime{
			{Kind: model.KindOngoing, Title: "Frieren", Slug: "frieren", CurrentEpisode: "Episode 12"},
			{Kind: model.KindOngoing, Title: "Dandadan", Slug: "dandadan", CurrentEpisode: "Episode 3"},
		},
		Complete: []model.Anime{
			{Kind: model.KindComplete, Title: "Bocchi", Slug: "bocchi", EpisodeCount: "12"},
		},
	}, nil
}

func (f *fakeCatalog) Genres(context.Context) ([]model.Genre, error) {
	if err := f.err("genres"); err != nil {
		return nil, err
	}
	return []model.Genre{{Name: "Action", Slug: "action"}}, nil
}

func (f *fakeCatalog) Anime(_ context.Context, slug string) (*model.AnimeDetail, error) {
	if err := f.err("anime"); err != nil {
		return nil, err
	}
	return &model.AnimeDetail{
		Anime:    model.Anime{Kind: model.KindOngoing, Title: "Title of " + slug, Slug: slug},
		Status:   "Ongoing",
		Episodes: []model.Episode{{Episode: "Episode 1", Slug: slug + "-episode-1"}},
	}, nil
}

func (f *fakeCatalog) listing(n int) (*model.Page, error) {
	f.mu.Lock()
	f.pages = append(f.pages, n)
	f.mu.Unlock()
	if err := f.err("list"); err != nil {
		return nil, err
	}
	return &model.Page{
		Items: []model.Anime{
			{Title: "A" + string(rune('0'+n)), Slug: "a"},
			{Title: "B" + string(rune('0'+n)), Slug: "b"},
		},
		Pagination: &model.Pagination{CurrentPage: n, LastVisiblePage: 2, HasNextPage: n < 2, NextPage: n + 1},
	}, nil
}

func (f *fakeCatalog) Ongoing(_ context.Context, page int) (*model.Page, error) {
	return f.listing(page)
}

func (f *fakeCatalog) Complete(_ context.Context, page int) (*model.Page, error) {
	return f.listing(page)
}

func (f *fakeCatalog) Genre(_ context.Context, _ string, page int) (*model.Page, error) {
	return f.listing(page)
}

func (f *fakeCatalog) Search(_ context.Context, keyword string) ([]model.Anime, error) {
	f.mu.Lock()
	f.keywords = append(f.keywords, keyword)
	f.mu.Unlock()
	return []model.Anime{{Title: "One Piece", Slug: "one-piece"}}, nil
}

func (f *fakeCatalog) Episode(_ context.Context, slug string) (*model.WatchData, error) {
	return &model.WatchData{
		Episode:         slug,
		AnimeSlug:       "frieren",
		HasNextEpisode:  true,
		NextEpisodeSlug: "frieren-episode-13",
		DownloadGroups: []model.DownloadGroup{{
			Title:   "Mp4",
			Formats: []model.DownloadFormat{{Resolution: "720p", Links: []model.DownloadLink{{Provider: "Pdrain", URL: "https://example.com/x"}}}},
		}},
	}, nil
}

func (f *fakeCatalog) Batch(context.Context, string) (*model.BatchData, error) {
	return &model.BatchData{Title: "Batch"}, nil
}

func (f *fakeCatalog) Schedule(context.Context) ([]model.ScheduleDay, error) {
	return []model.ScheduleDay{{Day: "Senin", Titles: []model.ScheduleEntry{{Title: "Frieren", Slug: "frieren"}}}}, nil
}

func newTestModel(t *testing.T, start string) (Model, *fakeCatalog) {
	t.Helper()

	store := mylist.Open(filepath.Join(t.TempDir(), "list.db"))
	t.Cleanup(func() { _ = store.Close() })

	cat := &fakeCatalog{fail: map[string]error{}}
	m := NewModel(Options{Catalog: cat, List: mylist.NewCache(store), Start: start})
	t.Cleanup(m.cancel)
	return drain(m, m.Init()), cat
}

// collect runs cmd and returns the messages the model acts on. Timers and
// animation ticks are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		switch msg := msg.(type) {
		case tea.BatchMsg:
			var out []tea.Msg
			for _, c := range msg {
				out = append(out, collect(c)...)
			}
			return out
		case fetchedMsg, listChangedMsg:
			return []tea.Msg{msg}
		}
	case <-time.After(300 * time.Millisecond):
	}
	return nil
}

func drain(m Model, cmd tea.Cmd) Model {
	for _, msg := range collect(cmd) {
		next, c := m.Update(msg)
		m = drain(next.(Model), c)
	}
	return m
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return drain(next.(Model), cmd)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		location string
		want     page
	}{
		{"/", page{kind: pageHome}},
		{"/schedule", page{kind: pageSchedule}},
		{"/search?q=naruto", page{kind: pageSearch}},
		{"/my-list?status=watching", page{kind: pageMyList}},
		{"/anime/one-piece", page{kind: pageDetail, slug: "one-piece"}},
		{"/watch/one-piece-episode-1", page{kind: pageWatch, slug: "one-piece-episode-1"}},
		{"/list/ongoing", page{kind: pageList, slug: "ongoing"}},
		{"/batch/bocchi-batch", page{kind: pageBatch, slug: "bocchi-batch"}},
		{"/genre/action", page{kind: pageGenre, slug: "action"}},
		{"/anime", page{kind: pageNotFound}},
		{"/nope/x/y", page{kind: pageNotFound}},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			r := router.New()
			r.Navigate(tt.location)
			assert.Equal(t, tt.want, resolve(r))
		})
	}
}

func TestModel_LoadsHome(t *testing.T) {
	m, _ := newTestModel(t, "")

	require.NotNil(t, m.st.home)
	assert.False(t, m.st.loading)
	assert.Len(t, m.st.genres, 1)
	assert.False(t, m.list.Loading())

	r, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, "/anime/frieren", r.target)
	assert.Equal(t, "Ep 12", r.badge)
	assert.Contains(t, m.View(), "Frieren")
}

func TestModel_GenresFailureKeepsHome(t *testing.T) {
	store := mylist.Open(filepath.Join(t.TempDir(), "list.db"))
	defer store.Close()
	cat := &fakeCatalog{fail: map[string]error{"genres": errors.New("boom")}}
	m := NewModel(Options{Catalog: cat, List: mylist.NewCache(store)})
	m = drain(m, m.Init())

	require.NotNil(t, m.st.home)
	assert.NoError(t, m.st.err)
	assert.EqualError(t, m.st.genresErr, "boom")
}

func TestModel_NavigateAndBack(t *testing.T) {
	m, _ := newTestModel(t, "")

	m = press(m, "enter")
	assert.Equal(t, "/anime/frieren", m.st.location)
	require.NotNil(t, m.st.detail)
	assert.Equal(t, "Title of frieren", m.st.detail.Title)
	assert.True(t, m.router.CanGoBack())

	m = press(m, "esc")
	assert.Equal(t, "/", m.st.location)
	assert.NotNil(t, m.st.home)
	assert.False(t, m.router.CanGoBack())
}

func TestModel_DiscardsStaleResults(t *testing.T) {
	m, _ := newTestModel(t, "/anime/first")

	stale := m.load()
	m.router.Navigate("/anime/second")
	m.reset()

	m = drain(m, stale)
	assert.Nil(t, m.st.detail)
	assert.True(t, m.st.loading)

	m = drain(m, m.load())
	require.NotNil(t, m.st.detail)
	assert.Equal(t, "second", m.st.detail.Slug)
}

func TestModel_RetryAfterError(t *testing.T) {
	store := mylist.Open(filepath.Join(t.TempDir(), "list.db"))
	defer store.Close()
	cat := &fakeCatalog{fail: map[string]error{"anime": errors.New("HTTP error 500")}}
	m := NewModel(Options{Catalog: cat, List: mylist.NewCache(store), Start: "/anime/x"})
	m = drain(m, m.Init())

	require.Error(t, m.st.err)
	assert.Contains(t, m.View(), "press r to retry")

	m = press(m, "r")
	assert.NoError(t, m.st.err)
	require.NotNil(t, m.st.detail)
}

func TestModel_AddToListShowsToast(t *testing.T) {
	m, _ := newTestModel(t, "/anime/frieren")
	require.NotNil(t, m.st.detail)

	m = press(m, "a")
	require.True(t, m.sheet.open)
	m = press(m, "down")
	m = press(m, "enter")

	assert.False(t, m.sheet.open)
	st, ok := m.list.Status("frieren")
	require.True(t, ok)
	assert.Equal(t, model.StatusPlanToWatch, st)

	require.NotNil(t, m.toast)
	assert.Equal(t, "Added to Plan To Watch", m.toast.message)
	assert.Equal(t, "/my-list?status=plan_to_watch", m.toast.target)

	m = press(m, "g")
	assert.Equal(t, pageMyList, m.st.page.kind)
	assert.Equal(t, model.StatusPlanToWatch, m.listStatus)
	r, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, "frieren", r.slug)
}

func TestModel_RemoveFromMyList(t *testing.T) {
	m, _ := newTestModel(t, "/anime/frieren")
	m = press(m, "a")
	m = press(m, "enter")
	require.Len(t, m.list.Items(), 1)

	m, cmd := m.navigate("/my-list?status=watching")
	m = drain(m, cmd)
	m = press(m, "x")

	assert.Empty(t, m.list.Items())
	require.NotNil(t, m.toast)
	assert.Equal(t, "Removed Title of frieren from My List", m.toast.message)
}

func TestModel_Search(t *testing.T) {
	m, cat := newTestModel(t, "/search")
	require.True(t, m.search.Focused())

	m = press(m, "one piece")
	m = press(m, "enter")

	assert.Equal(t, "/search?q=one+piece", m.st.location)
	assert.Equal(t, "one piece", m.st.query)
	assert.Equal(t, []string{"one piece"}, cat.keywords)
	require.Len(t, m.st.results, 1)
	assert.False(t, m.search.Focused())
}

func TestModel_TabCyclesNav(t *testing.T) {
	m, _ := newTestModel(t, "")

	m = press(m, "tab")
	assert.Equal(t, "/schedule", m.st.location)
	m = press(m, "shift+tab")
	assert.Equal(t, "/", m.st.location)
	m = press(m, "shift+tab")
	assert.Equal(t, "/my-list", m.st.location)
}

func TestModel_WatchPage(t *testing.T) {
	m, _ := newTestModel(t, "/watch/frieren-episode-12")
	require.NotNil(t, m.st.watch)

	m = press(m, "tab")
	assert.Equal(t, "/watch/frieren-episode-12", m.st.location)
	assert.NotContains(t, m.View(), "Schedule")

	m = press(m, "n")
	assert.Equal(t, "/watch/frieren-episode-13", m.st.location)
}

func TestModel_LoadMore(t *testing.T) {
	m, cat := newTestModel(t, "/list/ongoing")
	require.Len(t, m.st.listing, 2)

	m = press(m, "n")
	assert.Len(t, m.st.listing, 4)
	assert.Equal(t, 2, m.st.pagination.CurrentPage)

	m = press(m, "n")
	assert.Equal(t, []int{1, 2}, cat.pages)
}

func TestModel_LoadMoreFailureKeepsListing(t *testing.T) {
	m, cat := newTestModel(t, "/list/complete")
	cat.fail["list"] = errors.New("timeout")

	m = press(m, "n")
	assert.Len(t, m.st.listing, 2)
	assert.NoError(t, m.st.err)
	require.NotNil(t, m.toast)
	assert.Contains(t, m.toast.message, "timeout")
}

func TestModel_NotFound(t *testing.T) {
	m, _ := newTestModel(t, "/what")
	assert.Equal(t, pageNotFound, m.st.page.kind)
	assert.Contains(t, m.View(), "Page not found")
}
