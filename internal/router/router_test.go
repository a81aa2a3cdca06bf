package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPath(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		path       string
		wantMatch  bool
		wantParams Params
	}{
		{
			name:       "root",
			pattern:    "/",
			path:       "/",
			wantMatch:  true,
			wantParams: Params{},
		},
		{
			name:       "parameter captured",
			pattern:    "/anime/:slug",
			path:       "/anime/naruto",
			wantMatch:  true,
			wantParams: Params{"slug": "naruto"},
		},
		{
			name:      "segment count mismatch",
			pattern:   "/list/:type",
			path:      "/list",
			wantMatch: false,
		},
		{
			name:      "literal mismatch",
			pattern:   "/anime/:slug",
			path:      "/watch/naruto",
			wantMatch: false,
		},
		{
			name:      "literal is case-sensitive",
			pattern:   "/schedule",
			path:      "/Schedule",
			wantMatch: false,
		},
		{
			name:       "trailing slash ignored",
			pattern:    "/genre/:slug",
			path:       "/genre/action/",
			wantMatch:  true,
			wantParams: Params{"slug": "action"},
		},
		{
			name:       "parameter value is not decoded",
			pattern:    "/search/:q",
			path:       "/search/one%20piece",
			wantMatch:  true,
			wantParams: Params{"q": "one%20piece"},
		},
		{
			name:       "multiple parameters",
			pattern:    "/genre/:slug/:page",
			path:       "/genre/action/2",
			wantMatch:  true,
			wantParams: Params{"slug": "action", "page": "2"},
		},
		{
			name:      "root against deeper path",
			pattern:   "/",
			path:      "/search",
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, params := MatchPath(tt.pattern, tt.path)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantParams, params)
			} else {
				assert.Nil(t, params)
			}
		})
	}
}

func TestMatchPath_ParametersMatchAnyContent(t *testing.T) {
	for _, seg := range []string{"x", "123", "a-b-c", "%2F", "::", "?"} {
		ok, params := MatchPath("/watch/:slug", "/watch/"+seg)
		require.True(t, ok, seg)
		assert.Equal(t, seg, params["slug"])
	}
}

func TestRouter_InitialState(t *testing.T) {
	r := New()

	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "/", r.Current())
	assert.False(t, r.CanGoBack())

	path, query := r.Location()
	assert.Equal(t, "/", path)
	assert.Equal(t, "", query)
}

func TestRouter_BackAtRootIsNoop(t *testing.T) {
	r := New()
	r.Back()
	r.Back()

	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "/", r.Current())
}

func TestRouter_NavigateThenBackRestoresLocation(t *testing.T) {
	for _, target := range []string{"/", "/anime/x", "/search?q=one", "/a/b/c?"} {
		r := NewAt("/my-list?status=watching")
		before := r.Current()

		r.Navigate(target)
		r.Back()

		assert.Equal(t, before, r.Current(), target)
	}
}

func TestRouter_SequentialNavigation(t *testing.T) {
	r := New()
	r.Navigate("/a")
	r.Navigate("/b")
	r.Navigate("/c")
	r.Back()
	r.Back()

	assert.Equal(t, "/a", r.Current())
	assert.Equal(t, 2, r.Depth())
}

func TestRouter_Location(t *testing.T) {
	tests := []struct {
		location  string
		wantPath  string
		wantQuery string
	}{
		{"/anime/some-slug?x=1", "/anime/some-slug", "?x=1"},
		{"/search", "/search", ""},
		{"/search?", "/search", ""},
		{"/my-list?status=watching&sort=asc", "/my-list", "?status=watching&sort=asc"},
		{"/a?b?c", "/a", "?b?c"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			r := New()
			r.Navigate(tt.location)
			path, query := r.Location()
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantQuery, query)
		})
	}
}

func TestRouter_Query(t *testing.T) {
	r := New()
	r.Navigate("/search?q=one+piece&page=2")

	q := r.Query()
	assert.Equal(t, "one piece", q.Get("q"))
	assert.Equal(t, "2", q.Get("page"))

	r.Navigate("/search")
	assert.Empty(t, r.Query().Get("q"))
}

func TestRouter_MatchUsesPathOnly(t *testing.T) {
	r := New()
	r.Navigate("/anime/naruto?tab=episodes")

	ok, params := r.Match("/anime/:slug")
	require.True(t, ok)
	assert.Equal(t, Params{"slug": "naruto"}, params)
}

func TestRouter_OnChange(t *testing.T) {
	r := New()
	var seen []string
	r.OnChange(func(loc string) { seen = append(seen, loc) })

	r.Navigate("/a")
	r.Navigate("/b")
	r.Back()
	r.Back()
	r.Back() // no-op, no notification

	assert.Equal(t, []string{"/a", "/b", "/a", "/"}, seen)
}

func TestSwitch_FirstMatchWins(t *testing.T) {
	routes := []Route[string]{
		{Pattern: "/", Handle: func(Params) string { return "home" }},
		{Pattern: "/list/ongoing", Handle: func(Params) string { return "ongoing" }},
		{Pattern: "/list/:type", Handle: func(p Params) string { return "list:" + p["type"] }},
		{Pattern: "/anime/:slug", Handle: func(p Params) string { return "anime:" + p["slug"] }},
	}

	tests := []struct {
		location string
		want     string
		wantOK   bool
	}{
		{"/", "home", true},
		{"/list/ongoing", "ongoing", true},
		{"/list/complete", "list:complete", true},
		{"/anime/bleach?x=1", "anime:bleach", true},
		{"/unknown/route/here", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			r := NewAt(tt.location)
			got, ok := Switch(r, routes...)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRouter_NilPanics(t *testing.T) {
	var r *Router

	assert.Panics(t, func() { r.Navigate("/a") })
	assert.Panics(t, func() { r.Back() })
	assert.Panics(t, func() { r.Location() })
	assert.Panics(t, func() { r.Match("/") })
	assert.Panics(t, func() { Switch[int](r) })
}
