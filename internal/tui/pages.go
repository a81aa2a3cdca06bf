package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/otokonime/internal/model"
	"github.com/handiism/otokonime/internal/router"
	"golang.org/x/sync/errgroup"
)

// pageKind identifies the screen rendered for a location.
type pageKind int

const (
	pageNotFound pageKind = iota
	pageHome
	pageSchedule
	pageSearch
	pageMyList
	pageDetail
	pageWatch
	pageList
	pageBatch
	pageGenre
)

// page is a resolved route. Slug holds the route's only parameter.
type page struct {
	kind pageKind
	slug string
}

func to(kind pageKind) func(router.Params) page {
	return func(router.Params) page { return page{kind: kind} }
}

func withSlug(kind pageKind, name string) func(router.Params) page {
	return func(p router.Params) page { return page{kind: kind, slug: p[name]} }
}

// resolve dispatches the current location of r to a page.
func resolve(r *router.Router) page {
	p, ok := router.Switch(r,
		router.Route[page]{Pattern: "/", Handle: to(pageHome)},
		router.Route[page]{Pattern: "/schedule", Handle: to(pageSchedule)},
		router.Route[page]{Pattern: "/search", Handle: to(pageSearch)},
		router.Route[page]{Pattern: "/my-list", Handle: to(pageMyList)},
		router.Route[page]{Pattern: "/anime/:slug", Handle: withSlug(pageDetail, "slug")},
		router.Route[page]{Pattern: "/watch/:slug", Handle: withSlug(pageWatch, "slug")},
		router.Route[page]{Pattern: "/list/:type", Handle: withSlug(pageList, "type")},
		router.Route[page]{Pattern: "/batch/:slug", Handle: withSlug(pageBatch, "slug")},
		router.Route[page]{Pattern: "/genre/:slug", Handle: withSlug(pageGenre, "slug")},
	)
	if !ok {
		return page{kind: pageNotFound}
	}
	return p
}

// navTab is an entry of the bottom navigation.
type navTab struct {
	label string
	path  string
	kind  pageKind
}

var navTabs = []navTab{
	{"Home", "/", pageHome},
	{"Schedule", "/schedule", pageSchedule},
	{"Search", "/search", pageSearch},
	{"My List", "/my-list", pageMyList},
}

// pageState is everything shown for the current location. It is rebuilt
// on every navigation.
type pageState struct {
	location string
	page     page
	loading  bool
	err      error
	cursor   int

	home      *model.HomeData
	genres    []model.Genre
	genresErr error

	detail *model.AnimeDetail
	watch  *model.WatchData
	batch  *model.BatchData

	listing     []model.Anime
	pagination  *model.Pagination
	loadingMore bool

	query    string
	results  []model.Anime
	schedule []model.ScheduleDay
}

// row is one line of a page body. Headings cannot be selected.
type row struct {
	heading bool
	text    string
	badge   string
	detail  string

	// target is the location opened by enter.
	target string

	// slug is the anime shown by the row, if any.
	slug string

	// resolution is the download offered by the row.
	resolution string
}

func heading(text string) row { return row{heading: true, text: text} }

func animeRow(a model.Anime) row {
	detail := a.Rating
	if detail != "" {
		detail = "★ " + detail
	}
	return row{text: a.Title, badge: a.Badge(), detail: detail, target: "/anime/" + a.Slug, slug: a.Slug}
}

// fetchedMsg carries the result of a page load.
//
// gen identifies the navigation that issued it; results of earlier
// navigations are discarded.
type fetchedMsg struct {
	gen   int
	more  bool
	apply func(*pageState)
	err   error
}

func fetched(gen int, err error, apply func(*pageState)) tea.Msg {
	return fetchedMsg{gen: gen, apply: apply, err: err}
}

// load returns the command fetching the data of the current page.
func (m Model) load() tea.Cmd {
	gen, ctx, c, st := m.gen, m.ctx, m.catalog, m.st

	switch st.page.kind {
	case pageHome:
		return func() tea.Msg {
			var (
				home               *model.HomeData
				genres             []model.Genre
				homeErr, genresErr error
			)
			var g errgroup.Group
			g.Go(func() error {
				home, homeErr = c.Home(ctx)
				return nil
			})
			g.Go(func() error {
				genres, genresErr = c.Genres(ctx)
				return nil
			})
			_ = g.Wait()
			return fetched(gen, homeErr, func(s *pageState) {
				s.home, s.genres, s.genresErr = home, genres, genresErr
			})
		}

	case pageDetail:
		return func() tea.Msg {
			d, err := c.Anime(ctx, st.page.slug)
			return fetched(gen, err, func(s *pageState) { s.detail = d })
		}

	case pageWatch:
		return func() tea.Msg {
			w, err := c.Episode(ctx, st.page.slug)
			return fetched(gen, err, func(s *pageState) { s.watch = w })
		}

	case pageBatch:
		return func() tea.Msg {
			b, err := c.Batch(ctx, st.page.slug)
			return fetched(gen, err, func(s *pageState) { s.batch = b })
		}

	case pageSchedule:
		return func() tea.Msg {
			days, err := c.Schedule(ctx)
			return fetched(gen, err, func(s *pageState) { s.schedule = days })
		}

	case pageSearch:
		if st.query == "" {
			return nil
		}
		return func() tea.Msg {
			res, err := c.Search(ctx, st.query)
			return fetched(gen, err, func(s *pageState) { s.results = res })
		}

	case pageList, pageGenre:
		return m.loadPage(1)
	}
	return nil
}

// loadPage fetches page n of the current listing. Pages after the first
// are appended.
func (m Model) loadPage(n int) tea.Cmd {
	gen, ctx, c, pg := m.gen, m.ctx, m.catalog, m.st.page

	return func() tea.Msg {
		var (
			p   *model.Page
			err error
		)
		switch {
		case pg.kind == pageGenre:
			p, err = c.Genre(ctx, pg.slug, n)
		case pg.slug == "ongoing":
			p, err = c.Ongoing(ctx, n)
		case pg.slug == "complete":
			p, err = c.Complete(ctx, n)
		default:
			err = fmt.Errorf("unknown list %q", pg.slug)
		}
		return fetchedMsg{gen: gen, more: n > 1, err: err, apply: func(s *pageState) {
			if n == 1 {
				s.listing = p.Items
			} else {
				s.listing = append(s.listing, p.Items...)
			}
			s.pagination = p.Pagination
		}}
	}
}

// rows returns the selectable body of the current page.
func (m Model) rows() []row {
	st := m.st
	var rows []row

	switch st.page.kind {
	case pageHome:
		if st.home == nil {
			return nil
		}
		rows = append(rows, heading("Ongoing"))
		for _, a := range st.home.Ongoing {
			rows = append(rows, animeRow(a))
		}
		rows = append(rows, row{text: "See all ongoing ›", target: "/list/ongoing"})
		rows = append(rows, heading("Complete"))
		for _, a := range st.home.Complete {
			rows = append(rows, animeRow(a))
		}
		rows = append(rows, row{text: "See all complete ›", target: "/list/complete"})
		if len(st.genres) > 0 {
			rows = append(rows, heading("Genres"))
			for _, g := range st.genres {
				rows = append(rows, row{text: g.Name, target: "/genre/" + g.Slug})
			}
		}

	case pageDetail:
		d := st.detail
		if d == nil {
			return nil
		}
		if d.Batch != nil {
			rows = append(rows, row{text: "Batch download ›", detail: d.Batch.UploadedAt, target: "/batch/" + d.Batch.Slug})
		}
		if len(d.Episodes) > 0 {
			rows = append(rows, heading(fmt.Sprintf("Episodes (%d)", len(d.Episodes))))
			for _, e := range d.Episodes {
				rows = append(rows, row{text: e.Episode, badge: e.Label(), target: "/watch/" + e.Slug})
			}
		}
		if len(d.Recommendations) > 0 {
			rows = append(rows, heading("Recommendations"))
			for _, r := range d.Recommendations {
				rows = append(rows, row{text: r.Title, target: "/anime/" + r.Slug})
			}
		}

	case pageWatch:
		w := st.watch
		if w == nil {
			return nil
		}
		if w.AnimeSlug != "" {
			rows = append(rows, row{text: "Anime details ›", target: "/anime/" + w.AnimeSlug})
		}
		if len(w.Streams) > 0 {
			rows = append(rows, heading("Streams"))
			for _, s := range w.Streams {
				rows = append(rows, row{text: s.Provider, badge: s.Quality, detail: s.URL})
			}
		}
		for _, g := range w.DownloadGroups {
			rows = append(rows, heading("Download · "+g.Title))
			for _, f := range g.Formats {
				rows = append(rows, formatRow(f))
			}
		}

	case pageBatch:
		b := st.batch
		if b == nil {
			return nil
		}
		rows = append(rows, heading("Download"))
		for _, f := range b.Formats {
			rows = append(rows, formatRow(f))
		}

	case pageList, pageGenre:
		for _, a := range st.listing {
			rows = append(rows, animeRow(a))
		}

	case pageSearch:
		for _, a := range st.results {
			rows = append(rows, animeRow(a))
		}

	case pageSchedule:
		for _, d := range st.schedule {
			rows = append(rows, heading(d.Day))
			for _, t := range d.Titles {
				rows = append(rows, row{text: t.Title, target: "/anime/" + t.Slug})
			}
		}

	case pageMyList:
		for _, it := range m.list.ByStatus(m.listStatus) {
			r := animeRow(it.Anime())
			r.detail = it.AddedAt.Format("2006-01-02")
			rows = append(rows, r)
		}
	}
	return rows
}

func formatRow(f model.DownloadFormat) row {
	providers := make([]string, 0, len(f.Links))
	for _, l := range f.Links {
		providers = append(providers, l.Provider)
	}
	return row{text: f.Resolution, badge: f.Size, detail: strings.Join(providers, ", "), resolution: f.Resolution}
}

// firstSelectable returns the index of the first non-heading row at or
// after i, or -1.
func firstSelectable(rows []row, i int) int {
	for ; i >= 0 && i < len(rows); i++ {
		if !rows[i].heading {
			return i
		}
	}
	return -1
}

// moveCursor returns the next selectable index from cur in direction dir,
// or cur when there is none.
func moveCursor(rows []row, cur, dir int) int {
	for i := cur + dir; i >= 0 && i < len(rows); i += dir {
		if !rows[i].heading {
			return i
		}
	}
	return cur
}

// selected returns the row under the cursor.
func (m Model) selected() (row, bool) {
	rows := m.rows()
	if m.st.cursor < 0 || m.st.cursor >= len(rows) || rows[m.st.cursor].heading {
		return row{}, false
	}
	return rows[m.st.cursor], true
}
