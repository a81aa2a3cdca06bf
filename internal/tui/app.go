package tui

import (
	"context"
	"errors"
	"net/url"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/otokonime/internal/config"
	"github.com/handiism/otokonime/internal/download"
	"github.com/handiism/otokonime/internal/model"
	"github.com/handiism/otokonime/internal/mylist"
	"github.com/handiism/otokonime/internal/router"
	"go.uber.org/zap"
)

// Catalog is the remote catalog the pages are loaded from.
type Catalog interface {
	Home(ctx context.Context) (*model.HomeData, error)
	Genres(ctx context.Context) ([]model.Genre, error)
	Anime(ctx context.Context, slug string) (*model.AnimeDetail, error)
	Ongoing(ctx context.Context, page int) (*model.Page, error)
	Complete(ctx context.Context, page int) (*model.Page, error)
	Genre(ctx context.Context, slug string, page int) (*model.Page, error)
	Search(ctx context.Context, keyword string) ([]model.Anime, error)
	Episode(ctx context.Context, slug string) (*model.WatchData, error)
	Batch(ctx context.Context, slug string) (*model.BatchData, error)
	Schedule(ctx context.Context) ([]model.ScheduleDay, error)
}

// Options holds the dependencies of the TUI.
type Options struct {
	Catalog  Catalog
	List     *mylist.Cache
	Settings *config.Settings
	Log      *zap.Logger

	// Fetcher enables downloads from the watch and batch pages.
	Fetcher download.Fetcher

	// Start is the initial location, "/" when empty.
	Start string
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	catalog  Catalog
	list     *mylist.Cache
	fetcher  download.Fetcher
	settings *config.Settings
	log      *zap.Logger

	router *router.Router
	gen    int
	st     pageState

	// listStatus is the tab shown on the my-list page.
	listStatus model.ListStatus

	search   textinput.Model
	spinner  spinner.Model
	progress progress.Model

	sheet    sheetState
	toast    *toast
	toastSeq int
	dl       *downloadState

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
}

// NewModel creates a new TUI model positioned at opts.Start.
func NewModel(opts Options) Model {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Settings == nil {
		opts.Settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "Search anime..."
	ti.CharLimit = 100
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	r := router.New()
	if opts.Start != "" && opts.Start != router.Root {
		r.Navigate(opts.Start)
	}
	log := opts.Log
	r.OnChange(func(location string) {
		log.Debug("navigate", zap.String("location", location))
	})

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		catalog:    opts.Catalog,
		list:       opts.List,
		fetcher:    opts.Fetcher,
		settings:   opts.Settings,
		log:        opts.Log,
		router:     r,
		listStatus: model.ListStatuses()[0],
		search:     ti,
		spinner:    sp,
		progress:   prog,
		ctx:        ctx,
		cancel:     cancel,
	}
	m.reset()
	return m
}

// Init loads the first page and the personal list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.refreshList(), m.spinner.Tick, textinput.Blink)
}

// Message types
type (
	// listChangedMsg is sent once the personal list was written and/or
	// reloaded.
	listChangedMsg struct {
		op     listOp
		title  string
		status model.ListStatus
		err    error
	}

	// toastExpiredMsg hides the toast with the given id.
	toastExpiredMsg struct{ id int }

	// tickMsg is for periodic download progress updates.
	tickMsg struct{}
)

// reset rebuilds the page state for the current location.
func (m *Model) reset() {
	m.gen++
	loc := m.router.Current()
	pg := resolve(m.router)
	m.st = pageState{location: loc, page: pg}
	m.sheet = sheetState{}

	switch pg.kind {
	case pageSearch:
		m.st.query = m.router.Query().Get("q")
		m.search.SetValue(m.st.query)
		if m.st.query == "" {
			m.search.Focus()
		} else {
			m.search.Blur()
			m.st.loading = true
		}
	case pageMyList:
		if st, err := model.ParseListStatus(m.router.Query().Get("status")); err == nil {
			m.listStatus = st
		}
		m.search.Blur()
	case pageNotFound:
		m.search.Blur()
	default:
		m.search.Blur()
		m.st.loading = true
	}
}

// navigate pushes target and loads it.
func (m Model) navigate(target string) (Model, tea.Cmd) {
	m.router.Navigate(target)
	m.reset()
	return m, tea.Batch(m.load(), m.spinner.Tick)
}

// back returns to the previous location, if any.
func (m Model) back() (Model, tea.Cmd) {
	if !m.router.CanGoBack() {
		return m, nil
	}
	m.router.Back()
	m.reset()
	return m, tea.Batch(m.load(), m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchedMsg:
		if msg.gen != m.gen {
			m.log.Debug("discarding stale result", zap.Int("gen", msg.gen), zap.Int("current", m.gen))
			return m, nil
		}
		m.st.loading = false
		m.st.loadingMore = false
		if msg.err != nil {
			m.log.Warn("page load failed", zap.String("location", m.st.location), zap.Error(msg.err))
			if msg.more {
				return m.showToast("Could not load more: "+msg.err.Error(), "", "")
			}
			m.st.err = msg.err
			return m, nil
		}
		msg.apply(&m.st)
		if !msg.more {
			m.st.cursor = max(firstSelectable(m.rows(), 0), 0)
		}
		return m, nil

	case listChangedMsg:
		return m.handleListChanged(msg)

	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil

	case tickMsg, downloadDoneMsg:
		return m.handleDownload(msg)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.cancel()
		return m, tea.Quit
	}

	if m.sheet.open {
		return m.handleSheetKey(key)
	}

	if m.search.Focused() {
		switch key {
		case "enter":
			q := m.search.Value()
			if q == "" {
				return m, nil
			}
			return m.navigate("/search?q=" + url.QueryEscape(q))
		case "esc":
			m.search.Blur()
			if m.st.query == "" {
				return m.back()
			}
			return m, nil
		case "down", "tab":
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	rows := m.rows()
	switch key {
	case "q":
		m.cancel()
		return m, tea.Quit

	case "esc", "backspace":
		return m.back()

	case "tab", "shift+tab":
		if m.st.page.kind == pageWatch {
			return m, nil
		}
		dir := 1
		if key == "shift+tab" {
			dir = -1
		}
		return m.navigate(nextTab(m.st.page.kind, dir).path)

	case "up", "k":
		m.st.cursor = moveCursor(rows, m.st.cursor, -1)

	case "down", "j":
		m.st.cursor = moveCursor(rows, m.st.cursor, 1)
		if m.st.cursor == len(rows)-1 {
			return m.loadMore()
		}

	case "enter":
		if r, ok := m.selected(); ok && r.target != "" {
			return m.navigate(r.target)
		}

	case "r":
		if m.st.err != nil {
			m.st.err = nil
			m.st.loading = true
			m.gen++
			return m, tea.Batch(m.load(), m.spinner.Tick)
		}

	case "n", "p":
		return m.handlePager(key)

	case "/":
		if m.st.page.kind == pageSearch {
			m.search.Focus()
			return m, textinput.Blink
		}
		return m.navigate("/search")

	case "left", "h", "right", "l":
		if m.st.page.kind == pageMyList {
			dir := 1
			if key == "left" || key == "h" {
				dir = -1
			}
			m.listStatus = cycleStatus(m.listStatus, dir)
			m.st.cursor = max(firstSelectable(m.rows(), 0), 0)
		}

	case "a":
		if m.st.page.kind == pageDetail && m.st.detail != nil {
			m.sheet = sheetState{open: true}
		}

	case "x":
		if m.st.page.kind == pageMyList {
			if r, ok := m.selected(); ok {
				return m, m.removeFromList(r.slug, r.text)
			}
		}

	case "g":
		if m.toast != nil && m.toast.target != "" {
			target := m.toast.target
			m.toast = nil
			return m.navigate(target)
		}

	case "d":
		return m.startDownload()
	}
	return m, nil
}

// handlePager moves to the next or previous episode on the watch page and
// loads the next page on listings.
func (m Model) handlePager(key string) (tea.Model, tea.Cmd) {
	switch m.st.page.kind {
	case pageWatch:
		w := m.st.watch
		if w == nil {
			return m, nil
		}
		if key == "n" && w.HasNextEpisode {
			return m.navigate("/watch/" + w.NextEpisodeSlug)
		}
		if key == "p" && w.HasPrevEpisode {
			return m.navigate("/watch/" + w.PrevEpisodeSlug)
		}
	case pageList, pageGenre:
		if key == "n" {
			return m.loadMore()
		}
	}
	return m, nil
}

// loadMore requests the next page of a listing, once at a time.
func (m Model) loadMore() (tea.Model, tea.Cmd) {
	kind := m.st.page.kind
	if (kind != pageList && kind != pageGenre) || m.st.loading || m.st.loadingMore {
		return m, nil
	}
	p := m.st.pagination
	if p == nil || !p.HasNextPage {
		return m, nil
	}
	m.st.loadingMore = true
	next := p.NextPage
	if next <= p.CurrentPage {
		next = p.CurrentPage + 1
	}
	return m, tea.Batch(m.loadPage(next), m.spinner.Tick)
}

func nextTab(current pageKind, dir int) navTab {
	idx := -1
	for i, t := range navTabs {
		if t.kind == current {
			idx = i
		}
	}
	if idx < 0 {
		return navTabs[0]
	}
	return navTabs[(idx+dir+len(navTabs))%len(navTabs)]
}

func cycleStatus(s model.ListStatus, dir int) model.ListStatus {
	all := model.ListStatuses()
	for i, st := range all {
		if st == s {
			return all[(i+dir+len(all))%len(all)]
		}
	}
	return all[0]
}

var (
	// ErrNoCatalog is returned by Run without a catalog.
	ErrNoCatalog = errors.New("tui: no catalog configured")

	// ErrNoList is returned by Run without a personal list.
	ErrNoList = errors.New("tui: no list configured")
)

// Run starts the TUI application.
func Run(opts Options) error {
	if opts.Catalog == nil {
		return ErrNoCatalog
	}
	if opts.List == nil {
		return ErrNoList
	}
	m := NewModel(opts)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
