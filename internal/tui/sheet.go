package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/otokonime/internal/model"
)

const toastDuration = 4 * time.Second

type listOp int

const (
	opRefresh listOp = iota
	opAdd
	opRemove
)

// sheetState is the add-to-list sheet of the detail page.
type sheetState struct {
	open   bool
	cursor int
}

// sheetOptions lists the statuses followed by a remove entry when the
// title is already in the list.
func (m Model) sheetOptions() (statuses []model.ListStatus, canRemove bool) {
	statuses = model.ListStatuses()
	if m.st.detail != nil {
		_, canRemove = m.list.Status(m.st.detail.Slug)
	}
	return statuses, canRemove
}

func (m Model) handleSheetKey(key string) (tea.Model, tea.Cmd) {
	statuses, canRemove := m.sheetOptions()
	n := len(statuses)
	if canRemove {
		n++
	}

	switch key {
	case "esc", "q", "a":
		m.sheet = sheetState{}
	case "up", "k":
		m.sheet.cursor = max(m.sheet.cursor-1, 0)
	case "down", "j":
		m.sheet.cursor = min(m.sheet.cursor+1, n-1)
	case "enter":
		d, cursor := m.st.detail, m.sheet.cursor
		m.sheet = sheetState{}
		if d == nil {
			return m, nil
		}
		if cursor < len(statuses) {
			return m, m.addToList(d, statuses[cursor])
		}
		return m, m.removeFromList(d.Slug, d.Title)
	}
	return m, nil
}

// addToList files d under status in the background.
func (m Model) addToList(d *model.AnimeDetail, status model.ListStatus) tea.Cmd {
	ctx, list := m.ctx, m.list
	return func() tea.Msg {
		err := list.Add(ctx, d, status)
		return listChangedMsg{op: opAdd, title: d.Title, status: status, err: err}
	}
}

// removeFromList removes slug in the background.
func (m Model) removeFromList(slug, title string) tea.Cmd {
	ctx, list := m.ctx, m.list
	return func() tea.Msg {
		return listChangedMsg{op: opRemove, title: title, err: list.Remove(ctx, slug)}
	}
}

// refreshList reloads the personal list.
func (m Model) refreshList() tea.Cmd {
	ctx, list := m.ctx, m.list
	if list == nil {
		return nil
	}
	return func() tea.Msg {
		return listChangedMsg{op: opRefresh, err: list.Refresh(ctx)}
	}
}

func (m Model) handleListChanged(msg listChangedMsg) (tea.Model, tea.Cmd) {
	if m.st.page.kind == pageMyList {
		rows := m.rows()
		if m.st.cursor >= len(rows) {
			m.st.cursor = max(len(rows)-1, 0)
		}
	}

	if msg.err != nil {
		m.log.Sugar().Warnw("list update failed", "op", msg.op, "error", msg.err)
		return m.showToast("My List: "+msg.err.Error(), "", "")
	}

	switch msg.op {
	case opAdd:
		return m.showToast(
			fmt.Sprintf("Added to %s", msg.status.Label()),
			"View",
			"/my-list?status="+string(msg.status),
		)
	case opRemove:
		return m.showToast(fmt.Sprintf("Removed %s from My List", msg.title), "", "")
	}
	return m, nil
}

// toast is a transient message with an optional action opened by "g".
type toast struct {
	id      int
	message string
	action  string
	target  string
}

func (m Model) showToast(message, action, target string) (Model, tea.Cmd) {
	m.toastSeq++
	id := m.toastSeq
	m.toast = &toast{id: id, message: message, action: action, target: target}
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
