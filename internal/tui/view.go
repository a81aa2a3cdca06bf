package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/otokonime/internal/download"
	"github.com/handiism/otokonime/internal/model"
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("otokonime"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(m.pageTitle()))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.st.location))
	b.WriteString("\n\n")

	switch {
	case m.sheet.open:
		b.WriteString(m.viewSheet())
	case m.st.page.kind == pageNotFound:
		b.WriteString(errorStyle.Render("Page not found"))
		b.WriteString("\n")
	case m.st.err != nil:
		b.WriteString(m.viewError())
	case m.st.loading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Loading..."))
		b.WriteString("\n")
	default:
		b.WriteString(m.viewBody())
	}

	if m.dl != nil {
		b.WriteString("\n")
		b.WriteString(m.viewDownload())
	}

	if m.toast != nil {
		b.WriteString("\n")
		text := m.toast.message
		if m.toast.action != "" {
			text += "  [g] " + strings.ToUpper(m.toast.action)
		}
		b.WriteString(toastStyle.Render(text))
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	if m.st.page.kind != pageWatch {
		b.WriteString(m.viewNav())
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) pageTitle() string {
	switch m.st.page.kind {
	case pageHome:
		return "Home"
	case pageSchedule:
		return "Release Schedule"
	case pageSearch:
		return "Search"
	case pageMyList:
		return "My List"
	case pageDetail:
		if m.st.detail != nil {
			return m.st.detail.Title
		}
		return "Anime"
	case pageWatch:
		if m.st.watch != nil {
			return m.st.watch.Episode
		}
		return "Watch"
	case pageList:
		switch m.st.page.slug {
		case "ongoing":
			return "Ongoing Anime"
		case "complete":
			return "Complete Anime"
		}
		return "List"
	case pageBatch:
		if m.st.batch != nil {
			return m.st.batch.Title
		}
		return "Batch"
	case pageGenre:
		return "Genre: " + m.st.page.slug
	}
	return "Not found"
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s\n\n", m.st.err.Error()))
	b.WriteString(dimStyle.Render("press r to retry"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewBody() string {
	var b strings.Builder

	switch m.st.page.kind {
	case pageDetail:
		b.WriteString(m.viewDetailInfo())
	case pageWatch:
		b.WriteString(m.viewWatchInfo())
	case pageSearch:
		b.WriteString(m.search.View())
		b.WriteString("\n")
	case pageMyList:
		b.WriteString(m.viewListTabs())
		if m.list.Loading() {
			b.WriteString(m.spinner.View() + " Loading your list...\n")
			return b.String()
		}
	case pageHome:
		if m.st.genresErr != nil {
			b.WriteString(warningStyle.Render("Genres unavailable: " + m.st.genresErr.Error()))
			b.WriteString("\n")
		}
	}

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render(m.emptyText()))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(m.viewRows(rows))

	if m.st.loadingMore {
		b.WriteString(m.spinner.View() + " Loading more...\n")
	} else if p := m.st.pagination; p != nil {
		b.WriteString(dimStyle.Render("page " + p.String()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) emptyText() string {
	switch m.st.page.kind {
	case pageSearch:
		if m.st.query == "" {
			return "Type a title and press enter."
		}
		return fmt.Sprintf("No results for %q.", m.st.query)
	case pageMyList:
		return fmt.Sprintf("Nothing in %s yet.", m.listStatus.Label())
	}
	return "Nothing here."
}

// viewRows renders rows in a window around the cursor.
func (m Model) viewRows(rows []row) string {
	height := 20
	if m.height > 0 {
		height = max(m.height-14, 5)
	}
	start := 0
	if m.st.cursor >= height {
		start = m.st.cursor - height + 1
	}
	end := min(start+height, len(rows))

	var b strings.Builder
	for i := start; i < end; i++ {
		r := rows[i]
		if r.heading {
			b.WriteString(headingStyle.Render(r.text))
			b.WriteString("\n")
			continue
		}

		line := "  " + r.text
		if i == m.st.cursor {
			line = selectedStyle.Render("› " + r.text)
		}
		if r.badge != "" {
			line += " " + badgeStyle.Render(r.badge)
		}
		if r.detail != "" {
			line += " " + dimStyle.Render(r.detail)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if end < len(rows) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", len(rows)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewDetailInfo() string {
	d := m.st.detail
	if d == nil {
		return ""
	}
	var b strings.Builder

	fields := []struct{ k, v string }{
		{"Japanese", d.JapaneseTitle},
		{"Rating", d.Rating},
		{"Type", d.Type},
		{"Status", d.Status},
		{"Episodes", d.EpisodeCount},
		{"Duration", d.Duration},
		{"Released", d.ReleaseDate},
		{"Studio", d.Studio},
		{"Producer", d.Producer},
	}
	for _, f := range fields {
		if f.v == "" {
			continue
		}
		b.WriteString(infoStyle.Render(fmt.Sprintf("%-9s", f.k)))
		b.WriteString(" " + f.v + "\n")
	}
	if len(d.Genres) > 0 {
		names := make([]string, len(d.Genres))
		for i, g := range d.Genres {
			names[i] = g.Name
		}
		b.WriteString(infoStyle.Render(fmt.Sprintf("%-9s", "Genres")))
		b.WriteString(" " + strings.Join(names, ", ") + "\n")
	}

	if st, ok := m.list.Status(d.Slug); ok {
		b.WriteString(successStyle.Render("✓ In My List: " + st.Label()))
	} else {
		b.WriteString(dimStyle.Render("Not in My List (press a to add)"))
	}
	b.WriteString("\n")

	if d.Synopsis != "" {
		width := 76
		if m.width > 0 {
			width = min(m.width-4, 100)
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(d.Synopsis))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewWatchInfo() string {
	w := m.st.watch
	if w == nil {
		return ""
	}
	var b strings.Builder

	if w.StreamURL != "" {
		b.WriteString(infoStyle.Render("Stream "))
		b.WriteString(w.StreamURL)
		b.WriteString("\n")
	}
	var nav []string
	if w.HasPrevEpisode {
		nav = append(nav, "p: previous episode")
	}
	if w.HasNextEpisode {
		nav = append(nav, "n: next episode")
	}
	if len(nav) > 0 {
		b.WriteString(dimStyle.Render(strings.Join(nav, " • ")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewListTabs() string {
	counts := m.list.Counts()
	tabs := make([]string, 0, len(model.ListStatuses()))
	for _, st := range model.ListStatuses() {
		label := fmt.Sprintf("%s (%d)", st.Label(), counts[st])
		if st == m.listStatus {
			tabs = append(tabs, navActiveStyle.Render(label))
		} else {
			tabs = append(tabs, navStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n"
}

func (m Model) viewSheet() string {
	d := m.st.detail
	statuses, canRemove := m.sheetOptions()
	current, inList := m.list.Status(d.Slug)

	var b strings.Builder
	b.WriteString(d.Title + "\n")
	b.WriteString(dimStyle.Render("Add to your list") + "\n\n")

	for i, st := range statuses {
		label := st.Label()
		if inList && st == current {
			label += " ✓"
		}
		if i == m.sheet.cursor {
			b.WriteString(selectedStyle.Render("› " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("\n")
	}
	if canRemove {
		label := "Remove from List"
		if m.sheet.cursor == len(statuses) {
			b.WriteString(errorStyle.Render("› " + label))
		} else {
			b.WriteString("  " + errorStyle.Render(label))
		}
		b.WriteString("\n")
	}
	return boxStyle.Render(b.String()) + "\n"
}

func (m Model) viewDownload() string {
	dl := m.dl
	var b strings.Builder

	b.WriteString(infoStyle.Render("Download " + dl.what))
	b.WriteString("\n")
	b.WriteString(m.progress.View())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Downloaded: %.2f MB",
		dl.files,
		dl.total,
		float64(dl.received)/1024/1024,
	)))
	b.WriteString("\n")

	for _, log := range dl.logs.snapshot() {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewNav() string {
	tabs := make([]string, len(navTabs))
	for i, t := range navTabs {
		if t.kind == m.st.page.kind {
			tabs[i] = navActiveStyle.Render(t.label)
		} else {
			tabs[i] = navStyle.Render(t.label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) helpText() string {
	if m.sheet.open {
		return "↑/↓: choose • enter: save • esc: close"
	}
	if m.search.Focused() {
		return "enter: search • esc: cancel • ↓: results"
	}

	parts := []string{"↑/↓: move", "enter: open"}
	switch m.st.page.kind {
	case pageDetail:
		parts = append(parts, "a: my list")
	case pageWatch:
		parts = append(parts, "n/p: episode", "d: download")
	case pageBatch:
		parts = append(parts, "d: download")
	case pageList, pageGenre:
		parts = append(parts, "n: more")
	case pageSearch:
		parts = append(parts, "/: search")
	case pageMyList:
		parts = append(parts, "←/→: status", "x: remove")
	}
	if m.st.err != nil {
		parts = append(parts, "r: retry")
	}
	if m.router.CanGoBack() {
		parts = append(parts, "esc: back")
	}
	if m.st.page.kind != pageWatch {
		parts = append(parts, "tab: switch")
	}
	parts = append(parts, "q: quit")
	return strings.Join(parts, " • ")
}
