package tui

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/otokonime/internal/download"
	"go.uber.org/zap"
)

// logEntry is a progress message shown under the download bar.
type logEntry struct {
	Message string
	Level   download.ProgressLevel
}

// eventLog collects progress events from download goroutines. Only the
// last entries are kept.
type eventLog struct {
	mu      sync.Mutex
	entries []logEntry
}

const maxLogEntries = 5

func (l *eventLog) add(e download.ProgressEvent) {
	if e.Level == download.LevelVerbose {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{Message: e.Message, Level: e.Level})
	if len(l.entries) > maxLogEntries {
		l.entries = l.entries[len(l.entries)-maxLogEntries:]
	}
}

func (l *eventLog) snapshot() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.entries...)
}

// downloadState tracks the running download, if any.
type downloadState struct {
	manager *download.Manager
	logs    *eventLog
	what    string

	received int64
	files    int32
	total    int32
	done     bool
	err      error
}

// downloadDoneMsg is sent when the download finished.
type downloadDoneMsg struct {
	err error
}

// startDownload downloads the resolution under the cursor of the watch or
// batch page.
func (m Model) startDownload() (tea.Model, tea.Cmd) {
	kind := m.st.page.kind
	if kind != pageWatch && kind != pageBatch {
		return m, nil
	}
	if m.fetcher == nil {
		return m.showToast("Downloads are not available", "", "")
	}
	if m.dl != nil && !m.dl.done {
		return m.showToast("A download is already running", "", "")
	}
	r, ok := m.selected()
	if !ok || r.resolution == "" {
		return m.showToast("Select a resolution to download", "", "")
	}

	logs := &eventLog{}
	manager := download.NewManager(m.settings, m.fetcher, m.log, logs.add)
	slug := m.st.page.slug
	m.dl = &downloadState{manager: manager, logs: logs, what: fmt.Sprintf("%s [%s]", slug, r.resolution)}
	m.log.Info("download started", zap.String("slug", slug), zap.String("resolution", r.resolution))

	ctx := m.ctx
	run := func() tea.Msg {
		var err error
		if kind == pageWatch {
			_, err = manager.AddEpisode(ctx, slug, r.resolution)
		} else {
			_, err = manager.AddBatch(ctx, slug, r.resolution)
		}
		if err == nil {
			err = manager.StartDownloads(ctx)
		}
		return downloadDoneMsg{err: err}
	}
	return m, tea.Batch(run, tickProgress())
}

// tickProgress returns a command to tick progress updates.
func tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m Model) handleDownload(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.dl == nil {
		return m, nil
	}
	dl := *m.dl
	dl.received, dl.files, dl.total = dl.manager.GetProgress()

	var percent float64
	if dl.total > 0 {
		percent = float64(dl.files) / float64(dl.total)
	}

	switch msg := msg.(type) {
	case tickMsg:
		m.dl = &dl
		if dl.done {
			return m, nil
		}
		return m, tea.Batch(m.progress.SetPercent(percent), tickProgress())

	case downloadDoneMsg:
		dl.done = true
		dl.err = msg.err
		m.dl = &dl
		if msg.err != nil {
			m.log.Warn("download failed", zap.String("what", dl.what), zap.Error(msg.err))
			return m.showToast("Download failed: "+msg.err.Error(), "", "")
		}
		m.log.Info("download finished", zap.String("what", dl.what), zap.Int32("files", dl.files))
		next, toastCmd := m.showToast(fmt.Sprintf("Downloaded %d/%d files to %s", dl.files, dl.total, m.settings.DownloadsPath), "", "")
		return next, tea.Batch(toastCmd, next.progress.SetPercent(percent))
	}
	return m, nil
}
