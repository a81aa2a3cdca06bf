package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/handiism/otokonime/internal/catalog"
	"github.com/handiism/otokonime/internal/config"
	"github.com/handiism/otokonime/internal/media"
	"github.com/handiism/otokonime/internal/model"
	"github.com/handiism/otokonime/internal/playlist"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ErrNoLinks is returned when a title offers nothing to download.
var ErrNoLinks = errors.New("no download links")

// Fetcher is the part of the catalog client the Manager needs.
type Fetcher interface {
	Anime(ctx context.Context, slug string) (*model.AnimeDetail, error)
	Episode(ctx context.Context, slug string) (*model.WatchData, error)
	Batch(ctx context.Context, slug string) (*model.BatchData, error)
	DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

var _ Fetcher = (*catalog.Client)(nil)

// Manager coordinates episode and batch downloads.
type Manager struct {
	settings     *config.Settings
	fetcher      Fetcher
	playlist     *playlist.Creator
	imageService *media.ImageService
	log          *zap.Logger

	mu       sync.RWMutex
	releases []*model.Release

	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, fetcher Fetcher, log *zap.Logger, onProgress func(ProgressEvent)) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	pathCfg := settings.ToPathConfig()
	return &Manager{
		settings:     settings,
		fetcher:      fetcher,
		playlist:     playlist.NewCreator(pathCfg.PlaylistFormat, settings.M3UExtended),
		imageService: media.NewImageService(),
		log:          log,
		onProgress:   onProgress,
	}
}

// AddEpisode queues the episode slug at the given quality, or the
// configured preferred resolution when quality is empty.
//
// The file lands in the folder of its anime, named after the anime title.
func (m *Manager) AddEpisode(ctx context.Context, slug, quality string) (*model.Release, error) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching episode info: %s", slug), Level: LevelVerbose})

	w, err := m.fetcher.Episode(ctx, slug)
	if err != nil {
		return nil, err
	}

	var formats []model.DownloadFormat
	for _, g := range w.DownloadGroups {
		formats = append(formats, g.Formats...)
	}
	format, link, ok := SelectFormat(formats, m.quality(quality))
	if !ok {
		return nil, fmt.Errorf("%s: %w", slug, ErrNoLinks)
	}

	title, poster := w.Episode, ""
	if w.AnimeSlug != "" {
		// The anime only provides the folder name and poster.
		d, err := m.fetcher.Anime(ctx, w.AnimeSlug)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Could not fetch %s, using episode title: %v", w.AnimeSlug, err), Level: LevelWarning})
		} else {
			title, poster = d.Title, d.Poster
		}
	}

	r := model.NewRelease(title, w.AnimeSlug, poster, m.settings.ToPathConfig())
	r.Files = append(r.Files, model.NewFile(r, 1, model.EpisodeLabel(w.Episode), format.Resolution, link.Provider, link.URL, m.settings.ToFileConfig()))
	m.add(r)
	return r, nil
}

// AddBatch queues the batch slug at the given quality, or the configured
// preferred resolution when quality is empty.
func (m *Manager) AddBatch(ctx context.Context, slug, quality string) (*model.Release, error) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching batch info: %s", slug), Level: LevelVerbose})

	b, err := m.fetcher.Batch(ctx, slug)
	if err != nil {
		return nil, err
	}
	format, link, ok := SelectFormat(b.Formats, m.quality(quality))
	if !ok {
		return nil, fmt.Errorf("%s: %w", slug, ErrNoLinks)
	}

	r := model.NewRelease(b.Title, slug, "", m.settings.ToPathConfig())
	r.Files = append(r.Files, model.NewFile(r, 1, "Batch", format.Resolution, link.Provider, link.URL, m.settings.ToFileConfig()))
	m.add(r)
	return r, nil
}

// AddRelease queues a release built by the caller.
func (m *Manager) AddRelease(r *model.Release) {
	m.add(r)
}

func (m *Manager) add(r *model.Release) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releases = append(m.releases, r)
	m.totalFiles += int32(len(r.Files))
	if r.HasPoster() && m.settings.SavePoster {
		m.totalFiles++
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found: %s (%d files)", r.Title, len(r.Files)), Level: LevelInfo})
}

func (m *Manager) quality(q string) string {
	if q != "" {
		return q
	}
	return m.settings.PreferredResolution
}

// SelectFormat picks the format whose resolution contains quality,
// case-insensitively, and its first link. Without a match the first format
// offering a link is used.
func SelectFormat(formats []model.DownloadFormat, quality string) (model.DownloadFormat, model.DownloadLink, bool) {
	quality = strings.ToLower(strings.TrimSpace(quality))
	if quality != "" {
		for _, f := range formats {
			if len(f.Links) > 0 && strings.Contains(strings.ToLower(f.Resolution), quality) {
				return f, f.Links[0], true
			}
		}
	}
	for _, f := range formats {
		if len(f.Links) > 0 {
			return f, f.Links[0], true
		}
	}
	return model.DownloadFormat{}, model.DownloadLink{}, false
}

// StartDownloads downloads every queued release.
//
// Each file is attempted once. A failed file is reported and does not stop
// the others; the returned error only reflects cancellation or a release
// directory that could not be created.
func (m *Manager) StartDownloads(ctx context.Context) error {
	m.mu.RLock()
	releases := append([]*model.Release(nil), m.releases...)
	m.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range releases {
		g.Go(func() error {
			return m.downloadRelease(gctx, r)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received int64, filesReceived, filesTotal int32) {
	m.mu.RLock()
	total := m.totalFiles
	m.mu.RUnlock()
	return atomic.LoadInt64(&m.receivedBytes), atomic.LoadInt32(&m.downloadedFiles), total
}

// GetReleaseNames returns the names of all queued releases.
func (m *Manager) GetReleaseNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.releases))
	for i, r := range m.releases {
		names[i] = fmt.Sprintf("%s (%d files)", r.Title, len(r.Files))
	}
	return names
}

func (m *Manager) downloadRelease(ctx context.Context, r *model.Release) error {
	if err := media.EnsureDir(r.Path); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory: %v", err), Level: LevelError})
		return err
	}

	if m.settings.SavePoster && r.HasPoster() {
		if err := m.downloadPoster(ctx, r); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading poster for %s: %v", r.Title, err), Level: LevelWarning})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.settings.MaxConcurrentDownloads, 1))

	done := make([]bool, len(r.Files))
	for i, f := range r.Files {
		g.Go(func() error {
			if err := m.downloadFile(gctx, f); err != nil {
				m.log.Warn("download failed", zap.String("file", f.Path), zap.String("url", f.URL), zap.Error(err))
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", filepath.Base(f.Path), err), Level: LevelError})
				return nil // Continue with other files
			}
			done[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var downloaded []*model.File
	for i, f := range r.Files {
		if done[i] {
			downloaded = append(downloaded, f)
		}
	}

	if m.settings.CreatePlaylist && len(downloaded) > 0 {
		content := m.playlist.Create(r.Title, downloaded)
		if err := media.WriteFileAtomic(r.PlaylistPath, []byte(content)); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist for %s", r.Title), Level: LevelSuccess})
		}
	}

	if len(downloaded) == len(r.Files) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Successfully downloaded: %s", r.Title), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Finished %s, some files failed", r.Title), Level: LevelWarning})
	}
	return nil
}

func (m *Manager) downloadPoster(ctx context.Context, r *model.Release) error {
	poster, err := m.fetcher.DownloadBytes(ctx, r.PosterURL)
	if err != nil {
		return err
	}

	if m.settings.PosterResize {
		if resized, err := m.imageService.ResizeImage(ctx, poster, m.settings.PosterMaxSize, m.settings.PosterMaxSize); err == nil {
			poster = resized
		}
	} else if m.settings.ConvertPosterJPG {
		if converted, err := m.imageService.ConvertToJPEG(ctx, poster); err == nil {
			poster = converted
		}
	}

	if err := media.WriteFileAtomic(r.CoverPath, poster); err != nil {
		return err
	}
	atomic.AddInt32(&m.downloadedFiles, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved poster for %s", r.Title), Level: LevelVerbose})
	return nil
}

func (m *Manager) downloadFile(ctx context.Context, f *model.File) error {
	if media.Exists(f.Path) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(f.Path)), Level: LevelVerbose})
		atomic.AddInt32(&m.downloadedFiles, 1)
		return nil
	}

	var last int64
	err := m.fetcher.DownloadFile(ctx, f.URL, f.Path, func(written, total int64) {
		atomic.AddInt64(&m.receivedBytes, written-last)
		last = written
	})
	if err != nil {
		return err
	}

	atomic.AddInt32(&m.downloadedFiles, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", filepath.Base(f.Path)), Level: LevelVerbose})
	return nil
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
