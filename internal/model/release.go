package model

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Release is a set of files about to be downloaded for one title, such as
// the mirrors of a single episode or the volumes of a batch.
//
// Paths are computed when creating a release via NewRelease, using the
// placeholders {title} and {slug}.
//
// Example:
//
//	cfg := &PathConfig{
//	    DownloadsPath:       "/anime/{title}",
//	    CoverFileNameFormat: "cover",
//	    PlaylistFormat:      PlaylistFormatM3U,
//	}
//	r := NewRelease("Frieren", "sousou-no-frieren", posterURL, cfg)
//	// r.Path = "/anime/Frieren"
type Release struct {
	// Title is the anime title.
	Title string

	// Slug is the catalog slug of the anime or batch.
	Slug string

	// PosterURL is the URL of the poster image.
	// Empty string means no poster is available.
	PosterURL string

	// Files contains every file of the release.
	Files []*File

	// Path is the local directory the files are written to.
	Path string

	// CoverPath is the local file path of the poster. Empty without poster.
	CoverPath string

	// PlaylistPath is the local file path of the playlist.
	PlaylistPath string
}

// NewRelease creates a new Release with computed paths.
//
// Invalid filename characters are replaced with underscores and paths are
// truncated if they exceed Windows path length limits.
func NewRelease(title, slug, posterURL string, cfg *PathConfig) *Release {
	r := &Release{
		Title:     title,
		Slug:      slug,
		PosterURL: posterURL,
	}

	r.Path = r.parseFolderPath(cfg)
	r.PlaylistPath = r.parsePlaylistPath(cfg)
	r.CoverPath = r.parseCoverPath(cfg)

	return r
}

// HasPoster returns true if the release has a poster to download.
func (r *Release) HasPoster() bool {
	return r.PosterURL != ""
}

// PathConfig holds path formatting settings for releases.
type PathConfig struct {
	// DownloadsPath is the directory template, e.g. "/anime/{title}".
	DownloadsPath string

	// CoverFileNameFormat is the poster filename template (without extension).
	CoverFileNameFormat string

	// PlaylistFileNameFormat is the playlist filename template (without extension).
	PlaylistFileNameFormat string

	// PlaylistFormat determines the playlist file type and extension.
	PlaylistFormat PlaylistFormat
}

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// PlaylistFormatM3U creates .m3u playlist files (mpv, VLC).
	PlaylistFormatM3U PlaylistFormat = iota

	// PlaylistFormatPLS creates .pls playlist files.
	PlaylistFormatPLS
)

// Extension returns the file extension for the playlist format, including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case PlaylistFormatPLS:
		return ".pls"
	default:
		return ".m3u"
	}
}

func (r *Release) expand(format string) string {
	s := strings.ReplaceAll(format, "{title}", r.Title)
	return strings.ReplaceAll(s, "{slug}", r.Slug)
}

// parseFolderPath computes the release folder path from the config template.
func (r *Release) parseFolderPath(cfg *PathConfig) string {
	path := cfg.DownloadsPath
	path = strings.ReplaceAll(path, "{title}", sanitizeFileName(r.Title))
	path = strings.ReplaceAll(path, "{slug}", sanitizeFileName(r.Slug))

	// Windows MAX_PATH for directories
	if len(path) >= 248 {
		path = path[:247]
	}

	return path
}

// parsePlaylistPath computes the full playlist file path.
func (r *Release) parsePlaylistPath(cfg *PathConfig) string {
	fileName := sanitizeFileName(r.expand(cfg.PlaylistFileNameFormat))
	return limitPath(r.Path, fileName, cfg.PlaylistFormat.Extension())
}

// parseCoverPath computes the full poster file path. Posters are always
// stored as JPEG.
func (r *Release) parseCoverPath(cfg *PathConfig) string {
	if !r.HasPoster() {
		return ""
	}
	fileName := sanitizeFileName(r.expand(cfg.CoverFileNameFormat))
	return limitPath(r.Path, fileName, ".jpg")
}

// limitPath joins dir and fileName+ext, shortening fileName when the result
// would exceed the Windows MAX_PATH of 260 characters.
func limitPath(dir, fileName, ext string) string {
	filePath := filepath.Join(dir, fileName+ext)
	if len(filePath) >= 260 {
		maxLen := 259 - len(dir) - 1 - len(ext)
		if maxLen > 0 && maxLen < len(fileName) {
			filePath = filepath.Join(dir, fileName[:maxLen]+ext)
		}
	}
	return filePath
}

var (
	invalidFileCharsRe = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDotsRe     = regexp.MustCompile(`\.+$`)
	whitespaceRe       = regexp.MustCompile(`\s+`)
)

// sanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
func sanitizeFileName(name string) string {
	name = invalidFileCharsRe.ReplaceAllString(name, "_")
	name = trailingDotsRe.ReplaceAllString(name, "")
	name = whitespaceRe.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}
