package model

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// File is a single download within a release.
//
// Example:
//
//	cfg := &FileConfig{FileNameFormat: "{title} - {episode} [{resolution}]"}
//	f := NewFile(release, 1, "12", "720p", "Pixeldrain", fileURL, cfg)
//	// f.Path = "/anime/Frieren/Frieren - 12 [720p].mp4"
type File struct {
	// Release is a reference to the parent release.
	Release *Release

	// Number is the position of the file in the release (1-indexed).
	Number int

	// Episode is the episode label, see EpisodeLabel.
	Episode string

	// Resolution is the video resolution, e.g. "720p".
	Resolution string

	// Provider is the name of the file host.
	Provider string

	// URL is the direct link to download from.
	URL string

	// Path is the computed local file path including the extension.
	Path string
}

// FileConfig holds file naming settings.
//
// FileNameFormat supports {title}, {slug}, {episode}, {resolution},
// {provider} and {num} (2 digits, zero-padded). The extension is taken
// from the URL, falling back to ".mp4".
type FileConfig struct {
	FileNameFormat string
}

// NewFile creates a new File with computed path.
func NewFile(r *Release, number int, episode, resolution, provider, fileURL string, cfg *FileConfig) *File {
	f := &File{
		Release:    r,
		Number:     number,
		Episode:    episode,
		Resolution: resolution,
		Provider:   provider,
		URL:        fileURL,
	}
	f.Path = limitPath(r.Path, f.parseFileName(cfg), f.extension())
	return f
}

// parseFileName computes the filename (without extension) from the config template.
func (f *File) parseFileName(cfg *FileConfig) string {
	name := f.Release.expand(cfg.FileNameFormat)
	name = strings.ReplaceAll(name, "{episode}", f.Episode)
	name = strings.ReplaceAll(name, "{resolution}", f.Resolution)
	name = strings.ReplaceAll(name, "{provider}", f.Provider)
	name = strings.ReplaceAll(name, "{num}", fmt.Sprintf("%02d", f.Number))
	return sanitizeFileName(name)
}

func (f *File) extension() string {
	u, err := url.Parse(f.URL)
	if err != nil {
		return ".mp4"
	}
	ext := strings.ToLower(path.Ext(u.Path))
	switch ext {
	case ".mp4", ".mkv", ".webm", ".avi", ".zip", ".rar", ".7z":
		return ext
	}
	return ".mp4"
}
