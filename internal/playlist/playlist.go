package playlist

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/otokonime/internal/model"
)

// Creator generates playlist files for downloaded releases.
//
// Creator takes a release and generates a playlist containing all of its
// files that exist on disk, in release order. The output is a string that
// can be written to the release's PlaylistPath.
//
// Example:
//
//	creator := NewCreator(model.PlaylistFormatM3U, true)
//	content := creator.Create(release)
//	os.WriteFile(release.PlaylistPath, []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Frieren - 12 [720p]
//	// Frieren - 12 [720p].mp4
type Creator struct {
	format   model.PlaylistFormat
	extended bool // For M3U: include EXTINF lines
}

// NewCreator creates a new Creator.
//
// extended only affects M3U output.
func NewCreator(format model.PlaylistFormat, extended bool) *Creator {
	return &Creator{
		format:   format,
		extended: extended,
	}
}

// Create generates playlist content for files.
//
// Paths in the playlist are relative (just the filename), assuming the
// playlist file is in the same directory as the videos.
func (c *Creator) Create(title string, files []*model.File) string {
	switch c.format {
	case model.PlaylistFormatPLS:
		return c.createPLS(title, files)
	default:
		return c.createM3U(title, files)
	}
}

// entryTitle is the display name of a file, e.g. "Frieren - 12 [720p]".
func entryTitle(title string, f *model.File) string {
	name := title
	if f.Episode != "" {
		name += " - " + f.Episode
	}
	if f.Resolution != "" {
		name += " [" + f.Resolution + "]"
	}
	return name
}

// createM3U generates an M3U playlist. Durations are unknown and written
// as -1.
func (c *Creator) createM3U(title string, files []*model.File) string {
	var sb strings.Builder

	if c.extended {
		sb.WriteString("#EXTM3U\n")
		fmt.Fprintf(&sb, "#PLAYLIST:%s\n", title)
	}

	for _, f := range files {
		if c.extended {
			fmt.Fprintf(&sb, "#EXTINF:-1,%s\n", entryTitle(title, f))
		}
		sb.WriteString(filepath.Base(f.Path) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist:
//
//	[playlist]
//	File1=Frieren - 01 [720p].mp4
//	Title1=Frieren - 01 [720p]
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (c *Creator) createPLS(title string, files []*model.File) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, f := range files {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, filepath.Base(f.Path))
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, entryTitle(title, f))
		fmt.Fprintf(&sb, "Length%d=-1\n", idx)
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(files))
	sb.WriteString("Version=2\n")

	return sb.String()
}
