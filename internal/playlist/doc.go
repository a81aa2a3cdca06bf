// Package playlist generates playlists for downloaded episodes.
//
//	creator := playlist.NewCreator(model.PlaylistFormatM3U, true) // extended M3U
//	content := creator.Create(release.Title, downloaded)
//	os.WriteFile(release.PlaylistPath, []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info), played by mpv and VLC
//   - PLS
package playlist
