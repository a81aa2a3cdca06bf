// Package config provides configuration management for otokonime.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values and locations
//   - Conversion to PathConfig and FileConfig for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Talks to the public catalog API with a 30s timeout
//	// Keeps the list in $XDG_DATA_HOME/otokonime/otokonime.db
//	// Downloads to ~/Videos/Anime/{title}
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // Malformed or invalid file; a missing file yields defaults
//	}
//
// # Saving Settings
//
//	settings.DownloadsPath = "/media/anime/{title}"
//	err := settings.Save(config.DefaultPath())
//
// Durations are written as strings, e.g. "http_timeout": "45s".
package config
