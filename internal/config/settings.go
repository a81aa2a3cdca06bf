package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/otokonime/internal/catalog"
	"github.com/handiism/otokonime/internal/model"
)

// AppName names the config and data directories.
const AppName = "otokonime"

// Settings holds all configuration options.
type Settings struct {
	// Catalog settings
	APIBaseURL  string   `json:"api_base_url"`
	HTTPTimeout Duration `json:"http_timeout"`

	// Storage and logging
	DBPath   string `json:"db_path"`
	LogFile  string `json:"log_file"`
	LogLevel string `json:"log_level"` // debug, info, warn, error

	// Download settings
	DownloadsPath          string `json:"downloads_path"`
	MaxConcurrentDownloads int    `json:"max_concurrent_downloads"`
	PreferredResolution    string `json:"preferred_resolution"`

	// File naming
	FileNameFormat         string `json:"file_name_format"`
	CoverFileNameFormat    string `json:"cover_file_name_format"`
	PlaylistFileNameFormat string `json:"playlist_file_name_format"`

	// Poster settings
	SavePoster       bool `json:"save_poster"`
	PosterResize     bool `json:"poster_resize"`
	PosterMaxSize    int  `json:"poster_max_size"`
	ConvertPosterJPG bool `json:"convert_poster_to_jpg"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist"`
	PlaylistFormat string `json:"playlist_format"` // m3u, pls
	M3UExtended    bool   `json:"m3u_extended"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration time.Duration

// MarshalJSON writes the duration in time.Duration notation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts "30s" style strings or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}

	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", data)
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	dataDir := DataDir()
	return &Settings{
		APIBaseURL:  catalog.DefaultBaseURL,
		HTTPTimeout: Duration(30 * time.Second),

		DBPath:   filepath.Join(dataDir, AppName+".db"),
		LogFile:  filepath.Join(dataDir, AppName+".log"),
		LogLevel: "info",

		DownloadsPath:          filepath.Join(homeDir, "Videos", "Anime", "{title}"),
		MaxConcurrentDownloads: 3,
		PreferredResolution:    "720p",

		FileNameFormat:         "{title} - {episode} [{resolution}]",
		CoverFileNameFormat:    "poster",
		PlaylistFileNameFormat: "{title}",

		SavePoster:       true,
		PosterResize:     true,
		PosterMaxSize:    1000,
		ConvertPosterJPG: true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,
	}
}

// DataDir returns the directory holding the list database and the log,
// $XDG_DATA_HOME/otokonime or ~/.local/share/otokonime.
func DataDir() string {
	if v := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); v != "" {
		return filepath.Join(v, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// DefaultPath returns the settings file location, config.json in the
// user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(AppName, "config.json")
	}
	return filepath.Join(dir, AppName, "config.json")
}

// Load reads settings from a JSON file.
//
// A missing file yields the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports the first setting that cannot be used.
func (s *Settings) Validate() error {
	switch {
	case s.MaxConcurrentDownloads < 1:
		return fmt.Errorf("max_concurrent_downloads must be at least 1, got %d", s.MaxConcurrentDownloads)
	case s.HTTPTimeout < 0:
		return fmt.Errorf("http_timeout must not be negative")
	case s.DBPath == "":
		return errors.New("db_path must be set")
	}
	switch strings.ToLower(s.PlaylistFormat) {
	case "m3u", "pls":
	default:
		return fmt.Errorf("unsupported playlist_format %q", s.PlaylistFormat)
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q", s.LogLevel)
	}
	return nil
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	pf := model.PlaylistFormatM3U
	if strings.EqualFold(s.PlaylistFormat, "pls") {
		pf = model.PlaylistFormatPLS
	}

	return &model.PathConfig{
		DownloadsPath:          s.DownloadsPath,
		CoverFileNameFormat:    s.CoverFileNameFormat,
		PlaylistFileNameFormat: s.PlaylistFileNameFormat,
		PlaylistFormat:         pf,
	}
}

// ToFileConfig converts settings to FileConfig.
func (s *Settings) ToFileConfig() *model.FileConfig {
	return &model.FileConfig{
		FileNameFormat: s.FileNameFormat,
	}
}
