package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

const (
	defaultConfigPath = "~/.config/m3urepo/config.toml"
	projectConfigName = "m3urepo.toml"
	historyDatabase   = "history.db"
	kindMovies        = "movies"
	kindSeries        = "tv-series"
)

// Paths locates the repository checkout and local state.
type Paths struct {
	RepoRoot    string `toml:"repo_root"`
	CatalogDir  string `toml:"catalog_dir"`
	PlaylistDir string `toml:"playlist_dir"`
	StateDir    string `toml:"state_dir"`
	LogDir      string `toml:"log_dir"`
}

// Catalog tunes catalog writes.
type Catalog struct {
	// Reserved entry folders are skipped by playlist synthesis.
	Reserved          []string `toml:"reserved"`
	SubtitleLanguages []string `toml:"subtitle_languages"`
	LockTimeout       int      `toml:"lock_timeout_seconds"`
}

// Playlist names the generated playlist files.
type Playlist struct {
	MoviesFile string `toml:"movies_file"`
	SeriesFile string `toml:"series_file"`
}

// History controls the ingest ledger.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Server configures the read-only preview server.
type Server struct {
	Bind string `toml:"bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Config encapsulates all configuration values for m3urepo.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Catalog  Catalog  `toml:"catalog"`
	Playlist Playlist `toml:"playlist"`
	History  History  `toml:"history"`
	Server   Server   `toml:"server"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and resolved against the repository
// root.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the local state and log directories. The catalog
// itself is created lazily by the first ingest.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CatalogDir returns the resolved catalog root.
func (c *Config) CatalogDir() string {
	return c.Paths.CatalogDir
}

// PlaylistPath returns the output file for the given catalog kind
// ("movies" or "tv-series").
func (c *Config) PlaylistPath(kind string) (string, error) {
	switch kind {
	case kindMovies:
		return filepath.Join(c.Paths.PlaylistDir, c.Playlist.MoviesFile), nil
	case kindSeries:
		return filepath.Join(c.Paths.PlaylistDir, c.Playlist.SeriesFile), nil
	default:
		return "", fmt.Errorf("no playlist configured for kind %q", kind)
	}
}

// HistoryPath returns the ingest ledger database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, historyDatabase)
}

// LockTimeoutSeconds returns the catalog lock wait in seconds.
func (c *Config) LockTimeoutSeconds() int {
	return c.Catalog.LockTimeout
}

// IsReserved reports whether an entry folder name is excluded from playlists.
func (c *Config) IsReserved(name string) bool {
	for _, r := range c.Catalog.Reserved {
		if r == name {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// resolveUnder expands value and joins it to base when it is relative.
func resolveUnder(base, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return base, nil
	}
	if strings.HasPrefix(value, "~") || filepath.IsAbs(value) {
		return expandPath(value)
	}
	return filepath.Clean(filepath.Join(base, value)), nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
