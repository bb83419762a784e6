package config

import (
	"fmt"
	"os"
	"strings"

	"m3urepo/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizePlaylist()
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	root := strings.TrimSpace(c.Paths.RepoRoot)
	if root == "" {
		if value, ok := os.LookupEnv(repoRootEnv); ok && strings.TrimSpace(value) != "" {
			root = strings.TrimSpace(value)
		} else {
			root = defaultRepoRoot
		}
	}
	if c.Paths.RepoRoot, err = expandPath(root); err != nil {
		return fmt.Errorf("paths.repo_root: %w", err)
	}

	if strings.TrimSpace(c.Paths.CatalogDir) == "" {
		c.Paths.CatalogDir = defaultCatalogDir
	}
	if c.Paths.CatalogDir, err = resolveUnder(c.Paths.RepoRoot, c.Paths.CatalogDir); err != nil {
		return fmt.Errorf("paths.catalog_dir: %w", err)
	}
	if c.Paths.PlaylistDir, err = resolveUnder(c.Paths.RepoRoot, c.Paths.PlaylistDir); err != nil {
		return fmt.Errorf("paths.playlist_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.SubtitleLanguages = language.NormalizeList(c.Catalog.SubtitleLanguages)
	c.Catalog.Reserved = normalizeList(c.Catalog.Reserved)
	if c.Catalog.LockTimeout == 0 {
		c.Catalog.LockTimeout = defaultLockTimeout
	}
}

func (c *Config) normalizePlaylist() {
	c.Playlist.MoviesFile = strings.TrimSpace(c.Playlist.MoviesFile)
	if c.Playlist.MoviesFile == "" {
		c.Playlist.MoviesFile = defaultMoviesFile
	}
	c.Playlist.SeriesFile = strings.TrimSpace(c.Playlist.SeriesFile)
	if c.Playlist.SeriesFile == "" {
		c.Playlist.SeriesFile = defaultSeriesFile
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
}

// normalizeList trims entries and drops blanks and duplicates.
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
