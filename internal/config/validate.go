package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validatePlaylist(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.CatalogDir) == "" {
		return errors.New("paths.catalog_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.LockTimeout < 0 {
		return errors.New("catalog.lock_timeout_seconds must be positive")
	}
	for _, lang := range c.Catalog.SubtitleLanguages {
		if !isLanguageCode(lang) {
			return fmt.Errorf("catalog.subtitle_languages: %q is not a two-letter language code", lang)
		}
	}
	return nil
}

func (c *Config) validatePlaylist() error {
	files := map[string]string{
		"playlist.movies_file": c.Playlist.MoviesFile,
		"playlist.series_file": c.Playlist.SeriesFile,
	}
	for key, name := range files {
		if name != filepath.Base(name) {
			return fmt.Errorf("%s must be a file name, got %q", key, name)
		}
	}
	if c.Playlist.MoviesFile == c.Playlist.SeriesFile {
		return errors.New("playlist.movies_file and playlist.series_file must differ")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 0 {
		return errors.New("logging.max_size_mb must be positive")
	}
	if c.Logging.MaxBackups < 0 {
		return errors.New("logging.max_backups must not be negative")
	}
	return nil
}

func isLanguageCode(value string) bool {
	if len(value) != 2 {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 'a' || value[i] > 'z' {
			return false
		}
	}
	return true
}
