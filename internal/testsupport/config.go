package testsupport

import (
	"path/filepath"
	"testing"

	"m3urepo/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory per test.
// The catalog lives under <base>/api and playlists are written to <base>.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RepoRoot = base
	cfgVal.Paths.CatalogDir = filepath.Join(base, "api")
	cfgVal.Paths.PlaylistDir = base
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Catalog.LockTimeout = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithHistory toggles the ingest ledger on the test config.
func WithHistory(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = enabled
	}
}

// WithReserved replaces the reserved entry names on the test config.
func WithReserved(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Reserved = names
	}
}

// WithSubtitleLanguages replaces the subtitle placeholder languages.
func WithSubtitleLanguages(langs ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.SubtitleLanguages = langs
	}
}
