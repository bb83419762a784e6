package config

const (
	defaultRepoRoot       = "."
	defaultCatalogDir     = "api"
	defaultStateDir       = "~/.local/share/m3urepo"
	defaultLogDir         = "~/.local/share/m3urepo/logs"
	defaultLockTimeout    = 30
	defaultMoviesFile     = "movies.m3u"
	defaultSeriesFile     = "tv-series.m3u"
	defaultServerBind     = "127.0.0.1:7488"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultLogMaxSizeMB   = 10
	defaultLogMaxBackups  = 5
	repoRootEnv           = "M3UREPO_ROOT"
	reservedStubDirectory = "stub"
)

var defaultSubtitleLanguages = []string{"en", "id"}

// Default returns a Config populated with repository defaults. RepoRoot is
// left empty so normalize can apply the M3UREPO_ROOT fallback.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogDir: defaultCatalogDir,
			StateDir:   defaultStateDir,
			LogDir:     defaultLogDir,
		},
		Catalog: Catalog{
			Reserved:          []string{reservedStubDirectory},
			SubtitleLanguages: append([]string(nil), defaultSubtitleLanguages...),
			LockTimeout:       defaultLockTimeout,
		},
		Playlist: Playlist{
			MoviesFile: defaultMoviesFile,
			SeriesFile: defaultSeriesFile,
		},
		History: History{
			Enabled: true,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
