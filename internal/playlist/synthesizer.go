package playlist

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"m3urepo/internal/catalog"
	"m3urepo/internal/config"
	"m3urepo/internal/logging"
	"m3urepo/internal/services"
)

// Synthesizer reads a catalog.Store and builds playlists from it.
type Synthesizer struct {
	store    catalog.Store
	reserved []string
	logger   *slog.Logger
}

// NewSynthesizer constructs a synthesizer honoring the configured reserved
// entry names.
func NewSynthesizer(cfg *config.Config, store catalog.Store, logger *slog.Logger) *Synthesizer {
	return NewSynthesizerWithReserved(store, cfg.Catalog.Reserved, logger)
}

// NewSynthesizerWithReserved allows injecting the reserved names (used in
// tests).
func NewSynthesizerWithReserved(store catalog.Store, reserved []string, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{
		store:    store,
		reserved: append([]string(nil), reserved...),
		logger:   logging.NewComponentLogger(logger, "playlist"),
	}
}

// Playlist dispatches to MoviePlaylist or SeriesPlaylist.
func (s *Synthesizer) Playlist(ctx context.Context, kind catalog.Kind) (string, Report, error) {
	if kind == catalog.Series {
		return s.SeriesPlaylist(ctx)
	}
	return s.MoviePlaylist(ctx)
}

// MoviePlaylist renders every movie entry in directory order.
func (s *Synthesizer) MoviePlaylist(ctx context.Context) (string, Report, error) {
	entries, report, err := s.MovieEntries(ctx)
	if err != nil {
		return "", report, err
	}
	return Render(entries), report, nil
}

// SeriesPlaylist renders every episode of every series in directory order.
func (s *Synthesizer) SeriesPlaylist(ctx context.Context) (string, Report, error) {
	entries, report, err := s.SeriesEntries(ctx)
	if err != nil {
		return "", report, err
	}
	return Render(entries), report, nil
}

// entrySlugs lists the entry folders of kind, excluding reserved names.
func (s *Synthesizer) entrySlugs(kind catalog.Kind) ([]string, error) {
	names, err := s.store.List(catalog.EntryRef(kind, ""))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "playlist", "list "+kind.String(), "", err)
	}
	out := names[:0]
	for _, name := range names {
		if !slices.Contains(s.reserved, name) {
			out = append(out, name)
		}
	}
	return out, nil
}

// warnSkip records a skip and logs it. Malformed files are warnings; absent
// or empty ones are routine and logged at debug.
func (s *Synthesizer) warnSkip(logger *slog.Logger, report *Report, ref catalog.Ref, reason string, err error) {
	malformed := errors.Is(err, services.ErrMalformed)
	report.skip(ref.String(), reason, malformed)
	if !malformed {
		logger.Debug("playlist entry skipped", logging.String("path", ref.String()), logging.String("reason", reason))
		return
	}
	logging.WarnWithContext(logger, "skipping malformed catalog entry", "playlist_malformed_entry",
		logging.String("path", ref.String()),
		logging.String("reason", reason),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "fix or remove the JSON file and regenerate"),
		logging.String(logging.FieldImpact, "entry omitted from playlist"),
	)
}

// readURLs loads the stream URLs of ref. ok is false when the node has no
// usable list; reason then explains why.
func (s *Synthesizer) readURLs(ref catalog.Ref) (urls []string, reason string, err error) {
	list, ok, err := s.store.ReadSources(ref)
	switch {
	case err != nil:
		return nil, "unreadable urls.json", err
	case !ok:
		return nil, "missing urls.json", nil
	}
	urls = list.URLs()
	if len(urls) == 0 {
		return nil, "no stream urls", nil
	}
	return urls, "", nil
}

// textOr mirrors a dictionary lookup with a default: a present key renders
// its value even when empty.
func textOr(doc catalog.Document, key, fallback string) string {
	if !doc.Has(key) {
		return fallback
	}
	v, _ := doc.Text(key)
	return v
}
