package merge

import (
	"context"
	"fmt"
	"log/slog"

	"m3urepo/internal/catalog"
	"m3urepo/internal/config"
	"m3urepo/internal/logging"
	"m3urepo/internal/services"
)

// Merger writes parsed records through a catalog.Store.
type Merger struct {
	store     catalog.Store
	languages []string
	logger    *slog.Logger
}

// NewMerger constructs a merger using the configured subtitle languages.
func NewMerger(cfg *config.Config, store catalog.Store, logger *slog.Logger) *Merger {
	return NewMergerWithLanguages(store, cfg.Catalog.SubtitleLanguages, logger)
}

// NewMergerWithLanguages allows injecting the subtitle language set (used in
// tests).
func NewMergerWithLanguages(store catalog.Store, languages []string, logger *slog.Logger) *Merger {
	return &Merger{
		store:     store,
		languages: append([]string(nil), languages...),
		logger:    logging.NewComponentLogger(logger, "merge"),
	}
}

// entryDocument loads the stored metadata of ref and overlays md, or builds a
// fresh document when the entry is new.
func (m *Merger) entryDocument(ref catalog.Ref, md catalog.Metadata) (catalog.Document, bool, error) {
	existing, ok, err := m.store.ReadMetadata(ref)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return catalog.NewDocument(md, ref.Kind.DefaultCategory()), true, nil
	}
	return existing.Overlay(md), false, nil
}

// altUpdate is a pending alternate-index write. A nil pointer means nothing
// needs to be written.
type altUpdate struct {
	id    string
	entry catalog.AltEntry
}

// planAlt decides how the alternate index changes for slug. Existing entries
// only gain the slug; their other keys are left alone.
func (m *Merger) planAlt(kind catalog.Kind, md catalog.Metadata, slug string) (*altUpdate, error) {
	id := md.ExternalID()
	if id == "" {
		return nil, nil
	}
	entry, ok, err := m.store.ReadAlt(kind, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &altUpdate{id: id, entry: catalog.NewAltEntry(kind, md.Title, slug)}, nil
	}
	if !entry.AddSlug(slug) {
		return nil, nil
	}
	return &altUpdate{id: id, entry: entry}, nil
}

func (m *Merger) applyAlt(kind catalog.Kind, update *altUpdate) (bool, error) {
	if update == nil {
		return false, nil
	}
	if err := m.store.WriteAlt(kind, update.id, update.entry); err != nil {
		return false, err
	}
	return true, nil
}

func requireSlug(kind catalog.Kind, md catalog.Metadata) (string, error) {
	if !md.HasTitle() {
		return "", services.Wrap(services.ErrValidation, "merge", "merge "+kind.Label(), "title is required", nil)
	}
	slug := catalog.SlugFor(kind, md)
	if slug == "" {
		return "", services.Wrap(services.ErrValidation, "merge", "merge "+kind.Label(),
			fmt.Sprintf("title %q has no slug characters", md.Title), nil)
	}
	return slug, nil
}

func readFailure(kind catalog.Kind, slug string, err error) error {
	return fmt.Errorf("merge %s %s: %w", kind.Label(), slug, err)
}

func writeFailure(kind catalog.Kind, slug string, err error) error {
	return services.Wrap(services.ErrTransient, "merge", "merge "+kind.Label()+" "+slug, "write catalog", err)
}

func loggerFor(ctx context.Context, base *slog.Logger, kind catalog.Kind, slug string) *slog.Logger {
	logger := logging.WithContext(ctx, base)
	if _, ok := services.KindFromContext(ctx); !ok {
		logger = logger.With(logging.String(logging.FieldKind, kind.String()))
	}
	return logger.With(logging.String(logging.FieldSlug, slug))
}
