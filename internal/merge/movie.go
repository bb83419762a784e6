package merge

import (
	"context"

	"m3urepo/internal/catalog"
	"m3urepo/internal/logging"
)

// MovieResult summarizes one movie merge.
type MovieResult struct {
	Slug    string
	Created bool
	Added   int
	Skipped int
	// AltUpdated reports whether the alternate index file was written.
	AltUpdated bool
}

// MergeMovie creates or updates movies/<slug>: metadata is overlaid, sources
// whose URL is already stored are skipped, and the alternate index gains the
// slug when the record carries an external id.
func (m *Merger) MergeMovie(ctx context.Context, md catalog.Metadata, sources []catalog.SourceRecord) (MovieResult, error) {
	kind := catalog.Movies
	slug, err := requireSlug(kind, md)
	if err != nil {
		return MovieResult{}, err
	}
	logger := loggerFor(ctx, m.logger, kind, slug)
	ref := catalog.EntryRef(kind, slug)

	doc, created, err := m.entryDocument(ref, md)
	if err != nil {
		return MovieResult{}, readFailure(kind, slug, err)
	}
	stored, _, err := m.store.ReadSources(ref)
	if err != nil {
		return MovieResult{}, readFailure(kind, slug, err)
	}
	alt, err := m.planAlt(kind, md, slug)
	if err != nil {
		return MovieResult{}, readFailure(kind, slug, err)
	}

	result := MovieResult{Slug: slug, Created: created}
	merged, added, skipped := stored.Merge(sources)
	result.Added, result.Skipped = added, skipped

	if err := m.store.Ensure(ref); err != nil {
		return result, writeFailure(kind, slug, err)
	}
	if err := m.store.WriteMetadata(ref, doc); err != nil {
		return result, writeFailure(kind, slug, err)
	}
	if stored == nil || added > 0 {
		if err := m.store.WriteSources(ref, merged); err != nil {
			return result, writeFailure(kind, slug, err)
		}
	}
	if result.AltUpdated, err = m.applyAlt(kind, alt); err != nil {
		return result, writeFailure(kind, slug, err)
	}

	logger.Info(
		"movie merged",
		logging.Bool("created", result.Created),
		logging.Int("added", result.Added),
		logging.Int("skipped", result.Skipped),
		logging.Bool("alt_updated", result.AltUpdated),
	)
	return result, nil
}
