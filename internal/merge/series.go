package merge

import (
	"context"
	"strconv"

	"m3urepo/internal/catalog"
	"m3urepo/internal/issueparse"
	"m3urepo/internal/logging"
)

// SeriesResult summarizes one series merge.
type SeriesResult struct {
	Slug    string
	Created bool
	// Seasons and Episodes count what the submission touched.
	Seasons  int
	Episodes int
	// NewEpisodes counts episodes that had no stored source list.
	NewEpisodes int
	Added       int
	Skipped     int
	// Subtitles counts subtitle placeholders created.
	Subtitles  int
	AltUpdated bool
}

type episodePlan struct {
	ref     catalog.Ref
	list    catalog.SourceList
	isNew   bool
	added   int
	skipped int
}

// MergeSeries creates or updates tv-series/<slug> and every submitted episode
// under s/<season>/e/<episode>. Missing subtitle placeholders are created for
// each touched episode; existing ones are left as they are.
func (m *Merger) MergeSeries(ctx context.Context, md catalog.Metadata, episodes issueparse.Episodes) (SeriesResult, error) {
	kind := catalog.Series
	slug, err := requireSlug(kind, md)
	if err != nil {
		return SeriesResult{}, err
	}
	logger := loggerFor(ctx, m.logger, kind, slug)
	entry := catalog.EntryRef(kind, slug)

	doc, created, err := m.entryDocument(entry, md)
	if err != nil {
		return SeriesResult{}, readFailure(kind, slug, err)
	}

	result := SeriesResult{Slug: slug, Created: created}
	var plans []episodePlan
	for _, season := range episodes.Seasons() {
		result.Seasons++
		for _, ep := range episodes.EpisodeNumbers(season) {
			ref := catalog.EpisodeRef(slug, strconv.Itoa(season), strconv.Itoa(ep))
			stored, _, err := m.store.ReadSources(ref)
			if err != nil {
				return SeriesResult{}, readFailure(kind, slug, err)
			}
			merged, added, skipped := stored.Merge(episodes[season][ep])
			plans = append(plans, episodePlan{ref: ref, list: merged, isNew: stored == nil, added: added, skipped: skipped})
		}
	}
	alt, err := m.planAlt(kind, md, slug)
	if err != nil {
		return SeriesResult{}, readFailure(kind, slug, err)
	}

	if err := m.store.Ensure(entry); err != nil {
		return result, writeFailure(kind, slug, err)
	}
	if err := m.store.WriteMetadata(entry, doc); err != nil {
		return result, writeFailure(kind, slug, err)
	}

	for _, plan := range plans {
		result.Episodes++
		result.Added += plan.added
		result.Skipped += plan.skipped
		if err := m.store.Ensure(plan.ref); err != nil {
			return result, writeFailure(kind, slug, err)
		}
		if plan.isNew || plan.added > 0 {
			if err := m.store.WriteSources(plan.ref, plan.list); err != nil {
				return result, writeFailure(kind, slug, err)
			}
		}
		switch {
		case plan.isNew:
			result.NewEpisodes++
			logger.Debug("created episode", logging.String("episode", plan.ref.EpisodeLabel()), logging.Int("added", plan.added))
		case plan.added > 0:
			logger.Debug("added episode sources", logging.String("episode", plan.ref.EpisodeLabel()), logging.Int("added", plan.added))
		}
		subs, err := m.store.EnsureSubtitles(plan.ref, m.languages)
		if err != nil {
			return result, writeFailure(kind, slug, err)
		}
		result.Subtitles += subs
	}

	if result.AltUpdated, err = m.applyAlt(kind, alt); err != nil {
		return result, writeFailure(kind, slug, err)
	}

	logger.Info(
		"series merged",
		logging.Bool("created", result.Created),
		logging.Int("seasons", result.Seasons),
		logging.Int("episodes", result.Episodes),
		logging.Int("new_episodes", result.NewEpisodes),
		logging.Int("added", result.Added),
		logging.Int("skipped", result.Skipped),
		logging.Bool("alt_updated", result.AltUpdated),
	)
	return result, nil
}
