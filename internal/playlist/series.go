package playlist

import (
	"context"
	"fmt"
	"log/slog"

	"m3urepo/internal/catalog"
	"m3urepo/internal/logging"
)

// seriesContext carries the series-level values shared by its episodes.
type seriesContext struct {
	slug  string
	title string
	cover string
}

// SeriesEntries builds one entry per episode that has at least one stream
// URL. Seasons and episodes are visited in numeric folder order.
func (s *Synthesizer) SeriesEntries(ctx context.Context) ([]Entry, Report, error) {
	var report Report
	logger := logging.WithContext(ctx, s.logger)
	slugs, err := s.entrySlugs(catalog.Series)
	if err != nil {
		return nil, report, err
	}

	var entries []Entry
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		ref := catalog.EntryRef(catalog.Series, slug)
		doc, ok, err := s.store.ReadMetadata(ref)
		if err != nil {
			s.warnSkip(logger, &report, ref, "unreadable about.json", err)
			continue
		}
		if !ok {
			s.warnSkip(logger, &report, ref, "missing about.json", nil)
			continue
		}
		series := seriesContext{
			slug:  slug,
			title: textOr(doc, "title", slug),
			cover: textOr(doc, "cover", ""),
		}

		seasons, err := s.store.List(ref)
		if err != nil {
			return nil, report, fmt.Errorf("list seasons of %s: %w", ref, err)
		}
		catalog.SortNumeric(seasons)
		for _, season := range seasons {
			seasonEntries, err := s.seasonEntries(logger, &report, series, season)
			if err != nil {
				return nil, report, err
			}
			entries = append(entries, seasonEntries...)
		}
	}

	logger.Info(
		"series playlist synthesized",
		logging.Int("entries", report.Entries),
		logging.Int("streams", report.Streams),
		logging.Int("skipped", len(report.Skips)),
	)
	return entries, report, nil
}

func (s *Synthesizer) seasonEntries(logger *slog.Logger, report *Report, series seriesContext, season string) ([]Entry, error) {
	ref := catalog.SeasonRef(series.slug, season)
	group := fmt.Sprintf("%s Temporada %s", series.title, season)
	logo := series.cover

	seasonDoc, ok, err := s.store.ReadMetadata(ref)
	switch {
	case err != nil:
		logging.WarnWithContext(logger, "ignoring malformed season metadata", "playlist_malformed_season",
			logging.String("path", ref.String()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "season uses series title and cover"),
		)
		report.degrade(ref.String(), "unreadable season about.json")
	case ok:
		if title, ok := seasonDoc.Text("title"); ok {
			group = title
		}
		if cover, ok := seasonDoc.Text("cover"); ok {
			logo = cover
		}
	}

	episodes, err := s.store.List(ref)
	if err != nil {
		return nil, fmt.Errorf("list episodes of %s: %w", ref, err)
	}
	catalog.SortNumeric(episodes)

	var entries []Entry
	for _, episode := range episodes {
		epRef := catalog.EpisodeRef(series.slug, season, episode)
		name := fmt.Sprintf("%s Temporada %s - S%sE%s", series.title, season, season, episode)

		info, ok, err := s.store.ReadMetadata(epRef)
		switch {
		case err != nil:
			logging.WarnWithContext(logger, "ignoring malformed episode info", "playlist_malformed_episode_info",
				logging.String("path", epRef.String()),
				logging.Error(err),
				logging.String(logging.FieldImpact, "episode listed without its title"),
			)
			report.degrade(epRef.String(), "unreadable info.json")
		case ok:
			if title, ok := info.Text("title"); ok {
				name = name + " - " + title
			}
		}

		urls, reason, err := s.readURLs(epRef)
		if urls == nil {
			s.warnSkip(logger, report, epRef, reason, err)
			continue
		}
		entry := Entry{Name: name, Group: group, Logo: logo, URLs: urls}
		entries = append(entries, entry)
		report.add(entry)
	}
	return entries, nil
}
