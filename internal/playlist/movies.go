package playlist

import (
	"context"

	"m3urepo/internal/catalog"
	"m3urepo/internal/logging"
)

// MovieEntries builds one entry per movie with metadata and at least one
// stream URL.
func (s *Synthesizer) MovieEntries(ctx context.Context) ([]Entry, Report, error) {
	var report Report
	logger := logging.WithContext(ctx, s.logger)
	slugs, err := s.entrySlugs(catalog.Movies)
	if err != nil {
		return nil, report, err
	}

	entries := make([]Entry, 0, len(slugs))
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		ref := catalog.EntryRef(catalog.Movies, slug)

		doc, ok, err := s.store.ReadMetadata(ref)
		if err != nil {
			s.warnSkip(logger, &report, ref, "unreadable about.json", err)
			continue
		}
		if !ok {
			s.warnSkip(logger, &report, ref, "missing about.json", nil)
			continue
		}
		urls, reason, err := s.readURLs(ref)
		if urls == nil {
			s.warnSkip(logger, &report, ref, reason, err)
			continue
		}

		entry := Entry{
			Name:  doc.DisplayTitle(slug),
			Group: textOr(doc, "category", catalog.Movies.DefaultCategory()),
			Logo:  textOr(doc, "cover", ""),
			URLs:  urls,
		}
		entries = append(entries, entry)
		report.add(entry)
	}

	logger.Info(
		"movie playlist synthesized",
		logging.Int("entries", report.Entries),
		logging.Int("streams", report.Streams),
		logging.Int("skipped", len(report.Skips)),
	)
	return entries, report, nil
}
