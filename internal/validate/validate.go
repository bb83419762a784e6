// Package validate checks the catalog tree for files that playlist synthesis
// or later merges would trip over. It never modifies the catalog.
package validate

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"slices"

	"m3urepo/internal/catalog"
	"m3urepo/internal/config"
	"m3urepo/internal/logging"
)

// Problem is one finding, addressed by its catalog-relative path.
type Problem struct {
	Kind    catalog.Kind
	Slug    string
	Path    string
	Message string
}

func (p Problem) String() string {
	return p.Path + ": " + p.Message
}

// Result collects the findings for one catalog entry.
type Result struct {
	Kind     catalog.Kind
	Slug     string
	Problems []Problem
}

// OK reports whether the entry has no findings.
func (r Result) OK() bool { return len(r.Problems) == 0 }

// Problems flattens results into a single list.
func Problems(results []Result) []Problem {
	var out []Problem
	for _, r := range results {
		out = append(out, r.Problems...)
	}
	return out
}

// Checker walks a catalog.Store.
type Checker struct {
	store    catalog.Store
	reserved []string
	logger   *slog.Logger
}

// NewChecker constructs a checker that skips the configured reserved names.
func NewChecker(cfg *config.Config, store catalog.Store, logger *slog.Logger) *Checker {
	return NewCheckerWithReserved(store, cfg.Catalog.Reserved, logger)
}

// NewCheckerWithReserved allows injecting the reserved names (used in tests).
func NewCheckerWithReserved(store catalog.Store, reserved []string, logger *slog.Logger) *Checker {
	return &Checker{
		store:    store,
		reserved: append([]string(nil), reserved...),
		logger:   logging.NewComponentLogger(logger, "validate"),
	}
}

// Check validates every movie and series entry, in that order, and returns
// one Result per entry. The error is reserved for listing failures.
func (c *Checker) Check(ctx context.Context) ([]Result, error) {
	logger := logging.WithContext(ctx, c.logger)
	var results []Result
	for _, kind := range catalog.Kinds {
		slugs, err := c.store.List(catalog.EntryRef(kind, ""))
		if err != nil {
			return nil, err
		}
		for _, slug := range slugs {
			if slices.Contains(c.reserved, slug) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			var problems []Problem
			if kind == catalog.Series {
				problems, err = c.checkSeries(slug)
			} else {
				problems = c.checkMovie(slug)
			}
			if err != nil {
				return nil, err
			}
			results = append(results, Result{Kind: kind, Slug: slug, Problems: problems})
		}
	}

	total := len(Problems(results))
	logger.Info("catalog validated", logging.Int("entries", len(results)), logging.Int("problems", total))
	return results, nil
}

type collector struct {
	kind     catalog.Kind
	slug     string
	problems []Problem
}

func (c *collector) add(ref catalog.Ref, file, message string) {
	c.problems = append(c.problems, Problem{
		Kind:    c.kind,
		Slug:    c.slug,
		Path:    path.Join(ref.Dir(), file),
		Message: message,
	})
}

func (c *Checker) checkMovie(slug string) []Problem {
	col := &collector{kind: catalog.Movies, slug: slug}
	ref := catalog.EntryRef(catalog.Movies, slug)

	doc, ok, err := c.store.ReadMetadata(ref)
	switch {
	case err != nil:
		col.add(ref, "about.json", "invalid JSON: "+err.Error())
	case !ok:
		col.add(ref, "about.json", "missing")
	case !doc.Has("title"):
		col.add(ref, "about.json", "missing 'title' field")
	}

	list, ok, err := c.store.ReadSources(ref)
	switch {
	case errors.Is(err, catalog.ErrNotList):
		col.add(ref, "urls.json", "should be a list")
	case err != nil:
		col.add(ref, "urls.json", "invalid JSON: "+err.Error())
	case !ok:
		col.add(ref, "urls.json", "missing")
	case len(list) == 0:
		col.add(ref, "urls.json", "empty")
	}
	return col.problems
}

func (c *Checker) checkSeries(slug string) ([]Problem, error) {
	col := &collector{kind: catalog.Series, slug: slug}
	ref := catalog.EntryRef(catalog.Series, slug)

	_, ok, err := c.store.ReadMetadata(ref)
	switch {
	case err != nil:
		col.add(ref, "about.json", "invalid JSON: "+err.Error())
	case !ok:
		col.add(ref, "about.json", "missing")
	}

	seasons, err := c.store.List(ref)
	if err != nil {
		return nil, err
	}
	for _, season := range seasons {
		episodes, err := c.store.List(catalog.SeasonRef(slug, season))
		if err != nil {
			return nil, err
		}
		for _, episode := range episodes {
			epRef := catalog.EpisodeRef(slug, season, episode)
			_, _, err := c.store.ReadSources(epRef)
			switch {
			case errors.Is(err, catalog.ErrNotList):
				col.add(epRef, "urls.json", "should be a list")
			case err != nil:
				col.add(epRef, "urls.json", "invalid JSON: "+err.Error())
			}
		}
	}
	return col.problems, nil
}
