package issueparse

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"m3urepo/internal/catalog"
	"m3urepo/internal/services"
)

// ErrMissingTitle is returned when no title could be extracted. It is always
// wrapped with services.ErrValidation.
var ErrMissingTitle = errors.New("title is required")

const (
	formSourceDefault = "GitHub Issue Form"
	legacySource      = "GitHub Issue"
)

// Format identifies which text layout a record was parsed from.
type Format string

const (
	FormatIssueForm Format = "issue-form"
	FormatLegacy    Format = "legacy"
)

// Record is the typed result of parsing one submission.
type Record struct {
	Kind     catalog.Kind
	Format   Format
	Metadata catalog.Metadata
	// Source is the label stamped on every extracted stream.
	Source string
	// Sources holds movie streams in text order: primary first, then
	// alternates.
	Sources []catalog.SourceRecord
	// Episodes holds series streams keyed by season and episode number.
	Episodes Episodes
}

// rule binds one extractor to the record field it fills.
type rule struct {
	field   string
	extract extractor
	apply   func(r *Record, value string)
}

// grammar is the ordered rule table for one layout and kind. The source
// label is resolved before any rule runs so URL rules can stamp it.
type grammar struct {
	format Format
	source func(text string) string
	rules  []rule
}

func (g grammar) parse(kind catalog.Kind, text string) Record {
	rec := Record{Kind: kind, Format: g.format, Source: g.source(text)}
	for _, r := range g.rules {
		if value, ok := r.extract(text); ok {
			r.apply(&rec, value)
		}
	}
	return rec
}

var lower = cases.Lower(language.Und)

func setTitle(r *Record, v string) { r.Metadata.Title = strings.TrimSpace(v) }

func setYear(r *Record, v string) {
	if year, err := strconv.Atoi(v); err == nil {
		r.Metadata.Year = year
	}
}

func setIMDbID(r *Record, v string) { r.Metadata.IMDbID = v }

func setCover(r *Record, v string) { r.Metadata.Cover = v }

func setSummary(r *Record, v string) { r.Metadata.Summary = v }

func setStatus(r *Record, v string) { r.Metadata.Status = lower.String(v) }

func addURL(r *Record, v string) {
	r.Sources = append(r.Sources, catalog.NewSourceRecord(r.Source, v))
}

func addURLLines(r *Record, v string) {
	for _, url := range urlLines(v) {
		addURL(r, url)
	}
}

func setEpisodes(r *Record, v string) {
	r.Episodes = ParseEpisodes(v, r.Source)
}

const (
	yearPattern  = `\d{4}`
	urlPattern   = `https?://\S+`
	imdbPattern  = `tt\d+`
	linePattern  = `.+`
	seasonHeader = `(?i)^### Season \d+`
)

var (
	formSource = headingLine("Source", linePattern)

	formShared = []rule{
		{"year", headingLine("Release Year", yearPattern), setYear},
		{"imdb_id", headingLine(`IMDB ID \(Optional\)`, imdbPattern), setIMDbID},
		{"cover", headingLine(`Cover/Poster URL \(Optional\)`, urlPattern), setCover},
		{"summary", headingSection(`Summary \(Optional\)`, nil), setSummary},
	}

	seasonHeading = mustMatcher(seasonHeader)

	movieForm = grammar{
		format: FormatIssueForm,
		source: labelOr(formSource, formSourceDefault),
		rules: append([]rule{
			{"title", headingLine("Movie Title", linePattern), setTitle},
			{"primary_url", headingLine("Primary Streaming URL", urlPattern), addURL},
			{"alternative_urls", headingSection(`Alternative URLs \(Optional\)`, nil), addURLLines},
		}, formShared...),
	}

	seriesForm = grammar{
		format: FormatIssueForm,
		source: labelOr(formSource, formSourceDefault),
		rules: append([]rule{
			{"title", headingLine("Series Title", linePattern), setTitle},
			{"status", headingLine(`Series Status \(Optional\)`, linePattern), setStatus},
			{"episodes", headingSection("Episodes URLs", seasonHeading), setEpisodes},
		}, formShared...),
	}

	legacyShared = []rule{
		{"title", inlineField("Title", linePattern), setTitle},
		{"year", inlineField("Year", yearPattern), setYear},
	}

	movieLegacy = grammar{
		format: FormatLegacy,
		source: fixedLabel(legacySource),
		rules: append(append([]rule(nil), legacyShared...),
			rule{"primary_url", inlineField("Primary URL", urlPattern), addURL},
			rule{"alternative_urls", fencedBlock("Alternative URLs"), addURLLines},
		),
	}

	seriesLegacy = grammar{
		format: FormatLegacy,
		source: fixedLabel(legacySource),
		rules: append(append([]rule(nil), legacyShared...),
			rule{"episodes", afterMarker(`(?is)## Episodes Data\s*.*?\n`, "---"), setEpisodes},
		),
	}
)

func labelOr(ex extractor, fallback string) func(string) string {
	return func(text string) string {
		if v, ok := ex(text); ok {
			return v
		}
		return fallback
	}
}

func fixedLabel(label string) func(string) string {
	return func(string) string { return label }
}

// Detect reports which layout text uses for the given kind.
func Detect(kind catalog.Kind, text string) Format {
	titleHeading := "### Movie Title"
	if kind == catalog.Series {
		titleHeading = "### Series Title"
	}
	if strings.Contains(text, titleHeading) || strings.Contains(text, "### Release Year") {
		return FormatIssueForm
	}
	return FormatLegacy
}

func grammarFor(kind catalog.Kind, format Format) grammar {
	switch {
	case kind == catalog.Series && format == FormatIssueForm:
		return seriesForm
	case kind == catalog.Series:
		return seriesLegacy
	case format == FormatIssueForm:
		return movieForm
	default:
		return movieLegacy
	}
}

// Parse extracts a Record of the given kind from text. Optional fields that
// are absent or malformed are simply left empty; a missing title returns the
// partial record together with an error wrapping ErrMissingTitle.
func Parse(kind catalog.Kind, text string) (Record, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	rec := grammarFor(kind, Detect(kind, text)).parse(kind, text)
	if !rec.Metadata.HasTitle() {
		return rec, services.Wrap(services.ErrValidation, "issueparse", "parse "+kind.Label(), "", ErrMissingTitle)
	}
	return rec, nil
}

// StreamCount returns the number of extracted streams for either kind.
func (r Record) StreamCount() int {
	if r.Kind == catalog.Series {
		return r.Episodes.Count()
	}
	return len(r.Sources)
}
