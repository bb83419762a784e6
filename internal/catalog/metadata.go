package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"m3urepo/internal/textutil"
)

// Metadata is the typed view of an entry's descriptive fields as produced by
// the issue parser. Zero values mean "absent".
type Metadata struct {
	Title        string `json:"title,omitempty"`
	Year         int    `json:"year,omitempty"`
	Category     string `json:"category,omitempty"`
	Cover        string `json:"cover,omitempty"`
	Summary      string `json:"summary,omitempty"`
	IMDbID       string `json:"imdb_id,omitempty"`
	TMDbID       string `json:"tmdb_id,omitempty"`
	Genre        string `json:"genre,omitempty"`
	Status       string `json:"status,omitempty"`
	TotalSeasons int    `json:"total_seasons,omitempty"`
}

// Field is one present metadata value keyed by its JSON name.
type Field struct {
	Key   string
	Value any
}

// Fields returns the non-empty fields in canonical order. Category is never
// included; it is owned by the entry, not by submissions.
func (m Metadata) Fields() []Field {
	fields := make([]Field, 0, 9)
	add := func(key string, value any, present bool) {
		if present {
			fields = append(fields, Field{Key: key, Value: value})
		}
	}
	add("title", m.Title, strings.TrimSpace(m.Title) != "")
	add("year", m.Year, m.Year != 0)
	add("summary", m.Summary, m.Summary != "")
	add("cover", m.Cover, m.Cover != "")
	add("imdb_id", m.IMDbID, m.IMDbID != "")
	add("tmdb_id", m.TMDbID, m.TMDbID != "")
	add("genre", m.Genre, m.Genre != "")
	add("total_seasons", m.TotalSeasons, m.TotalSeasons != 0)
	add("status", m.Status, m.Status != "")
	return fields
}

// HasTitle reports whether the record carries a usable title.
func (m Metadata) HasTitle() bool {
	return strings.TrimSpace(m.Title) != ""
}

// ExternalID returns the id used for the alternate index.
func (m Metadata) ExternalID() string {
	return strings.TrimSpace(m.IMDbID)
}

// MovieSlug derives the catalog key of a movie: slugified title plus year.
func MovieSlug(m Metadata) string {
	slug := textutil.Slugify(m.Title)
	if m.Year != 0 {
		slug = slug + "-" + strconv.Itoa(m.Year)
	}
	return slug
}

// SeriesSlug derives the catalog key of a series from its title alone.
func SeriesSlug(m Metadata) string {
	return textutil.Slugify(m.Title)
}

// SlugFor dispatches to MovieSlug or SeriesSlug.
func SlugFor(kind Kind, m Metadata) string {
	if kind == Series {
		return SeriesSlug(m)
	}
	return MovieSlug(m)
}

// Document is a metadata record as stored on disk. Values are kept raw so
// keys this package does not know about round-trip unchanged.
type Document map[string]json.RawMessage

// NewDocument builds a fresh metadata record: title, the given category, and
// only the optional fields that are present.
func NewDocument(m Metadata, category string) Document {
	doc := Document{}
	doc.set("category", category)
	for _, f := range m.Fields() {
		doc.set(f.Key, f.Value)
	}
	return doc
}

// Overlay copies every present field of m over d and returns the result.
// Fields absent from m keep their stored value, so a blank submission can
// never erase data; a non-empty submission always wins (last writer per
// field).
func (d Document) Overlay(m Metadata) Document {
	out := make(Document, len(d)+4)
	for k, v := range d {
		out[k] = v
	}
	for _, f := range m.Fields() {
		out.set(f.Key, f.Value)
	}
	return out
}

func (d Document) set(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	d[key] = raw
}

// Has reports whether key is present, whatever its value.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns the value of key when it is a JSON string.
func (d Document) String(key string) (string, bool) {
	raw, ok := d[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// StringOr returns the string value of key, or fallback when the key is
// missing or not a string.
func (d Document) StringOr(key, fallback string) string {
	if s, ok := d.String(key); ok {
		return s
	}
	return fallback
}

// Text renders the value of key for display and reports whether it is set to
// something non-empty. Strings render verbatim, numbers as their literal;
// null, false, zero, and empty values report false.
func (d Document) Text(key string) (string, bool) {
	raw, ok := d[key]
	if !ok {
		return "", false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, s != ""
	case 'n', 'f':
		return "", false
	case 't':
		return "True", true
	case '[', '{':
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", false
		}
		switch val := v.(type) {
		case []any:
			return string(raw), len(val) > 0
		case map[string]any:
			return string(raw), len(val) > 0
		}
		return "", false
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || f == 0 {
			return "", false
		}
		return string(raw), true
	}
}

// Int returns the value of key when it is a JSON number or numeric string.
func (d Document) Int(key string) (int, bool) {
	text, ok := d.Text(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Metadata decodes the typed view of the document on a best-effort basis.
func (d Document) Metadata() Metadata {
	var m Metadata
	m.Title, _ = d.String("title")
	m.Year, _ = d.Int("year")
	m.Category, _ = d.String("category")
	m.Cover, _ = d.String("cover")
	m.Summary, _ = d.String("summary")
	m.IMDbID, _ = d.String("imdb_id")
	m.TMDbID, _ = d.Text("tmdb_id")
	m.Genre, _ = d.String("genre")
	m.Status, _ = d.String("status")
	m.TotalSeasons, _ = d.Int("total_seasons")
	return m
}

// DisplayTitle renders "{title} ({year})" when the document carries a year,
// otherwise the title alone. Missing titles fall back to the given name.
func (d Document) DisplayTitle(fallback string) string {
	title := d.StringOr("title", fallback)
	if year, ok := d.Text("year"); ok {
		return title + " (" + year + ")"
	}
	return title
}
