package issueparse_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"m3urepo/internal/catalog"
	"m3urepo/internal/issueparse"
	"m3urepo/internal/services"
)

const arrivalForm = `### Movie Title

Arrival

### Release Year

2016

### Source

Community Mirror

### Primary Streaming URL

https://cdn.example/arrival.m3u8

### Alternative URLs (Optional)

https://mirror.example/arrival.m3u8
not a url
  https://mirror2.example/arrival.m3u8

### IMDB ID (Optional)

tt2543164

### Cover/Poster URL (Optional)

https://img.example/arrival.jpg

### Summary (Optional)

A linguist is recruited by the military.
They have to talk to the visitors.`

func urlsOf(records []catalog.SourceRecord) []string {
	urls := make([]string, 0, len(records))
	for _, r := range records {
		urls = append(urls, r.URL)
	}
	return urls
}

func TestParseMovieIssueForm(t *testing.T) {
	rec, err := issueparse.Parse(catalog.Movies, arrivalForm)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.Format != issueparse.FormatIssueForm {
		t.Fatalf("expected issue form, got %s", rec.Format)
	}
	want := catalog.Metadata{
		Title:   "Arrival",
		Year:    2016,
		IMDbID:  "tt2543164",
		Cover:   "https://img.example/arrival.jpg",
		Summary: "A linguist is recruited by the military.\nThey have to talk to the visitors.",
	}
	if rec.Metadata != want {
		t.Fatalf("unexpected metadata:\n got %+v\nwant %+v", rec.Metadata, want)
	}
	wantURLs := []string{
		"https://cdn.example/arrival.m3u8",
		"https://mirror.example/arrival.m3u8",
		"https://mirror2.example/arrival.m3u8",
	}
	if !reflect.DeepEqual(urlsOf(rec.Sources), wantURLs) {
		t.Fatalf("unexpected urls %v", urlsOf(rec.Sources))
	}
	for _, src := range rec.Sources {
		if src.Source != "Community Mirror" || src.Quality != "1080p" || src.Language != "en" {
			t.Fatalf("unexpected source record %+v", src)
		}
	}
	if rec.StreamCount() != 3 {
		t.Fatalf("unexpected stream count %d", rec.StreamCount())
	}
}

func TestParseMovieIssueFormNoResponse(t *testing.T) {
	text := `### Movie Title

Dune

### Release Year

_No response_

### Primary Streaming URL

https://cdn.example/dune.m3u8

### Alternative URLs (Optional)

_No response_

### IMDB ID (Optional)

_No response_

### Summary (Optional)

_No response_`

	rec, err := issueparse.Parse(catalog.Movies, text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.Metadata != (catalog.Metadata{Title: "Dune"}) {
		t.Fatalf("expected only a title, got %+v", rec.Metadata)
	}
	if len(rec.Sources) != 1 || rec.Sources[0].Source != "GitHub Issue Form" {
		t.Fatalf("expected one source with the default label, got %+v", rec.Sources)
	}
}

func TestParseEmptySectionFollowedByHeading(t *testing.T) {
	text := "### Movie Title\n\nHer\n\n### Summary (Optional)\n\n### IMDB ID (Optional)\n\ntt1798709"
	rec, err := issueparse.Parse(catalog.Movies, text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.Metadata.Summary != "" {
		t.Fatalf("summary should be absent, got %q", rec.Metadata.Summary)
	}
	if rec.Metadata.IMDbID != "tt1798709" {
		t.Fatalf("unexpected imdb id %q", rec.Metadata.IMDbID)
	}
}

func TestParseMovieWithoutURLHasNoSources(t *testing.T) {
	text := "### Movie Title\n\nArrival\n\n### Release Year\n\n2016\n"
	rec, err := issueparse.Parse(catalog.Movies, text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rec.Sources) != 0 {
		t.Fatalf("expected no sources, got %+v", rec.Sources)
	}
	if got := catalog.MovieSlug(rec.Metadata); got != "arrival-2016" {
		t.Fatalf("unexpected slug %q", got)
	}
}

func TestParseMovieLegacyTemplate(t *testing.T) {
	text := "## Movie Request\n\n" +
		"**Title:** The Matrix\n" +
		"**Year:** 1999\n" +
		"**Primary URL:** https://cdn.example/matrix.m3u8\n\n" +
		"**Alternative URLs (one per line):**\n" +
		"```\n" +
		"https://alt.example/matrix1.m3u8\n" +
		"ftp://ignored.example/matrix\n" +
		"https://alt.example/matrix2.m3u8\n" +
		"```\n"

	rec, err := issueparse.Parse(catalog.Movies, text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.Format != issueparse.FormatLegacy {
		t.Fatalf("expected legacy format, got %s", rec.Format)
	}
	if rec.Metadata.Title != "The Matrix" || rec.Metadata.Year != 1999 {
		t.Fatalf("unexpected metadata %+v", rec.Metadata)
	}
	want := []string{
		"https://cdn.example/matrix.m3u8",
		"https://alt.example/matrix1.m3u8",
		"https://alt.example/matrix2.m3u8",
	}
	if !reflect.DeepEqual(urlsOf(rec.Sources), want) {
		t.Fatalf("unexpected urls %v", urlsOf(rec.Sources))
	}
	if rec.Sources[0].Source != "GitHub Issue" {
		t.Fatalf("unexpected source label %q", rec.Sources[0].Source)
	}
}

const seriesForm = `### Series Title

Foo

### Release Year

2020

### Source

Fansub

### Series Status (Optional)

Ongoing

### Episodes URLs

### Season 1
#### Episodes
**URLs:**
- https://a.example/s1e1.m3u8
- https://a.example/s1e2.m3u8

### Season 2
#### Episodes
**URLs:**
- https://b.example/s2e1.m3u8

### IMDB ID (Optional)

tt0000001`

func TestParseSeriesIssueForm(t *testing.T) {
	rec, err := issueparse.Parse(catalog.Series, seriesForm)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.Metadata.Title != "Foo" || rec.Metadata.Year != 2020 || rec.Metadata.Status != "ongoing" || rec.Metadata.IMDbID != "tt0000001" {
		t.Fatalf("unexpected metadata %+v", rec.Metadata)
	}
	if got := rec.Episodes.Seasons(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("unexpected seasons %v", got)
	}
	if got := urlsOf(rec.Episodes[1][2]); !reflect.DeepEqual(got, []string{"https://a.example/s1e2.m3u8"}) {
		t.Fatalf("unexpected S1E2 %v", got)
	}
	if got := rec.Episodes[2][1]; len(got) != 1 || got[0].Source != "Fansub" {
		t.Fatalf("unexpected S2E1 %+v", got)
	}
	if rec.StreamCount() != 3 {
		t.Fatalf("unexpected episode count %d", rec.StreamCount())
	}
	if got := catalog.SeriesSlug(rec.Metadata); got != "foo" {
		t.Fatalf("series slug should ignore year, got %q", got)
	}
}

func TestParseSeriesLegacyTemplate(t *testing.T) {
	text := "**Title:** Foo\n**Year:** 2020\n\n" +
		"## Episodes Data\n" +
		"Paste one URL per episode below.\n" +
		"### Season 1\n" +
		"#### Episodes\n" +
		"**URLs:**\n" +
		"- https://x.example/1.m3u8\n" +
		"- https://x.example/2.m3u8\n" +
		"---\n" +
		"### Season 9\n#### Episodes\n**URLs:**\n- https://ignored.example/9.m3u8\n"

	rec, err := issueparse.Parse(catalog.Series, text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.Format != issueparse.FormatLegacy {
		t.Fatalf("expected legacy format, got %s", rec.Format)
	}
	if got := rec.Episodes.Seasons(); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("expected only season 1 before the rule, got %v", got)
	}
	if rec.Episodes[1][2][0].Source != "GitHub Issue" {
		t.Fatalf("unexpected source label %+v", rec.Episodes[1][2])
	}
}

func TestParseMissingTitle(t *testing.T) {
	for _, kind := range catalog.Kinds {
		rec, err := issueparse.Parse(kind, "### Release Year\n\n2016\n")
		if !errors.Is(err, issueparse.ErrMissingTitle) || !errors.Is(err, services.ErrValidation) {
			t.Fatalf("%s: expected missing title validation error, got %v", kind, err)
		}
		if rec.Metadata.Year != 2016 {
			t.Fatalf("%s: partial record should be returned, got %+v", kind, rec.Metadata)
		}
	}
}

func TestParseNormalizesCRLF(t *testing.T) {
	text := strings.ReplaceAll(arrivalForm, "\n", "\r\n")
	rec, err := issueparse.Parse(catalog.Movies, text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.Metadata.Title != "Arrival" || len(rec.Sources) != 3 {
		t.Fatalf("unexpected record from CRLF text: %+v", rec)
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		kind catalog.Kind
		text string
		want issueparse.Format
	}{
		{catalog.Movies, "### Movie Title\n\nX", issueparse.FormatIssueForm},
		{catalog.Movies, "### Release Year\n\n2000", issueparse.FormatIssueForm},
		{catalog.Movies, "### Series Title\n\nX", issueparse.FormatLegacy},
		{catalog.Series, "### Series Title\n\nX", issueparse.FormatIssueForm},
		{catalog.Series, "**Title:** X", issueparse.FormatLegacy},
	}
	for _, tc := range cases {
		if got := issueparse.Detect(tc.kind, tc.text); got != tc.want {
			t.Fatalf("Detect(%s, %q) = %s, want %s", tc.kind, tc.text, got, tc.want)
		}
	}
}
