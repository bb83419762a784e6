package playlist_test

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"m3urepo/internal/catalog"
	"m3urepo/internal/issueparse"
	"m3urepo/internal/merge"
	"m3urepo/internal/playlist"
	"m3urepo/internal/testsupport"
)

const preamble = "#EXTM3U\n# This file is auto-generated. It will be updated after a PR merge or a push to the main branch."

func newSynth(t *testing.T) (*playlist.Synthesizer, *catalog.Dir, afero.Fs) {
	t.Helper()
	dir, fsys := testsupport.MemCatalog(t)
	return playlist.NewSynthesizerWithReserved(dir, []string{"stub"}, nil), dir, fsys
}

func TestMoviePlaylist(t *testing.T) {
	s, _, fsys := newSynth(t)
	root := testsupport.CatalogRoot + "/movies/"
	testsupport.WriteFile(t, fsys, root+"b-movie/about.json", `{"title":"B Movie","category":"Cult","cover":"https://img/b.jpg"}`)
	testsupport.WriteFile(t, fsys, root+"b-movie/urls.json", `[{"url":"https://b/1"},{"url":""},"junk",{"source":"x"},{"url":"https://b/2"}]`)
	testsupport.WriteFile(t, fsys, root+"a-movie/about.json", `{"title":"A Movie","year":1999}`)
	testsupport.WriteFile(t, fsys, root+"a-movie/urls.json", `[{"url":"https://a/1"}]`)
	testsupport.WriteFile(t, fsys, root+"stub/about.json", `{"title":"Stub"}`)
	testsupport.WriteFile(t, fsys, root+"stub/urls.json", `[{"url":"https://stub/1"}]`)
	testsupport.WriteFile(t, fsys, root+"no-urls/about.json", `{"title":"No URLs"}`)
	testsupport.WriteFile(t, fsys, root+"empty/about.json", `{"title":"Empty"}`)
	testsupport.WriteFile(t, fsys, root+"empty/urls.json", `[]`)
	testsupport.WriteFile(t, fsys, root+"broken/about.json", `{"title":`)
	testsupport.WriteFile(t, fsys, root+"broken/urls.json", `[{"url":"https://broken/1"}]`)
	testsupport.WriteFile(t, fsys, root+"object/about.json", `{"title":"Object"}`)
	testsupport.WriteFile(t, fsys, root+"object/urls.json", `{"url":"https://object/1"}`)

	got, report, err := s.MoviePlaylist(context.Background())
	if err != nil {
		t.Fatalf("MoviePlaylist: %v", err)
	}
	want := preamble + "\n" +
		"\n#EXTINF:-1 tvg-logo=\"\" group-title=\"Movies\",A Movie (1999)\nhttps://a/1\n" +
		"\n#EXTINF:-1 tvg-logo=\"https://img/b.jpg\" group-title=\"Cult\",B Movie\nhttps://b/1\nhttps://b/2"
	if got != want {
		t.Fatalf("unexpected playlist:\n%s", got)
	}
	if report.Entries != 2 || report.Streams != 3 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Skips) != 4 {
		t.Fatalf("expected four skips, got %+v", report.Skips)
	}
	if report.Warnings() != 2 {
		t.Fatalf("expected broken and object to be malformed, got %+v", report.Skips)
	}
}

func TestMoviePlaylistEmptyCatalog(t *testing.T) {
	s, _, _ := newSynth(t)
	got, report, err := s.MoviePlaylist(context.Background())
	if err != nil {
		t.Fatalf("MoviePlaylist: %v", err)
	}
	if got != preamble || report.Entries != 0 {
		t.Fatalf("unexpected output %q %+v", got, report)
	}
}

func TestSeriesPlaylist(t *testing.T) {
	s, _, fsys := newSynth(t)
	root := testsupport.CatalogRoot + "/tv-series/foo/"
	testsupport.WriteFile(t, fsys, root+"about.json", `{"title":"Foo","year":2020,"cover":"https://img/foo.jpg"}`)
	testsupport.WriteFile(t, fsys, root+"s/10/e/1/urls.json", `[{"url":"https://foo/s10e1"}]`)
	testsupport.WriteFile(t, fsys, root+"s/2/about.json", `{"title":"Foo: Part Two","cover":"https://img/foo2.jpg"}`)
	testsupport.WriteFile(t, fsys, root+"s/2/e/10/urls.json", `[{"url":"https://foo/s2e10"}]`)
	testsupport.WriteFile(t, fsys, root+"s/2/e/2/urls.json", `[{"url":"https://foo/s2e2"}]`)
	testsupport.WriteFile(t, fsys, root+"s/2/e/2/info.json", `{"title":"The Return"}`)
	testsupport.WriteFile(t, fsys, root+"s/2/e/3/urls.json", `[]`)
	testsupport.WriteFile(t, fsys, root+"s/extra/e/1/urls.json", `[{"url":"https://foo/extra"}]`)
	testsupport.WriteFile(t, fsys, testsupport.CatalogRoot+"/tv-series/no-about/s/1/e/1/urls.json", `[{"url":"https://x/1"}]`)
	testsupport.WriteFile(t, fsys, testsupport.CatalogRoot+"/tv-series/bad/about.json", `nope`)
	testsupport.WriteFile(t, fsys, testsupport.CatalogRoot+"/tv-series/bad/s/1/e/1/urls.json", `[{"url":"https://bad/1"}]`)

	got, report, err := s.SeriesPlaylist(context.Background())
	if err != nil {
		t.Fatalf("SeriesPlaylist: %v", err)
	}
	want := preamble + "\n" +
		"\n#EXTINF:-1 tvg-logo=\"https://img/foo.jpg\" group-title=\"Foo Temporada extra\",Foo Temporada extra - SextraE1\nhttps://foo/extra\n" +
		"\n#EXTINF:-1 tvg-logo=\"https://img/foo2.jpg\" group-title=\"Foo: Part Two\",Foo Temporada 2 - S2E2 - The Return\nhttps://foo/s2e2\n" +
		"\n#EXTINF:-1 tvg-logo=\"https://img/foo2.jpg\" group-title=\"Foo: Part Two\",Foo Temporada 2 - S2E10\nhttps://foo/s2e10\n" +
		"\n#EXTINF:-1 tvg-logo=\"https://img/foo.jpg\" group-title=\"Foo Temporada 10\",Foo Temporada 10 - S10E1\nhttps://foo/s10e1"
	if got != want {
		t.Fatalf("unexpected playlist:\n%s", got)
	}
	if report.Entries != 4 || report.Warnings() != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestSeriesPlaylistMalformedOptionalMetadata(t *testing.T) {
	s, _, fsys := newSynth(t)
	root := testsupport.CatalogRoot + "/tv-series/foo/"
	testsupport.WriteFile(t, fsys, root+"about.json", `{"title":"Foo"}`)
	testsupport.WriteFile(t, fsys, root+"s/1/about.json", `{`)
	testsupport.WriteFile(t, fsys, root+"s/1/e/1/info.json", `{`)
	testsupport.WriteFile(t, fsys, root+"s/1/e/1/urls.json", `[{"url":"https://foo/1"}]`)

	got, report, err := s.SeriesPlaylist(context.Background())
	if err != nil {
		t.Fatalf("SeriesPlaylist: %v", err)
	}
	if !strings.HasSuffix(got, "group-title=\"Foo Temporada 1\",Foo Temporada 1 - S1E1\nhttps://foo/1") {
		t.Fatalf("unexpected playlist:\n%s", got)
	}
	if len(report.Degraded) != 2 || report.Entries != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestMergeThenSynthesizeRoundTrip(t *testing.T) {
	s, dir, _ := newSynth(t)
	m := merge.NewMergerWithLanguages(dir, []string{"en", "id"}, nil)
	ctx := context.Background()

	movie, err := issueparse.Parse(catalog.Movies, "### Movie Title\n\nArrival\n\n### Release Year\n\n2016\n\n### Primary Streaming URL\n\nhttps://a/arrival.m3u8\n")
	if err != nil {
		t.Fatalf("Parse movie: %v", err)
	}
	if _, err := m.MergeMovie(ctx, movie.Metadata, movie.Sources); err != nil {
		t.Fatalf("MergeMovie: %v", err)
	}
	got, _, err := s.MoviePlaylist(ctx)
	if err != nil {
		t.Fatalf("MoviePlaylist: %v", err)
	}
	want := preamble + "\n\n#EXTINF:-1 tvg-logo=\"\" group-title=\"Movies\",Arrival (2016)\nhttps://a/arrival.m3u8"
	if got != want {
		t.Fatalf("unexpected movie playlist:\n%s", got)
	}

	series, err := issueparse.Parse(catalog.Series, "### Series Title\n\nFoo\n\n### Episodes URLs\n\n### Season 1\n#### Episodes\n**URLs:**\n- https://f/1\n- https://f/2\n")
	if err != nil {
		t.Fatalf("Parse series: %v", err)
	}
	if _, err := m.MergeSeries(ctx, series.Metadata, series.Episodes); err != nil {
		t.Fatalf("MergeSeries: %v", err)
	}
	got, report, err := s.SeriesPlaylist(ctx)
	if err != nil {
		t.Fatalf("SeriesPlaylist: %v", err)
	}
	want = preamble + "\n" +
		"\n#EXTINF:-1 tvg-logo=\"\" group-title=\"Foo Temporada 1\",Foo Temporada 1 - S1E1\nhttps://f/1\n" +
		"\n#EXTINF:-1 tvg-logo=\"\" group-title=\"Foo Temporada 1\",Foo Temporada 1 - S1E2\nhttps://f/2"
	if got != want || report.Entries != 2 {
		t.Fatalf("unexpected series playlist:\n%s", got)
	}
}
