package catalog_test

import (
	"reflect"
	"testing"

	"m3urepo/internal/catalog"
)

func TestParseKind(t *testing.T) {
	cases := map[string]catalog.Kind{
		"movie":     catalog.Movies,
		"Movies":    catalog.Movies,
		"series":    catalog.Series,
		"tv-series": catalog.Series,
		" TV ":      catalog.Series,
	}
	for input, want := range cases {
		got, err := catalog.ParseKind(input)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := catalog.ParseKind("music"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestRefLayout(t *testing.T) {
	cases := []struct {
		ref  catalog.Ref
		dir  string
		meta string
	}{
		{catalog.EntryRef(catalog.Movies, "arrival-2016"), "movies/arrival-2016", "about.json"},
		{catalog.EntryRef(catalog.Series, "foo"), "tv-series/foo", "about.json"},
		{catalog.SeasonRef("foo", "2"), "tv-series/foo/s/2", "about.json"},
		{catalog.EpisodeRef("foo", "2", "10"), "tv-series/foo/s/2/e/10", "info.json"},
	}
	for _, tc := range cases {
		if got := tc.ref.Dir(); got != tc.dir {
			t.Fatalf("Dir() = %q, want %q", got, tc.dir)
		}
		if got := tc.ref.MetadataFile(); got != tc.meta {
			t.Fatalf("MetadataFile() = %q, want %q", got, tc.meta)
		}
	}
}

func TestSortNumeric(t *testing.T) {
	names := []string{"10", "2", "extras", "1", "b-side", "03"}
	catalog.SortNumeric(names)
	want := []string{"b-side", "extras", "1", "2", "03", "10"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("SortNumeric = %v, want %v", names, want)
	}
}

func TestNumericKey(t *testing.T) {
	if catalog.NumericKey("12") != 12 || catalog.NumericKey("1a") != 0 || catalog.NumericKey("") != 0 || catalog.NumericKey("-1") != 0 {
		t.Fatal("unexpected numeric keys")
	}
}
