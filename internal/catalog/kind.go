package catalog

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
)

// Kind selects one of the two catalog subtrees.
type Kind string

const (
	Movies Kind = "movies"
	Series Kind = "tv-series"
)

// Kinds lists every catalog kind in synthesis order.
var Kinds = []Kind{Movies, Series}

// DefaultCategory returns the category stamped on freshly created entries.
func (k Kind) DefaultCategory() string {
	if k == Series {
		return "TV Series"
	}
	return "Movies"
}

// Label returns a singular human label for log and CLI output.
func (k Kind) Label() string {
	if k == Series {
		return "series"
	}
	return "movie"
}

func (k Kind) String() string { return string(k) }

// ParseKind accepts the CLI spellings of a catalog kind.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie", "movies":
		return Movies, nil
	case "series", "tv", "tv-series", "show", "shows":
		return Series, nil
	default:
		return "", fmt.Errorf("unknown catalog kind %q (want movie or series)", value)
	}
}

// Ref addresses one node of the catalog tree. Season and Episode hold folder
// names verbatim so non-numeric folders remain addressable.
type Ref struct {
	Kind    Kind
	Slug    string
	Season  string
	Episode string
}

// EntryRef addresses a movie or series entry.
func EntryRef(kind Kind, slug string) Ref {
	return Ref{Kind: kind, Slug: slug}
}

// SeasonRef addresses a series season.
func SeasonRef(slug, season string) Ref {
	return Ref{Kind: Series, Slug: slug, Season: season}
}

// EpisodeRef addresses a series episode.
func EpisodeRef(slug, season, episode string) Ref {
	return Ref{Kind: Series, Slug: slug, Season: season, Episode: episode}
}

// IsEpisode reports whether the ref points at an episode node.
func (r Ref) IsEpisode() bool { return r.Episode != "" }

// IsSeason reports whether the ref points at a season node.
func (r Ref) IsSeason() bool { return r.Season != "" && r.Episode == "" }

// Dir returns the slash-separated directory of the node relative to the
// catalog root.
func (r Ref) Dir() string {
	parts := []string{string(r.Kind)}
	if r.Slug != "" {
		parts = append(parts, r.Slug)
	}
	if r.Season != "" {
		parts = append(parts, "s", r.Season)
	}
	if r.Episode != "" {
		parts = append(parts, "e", r.Episode)
	}
	return path.Join(parts...)
}

// MetadataFile names the metadata document of the node: info.json for
// episodes, about.json otherwise.
func (r Ref) MetadataFile() string {
	if r.IsEpisode() {
		return "info.json"
	}
	return "about.json"
}

func (r Ref) String() string { return r.Dir() }

// EpisodeLabel renders S{season}E{episode} for log output.
func (r Ref) EpisodeLabel() string {
	return fmt.Sprintf("S%sE%s", r.Season, r.Episode)
}

// NumericKey converts a season or episode folder name into its sort key.
// Names that are not made of ASCII digits sort as 0.
func NumericKey(name string) int {
	if name == "" {
		return 0
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(name)
	if err != nil {
		return 0
	}
	return n
}

// SortNumeric orders folder names by NumericKey, breaking ties by name so the
// result does not depend on directory listing order.
func SortNumeric(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		ki, kj := NumericKey(names[i]), NumericKey(names[j])
		if ki != kj {
			return ki < kj
		}
		return names[i] < names[j]
	})
}
