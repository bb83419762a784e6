package issueparse

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"m3urepo/internal/catalog"
)

// Episodes maps season number to episode number to the streams submitted for
// that episode.
type Episodes map[int]map[int][]catalog.SourceRecord

// Seasons returns the season numbers in ascending order.
func (e Episodes) Seasons() []int {
	seasons := make([]int, 0, len(e))
	for season := range e {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)
	return seasons
}

// EpisodeNumbers returns the episode numbers of season in ascending order.
func (e Episodes) EpisodeNumbers(season int) []int {
	eps := make([]int, 0, len(e[season]))
	for ep := range e[season] {
		eps = append(eps, ep)
	}
	sort.Ints(eps)
	return eps
}

// Count returns the total number of episodes across all seasons.
func (e Episodes) Count() int {
	n := 0
	for _, season := range e {
		n += len(season)
	}
	return n
}

var (
	seasonMarker = regexp.MustCompile(`(?i)### Season (\d+)`)
	episodeList  = regexp.MustCompile(`(?i)#### Episodes\s*\*\*URLs:\*\*\s*\n((?:- .*\n?)*)`)
	bulletURL    = regexp.MustCompile(`(https?://\S+)`)
)

func mustMatcher(pattern string) func(string) bool {
	return regexp.MustCompile(pattern).MatchString
}

// ParseEpisodes reads an episode block: "### Season N" markers, each followed
// by a "#### Episodes" / "**URLs:**" bullet list. Every bullet carrying a URL
// becomes the next episode of that season, numbered from 1. Seasons without
// URLs are omitted; a repeated season number replaces the earlier one.
func ParseEpisodes(text, source string) Episodes {
	episodes := Episodes{}
	markers := seasonMarker.FindAllStringSubmatchIndex(text, -1)
	for i, m := range markers {
		season, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		if streams := parseSeasonSpan(text[m[1]:end], source); len(streams) > 0 {
			episodes[season] = streams
		}
	}
	return episodes
}

func parseSeasonSpan(span, source string) map[int][]catalog.SourceRecord {
	m := episodeList.FindStringSubmatch(span)
	if m == nil {
		return nil
	}
	streams := map[int][]catalog.SourceRecord{}
	next := 1
	for _, line := range strings.Split(strings.TrimSpace(m[1]), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") || !strings.Contains(line, "http") {
			continue
		}
		url := bulletURL.FindString(line)
		if url == "" {
			continue
		}
		streams[next] = append(streams[next], catalog.NewSourceRecord(source, url))
		next++
	}
	return streams
}
