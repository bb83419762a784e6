package catalog

import (
	"encoding/json"
	"strings"
)

const (
	DefaultQuality  = "1080p"
	DefaultLanguage = "en"
)

// SourceRecord is one playable stream. URL is the identity of the record
// within its owning list.
type SourceRecord struct {
	Source   string `json:"source"`
	URL      string `json:"url"`
	Quality  string `json:"quality"`
	Language string `json:"language"`
}

// NewSourceRecord fills the default quality and language.
func NewSourceRecord(source, url string) SourceRecord {
	return SourceRecord{
		Source:   source,
		URL:      strings.TrimSpace(url),
		Quality:  DefaultQuality,
		Language: DefaultLanguage,
	}
}

// SourceList is a stored urls.json array. Elements stay raw so records with
// extra fields, or foreign elements, are carried through merges untouched.
type SourceList []json.RawMessage

// NewSourceList encodes records as a fresh list.
func NewSourceList(records []SourceRecord) SourceList {
	list := make(SourceList, 0, len(records))
	for _, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		list = append(list, raw)
	}
	return list
}

// urlOf returns the url field of an element when the element is an object
// with a non-empty string url.
func urlOf(raw json.RawMessage) (string, bool) {
	var rec struct {
		URL *string `json:"url"`
	}
	if err := json.Unmarshal(raw, &rec); err != nil || rec.URL == nil || *rec.URL == "" {
		return "", false
	}
	return *rec.URL, true
}

// URLs returns the url of every valid record in list order.
func (l SourceList) URLs() []string {
	urls := make([]string, 0, len(l))
	for _, raw := range l {
		if url, ok := urlOf(raw); ok {
			urls = append(urls, url)
		}
	}
	return urls
}

// Merge appends the records whose URL is not already present. Existing
// elements keep their position; new ones follow in the given order. It
// returns the combined list plus the added and skipped counts.
func (l SourceList) Merge(records []SourceRecord) (SourceList, int, int) {
	seen := make(map[string]struct{}, len(l)+len(records))
	for _, raw := range l {
		if url, ok := urlOf(raw); ok {
			seen[url] = struct{}{}
		}
	}

	merged := make(SourceList, len(l), len(l)+len(records))
	copy(merged, l)
	added, skipped := 0, 0
	for _, rec := range records {
		if _, dup := seen[rec.URL]; dup {
			skipped++
			continue
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			skipped++
			continue
		}
		seen[rec.URL] = struct{}{}
		merged = append(merged, raw)
		added++
	}
	return merged, added, skipped
}
