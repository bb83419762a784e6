package catalog

import (
	"encoding/json"
	"slices"
)

// AltEntry is one record of the alternate-id index: an external id (IMDb
// style) mapped to the slugs known to represent it.
type AltEntry struct {
	Type  Kind
	Title string
	Slugs []string

	doc Document
}

// NewAltEntry starts an index entry for the first slug seen with an id.
func NewAltEntry(kind Kind, title, slug string) AltEntry {
	return AltEntry{Type: kind, Title: title, Slugs: []string{slug}}
}

// AddSlug appends slug when it is not already listed and reports whether
// the entry changed.
func (a *AltEntry) AddSlug(slug string) bool {
	if slices.Contains(a.Slugs, slug) {
		return false
	}
	a.Slugs = append(a.Slugs, slug)
	return true
}

func altFromDocument(doc Document) AltEntry {
	entry := AltEntry{doc: doc}
	if t, ok := doc.String("type"); ok {
		entry.Type = Kind(t)
	}
	entry.Title, _ = doc.String("title")
	if raw, ok := doc["slug"]; ok {
		var slugs []string
		if err := json.Unmarshal(raw, &slugs); err == nil {
			entry.Slugs = slugs
		}
	}
	return entry
}

func (a AltEntry) document() Document {
	out := make(Document, len(a.doc)+3)
	for k, v := range a.doc {
		out[k] = v
	}
	if a.Type != "" {
		out.set("type", string(a.Type))
	}
	if a.Title != "" {
		out.set("title", a.Title)
	}
	slugs := a.Slugs
	if slugs == nil {
		slugs = []string{}
	}
	out.set("slug", slugs)
	return out
}
