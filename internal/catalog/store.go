package catalog

import "errors"

// ErrNotList marks a urls.json whose top-level value is not an array.
var ErrNotList = errors.New("source list is not a JSON array")

// Store is the key-value view of the catalog. Read methods report ok=false
// when the addressed file does not exist; malformed files produce errors
// wrapping services.ErrMalformed.
type Store interface {
	// List returns the child folder names of ref: entries for a bare kind,
	// seasons for an entry, episodes for a season.
	List(ref Ref) ([]string, error)
	// Exists reports whether the node directory exists.
	Exists(ref Ref) (bool, error)
	// Ensure creates the node directory and its parents.
	Ensure(ref Ref) error

	ReadMetadata(ref Ref) (Document, bool, error)
	WriteMetadata(ref Ref, doc Document) error

	ReadSources(ref Ref) (SourceList, bool, error)
	WriteSources(ref Ref, list SourceList) error

	// EnsureSubtitles creates empty subtitle indexes for the given languages
	// on an episode when missing and returns how many were created.
	EnsureSubtitles(ref Ref, languages []string) (int, error)

	ReadAlt(kind Kind, externalID string) (AltEntry, bool, error)
	WriteAlt(kind Kind, externalID string, entry AltEntry) error
}
