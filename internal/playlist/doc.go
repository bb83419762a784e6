// Package playlist renders the catalog as #EXTM3U playlists.
//
// Synthesis is read-only and tolerant: entries with missing or unreadable
// files are skipped, logged, and listed in the returned Report instead of
// failing the whole playlist.
package playlist
