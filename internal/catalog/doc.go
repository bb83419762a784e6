// Package catalog models the on-disk content catalog: movies and TV series
// entries, their season and episode subtrees, streaming source lists, and the
// alternate-id index.
//
// The Store interface treats the directory tree as a key-value database keyed
// by Ref values (kind + slug, optionally season and episode). Dir is the
// filesystem adapter; it runs on any afero.Fs so merge and playlist logic can
// be exercised against in-memory trees. Metadata documents keep unknown keys
// so merges never drop data written by other tools.
//
// Writers should hold the catalog lock (Dir.Lock) for the whole
// read-modify-write cycle; readers take no lock.
package catalog
