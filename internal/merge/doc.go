// Package merge folds parsed submissions into the catalog.
//
// A merge never deletes: metadata fields are overlaid only when the
// submission carries a non-empty value, source lists only grow, and the
// alternate-id index only gains slugs. Every existing file a merge depends on
// is read before anything is written, so malformed catalog data aborts the
// merge without a partial update.
package merge
