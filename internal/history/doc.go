// Package history records every ingest run in a SQLite ledger.
//
// Each run stores the issue it came from, the catalog entry it touched, how
// many sources or episodes were added and skipped, and whether it succeeded,
// was rejected because of its input, or failed. The ledger is append-only;
// the layout version lives in SQLite's user_version pragma, and a ledger from
// another version is refused rather than migrated.
package history
