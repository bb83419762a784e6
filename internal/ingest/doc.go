// Package ingest runs one submission through the catalog: parse the issue
// text, reject inputs without streams, take the catalog writer lock, merge,
// and record the outcome in the history ledger.
package ingest
