// Package services defines shared utilities consumed by the ingestion,
// merge, and playlist components.
//
// Key responsibilities:
//   - Context helpers that stamp issue numbers, catalog kinds, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent history statuses (rejected vs failed).
//
// Use these helpers when wiring new catalog logic so operational behaviour
// (error handling, observability) stays uniform across commands.
package services
