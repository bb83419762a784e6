// Package main hosts the m3urepo CLI entrypoint and command graph.
//
// The Cobra command tree ingests issue submissions into the catalog,
// regenerates the playlists, validates the catalog tree, inspects entries and
// the ingest history, and serves a read-only preview over HTTP. Configuration
// resolution and logger construction live in commandContext so subcommands
// only wire internal packages together.
package main
