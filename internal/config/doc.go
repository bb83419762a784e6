// Package config loads, normalizes, and validates m3urepo configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the M3UREPO_ROOT environment fallback for the
// repository checkout. Catalog and playlist locations are resolved relative to
// the repository root so commands can run from any working directory.
package config
