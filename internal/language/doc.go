// Package language normalizes the language codes used for subtitle
// placeholder folders. Configuration may name a language by its ISO 639-1 or
// 639-2 code or by its English name; the catalog always stores the two-letter
// code.
package language
