// Package textutil holds small text helpers shared by the catalog packages.
// Slugify derives the folder name of a catalog entry from its title.
package textutil
