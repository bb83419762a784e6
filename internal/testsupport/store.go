package testsupport

import (
	"testing"

	"github.com/spf13/afero"

	"m3urepo/internal/catalog"
	"m3urepo/internal/config"
	"m3urepo/internal/history"
)

// CatalogRoot is the root used by MemCatalog.
const CatalogRoot = "/repo/api"

// MemCatalog returns a catalog.Dir backed by an in-memory filesystem.
func MemCatalog(t testing.TB) (*catalog.Dir, afero.Fs) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	return catalog.NewDir(fsys, CatalogRoot, nil), fsys
}

// MustOpenHistory opens the ingest ledger for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
