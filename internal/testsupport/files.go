package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"m3urepo/internal/fileutil"
)

// WriteFile stores content at path on fsys, creating parent directories.
func WriteFile(t testing.TB, fsys afero.Fs, path, content string) {
	t.Helper()

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteJSON stores v at path using the catalog encoding.
func WriteJSON(t testing.TB, fsys afero.Fs, path string, v any) {
	t.Helper()

	data, err := fileutil.MarshalJSON(v)
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	WriteFile(t, fsys, path, string(data))
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, fsys afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
