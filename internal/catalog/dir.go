package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"m3urepo/internal/fileutil"
	"m3urepo/internal/logging"
	"m3urepo/internal/services"
)

const (
	sourcesFile   = "urls.json"
	subtitlesDir  = "subtitles"
	subtitleIndex = "index.json"
	altsDir       = "alts"
	lockFile      = ".catalog.lock"
)

// Dir is the filesystem adapter for Store. Paths are resolved under root on
// the wrapped afero.Fs.
type Dir struct {
	fs     afero.Fs
	root   string
	logger *slog.Logger
}

// OpenDir returns a Dir over the operating system filesystem.
func OpenDir(root string, logger *slog.Logger) *Dir {
	return NewDir(afero.NewOsFs(), root, logger)
}

// NewDir wraps an arbitrary afero.Fs, typically afero.NewMemMapFs in tests.
func NewDir(fsys afero.Fs, root string, logger *slog.Logger) *Dir {
	return &Dir{
		fs:     fsys,
		root:   root,
		logger: logging.NewComponentLogger(logger, "catalog"),
	}
}

// Root returns the catalog root directory.
func (d *Dir) Root() string { return d.root }

// Fs exposes the underlying filesystem for read-only collaborators.
func (d *Dir) Fs() afero.Fs { return d.fs }

// Path resolves a slash-separated catalog path to a filesystem path.
func (d *Dir) Path(rel string) string {
	return filepath.Join(d.root, filepath.FromSlash(rel))
}

func (d *Dir) refPath(ref Ref, file string) string {
	if file == "" {
		return d.Path(ref.Dir())
	}
	return d.Path(path.Join(ref.Dir(), file))
}

// List implements Store.
func (d *Dir) List(ref Ref) ([]string, error) {
	dir := d.refPath(ref, "")
	switch {
	case ref.IsEpisode():
		return nil, nil
	case ref.IsSeason():
		dir = filepath.Join(dir, "e")
	case ref.Slug != "" && ref.Kind == Series:
		dir = filepath.Join(dir, "s")
	case ref.Slug != "":
		return nil, nil
	}

	infos, err := afero.ReadDir(d.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", ref, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Exists implements Store.
func (d *Dir) Exists(ref Ref) (bool, error) {
	info, err := d.fs.Stat(d.refPath(ref, ""))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// Ensure implements Store.
func (d *Dir) Ensure(ref Ref) error {
	if err := d.fs.MkdirAll(d.refPath(ref, ""), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", ref, err)
	}
	return nil
}

// readJSON decodes path into v. A missing file reports ok=false; invalid JSON
// is tagged as malformed.
func (d *Dir) readJSON(p string, v any) (bool, error) {
	data, err := afero.ReadFile(d.fs, p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", d.rel(p), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, services.Wrap(services.ErrMalformed, "catalog", "read "+d.rel(p), "invalid json", err)
	}
	return true, nil
}

func (d *Dir) rel(p string) string {
	if rel, err := filepath.Rel(d.root, p); err == nil {
		return filepath.ToSlash(rel)
	}
	return p
}

// ReadMetadata implements Store.
func (d *Dir) ReadMetadata(ref Ref) (Document, bool, error) {
	var doc Document
	ok, err := d.readJSON(d.refPath(ref, ref.MetadataFile()), &doc)
	if err != nil || !ok {
		return nil, ok, err
	}
	if doc == nil {
		return nil, false, services.Wrap(services.ErrMalformed, "catalog", "read "+ref.String(), "metadata is not a JSON object", nil)
	}
	return doc, true, nil
}

// WriteMetadata implements Store.
func (d *Dir) WriteMetadata(ref Ref, doc Document) error {
	p := d.refPath(ref, ref.MetadataFile())
	if err := fileutil.WriteJSONAtomic(d.fs, p, doc); err != nil {
		return fmt.Errorf("write %s: %w", d.rel(p), err)
	}
	d.logger.Debug("wrote metadata", logging.String("path", d.rel(p)), logging.Int("keys", len(doc)))
	return nil
}

// ReadSources implements Store.
func (d *Dir) ReadSources(ref Ref) (SourceList, bool, error) {
	var raw json.RawMessage
	p := d.refPath(ref, sourcesFile)
	ok, err := d.readJSON(p, &raw)
	if err != nil || !ok {
		return nil, ok, err
	}
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, true, services.Wrap(services.ErrMalformed, "catalog", "read "+d.rel(p), "", ErrNotList)
	}
	var list SourceList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, true, services.Wrap(services.ErrMalformed, "catalog", "read "+d.rel(p), "invalid json", err)
	}
	if list == nil {
		list = SourceList{}
	}
	return list, true, nil
}

// WriteSources implements Store.
func (d *Dir) WriteSources(ref Ref, list SourceList) error {
	if list == nil {
		list = SourceList{}
	}
	p := d.refPath(ref, sourcesFile)
	if err := fileutil.WriteJSONAtomic(d.fs, p, list); err != nil {
		return fmt.Errorf("write %s: %w", d.rel(p), err)
	}
	d.logger.Debug("wrote source list", logging.String("path", d.rel(p)), logging.Int("sources", len(list)))
	return nil
}

// EnsureSubtitles implements Store. Existing indexes are never rewritten.
func (d *Dir) EnsureSubtitles(ref Ref, languages []string) (int, error) {
	if !ref.IsEpisode() {
		return 0, fmt.Errorf("subtitles require an episode ref, got %s", ref)
	}
	created := 0
	for _, lang := range languages {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			continue
		}
		p := d.refPath(ref, path.Join(subtitlesDir, lang, subtitleIndex))
		exists, err := fileutil.Exists(d.fs, p)
		if err != nil {
			return created, fmt.Errorf("stat %s: %w", d.rel(p), err)
		}
		if exists {
			continue
		}
		if err := fileutil.WriteFileAtomic(d.fs, p, []byte("[]"), 0o644); err != nil {
			return created, fmt.Errorf("write %s: %w", d.rel(p), err)
		}
		created++
	}
	return created, nil
}

func (d *Dir) altPath(kind Kind, externalID string) (string, error) {
	id := strings.TrimSpace(externalID)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid external id %q", externalID)
	}
	return d.Path(path.Join(altsDir, string(kind), id+".json")), nil
}

// ReadAlt implements Store.
func (d *Dir) ReadAlt(kind Kind, externalID string) (AltEntry, bool, error) {
	p, err := d.altPath(kind, externalID)
	if err != nil {
		return AltEntry{}, false, err
	}
	var doc Document
	ok, err := d.readJSON(p, &doc)
	if err != nil || !ok {
		return AltEntry{}, ok, err
	}
	if doc == nil {
		doc = Document{}
	}
	return altFromDocument(doc), true, nil
}

// WriteAlt implements Store.
func (d *Dir) WriteAlt(kind Kind, externalID string, entry AltEntry) error {
	p, err := d.altPath(kind, externalID)
	if err != nil {
		return err
	}
	if err := fileutil.WriteJSONAtomic(d.fs, p, entry.document()); err != nil {
		return fmt.Errorf("write %s: %w", d.rel(p), err)
	}
	return nil
}

// LockPath is the advisory lock file guarding catalog writers.
func (d *Dir) LockPath() string {
	return filepath.Join(d.root, lockFile)
}
