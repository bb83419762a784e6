package playlist

import (
	"strings"

	"github.com/spf13/afero"

	"m3urepo/internal/fileutil"
)

const (
	header        = "#EXTM3U"
	generatedNote = "# This file is auto-generated. It will be updated after a PR merge or a push to the main branch."
)

// Entry is one playable item of a playlist.
type Entry struct {
	Name  string
	Group string
	Logo  string
	URLs  []string
}

func (e Entry) render() string {
	var b strings.Builder
	b.WriteString("\n#EXTINF:-1 tvg-logo=\"")
	b.WriteString(e.Logo)
	b.WriteString("\" group-title=\"")
	b.WriteString(e.Group)
	b.WriteString("\",")
	b.WriteString(e.Name)
	b.WriteString("\n")
	b.WriteString(strings.Join(e.URLs, "\n"))
	return b.String()
}

// Render produces the playlist text: the header lines followed by one block
// per entry, joined by newlines without a trailing newline.
func Render(entries []Entry) string {
	lines := make([]string, 0, len(entries)+2)
	lines = append(lines, header, generatedNote)
	for _, e := range entries {
		lines = append(lines, e.render())
	}
	return strings.Join(lines, "\n")
}

// WriteFile replaces path with content atomically.
func WriteFile(fsys afero.Fs, path, content string) error {
	return fileutil.WriteFileAtomic(fsys, path, []byte(content), 0o644)
}
