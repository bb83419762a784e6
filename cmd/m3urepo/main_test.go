package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const movieIssue = `### Movie Title

Arrival

### Release Year

2016

### Source

Community Mirror

### Primary Streaming URL

https://cdn.example/arrival.m3u8

### Alternative URLs (Optional)

https://mirror.example/arrival.m3u8

### IMDB ID (Optional)

tt2543164`

const seriesIssue = `### Series Title

Foo

### Episodes URLs

### Season 1
#### Episodes
**URLs:**
- https://cdn.example/foo/s1e1.m3u8
- https://cdn.example/foo/s1e2.m3u8`

func TestIngestPlaylistRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t)
	bodyPath := writeIssueBody(t, env.baseDir, movieIssue)

	stdout, _, err := runCLI(t, []string{"ingest", "movie", "--issue", "#42", "--body-file", bodyPath}, env.configPath)
	if err != nil {
		t.Fatalf("ingest movie: %v", err)
	}
	requireContains(t, stdout, "created issue #42: movie arrival-2016 (added 2, skipped 0)")

	if _, err := os.Stat(env.catalogPath("movies", "arrival-2016", "urls.json")); err != nil {
		t.Fatalf("expected urls.json: %v", err)
	}

	stdout, _, err = runCLI(t, []string{"ingest", "movie", "--body-file", bodyPath}, env.configPath)
	if err != nil {
		t.Fatalf("re-ingest movie: %v", err)
	}
	requireContains(t, stdout, "updated movie arrival-2016 (added 0, skipped 2)")

	stdout, _, err = runCLI(t, []string{"playlist", "movies"}, env.configPath)
	if err != nil {
		t.Fatalf("playlist: %v", err)
	}
	requireContains(t, stdout, "[OK]")
	requireContains(t, stdout, "1 entries, 2 streams")

	data, err := os.ReadFile(filepath.Join(env.repoRoot, "movies.m3u"))
	if err != nil {
		t.Fatalf("read playlist: %v", err)
	}
	playlist := string(data)
	if !strings.HasPrefix(playlist, "#EXTM3U") {
		t.Fatalf("playlist missing header: %q", playlist)
	}
	requireContains(t, playlist, `group-title="Movies",Arrival (2016)`)
	requireContains(t, playlist, "https://mirror.example/arrival.m3u8")
}

func TestPlaylistStdout(t *testing.T) {
	env := setupCLITestEnv(t)
	bodyPath := writeIssueBody(t, env.baseDir, seriesIssue)
	if _, _, err := runCLI(t, []string{"ingest", "series", "--body-file", bodyPath}, env.configPath); err != nil {
		t.Fatalf("ingest series: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"playlist", "series", "--stdout"}, env.configPath)
	if err != nil {
		t.Fatalf("playlist --stdout: %v", err)
	}
	requireContains(t, stdout, "Foo Temporada 1 - S1E1")
	requireContains(t, stdout, "Foo Temporada 1 - S1E2")
	if _, err := os.Stat(filepath.Join(env.repoRoot, "tv-series.m3u")); !os.IsNotExist(err) {
		t.Fatalf("expected no playlist file with --stdout, got %v", err)
	}

	if _, _, err := runCLI(t, []string{"playlist", "all", "--stdout"}, env.configPath); err == nil {
		t.Fatal("expected --stdout with every kind to fail")
	}
}

func TestIngestRejectsIssueWithoutURL(t *testing.T) {
	env := setupCLITestEnv(t)
	body := "### Movie Title\n\nInception\n\n### Release Year\n\n2010"

	_, _, err := runCLI(t, []string{"ingest", "movie", "--body", body}, env.configPath)
	if err == nil {
		t.Fatal("expected ingest without a streaming URL to fail")
	}
	requireContains(t, err.Error(), "ingest movie failed")
	if _, statErr := os.Stat(env.catalogPath("movies", "inception-2010")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no catalog entry, got %v", statErr)
	}

	stdout, _, err := runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var runs []historyEntry
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != "rejected" || runs[0].Title != "Inception" {
		t.Fatalf("unexpected history %+v", runs)
	}
}

func TestIngestRequiresBody(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"ingest", "movie"}, env.configPath)
	if err == nil {
		t.Fatal("expected missing body to fail")
	}
	requireContains(t, err.Error(), "issue body is required")
}

func TestHistoryTable(t *testing.T) {
	env := setupCLITestEnv(t)
	bodyPath := writeIssueBody(t, env.baseDir, movieIssue)
	if _, _, err := runCLI(t, []string{"ingest", "movie", "--issue", "7", "--body-file", bodyPath}, env.configPath); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"history", "--kind", "movies"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, stdout, "arrival-2016")
	requireContains(t, stdout, "Totals: succeeded 1, rejected 0, failed 0")

	stdout, _, err = runCLI(t, []string{"history", "--status", "failed"}, env.configPath)
	if err != nil {
		t.Fatalf("history --status: %v", err)
	}
	requireContains(t, stdout, "No ingest runs recorded")

	if _, _, err := runCLI(t, []string{"history", "--status", "pending"}, env.configPath); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestCatalogListAndAlts(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"catalog", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	requireContains(t, stdout, "Catalog is empty")

	bodyPath := writeIssueBody(t, env.baseDir, movieIssue)
	if _, _, err := runCLI(t, []string{"ingest", "movie", "--body-file", bodyPath}, env.configPath); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if err := os.MkdirAll(env.catalogPath("movies", "stub"), 0o755); err != nil {
		t.Fatalf("mkdir stub: %v", err)
	}

	stdout, _, err = runCLI(t, []string{"catalog", "list", "movies", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list --json: %v", err)
	}
	var rows []catalogRow
	if err := json.Unmarshal([]byte(stdout), &rows); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected reserved folder to be hidden, got %+v", rows)
	}
	if rows[0].Slug != "arrival-2016" || rows[0].Title != "Arrival" || rows[0].Year != "2016" || rows[0].Streams != 2 {
		t.Fatalf("unexpected row %+v", rows[0])
	}

	stdout, _, err = runCLI(t, []string{"catalog", "alts", "tt2543164"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog alts: %v", err)
	}
	requireContains(t, stdout, "movies tt2543164: Arrival")
	requireContains(t, stdout, "- arrival-2016")

	if _, _, err := runCLI(t, []string{"catalog", "alts", "tt0000000", "--kind", "movies"}, env.configPath); err == nil {
		t.Fatal("expected unknown id to fail")
	}
}

func TestValidateCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	bodyPath := writeIssueBody(t, env.baseDir, movieIssue)
	if _, _, err := runCLI(t, []string{"ingest", "movie", "--body-file", bodyPath}, env.configPath); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"validate"}, env.configPath)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, stdout)
	}
	requireContains(t, stdout, "Validation complete. Entries: 1, problems: 0")

	broken := env.catalogPath("movies", "broken")
	if err := os.MkdirAll(broken, 0o755); err != nil {
		t.Fatalf("mkdir broken: %v", err)
	}
	if err := os.WriteFile(filepath.Join(broken, "about.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write about: %v", err)
	}

	stdout, _, err = runCLI(t, []string{"validate"}, env.configPath)
	if err == nil {
		t.Fatal("expected validation problems")
	}
	requireContains(t, err.Error(), "validation found 2 problem(s)")
	requireContains(t, stdout, "[ERROR] 2 problem(s)")
	requireContains(t, stdout, "invalid JSON")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "init", "config.toml")

	stdout, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, stdout, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init without --overwrite to fail")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	stdout, _, err = runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, stdout, "Config path: "+env.configPath)
	requireContains(t, stdout, "Catalog: "+filepath.Join(env.repoRoot, "api"))
	requireContains(t, stdout, "Subtitles: English (en), Indonesian (id)")
	requireContains(t, stdout, "Configuration valid")
}

func TestConfigRejectsUnknownKeys(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[paths]\nrepo = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := runCLI(t, []string{"catalog", "list"}, env.configPath); err == nil {
		t.Fatal("expected unknown config key to fail")
	}
}
