package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"m3urepo/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	recorded, err := store.Record(ctx, history.Run{
		RunID:   "run-1",
		Issue:   "12",
		Kind:    "movies",
		Slug:    "arrival-2016",
		Title:   "Arrival",
		Added:   2,
		Skipped: 1,
		Status:  history.StatusSucceeded,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if recorded.ID == 0 || recorded.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", recorded)
	}

	got, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Slug != "arrival-2016" || got.Added != 2 || got.Skipped != 1 || !got.Succeeded() {
		t.Fatalf("unexpected run %+v", got)
	}

	missing, err := store.Get(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing run, got %+v err=%v", missing, err)
	}
}

func TestRecordRequiresIdentity(t *testing.T) {
	store := openStore(t)
	if _, err := store.Record(context.Background(), history.Run{Kind: "movies", Status: history.StatusFailed}); err == nil {
		t.Fatal("expected error without run id")
	}
	if _, err := store.Record(context.Background(), history.Run{RunID: "x", Kind: "movies"}); err == nil {
		t.Fatal("expected error without status")
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	runs := []history.Run{
		{RunID: "a", Issue: "1", Kind: "movies", Status: history.StatusSucceeded, CreatedAt: base},
		{RunID: "b", Issue: "2", Kind: "tv-series", Status: history.StatusRejected, Error: "no episodes", CreatedAt: base.Add(time.Minute)},
		{RunID: "c", Issue: "3", Kind: "movies", Status: history.StatusFailed, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, run := range runs {
		if _, err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record %s: %v", run.RunID, err)
		}
	}

	all, err := store.List(ctx, history.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].RunID != "c" || all[2].RunID != "a" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	movies, err := store.List(ctx, history.Filter{Kind: "movies", Statuses: []history.Status{history.StatusSucceeded, history.StatusFailed}, Limit: 1})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(movies) != 1 || movies[0].RunID != "c" {
		t.Fatalf("unexpected filtered runs %+v", movies)
	}

	byIssue, err := store.List(ctx, history.Filter{Issue: "2"})
	if err != nil {
		t.Fatalf("List by issue: %v", err)
	}
	if len(byIssue) != 1 || byIssue[0].Error != "no episodes" {
		t.Fatalf("unexpected issue runs %+v", byIssue)
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	for _, status := range history.AllStatuses() {
		if counts[status] != 1 {
			t.Fatalf("expected one %s run, got %v", status, counts)
		}
	}
}

func TestRunIDIsUnique(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	run := history.Run{RunID: "dup", Kind: "movies", Status: history.StatusSucceeded}
	if _, err := store.Record(ctx, run); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Record(ctx, run); err == nil {
		t.Fatal("expected duplicate run id to fail")
	}
}

func TestReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Record(context.Background(), history.Run{RunID: "keep", Kind: "movies", Status: history.StatusSucceeded}); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if got, err := reopened.Get(context.Background(), "keep"); err != nil || got == nil {
		t.Fatalf("expected row to survive reopen, got %+v err=%v", got, err)
	}
}

func TestOpenRefusesForeignLedgerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("PRAGMA user_version = 7"); err != nil {
		t.Fatalf("stamp version: %v", err)
	}
	_ = db.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := history.ParseStatus(" Rejected "); err != nil || s != history.StatusRejected {
		t.Fatalf("ParseStatus = %q, %v", s, err)
	}
	if _, err := history.ParseStatus("pending"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
