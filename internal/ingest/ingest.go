package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"m3urepo/internal/catalog"
	"m3urepo/internal/config"
	"m3urepo/internal/history"
	"m3urepo/internal/issueparse"
	"m3urepo/internal/logging"
	"m3urepo/internal/merge"
	"m3urepo/internal/services"
)

var (
	// ErrNoSources rejects movie submissions without any stream URL.
	ErrNoSources = errors.New("no streaming URL")
	// ErrNoEpisodes rejects series submissions without any episode URL.
	ErrNoEpisodes = errors.New("no episode with a streaming URL")
)

// Recorder persists run outcomes. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, run history.Run) (history.Run, error)
}

// Request is one submission.
type Request struct {
	// Issue is the tracker issue number; it is only echoed and logged.
	Issue string
	Kind  catalog.Kind
	Body  string
}

// Result describes a completed ingest run.
type Result struct {
	RunID   string
	Issue   string
	Kind    catalog.Kind
	Format  issueparse.Format
	Slug    string
	Title   string
	Created bool
	Added   int
	Skipped int

	Movie  *merge.MovieResult
	Series *merge.SeriesResult
}

// Summary renders the one-line outcome printed by the CLI.
func (r Result) Summary() string {
	verb := "updated"
	if r.Created {
		verb = "created"
	}
	subject := r.Kind.Label() + " " + r.Slug
	if r.Issue != "" {
		subject = fmt.Sprintf("issue #%s: %s", r.Issue, subject)
	}
	return fmt.Sprintf("%s %s (added %d, skipped %d)", verb, subject, r.Added, r.Skipped)
}

// Ingestor wires the parser, merger, lock, and ledger together.
type Ingestor struct {
	locker      catalog.Locker
	merger      *merge.Merger
	recorder    Recorder
	lockTimeout time.Duration
	logger      *slog.Logger
	newRunID    func() string
}

// NewIngestor constructs an ingestor over dir. hist may be nil when the
// ledger is disabled.
func NewIngestor(cfg *config.Config, dir *catalog.Dir, hist *history.Store, logger *slog.Logger) *Ingestor {
	var recorder Recorder
	if hist != nil {
		recorder = hist
	}
	timeout := time.Duration(cfg.LockTimeoutSeconds()) * time.Second
	return NewIngestorWithDependencies(dir, merge.NewMerger(cfg, dir, logger), recorder, timeout, logger)
}

// NewIngestorWithDependencies allows injecting collaborators (used in tests).
func NewIngestorWithDependencies(locker catalog.Locker, merger *merge.Merger, recorder Recorder, lockTimeout time.Duration, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		locker:      locker,
		merger:      merger,
		recorder:    recorder,
		lockTimeout: lockTimeout,
		logger:      logging.NewComponentLogger(logger, "ingest"),
		newRunID:    uuid.NewString,
	}
}

// Run ingests req. Validation failures wrap services.ErrValidation and leave
// the catalog untouched. Every attempt, successful or not, is recorded when a
// Recorder is configured.
func (i *Ingestor) Run(ctx context.Context, req Request) (Result, error) {
	issue := strings.TrimPrefix(strings.TrimSpace(req.Issue), "#")
	result := Result{RunID: i.newRunID(), Issue: issue, Kind: req.Kind}

	ctx = services.WithRequestID(ctx, result.RunID)
	ctx = services.WithKind(ctx, req.Kind.String())
	if issue != "" {
		ctx = services.WithIssue(ctx, issue)
	}
	logger := logging.WithContext(ctx, i.logger)
	started := time.Now()
	logger.Info("ingest started", logging.Int("body_bytes", len(req.Body)))

	err := i.run(ctx, req, &result)
	i.record(ctx, logger, result, err)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			logging.WarnWithContext(logger, "ingest rejected", "ingest_rejected",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "edit the issue so it carries a title and at least one stream URL"),
				logging.String(logging.FieldImpact, "catalog unchanged"),
			)
		} else {
			logging.ErrorWithContext(logger, "ingest failed", "ingest_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "inspect the catalog files named in the error"),
			)
		}
		return result, err
	}

	logger.Info(
		"ingest completed",
		logging.String(logging.FieldSlug, result.Slug),
		logging.Bool("created", result.Created),
		logging.Int("added", result.Added),
		logging.Int("skipped", result.Skipped),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

func (i *Ingestor) run(ctx context.Context, req Request, result *Result) error {
	if req.Kind != catalog.Movies && req.Kind != catalog.Series {
		return services.Wrap(services.ErrValidation, "ingest", "ingest", fmt.Sprintf("unknown kind %q", req.Kind), nil)
	}
	op := "ingest " + req.Kind.Label()

	rec, err := issueparse.Parse(req.Kind, req.Body)
	result.Format = rec.Format
	result.Title = rec.Metadata.Title
	if err != nil {
		return err
	}
	result.Slug = catalog.SlugFor(req.Kind, rec.Metadata)
	if rec.StreamCount() == 0 {
		if req.Kind == catalog.Series {
			return services.Wrap(services.ErrValidation, "ingest", op, "", ErrNoEpisodes)
		}
		return services.Wrap(services.ErrValidation, "ingest", op, "", ErrNoSources)
	}

	unlock, err := i.lock(ctx)
	if err != nil {
		return services.Wrap(services.ErrTransient, "ingest", op, "catalog lock", err)
	}
	defer func() {
		if err := unlock(); err != nil {
			logging.WithContext(ctx, i.logger).Warn("catalog unlock failed", logging.Error(err))
		}
	}()

	if req.Kind == catalog.Series {
		res, err := i.merger.MergeSeries(ctx, rec.Metadata, rec.Episodes)
		if err != nil {
			return err
		}
		result.Series = &res
		result.Slug, result.Created, result.Added, result.Skipped = res.Slug, res.Created, res.Added, res.Skipped
		return nil
	}
	res, err := i.merger.MergeMovie(ctx, rec.Metadata, rec.Sources)
	if err != nil {
		return err
	}
	result.Movie = &res
	result.Slug, result.Created, result.Added, result.Skipped = res.Slug, res.Created, res.Added, res.Skipped
	return nil
}

func (i *Ingestor) lock(ctx context.Context) (func() error, error) {
	if i.locker == nil {
		return func() error { return nil }, nil
	}
	lockCtx := ctx
	if i.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, i.lockTimeout)
		defer cancel()
	}
	return i.locker.Lock(lockCtx)
}

// record writes the ledger row. Ledger failures are logged and never change
// the outcome of the ingest.
func (i *Ingestor) record(ctx context.Context, logger *slog.Logger, result Result, runErr error) {
	if i.recorder == nil {
		return
	}
	run := history.Run{
		RunID:   result.RunID,
		Issue:   result.Issue,
		Kind:    result.Kind.String(),
		Slug:    result.Slug,
		Title:   result.Title,
		Added:   result.Added,
		Skipped: result.Skipped,
		Status:  history.StatusSucceeded,
	}
	if runErr != nil {
		run.Status = services.FailureStatus(runErr)
		run.Error = runErr.Error()
	}
	if _, err := i.recorder.Record(context.WithoutCancel(ctx), run); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run missing from the ingest ledger"),
		)
	}
}
