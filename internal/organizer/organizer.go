package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tidy/internal/category"
	"tidy/internal/config"
	"tidy/internal/logging"
	"tidy/internal/manifest"
	"tidy/internal/mover"
	"tidy/internal/ops"
	"tidy/internal/scanner"
)

// Config is the per-pass input to the engine.
type Config struct {
	TargetDirectory      string
	MinimumFileAgeDays   int
	EnabledCategories    []category.Category
	CategoryFolderPrefix string
}

// FromConfig derives the engine input from loaded configuration.
func FromConfig(cfg *config.Config) Config {
	return Config{
		TargetDirectory:      cfg.Paths.TargetDir,
		MinimumFileAgeDays:   cfg.Organize.MinimumFileAgeDays,
		EnabledCategories:    cfg.Categories(),
		CategoryFolderPrefix: cfg.Organize.FolderPrefix,
	}
}

func (c Config) normalized() (Config, error) {
	target := strings.TrimSpace(c.TargetDirectory)
	if target == "" {
		return c, ops.Wrap(ops.ErrValidation, "organizer", "validate config", "target directory is required", nil)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return c, ops.Wrap(ops.ErrValidation, "organizer", "validate config", "resolve target directory", err)
	}
	if c.MinimumFileAgeDays < 0 {
		return c, ops.Wrap(ops.ErrValidation, "organizer", "validate config", "minimum file age must be >= 0", nil)
	}
	if strings.ContainsAny(c.CategoryFolderPrefix, `/\`) {
		return c, ops.Wrap(ops.ErrValidation, "organizer", "validate config", "folder prefix must not contain a path separator", nil)
	}
	c.TargetDirectory = abs
	return c, nil
}

// FolderPath returns the destination folder for cat.
func (c Config) FolderPath(cat category.Category) string {
	return filepath.Join(c.TargetDirectory, category.FolderName(c.CategoryFolderPrefix, cat))
}

// FileError is a per-file failure collected during a pass.
type FileError struct {
	Path   string
	Reason string
	Err    error
}

func (e FileError) String() string {
	if e.Err != nil && e.Err.Error() != e.Reason {
		return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Result is the outcome of an organize pass. In a dry-run Moves holds the
// planned relocations with zero timestamps and ManifestID is empty.
type Result struct {
	DryRun       bool
	MovedCount   int
	SkippedCount int
	Errors       []FileError
	ManifestID   string
	Moves        []manifest.Move
	Skipped      []scanner.Skip
}

// ManifestStore is the persistence the engine needs.
type ManifestStore interface {
	Save(m manifest.Manifest) error
	Get(id string) (manifest.Manifest, error)
	Latest() (manifest.Manifest, error)
	MarkUndone(id string) error
}

// Organizer runs organize and undo passes.
type Organizer struct {
	store     ManifestStore
	logger    *slog.Logger
	mover     *mover.Mover
	now       func() time.Time
	lockProbe scanner.LockProbe
	lockPath  string
}

// Option customizes an Organizer.
type Option func(*Organizer)

// WithClock overrides the time source used for file ages and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Organizer) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLockProbe overrides the in-use check applied to candidates.
func WithLockProbe(probe scanner.LockProbe) Option {
	return func(o *Organizer) {
		o.lockProbe = probe
	}
}

// WithRunLock guards mutating passes with an flock on path.
func WithRunLock(path string) Option {
	return func(o *Organizer) {
		o.lockPath = strings.TrimSpace(path)
	}
}

// New constructs an Organizer backed by store.
func New(store ManifestStore, logger *slog.Logger, opts ...Option) *Organizer {
	o := &Organizer{
		store:  store,
		logger: logging.NewComponentLogger(logger, "organizer"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.mover = mover.New(logger)
	return o
}

// planned pairs a candidate with where it went (or would go).
type planned struct {
	candidate   scanner.Candidate
	destination string
}

// Organize moves every eligible file in cfg.TargetDirectory into its
// category folder. With dryRun set nothing on disk changes. Per-file
// failures are collected in the result. A cancelled context stops the batch
// between files; moves already made are still recorded in a manifest and the
// context error is returned with the result. A manifest save failure is also
// returned alongside the result, whose Moves describe the files that moved.
func (o *Organizer) Organize(ctx context.Context, cfg Config, dryRun bool) (Result, error) {
	ctx = ops.WithRunID(ops.WithOperation(ctx, "organize"), uuid.NewString())
	logger := logging.WithContext(ctx, o.logger)

	cfg, err := cfg.normalized()
	if err != nil {
		return Result{DryRun: dryRun}, err
	}

	if !dryRun {
		release, err := o.acquire(logger)
		if err != nil {
			return Result{DryRun: dryRun}, err
		}
		defer release()
	}

	result, _, runErr := o.run(ctx, logger, cfg, dryRun)
	if runErr != nil && result.MovedCount == 0 {
		return result, runErr
	}

	if !dryRun && result.MovedCount > 0 {
		m := manifest.New(o.now(), cfg.TargetDirectory, result.Moves)
		if err := o.store.Save(m); err != nil {
			logging.ErrorWithContext(logger, "manifest save failed; moved files cannot be undone automatically", "manifest_save_failed",
				logging.Error(err),
				logging.Int("moved", result.MovedCount),
				logging.String(logging.FieldErrorHint, "check permissions on data_dir/history"),
			)
			return result, errors.Join(
				ops.Wrap(ops.ErrTransient, "organizer", "save manifest", "files were moved but the undo record was not written", err),
				runErr,
			)
		}
		result.ManifestID = m.ID
		logger = logger.With(logging.String(logging.FieldManifestID, m.ID))
	}

	logger.Info("organize pass complete",
		logging.Bool("dry_run", dryRun),
		logging.Int("moved", result.MovedCount),
		logging.Int("skipped", result.SkippedCount),
		logging.Int("errors", len(result.Errors)),
		logging.String(logging.FieldEventType, "organize_complete"),
	)
	return result, runErr
}

// run scans and then moves (or plans) each candidate in name order.
func (o *Organizer) run(ctx context.Context, logger *slog.Logger, cfg Config, dryRun bool) (Result, []planned, error) {
	result := Result{DryRun: dryRun}

	scan, err := scanner.Scan(ctx, cfg.TargetDirectory, scanner.Options{
		MinAgeDays: cfg.MinimumFileAgeDays,
		Enabled:    category.NewSet(cfg.EnabledCategories...),
		Now:        o.now,
		LockProbe:  o.lockProbe,
		Logger:     logger,
	})
	if err != nil {
		return result, nil, err
	}
	result.Skipped = scan.Skipped
	result.SkippedCount = len(scan.Skipped)

	var (
		items    []planned
		reserved = mover.Reservations{}
	)
	for _, cand := range scan.Candidates {
		if err := ctx.Err(); err != nil {
			logging.WarnWithContext(logger, "organize pass cancelled", "organize_cancelled",
				logging.Int("remaining", len(scan.Candidates)-len(items)-len(result.Errors)),
				logging.String(logging.FieldImpact, "remaining files were left in place"),
				logging.String(logging.FieldErrorHint, "run organize again to finish"),
			)
			result.MovedCount = len(result.Moves)
			return result, items, err
		}

		destDir := cfg.FolderPath(cand.Category)
		var (
			dest    string
			moveErr error
		)
		if dryRun {
			dest, moveErr = o.mover.Plan(cand.Path, destDir, reserved)
		} else {
			dest, moveErr = o.mover.Move(cand.Path, destDir)
		}
		if moveErr != nil {
			fe := FileError{Path: cand.Path, Reason: reasonOf(moveErr), Err: moveErr}
			result.Errors = append(result.Errors, fe)
			logging.WarnWithContext(logger, "file not moved", "file_move_failed",
				logging.String("path", cand.Path),
				logging.String("reason", fe.Reason),
				logging.Error(moveErr),
				logging.String(logging.FieldErrorHint, "check permissions on the file and category folder"),
				logging.String(logging.FieldImpact, "file left in place"),
			)
			continue
		}

		record := manifest.Move{
			Source:      cand.Path,
			Destination: dest,
			Category:    cand.Category,
		}
		if !dryRun {
			record.Timestamp = o.now().UTC()
			logger.Info("file moved",
				logging.String("source", cand.Path),
				logging.String("destination", dest),
				logging.String("category", string(cand.Category)),
				logging.Bytes("size_bytes", cand.Size),
				logging.String(logging.FieldEventType, "file_moved"),
			)
		}
		result.Moves = append(result.Moves, record)
		items = append(items, planned{candidate: cand, destination: dest})
	}

	result.MovedCount = len(result.Moves)
	return result, items, nil
}

func reasonOf(err error) string {
	var moveErr *mover.MoveError
	if errors.As(err, &moveErr) {
		return moveErr.Reason
	}
	return err.Error()
}
