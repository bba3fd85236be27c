package organizer

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"tidy/internal/folders"
	"tidy/internal/logging"
	"tidy/internal/manifest"
	"tidy/internal/ops"
)

// Undo failure reason for a destination that no longer exists.
const ReasonNotFound = "not found"

// RestoredFile records one file put back. Path differs from Original when
// something already occupied the original location.
type RestoredFile struct {
	From     string
	Path     string
	Original string
}

// UndoResult is the outcome of an undo pass.
type UndoResult struct {
	ManifestID     string
	RestoredCount  int
	Errors         []FileError
	Restored       []RestoredFile
	RemovedFolders []string
}

// UndoPreview resolves ref the same way Undo does without changing anything.
// An empty ref means the most recent manifest.
func (o *Organizer) UndoPreview(ctx context.Context, ref string) (manifest.Manifest, error) {
	return o.resolve(ref)
}

// Undo reverses the manifest named by ref, or the most recent manifest when
// ref is empty. Files are restored in reverse order without overwriting
// anything. The manifest is marked undone even when some files could not be
// restored; category folders are only cleaned up when every file came back.
func (o *Organizer) Undo(ctx context.Context, ref string) (UndoResult, error) {
	ctx = ops.WithRunID(ops.WithOperation(ctx, "undo"), uuid.NewString())
	logger := logging.WithContext(ctx, o.logger)

	if err := ctx.Err(); err != nil {
		return UndoResult{}, err
	}

	release, err := o.acquire(logger)
	if err != nil {
		return UndoResult{}, err
	}
	defer release()

	m, err := o.resolve(ref)
	if err != nil {
		return UndoResult{}, err
	}
	ctx = ops.WithManifestID(ctx, m.ID)
	logger = logging.WithContext(ctx, o.logger)

	result := UndoResult{ManifestID: m.ID}
	for i := len(m.Moves) - 1; i >= 0; i-- {
		mv := m.Moves[i]
		if _, err := os.Lstat(mv.Destination); err != nil {
			reason := ReasonNotFound
			if !errors.Is(err, fs.ErrNotExist) {
				reason = "stat failed"
			}
			result.Errors = append(result.Errors, FileError{Path: mv.Destination, Reason: reason, Err: err})
			logging.WarnWithContext(logger, "file not restored", "file_restore_failed",
				logging.String("path", mv.Destination),
				logging.String("reason", reason),
				logging.String(logging.FieldErrorHint, "the file was moved or deleted after organizing"),
				logging.String(logging.FieldImpact, "file stays where it is"),
			)
			continue
		}

		restored, err := o.mover.Restore(mv.Destination, mv.Source)
		if err != nil {
			fe := FileError{Path: mv.Destination, Reason: reasonOf(err), Err: err}
			result.Errors = append(result.Errors, fe)
			logging.WarnWithContext(logger, "file not restored", "file_restore_failed",
				logging.String("path", mv.Destination),
				logging.String("reason", fe.Reason),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "move the file back by hand"),
				logging.String(logging.FieldImpact, "file stays in its category folder"),
			)
			continue
		}
		result.Restored = append(result.Restored, RestoredFile{From: mv.Destination, Path: restored, Original: mv.Source})
		logger.Info("file restored",
			logging.String("source", mv.Destination),
			logging.String("destination", restored),
			logging.Bool("renamed", restored != mv.Source),
			logging.String(logging.FieldEventType, "file_restored"),
		)
	}
	result.RestoredCount = len(result.Restored)

	if len(result.Errors) == 0 {
		cleaned := folders.RemoveEmpty(ctx, destinationFolders(m), logger)
		result.RemovedFolders = cleaned.Removed
	}

	if err := o.store.MarkUndone(m.ID); err != nil {
		return result, err
	}

	logUndoSummary(logger, result)
	return result, nil
}

func (o *Organizer) resolve(ref string) (manifest.Manifest, error) {
	ref = strings.TrimSpace(ref)
	var (
		m   manifest.Manifest
		err error
	)
	if ref == "" {
		m, err = o.store.Latest()
	} else {
		m, err = o.store.Get(ref)
	}
	if err != nil {
		return manifest.Manifest{}, err
	}
	if m.IsUndone() {
		return m, ops.Wrap(ops.ErrAlreadyUndone, "organizer", "undo", "manifest "+m.ID+" was already undone", nil)
	}
	return m, nil
}

// destinationFolders lists the distinct parent folders files were moved into.
func destinationFolders(m manifest.Manifest) []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, mv := range m.Moves {
		dir := filepath.Dir(mv.Destination)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}

func logUndoSummary(logger *slog.Logger, result UndoResult) {
	logger.Info("undo pass complete",
		logging.Int("restored", result.RestoredCount),
		logging.Int("errors", len(result.Errors)),
		logging.Int("folders_removed", len(result.RemovedFolders)),
		logging.String(logging.FieldEventType, "undo_complete"),
	)
}
