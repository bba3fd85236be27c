package mover

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"tidy/internal/fileutil"
	"tidy/internal/logging"
)

// MaxCollisionAttempts bounds the suffix search: the plain name plus
// suffixes _2 through _1000.
const MaxCollisionAttempts = 1000

// Failure reasons carried by MoveError.
const (
	ReasonCreateDir          = "create destination folder failed"
	ReasonCollisionExhausted = "collision exhausted"
	ReasonSourceMissing      = "not found"
	ReasonRename             = "rename failed"
	ReasonStat               = "stat destination failed"
	ReasonCopy               = "copy failed"
	ReasonRemoveSource       = "remove source failed"
)

// ErrCollisionExhausted is matched by MoveErrors whose suffix search ran out.
var ErrCollisionExhausted = errors.New("collision exhausted")

// MoveError describes a failed relocation. The source is unchanged.
type MoveError struct {
	Source      string
	Destination string
	Reason      string
	Err         error
}

func (e *MoveError) Error() string {
	msg := fmt.Sprintf("move %s: %s", e.Source, e.Reason)
	if e.Destination != "" {
		msg = fmt.Sprintf("move %s -> %s: %s", e.Source, e.Destination, e.Reason)
	}
	if e.Err != nil && e.Err.Error() != e.Reason {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MoveError) Unwrap() error { return e.Err }

// Reservations holds destination paths already promised to earlier planned
// moves, so a dry-run never plans the same path twice.
type Reservations map[string]struct{}

// Mover performs collision-safe relocations.
type Mover struct {
	logger *slog.Logger

	rename func(oldPath, newPath string) error
	copy   func(src, dst string) error
	remove func(path string) error
}

// New constructs a Mover.
func New(logger *slog.Logger) *Mover {
	return &Mover{
		logger: logging.NewComponentLogger(logger, "mover"),
		rename: renameNoReplace,
		copy:   fileutil.CopyFileVerified,
		remove: os.Remove,
	}
}

// Move relocates src into destDir, creating destDir if needed, and returns
// the final destination path.
func (m *Mover) Move(src, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", &MoveError{Source: src, Reason: ReasonCreateDir, Err: err}
	}
	return m.relocate(src, destDir, filepath.Base(src))
}

// Restore moves current back to original, applying the same suffix policy if
// something now occupies original. The parent of original is recreated if
// it was removed. It returns the path the file was restored to.
func (m *Mover) Restore(current, original string) (string, error) {
	dir := filepath.Dir(original)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &MoveError{Source: current, Reason: ReasonCreateDir, Err: err}
	}
	return m.relocate(current, dir, filepath.Base(original))
}

// Plan computes where Move would put src without touching the filesystem.
// The chosen path is added to reserved when reserved is non-nil.
func (m *Mover) Plan(src, destDir string, reserved Reservations) (string, error) {
	target, err := nextFree(destDir, filepath.Base(src), reserved)
	if err != nil {
		return "", &MoveError{Source: src, Reason: reasonFor(err), Err: err}
	}
	if reserved != nil {
		reserved[target] = struct{}{}
	}
	return target, nil
}

func (m *Mover) relocate(src, dir, name string) (string, error) {
	if _, err := os.Lstat(src); err != nil {
		reason := ReasonRename
		if errors.Is(err, fs.ErrNotExist) {
			reason = ReasonSourceMissing
		}
		return "", &MoveError{Source: src, Reason: reason, Err: err}
	}

	// The rename refuses to replace an existing path, so a name claimed
	// after nextFree checked it is retried under the next free suffix.
	var target string
	var renameErr error
	for attempt := 0; attempt < MaxCollisionAttempts; attempt++ {
		next, err := nextFree(dir, name, nil)
		if err != nil {
			return "", &MoveError{Source: src, Reason: reasonFor(err), Err: err}
		}
		target = next
		renameErr = m.rename(src, target)
		if !errors.Is(renameErr, fs.ErrExist) {
			break
		}
		m.logger.Debug("destination claimed before rename; retrying",
			logging.String("destination", target),
		)
	}
	switch {
	case renameErr == nil:
		return target, nil
	case errors.Is(renameErr, fs.ErrExist):
		return "", &MoveError{Source: src, Reason: ReasonCollisionExhausted, Err: ErrCollisionExhausted}
	case !isCrossDevice(renameErr):
		return "", &MoveError{Source: src, Destination: target, Reason: ReasonRename, Err: renameErr}
	}

	m.logger.Debug("rename crossed devices; copying",
		logging.String("source", src),
		logging.String("destination", target),
	)
	return m.copyThenRemove(src, dir, name, target)
}

// copyThenRemove is the cross-device path. The copy is exclusive-create, so
// a destination claimed between the existence check and the copy is retried
// under the next free name.
func (m *Mover) copyThenRemove(src, dir, name, target string) (string, error) {
	copied := false
	for attempt := 0; attempt < MaxCollisionAttempts && !copied; attempt++ {
		err := m.copy(src, target)
		switch {
		case err == nil:
			copied = true
		case errors.Is(err, fs.ErrExist):
			next, nextErr := nextFree(dir, name, nil)
			if nextErr != nil {
				return "", &MoveError{Source: src, Reason: reasonFor(nextErr), Err: nextErr}
			}
			target = next
		default:
			return "", &MoveError{Source: src, Destination: target, Reason: ReasonCopy, Err: err}
		}
	}
	if !copied {
		return "", &MoveError{Source: src, Reason: ReasonCollisionExhausted, Err: ErrCollisionExhausted}
	}

	if err := m.remove(src); err != nil {
		if cleanupErr := m.remove(target); cleanupErr != nil {
			logging.WarnWithContext(m.logger, "failed to remove copied file after source removal failed; duplicate remains", "move_cleanup_failed",
				logging.String("source", src),
				logging.String("destination", target),
				logging.Error(cleanupErr),
				logging.String(logging.FieldErrorHint, "delete the duplicate at the destination manually"),
				logging.String(logging.FieldImpact, "file exists in both locations"),
			)
		}
		return "", &MoveError{Source: src, Destination: target, Reason: ReasonRemoveSource, Err: err}
	}
	return target, nil
}

// nextFree returns the first candidate in dir for name that neither exists
// nor is reserved.
func nextFree(dir, name string, reserved Reservations) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for attempt := 1; attempt <= MaxCollisionAttempts; attempt++ {
		candidate := name
		if attempt > 1 {
			candidate = fmt.Sprintf("%s_%d%s", stem, attempt, ext)
		}
		path := filepath.Join(dir, candidate)
		if _, taken := reserved[path]; taken {
			continue
		}
		exists, err := fileutil.Exists(path)
		if err != nil {
			return "", err
		}
		if !exists {
			return path, nil
		}
	}
	return "", ErrCollisionExhausted
}

func reasonFor(err error) string {
	if errors.Is(err, ErrCollisionExhausted) {
		return ReasonCollisionExhausted
	}
	return ReasonStat
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}
