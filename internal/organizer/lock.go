package organizer

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"tidy/internal/logging"
	"tidy/internal/ops"
)

// acquire takes the run lock if one is configured. The returned func
// releases it.
func (o *Organizer) acquire(logger *slog.Logger) (func(), error) {
	if o.lockPath == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(o.lockPath), 0o755); err != nil {
		return nil, ops.Wrap(ops.ErrConfiguration, "organizer", "lock", "create lock directory", err)
	}

	lock := flock.New(o.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, ops.Wrap(ops.ErrTransient, "organizer", "lock", "acquire run lock", err)
	}
	if !ok {
		return nil, ops.Wrap(ops.ErrBusy, "organizer", "lock", "another organize or undo is in progress", nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			logging.WarnWithContext(logger, "failed to release run lock", "run_lock_release_failed",
				logging.String("lock", o.lockPath),
				logging.Error(err),
				logging.String(logging.FieldImpact, "lock is released when the process exits"),
			)
		}
	}, nil
}
