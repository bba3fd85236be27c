package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CleanupOldLogs deletes log files in dir matching pattern that were last
// written more than retentionDays before now, and returns the removed paths.
// A retentionDays of zero keeps everything. An empty pattern matches all files.
func CleanupOldLogs(logger *slog.Logger, retentionDays int, dir, pattern string, now time.Time) []string {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return nil
	}
	if pattern = strings.TrimSpace(pattern); pattern == "" {
		pattern = "*"
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil
	}

	cutoff := now.AddDate(0, 0, -retentionDays)
	var removed []string
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "could not prune old log", "log_prune_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check ownership of log_dir"),
				String(FieldImpact, "old log stays on disk"),
			)
			continue
		}
		removed = append(removed, path)
	}
	if len(removed) > 0 && logger != nil {
		logger.Debug("pruned old logs", Int("count", len(removed)), String(FieldEventType, "logs_pruned"))
	}
	return removed
}
