// Package folders inspects and tidies up the category folders an organize
// pass creates under the target directory.
package folders

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tidy/internal/category"
	"tidy/internal/logging"
)

// CleanResult contains the outcome of an empty-folder cleanup.
type CleanResult struct {
	Removed []string
	Kept    []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// RemoveEmpty removes each directory in dirs that exists and has no entries.
// Non-empty directories and paths that are not directories are kept; missing
// paths are ignored.
func RemoveEmpty(ctx context.Context, dirs []string, logger *slog.Logger) CleanResult {
	result := CleanResult{}
	seen := make(map[string]struct{}, len(dirs))

	for _, dir := range dirs {
		if ctx.Err() != nil {
			break
		}
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		if _, dup := seen[dir]; dup {
			continue
		}
		seen[dir] = struct{}{}

		info, err := os.Lstat(dir)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
			}
			continue
		}
		if !info.IsDir() {
			result.Kept = append(result.Kept, dir)
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
			continue
		}
		if len(entries) > 0 {
			result.Kept = append(result.Kept, dir)
			continue
		}

		// os.Remove refuses a directory that gained an entry since ReadDir.
		if err := os.Remove(dir); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
			logging.WarnWithContext(logger, "failed to remove empty category folder", "folder_cleanup_failed",
				logging.String("path", dir),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check target directory permissions"),
				logging.String(logging.FieldImpact, "empty folder remains"),
			)
			continue
		}
		result.Removed = append(result.Removed, dir)
		if logger != nil {
			logger.Info("removed empty category folder",
				logging.String("path", dir),
				logging.String(logging.FieldEventType, "folder_removed"),
			)
		}
	}

	return result
}

// DirInfo contains metadata about a category folder.
type DirInfo struct {
	Name     string
	Path     string
	Category category.Category
	ModTime  time.Time
	Files    int
	Size     int64
}

// List returns the category folders directly under root, in canonical
// category order. Only folders named prefix+Category are included.
func List(root, prefix string) ([]DirInfo, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, nil
	}

	var dirs []DirInfo
	for _, cat := range category.All() {
		name := category.FolderName(prefix, cat)
		dirPath := filepath.Join(root, name)
		info, err := os.Stat(dirPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if !info.IsDir() {
			continue
		}
		files, size := dirUsage(dirPath)
		dirs = append(dirs, DirInfo{
			Name:     name,
			Path:     dirPath,
			Category: cat,
			ModTime:  info.ModTime(),
			Files:    files,
			Size:     size,
		})
	}
	return dirs, nil
}

// dirUsage counts regular files and their total size recursively.
func dirUsage(path string) (int, int64) {
	var (
		files int
		size  int64
	)
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // best effort
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				files++
				size += info.Size()
			}
		}
		return nil
	})
	return files, size
}

// SortBySize orders dirs largest first, breaking ties by name.
func SortBySize(dirs []DirInfo) {
	sort.SliceStable(dirs, func(i, j int) bool {
		if dirs[i].Size != dirs[j].Size {
			return dirs[i].Size > dirs[j].Size
		}
		return dirs[i].Name < dirs[j].Name
	})
}
