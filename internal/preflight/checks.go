package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"tidy/internal/folders"
	"tidy/internal/manifest"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := access(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCreatable passes when path is an accessible directory, or when it is
// missing but its nearest existing ancestor is writable so it can be created
// on first use.
func CheckCreatable(name, path string) Result {
	if _, err := os.Stat(path); err == nil || !errors.Is(err, fs.ErrNotExist) {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(path)
	for {
		info, err := os.Stat(parent)
		if err == nil {
			if !info.IsDir() {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s is not a directory)", path, parent)}
			}
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing parent)", path)}
		}
		parent = next
	}
	if err := access(parent); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckRunLock reports whether another organize or undo currently holds the
// run lock. The lock is released immediately when it can be taken.
func CheckRunLock(name, path string) Result {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Result{Name: name, Passed: true, Detail: "free"}
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !ok {
		return Result{Name: name, Detail: fmt.Sprintf("%s (held by another tidy process)", path)}
	}
	_ = lock.Unlock()
	return Result{Name: name, Passed: true, Detail: "free"}
}

// CheckHistory verifies every manifest in dir decodes. Corrupt manifests
// fail the check but are never removed.
func CheckHistory(ctx context.Context, name, dir string) Result {
	if err := ctx.Err(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	report, err := manifest.NewStore(dir).ListReport(0)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", dir, err)}
	}
	if n := len(report.Corrupt); n > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%d manifest(s), %d corrupt (first: %s)", len(report.Manifests), n, report.Corrupt[0].Path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d manifest(s)", len(report.Manifests))}
}

// CheckSameDevice notes category folders that live on a different
// filesystem than target. Moves into them fall back to a verified copy, so
// the check still passes.
func CheckSameDevice(name, target, prefix string) Result {
	base, ok := deviceOf(target)
	if !ok {
		return Result{Name: name, Passed: true, Detail: "device check unavailable"}
	}
	dirs, err := folders.List(target, prefix)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", target, err)}
	}
	var remote []string
	for _, d := range dirs {
		if dev, ok := deviceOf(d.Path); ok && dev != base {
			remote = append(remote, d.Name)
		}
	}
	if len(remote) > 0 {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s on another filesystem; moves will copy", strings.Join(remote, ", "))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d existing, same filesystem", len(dirs))}
}
