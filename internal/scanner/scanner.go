package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tidy/internal/category"
	"tidy/internal/logging"
	"tidy/internal/ops"
)

// Skip reasons reported by the scanner in addition to the classifier's.
const (
	ReasonStatFailed = "stat failed"
	ReasonLocked     = "locked"
	ReasonIrregular  = "not a regular file"
)

// LockProbe reports whether another process is using path.
type LockProbe func(path string) bool

// Options configures a scan.
type Options struct {
	MinAgeDays int
	Enabled    category.Set
	Now        func() time.Time
	LockProbe  LockProbe
	Logger     *slog.Logger
}

// Candidate is an eligible file found in the target directory.
type Candidate struct {
	Path       string
	Name       string
	Extension  string
	Size       int64
	ModifiedAt time.Time
	AgeDays    int
	Category   category.Category
}

// Skip records an entry left in place and why.
type Skip struct {
	Path   string
	Name   string
	Reason string
	Err    error
}

// Result is the outcome of one scan.
type Result struct {
	Candidates []Candidate
	Skipped    []Skip
}

// AgeDays returns whole days elapsed between modified and now. Timestamps in
// the future count as zero days old.
func AgeDays(now, modified time.Time) int {
	elapsed := now.Sub(modified)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / (24 * time.Hour))
}

// Scan examines the immediate children of dir. Per-entry problems become
// skips; only an unreadable root is an error, marked ops.ErrScan.
func Scan(ctx context.Context, dir string, opts Options) (Result, error) {
	logger := logging.NewComponentLogger(opts.Logger, "scanner")
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	probe := opts.LockProbe
	if probe == nil {
		probe = ProbeLock
	}

	info, err := os.Stat(dir)
	if err != nil {
		return Result{}, ops.Wrap(ops.ErrScan, "scanner", "scan", fmt.Sprintf("stat %s", dir), err)
	}
	if !info.IsDir() {
		return Result{}, ops.Wrap(ops.ErrScan, "scanner", "scan", fmt.Sprintf("%s is not a directory", dir), nil)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, ops.Wrap(ops.ErrScan, "scanner", "scan", fmt.Sprintf("read %s", dir), err)
	}

	rules := category.Rules{MinAgeDays: opts.MinAgeDays, Enabled: opts.Enabled}
	scanTime := now()

	var result Result
	skip := func(path, name, reason string, cause error) {
		result.Skipped = append(result.Skipped, Skip{Path: path, Name: name, Reason: reason, Err: cause})
		attrs := []logging.Attr{
			logging.String("path", path),
			logging.String("reason", reason),
			logging.String(logging.FieldEventType, "file_skipped"),
		}
		if cause != nil {
			attrs = append(attrs, logging.Error(cause))
		}
		logger.Debug("entry skipped", logging.Args(attrs...)...)
	}

	// os.ReadDir already returns entries sorted by name.
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		name := entry.Name()
		path := filepath.Join(dir, name)

		fi, err := entryInfo(path, entry)
		if err != nil {
			skip(path, name, ReasonStatFailed, err)
			continue
		}
		if !fi.IsDir() && !fi.Mode().IsRegular() {
			skip(path, name, ReasonIrregular, nil)
			continue
		}

		age := AgeDays(scanTime, fi.ModTime())
		decision := category.Classify(category.Entry{
			Name:    name,
			IsDir:   fi.IsDir(),
			Hidden:  category.IsHidden(name),
			AgeDays: age,
		}, rules)
		if !decision.Eligible {
			skip(path, name, decision.Reason, nil)
			continue
		}
		if probe(path) {
			skip(path, name, ReasonLocked, nil)
			continue
		}

		result.Candidates = append(result.Candidates, Candidate{
			Path:       path,
			Name:       name,
			Extension:  decision.Extension,
			Size:       fi.Size(),
			ModifiedAt: fi.ModTime(),
			AgeDays:    age,
			Category:   decision.Category,
		})
	}

	sort.SliceStable(result.Candidates, func(i, j int) bool {
		return result.Candidates[i].Name < result.Candidates[j].Name
	})

	logger.Debug("scan complete",
		logging.String("dir", dir),
		logging.Int("candidates", len(result.Candidates)),
		logging.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// entryInfo stats an entry, following symlinks so a link to a file is
// organized like the file and a link to a directory is treated as one.
func entryInfo(path string, entry fs.DirEntry) (fs.FileInfo, error) {
	if entry.Type()&fs.ModeSymlink != 0 {
		return os.Stat(path)
	}
	return entry.Info()
}

// CountReasons tallies skips by reason.
func CountReasons(skipped []Skip) map[string]int {
	counts := make(map[string]int)
	for _, s := range skipped {
		counts[strings.TrimSpace(s.Reason)]++
	}
	return counts
}
