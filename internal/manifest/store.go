package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"tidy/internal/logging"
	"tidy/internal/ops"
)

const (
	fileExt = ".json"

	// DefaultMaxManifests and DefaultMaxAgeDays are the retention limits
	// applied after every Save unless overridden.
	DefaultMaxManifests = 5
	DefaultMaxAgeDays   = 30
)

// Store reads and writes manifests in a single directory.
type Store struct {
	dir          string
	logger       *slog.Logger
	now          func() time.Time
	maxManifests int
	maxAgeDays   int

	mu sync.Mutex
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for retention and undo stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRetention sets the limits applied after every Save.
func WithRetention(maxManifests, maxAgeDays int) Option {
	return func(s *Store) {
		s.maxManifests = maxManifests
		s.maxAgeDays = maxAgeDays
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logging.NewComponentLogger(logger, "manifest")
	}
}

// ListReport is a listing together with the files that failed to decode.
type ListReport struct {
	Manifests []Manifest
	Corrupt   []CorruptError
}

// NewStore returns a store rooted at dir. The directory is created on the
// first Save.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:          dir,
		logger:       logging.NewComponentLogger(nil, "manifest"),
		now:          time.Now,
		maxManifests: DefaultMaxManifests,
		maxAgeDays:   DefaultMaxAgeDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the history directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing the manifest id.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

// Save persists m atomically and then applies retention. Retention failures
// are logged, not returned, since the manifest itself was written.
func (s *Store) Save(m Manifest) error {
	m.FileCount = len(m.Moves)
	if m.Status == "" {
		m.Status = StatusActive
	}
	if err := m.validate(); err != nil {
		return ops.Wrap(ops.ErrValidation, "manifest", "save", "invalid manifest", err)
	}
	if err := checkID(m.ID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(m); err != nil {
		return err
	}
	s.logger.Debug("manifest saved",
		logging.String(logging.FieldManifestID, m.ID),
		logging.Int("file_count", m.FileCount),
	)

	if _, err := s.cleanupLocked(s.maxManifests, s.maxAgeDays); err != nil {
		logging.WarnWithContext(s.logger, "manifest retention failed", "manifest_retention_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the history directory"),
			logging.String(logging.FieldImpact, "old manifests remain on disk"),
		)
	}
	return nil
}

// Get loads one manifest by id.
func (s *Store) Get(id string) (Manifest, error) {
	if err := checkID(id); err != nil {
		return Manifest{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(s.Path(id))
}

// Latest returns the most recent manifest regardless of status. When the
// newest file in the history is corrupt, its *CorruptError is returned
// instead of falling back to an older pass.
func (s *Store) Latest() (Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.scan()
	if err != nil {
		return Manifest{}, err
	}
	newestID := ""
	if len(report.Manifests) > 0 {
		newestID = report.Manifests[0].ID
	}
	if corrupt, ok := newestCorrupt(report.Corrupt); ok && corruptID(corrupt) > newestID {
		return Manifest{}, &corrupt
	}
	if newestID == "" {
		return Manifest{}, ops.Wrap(ops.ErrManifestNotFound, "manifest", "latest", "no history recorded", nil)
	}
	return report.Manifests[0], nil
}

// newestCorrupt picks the corrupt file whose name sorts last. Ids lead with
// a UTC timestamp, so names order chronologically without decoding. Files
// not named like an id carry no time and are skipped.
func newestCorrupt(files []CorruptError) (CorruptError, bool) {
	var newest CorruptError
	found := false
	for _, c := range files {
		id := corruptID(c)
		if _, ok := idTime(id); !ok {
			continue
		}
		if !found || id > corruptID(newest) {
			newest, found = c, true
		}
	}
	return newest, found
}

func corruptID(c CorruptError) string {
	return strings.TrimSuffix(filepath.Base(c.Path), fileExt)
}

// LoadLatestActive returns the most recent manifest that has not been undone.
func (s *Store) LoadLatestActive() (Manifest, bool, error) {
	manifests, err := s.List(0)
	if err != nil {
		return Manifest{}, false, err
	}
	for _, m := range manifests {
		if !m.IsUndone() {
			return m, true, nil
		}
	}
	return Manifest{}, false, nil
}

// List returns decodable manifests, most recent first. A limit <= 0 returns
// all of them.
func (s *Store) List(limit int) ([]Manifest, error) {
	report, err := s.ListReport(limit)
	if err != nil {
		return nil, err
	}
	return report.Manifests, nil
}

// ListReport is List plus the corrupt files that were skipped.
func (s *Store) ListReport(limit int) (ListReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.scan()
	if err != nil {
		return ListReport{}, err
	}
	if limit > 0 && len(report.Manifests) > limit {
		report.Manifests = report.Manifests[:limit]
	}
	return report, nil
}

// MarkUndone flips an active manifest to undone.
func (s *Store) MarkUndone(id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read(s.Path(id))
	if err != nil {
		return err
	}
	if m.IsUndone() {
		return ops.Wrap(ops.ErrAlreadyUndone, "manifest", "mark undone", id, nil)
	}
	undoneAt := s.now().UTC()
	m.Status = StatusUndone
	m.UndoneAt = &undoneAt
	return s.write(m)
}

// Cleanup removes manifests beyond the maxManifests most recent and any
// older than maxAgeDays. Either threshold alone triggers removal; a value
// <= 0 disables that threshold. Corrupt files are left alone. It returns the
// ids removed.
func (s *Store) Cleanup(maxManifests, maxAgeDays int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleanupLocked(maxManifests, maxAgeDays)
}

func (s *Store) cleanupLocked(maxManifests, maxAgeDays int) ([]string, error) {
	report, err := s.scan()
	if err != nil {
		return nil, err
	}
	var cutoff time.Time
	if maxAgeDays > 0 {
		cutoff = s.now().AddDate(0, 0, -maxAgeDays)
	}

	var removed []string
	var errs []error
	for idx, m := range report.Manifests {
		overCount := maxManifests > 0 && idx >= maxManifests
		expired := !cutoff.IsZero() && m.CreatedAt.Before(cutoff)
		if !overCount && !expired {
			continue
		}
		if err := os.Remove(s.Path(m.ID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove manifest %s: %w", m.ID, err))
			continue
		}
		removed = append(removed, m.ID)
		s.logger.Info("manifest pruned",
			logging.String(logging.FieldManifestID, m.ID),
			logging.Bool("over_count", overCount),
			logging.Bool("expired", expired),
			logging.String(logging.FieldEventType, "manifest_pruned"),
		)
	}
	return removed, errors.Join(errs...)
}

// scan decodes every manifest file in the directory, newest first.
func (s *Store) scan() (ListReport, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ListReport{}, nil
		}
		return ListReport{}, fmt.Errorf("read history directory: %w", err)
	}

	var report ListReport
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		m, err := s.read(filepath.Join(s.dir, name))
		if err != nil {
			var corrupt *CorruptError
			if errors.As(err, &corrupt) {
				report.Corrupt = append(report.Corrupt, *corrupt)
				logging.WarnWithContext(s.logger, "skipping corrupt manifest", "manifest_corrupt",
					logging.String("path", corrupt.Path),
					logging.Error(corrupt.Err),
					logging.String(logging.FieldErrorHint, "inspect or remove the file by hand"),
					logging.String(logging.FieldImpact, "that organize pass cannot be undone"),
				)
				continue
			}
			return ListReport{}, err
		}
		report.Manifests = append(report.Manifests, m)
	}

	sort.SliceStable(report.Manifests, func(i, j int) bool {
		a, b := report.Manifests[i], report.Manifests[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return report, nil
}

func (s *Store) read(path string) (Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			id := strings.TrimSuffix(filepath.Base(path), fileExt)
			return Manifest{}, ops.Wrap(ops.ErrManifestNotFound, "manifest", "get", fmt.Sprintf("no manifest %q", id), nil)
		}
		return Manifest{}, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	var m Manifest
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&m); err != nil {
		return Manifest{}, &CorruptError{Path: path, Err: err}
	}
	if err := m.validate(); err != nil {
		return Manifest{}, &CorruptError{Path: path, Err: err}
	}
	if want := strings.TrimSuffix(filepath.Base(path), fileExt); m.ID != want {
		return Manifest{}, &CorruptError{Path: path, Err: fmt.Errorf("id %q does not match file name", m.ID)}
	}
	m.FileCount = len(m.Moves)
	return m, nil
}

func (s *Store) write(m Manifest) (err error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	payload, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("create manifest temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync manifest: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close manifest: %w", err)
	}
	if err = os.Rename(tmpPath, s.Path(m.ID)); err != nil {
		return fmt.Errorf("rename manifest: %w", err)
	}
	return nil
}

func checkID(id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" || trimmed != id || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return ops.Wrap(ops.ErrValidation, "manifest", "lookup", fmt.Sprintf("invalid manifest id %q", id), nil)
	}
	return nil
}
