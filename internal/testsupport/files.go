package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteFile creates dir/name with content and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteAgedFile creates dir/name with its modification time set ageDays
// before now, plus an hour so whole-day truncation lands on ageDays.
func WriteAgedFile(t testing.TB, dir, name string, ageDays int, now time.Time) string {
	t.Helper()

	path := WriteFile(t, dir, name, name)
	SetAge(t, path, ageDays, now)
	return path
}

// SetAge backdates path to ageDays (plus an hour) before now.
func SetAge(t testing.TB, path string, ageDays int, now time.Time) {
	t.Helper()

	mtime := now.Add(-time.Duration(ageDays)*24*time.Hour - time.Hour)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// AssertMissing fails the test if path exists.
func AssertMissing(t testing.TB, path string) {
	t.Helper()

	if _, err := os.Lstat(path); err == nil {
		t.Fatalf("expected %s to be absent", path)
	} else if !os.IsNotExist(err) {
		t.Fatalf("stat %s: %v", path, err)
	}
}
