package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"tidy/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCreatable_MissingUnderWritableParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	result := CheckCreatable("data", path)
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected pass, got %+v", result)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("check must not create the directory")
	}
}

func TestCheckCreatable_ParentIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckCreatable("data", filepath.Join(file, "sub"))
	if result.Passed {
		t.Fatalf("expected failure, got %+v", result)
	}
}

func TestCheckRunLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tidy.lock")
	if r := CheckRunLock("lock", path); !r.Passed {
		t.Fatalf("missing lock file should pass: %+v", r)
	}

	held := flock.New(path)
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: %v %v", ok, err)
	}
	if r := CheckRunLock("lock", path); r.Passed {
		t.Fatalf("held lock should fail: %+v", r)
	}
	if err := held.Unlock(); err != nil {
		t.Fatal(err)
	}
	if r := CheckRunLock("lock", path); !r.Passed {
		t.Fatalf("released lock should pass: %+v", r)
	}
}

func TestCheckHistory(t *testing.T) {
	dir := t.TempDir()
	if r := CheckHistory(context.Background(), "history", filepath.Join(dir, "missing")); !r.Passed {
		t.Fatalf("missing history should pass: %+v", r)
	}

	bad := testsupport.WriteFile(t, dir, "2026-01-01_00-00-00_abcdef12.json", "{not json")
	r := CheckHistory(context.Background(), "history", dir)
	if r.Passed || !strings.Contains(r.Detail, "1 corrupt") {
		t.Fatalf("corrupt manifest should fail: %+v", r)
	}
	if _, err := os.Stat(bad); err != nil {
		t.Fatal("corrupt manifest must not be removed")
	}
}

func TestCheckSameDevice(t *testing.T) {
	target := t.TempDir()
	if err := os.Mkdir(filepath.Join(target, "~Documents"), 0o755); err != nil {
		t.Fatal(err)
	}
	r := CheckSameDevice("folders", target, "~")
	if !r.Passed {
		t.Fatalf("expected pass: %+v", r)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_FreshConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	results := RunAll(context.Background(), cfg)
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if !Passed(results) {
		t.Fatal("Passed should agree with individual results")
	}
}

func TestRunAll_MissingTarget(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.TargetDir = filepath.Join(cfg.Paths.TargetDir, "gone")

	results := RunAll(context.Background(), cfg)
	if Passed(results) {
		t.Fatal("missing target directory should fail")
	}
	if results[0].Name != "Target directory" || results[0].Passed {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
}
