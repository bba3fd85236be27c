package organizer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"tidy/internal/category"
	"tidy/internal/logging"
	"tidy/internal/manifest"
	"tidy/internal/ops"
	"tidy/internal/organizer"
	"tidy/internal/testsupport"
)

var testNow = time.Date(2026, 7, 15, 9, 30, 0, 0, time.UTC)

type env struct {
	target string
	data   string
	store  *manifest.Store
	org    *organizer.Organizer
	cfg    organizer.Config
	clock  time.Time
}

func newEnv(t *testing.T, opts ...organizer.Option) *env {
	t.Helper()
	base := t.TempDir()
	e := &env{
		target: filepath.Join(base, "Downloads"),
		data:   filepath.Join(base, "data"),
		clock:  testNow,
	}
	if err := os.MkdirAll(e.target, 0o755); err != nil {
		t.Fatal(err)
	}
	now := func() time.Time { return e.clock }
	e.store = manifest.NewStore(filepath.Join(e.data, "history"), manifest.WithClock(now))
	defaults := []organizer.Option{
		organizer.WithClock(now),
		organizer.WithLockProbe(func(string) bool { return false }),
		organizer.WithRunLock(filepath.Join(e.data, "tidy.lock")),
	}
	e.org = organizer.New(e.store, logging.NewNop(), append(defaults, opts...)...)
	e.cfg = organizer.Config{
		TargetDirectory:      e.target,
		MinimumFileAgeDays:   7,
		EnabledCategories:    category.All(),
		CategoryFolderPrefix: "~",
	}
	return e
}

func (e *env) file(t *testing.T, name string, ageDays int) string {
	t.Helper()
	return testsupport.WriteAgedFile(t, e.target, name, ageDays, testNow)
}

func TestOrganizeScenario(t *testing.T) {
	e := newEnv(t)
	a := e.file(t, "a.pdf", 10)
	b := e.file(t, "b.jpg", 10)
	c := e.file(t, "c.tmp", 2)

	result, err := e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if result.MovedCount != 2 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.ManifestID == "" {
		t.Fatal("expected manifest id")
	}
	testsupport.AssertMissing(t, a)
	testsupport.AssertMissing(t, b)
	if testsupport.ReadFile(t, filepath.Join(e.target, "~Documents", "a.pdf")) != "a.pdf" {
		t.Fatal("a.pdf not in ~Documents")
	}
	if testsupport.ReadFile(t, filepath.Join(e.target, "~Images", "b.jpg")) != "b.jpg" {
		t.Fatal("b.jpg not in ~Images")
	}
	if testsupport.ReadFile(t, c) != "c.tmp" {
		t.Fatal("recent file should stay in place")
	}

	m, err := e.store.Get(result.ManifestID)
	if err != nil {
		t.Fatalf("Get manifest: %v", err)
	}
	if len(m.Moves) != 2 || m.Moves[0].Source != a || m.Moves[1].Source != b {
		t.Fatalf("unexpected manifest moves: %+v", m.Moves)
	}
	if m.TargetDirectory != e.target {
		t.Fatalf("manifest target = %q", m.TargetDirectory)
	}

	undo, err := e.org.Undo(context.Background(), "")
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if undo.RestoredCount != 2 || len(undo.Errors) != 0 {
		t.Fatalf("unexpected undo result: %+v", undo)
	}
	if testsupport.ReadFile(t, a) != "a.pdf" || testsupport.ReadFile(t, b) != "b.jpg" {
		t.Fatal("files not restored")
	}
	testsupport.AssertMissing(t, filepath.Join(e.target, "~Documents"))
	testsupport.AssertMissing(t, filepath.Join(e.target, "~Images"))

	m, err = e.store.Get(result.ManifestID)
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsUndone() {
		t.Fatal("manifest should be marked undone")
	}

	if _, err := e.org.Undo(context.Background(), result.ManifestID); !errors.Is(err, ops.ErrAlreadyUndone) {
		t.Fatalf("second undo should fail with ErrAlreadyUndone, got %v", err)
	}
	if _, err := e.org.Undo(context.Background(), ""); !errors.Is(err, ops.ErrAlreadyUndone) {
		t.Fatalf("undo latest should fail with ErrAlreadyUndone, got %v", err)
	}
}

func TestOrganizeExcludesHiddenLockedAndDirectories(t *testing.T) {
	locked := ""
	e := newEnv(t, organizer.WithLockProbe(func(path string) bool { return path == locked }))
	e.file(t, ".secret", 30)
	locked = e.file(t, "busy.zip", 30)
	if err := os.Mkdir(filepath.Join(e.target, "Projects"), 0o755); err != nil {
		t.Fatal(err)
	}
	e.file(t, "ok.txt", 30)

	result, err := e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if result.MovedCount != 1 || result.Moves[0].Destination != filepath.Join(e.target, "~Documents", "ok.txt") {
		t.Fatalf("unexpected moves: %+v", result.Moves)
	}
	if result.SkippedCount != 3 {
		t.Fatalf("expected 3 skipped, got %+v", result.Skipped)
	}
	m, err := e.store.Get(result.ManifestID)
	if err != nil {
		t.Fatal(err)
	}
	for _, mv := range m.Moves {
		switch filepath.Base(mv.Source) {
		case ".secret", "busy.zip", "Projects":
			t.Fatalf("excluded entry in manifest: %+v", mv)
		}
	}
	if _, err := os.Stat(locked); err != nil {
		t.Fatal("locked file must stay in place")
	}
}

func TestOrganizeDryRunIsIdempotentAndTouchesNothing(t *testing.T) {
	e := newEnv(t)
	e.file(t, "report.pdf", 10)
	e.file(t, "song.mp3", 10)
	testsupport.WriteFile(t, filepath.Join(e.target, "~Documents"), "report.pdf", "existing")

	first, err := e.org.Organize(context.Background(), e.cfg, true)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	second, err := e.org.Organize(context.Background(), e.cfg, true)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("dry runs differ:\n%+v\n%+v", first, second)
	}
	if first.ManifestID != "" || first.MovedCount != 2 || !first.DryRun {
		t.Fatalf("unexpected dry-run result: %+v", first)
	}
	if filepath.Base(first.Moves[0].Destination) != "report_2.pdf" {
		t.Fatalf("dry run should plan collision suffix, got %s", first.Moves[0].Destination)
	}
	if _, err := os.Stat(filepath.Join(e.target, "report.pdf")); err != nil {
		t.Fatal("dry run moved a file")
	}
	testsupport.AssertMissing(t, filepath.Join(e.target, "~Audio"))
	if list, err := e.store.List(0); err != nil || len(list) != 0 {
		t.Fatalf("dry run wrote manifests: %v %v", list, err)
	}
}

func TestOrganizeCollisionsGetSuffixes(t *testing.T) {
	e := newEnv(t)
	testsupport.WriteFile(t, filepath.Join(e.target, "~Documents"), "report.pdf", "first")
	e.file(t, "report.pdf", 10)

	result, err := e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(result.Moves[0].Destination) != "report_2.pdf" {
		t.Fatalf("got %s", result.Moves[0].Destination)
	}

	e.file(t, "report.pdf", 10)
	result, err = e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(result.Moves[0].Destination) != "report_3.pdf" {
		t.Fatalf("got %s", result.Moves[0].Destination)
	}
}

func TestOrganizeRespectsPrefixAndDisabledCategories(t *testing.T) {
	e := newEnv(t)
	e.cfg.CategoryFolderPrefix = "_"
	e.cfg.EnabledCategories = []category.Category{category.Images}
	e.file(t, "pic.png", 10)
	doc := e.file(t, "doc.pdf", 10)

	result, err := e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	if result.MovedCount != 1 || result.Moves[0].Destination != filepath.Join(e.target, "_Images", "pic.png") {
		t.Fatalf("unexpected moves: %+v", result.Moves)
	}
	if _, err := os.Stat(doc); err != nil {
		t.Fatal("disabled category file should stay")
	}
}

func TestOrganizeEmptyDirectoryIsSuccess(t *testing.T) {
	e := newEnv(t)
	result, err := e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if result.MovedCount != 0 || result.ManifestID != "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if list, _ := e.store.List(0); len(list) != 0 {
		t.Fatal("no manifest should be written when nothing moved")
	}
}

func TestOrganizeMissingTargetIsScanError(t *testing.T) {
	e := newEnv(t)
	e.cfg.TargetDirectory = filepath.Join(e.target, "missing")
	_, err := e.org.Organize(context.Background(), e.cfg, false)
	if !errors.Is(err, ops.ErrScan) {
		t.Fatalf("expected ErrScan, got %v", err)
	}
	if list, _ := e.store.List(0); len(list) != 0 {
		t.Fatal("no manifest on fatal error")
	}
}

func TestOrganizeInvalidConfig(t *testing.T) {
	e := newEnv(t)
	bad := e.cfg
	bad.MinimumFileAgeDays = -1
	if _, err := e.org.Organize(context.Background(), bad, true); !errors.Is(err, ops.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	bad = e.cfg
	bad.CategoryFolderPrefix = "a/"
	if _, err := e.org.Organize(context.Background(), bad, true); !errors.Is(err, ops.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestOrganizePerFileFailureDoesNotAbortBatch(t *testing.T) {
	e := newEnv(t)
	e.file(t, "a.pdf", 10)
	e.file(t, "b.pdf", 10)
	// A regular file where the category folder should be makes every
	// Documents move fail while Images still succeed.
	testsupport.WriteFile(t, e.target, "~Documents", "blocker")
	testsupport.SetAge(t, filepath.Join(e.target, "~Documents"), 0, testNow)
	e.file(t, "c.png", 10)

	result, err := e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if result.MovedCount != 1 || len(result.Errors) != 2 {
		t.Fatalf("unexpected result: moved=%d errors=%+v", result.MovedCount, result.Errors)
	}
	if result.Errors[0].Path != filepath.Join(e.target, "a.pdf") {
		t.Fatalf("errors not in processing order: %+v", result.Errors)
	}
	if result.ManifestID == "" {
		t.Fatal("partial success should still write a manifest")
	}
}

func TestOrganizeBusyWhenLockHeld(t *testing.T) {
	e := newEnv(t)
	e.file(t, "a.pdf", 10)
	if err := os.MkdirAll(e.data, 0o755); err != nil {
		t.Fatal(err)
	}
	held := flock.New(filepath.Join(e.data, "tidy.lock"))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: %v %v", ok, err)
	}
	defer held.Unlock()

	if _, err := e.org.Organize(context.Background(), e.cfg, false); !errors.Is(err, ops.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if _, err := e.org.Organize(context.Background(), e.cfg, true); err != nil {
		t.Fatalf("dry run should not need the lock: %v", err)
	}
	if _, err := e.org.Undo(context.Background(), ""); !errors.Is(err, ops.ErrBusy) {
		t.Fatalf("expected ErrBusy from undo, got %v", err)
	}
}

func TestOrganizeCancelledContext(t *testing.T) {
	e := newEnv(t)
	a := e.file(t, "a.pdf", 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := e.org.Organize(ctx, e.cfg, false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.MovedCount != 0 {
		t.Fatalf("nothing should move after cancel: %+v", result)
	}
	if _, err := os.Stat(a); err != nil {
		t.Fatal("file moved despite cancellation")
	}
}

type failingStore struct {
	*manifest.Store
}

func (failingStore) Save(manifest.Manifest) error { return errors.New("disk full") }

func TestOrganizeManifestSaveFailureReturnsResult(t *testing.T) {
	e := newEnv(t)
	e.file(t, "a.pdf", 10)
	org := organizer.New(failingStore{e.store}, logging.NewNop(),
		organizer.WithClock(func() time.Time { return testNow }),
		organizer.WithLockProbe(func(string) bool { return false }),
	)

	result, err := org.Organize(context.Background(), e.cfg, false)
	if err == nil {
		t.Fatal("expected save error")
	}
	if result.MovedCount != 1 || len(result.Moves) != 1 || result.ManifestID != "" {
		t.Fatalf("result should describe the moves: %+v", result)
	}
}

func TestPreviewGroupsByCategory(t *testing.T) {
	e := newEnv(t)
	e.file(t, "b.png", 10)
	e.file(t, "a.pdf", 10)
	e.file(t, "c.pdf", 10)
	e.file(t, "new.pdf", 1)

	preview, err := e.org.Preview(context.Background(), e.cfg)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if preview.TotalFiles != 3 || len(preview.Groups) != 2 {
		t.Fatalf("unexpected preview: %+v", preview)
	}
	docs := preview.Groups[0]
	if docs.Category != category.Documents || docs.Folder != "~Documents" || len(docs.Files) != 2 {
		t.Fatalf("unexpected documents group: %+v", docs)
	}
	if docs.Files[0].Name != "a.pdf" || docs.Files[0].Size != int64(len("a.pdf")) {
		t.Fatalf("unexpected file entry: %+v", docs.Files[0])
	}
	if preview.Groups[1].Category != category.Images {
		t.Fatalf("groups not in canonical order: %+v", preview.Groups)
	}
	if len(preview.Skipped) != 1 {
		t.Fatalf("expected one skipped entry, got %+v", preview.Skipped)
	}
}

func TestStats(t *testing.T) {
	e := newEnv(t)
	e.file(t, "a.pdf", 10)
	e.file(t, "b.pdf", 10)
	e.file(t, "c.png", 10)
	e.file(t, ".hidden", 10)
	e.file(t, "fresh.zip", 1)
	testsupport.WriteFile(t, filepath.Join(e.target, "~Videos"), "old.mp4", "12345678")

	stats, err := e.org.Stats(context.Background(), e.cfg)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalEligible != 3 || stats.PerCategory[category.Documents] != 2 || stats.PerCategory[category.Images] != 1 {
		t.Fatalf("unexpected eligibility: %+v", stats)
	}
	if stats.Skipped["hidden"] != 1 || stats.Skipped["too recent"] != 1 || stats.Skipped["directory"] != 1 {
		t.Fatalf("unexpected skip counts: %v", stats.Skipped)
	}
	if len(stats.Folders) != 1 || stats.Folders[0].Files != 1 || stats.Folders[0].Size != 8 {
		t.Fatalf("unexpected folders: %+v", stats.Folders)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMinimumAge(3), testsupport.WithFolderPrefix("_"))
	cfg.Organize.EnabledCategories = []string{"Documents", "Other"}
	got := organizer.FromConfig(cfg)
	if got.TargetDirectory != cfg.Paths.TargetDir || got.MinimumFileAgeDays != 3 || got.CategoryFolderPrefix != "_" {
		t.Fatalf("unexpected engine config: %+v", got)
	}
	if len(got.EnabledCategories) != 2 || got.EnabledCategories[1] != category.Other {
		t.Fatalf("unexpected categories: %v", got.EnabledCategories)
	}
}
