package organizer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tidy/internal/ops"
	"tidy/internal/organizer"
	"tidy/internal/testsupport"
)

func TestUndoEmptyHistory(t *testing.T) {
	e := newEnv(t)
	if _, err := e.org.Undo(context.Background(), ""); !errors.Is(err, ops.ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
	if _, err := e.org.Undo(context.Background(), "2026-01-01_00-00-00_deadbeef"); !errors.Is(err, ops.ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound for unknown id, got %v", err)
	}
}

func TestUndoMissingDestinationIsPartial(t *testing.T) {
	e := newEnv(t)
	a := e.file(t, "a.pdf", 10)
	b := e.file(t, "b.pdf", 10)
	result, err := e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	gone := filepath.Join(e.target, "~Documents", "b.pdf")
	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}

	undo, err := e.org.Undo(context.Background(), result.ManifestID)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if undo.RestoredCount != 1 || len(undo.Errors) != 1 {
		t.Fatalf("unexpected undo result: %+v", undo)
	}
	if undo.Errors[0].Path != gone || undo.Errors[0].Reason != organizer.ReasonNotFound {
		t.Fatalf("unexpected error entry: %+v", undo.Errors[0])
	}
	if testsupport.ReadFile(t, a) != "a.pdf" {
		t.Fatal("a.pdf not restored")
	}
	testsupport.AssertMissing(t, b)
	if len(undo.RemovedFolders) != 0 {
		t.Fatalf("folders must be kept after a partial undo: %v", undo.RemovedFolders)
	}
	if _, err := os.Stat(filepath.Join(e.target, "~Documents")); err != nil {
		t.Fatal("category folder should remain")
	}

	m, err := e.store.Get(result.ManifestID)
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsUndone() {
		t.Fatal("partial undo still marks the manifest undone")
	}
}

func TestUndoNeverOverwritesOriginalLocation(t *testing.T) {
	e := newEnv(t)
	a := e.file(t, "a.pdf", 10)
	result, err := e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	testsupport.WriteFile(t, e.target, "a.pdf", "newer download")

	undo, err := e.org.Undo(context.Background(), result.ManifestID)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if undo.RestoredCount != 1 {
		t.Fatalf("unexpected undo result: %+v", undo)
	}
	restored := undo.Restored[0]
	if restored.Original != a || restored.Path != filepath.Join(e.target, "a_2.pdf") {
		t.Fatalf("unexpected restore target: %+v", restored)
	}
	if testsupport.ReadFile(t, a) != "newer download" {
		t.Fatal("existing file was overwritten")
	}
	if testsupport.ReadFile(t, restored.Path) != "a.pdf" {
		t.Fatal("restored content mismatch")
	}
}

func TestUndoLatestOnlyTargetsMostRecent(t *testing.T) {
	e := newEnv(t)
	first := e.file(t, "first.pdf", 10)
	r1, err := e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	e.clock = testNow.Add(time.Minute)
	second := e.file(t, "second.png", 10)
	r2, err := e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	if r1.ManifestID == r2.ManifestID {
		t.Fatal("manifest ids must be unique")
	}

	preview, err := e.org.UndoPreview(context.Background(), "")
	if err != nil {
		t.Fatalf("UndoPreview: %v", err)
	}
	if preview.ID != r2.ManifestID || preview.IsUndone() {
		t.Fatalf("preview resolved %s, want %s", preview.ID, r2.ManifestID)
	}

	undo, err := e.org.Undo(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if undo.ManifestID != r2.ManifestID {
		t.Fatalf("undid %s, want %s", undo.ManifestID, r2.ManifestID)
	}
	if testsupport.ReadFile(t, second) != "second.png" {
		t.Fatal("second.png not restored")
	}
	testsupport.AssertMissing(t, first)

	if _, err := e.org.Undo(context.Background(), ""); !errors.Is(err, ops.ErrAlreadyUndone) {
		t.Fatalf("latest is undone, expected ErrAlreadyUndone, got %v", err)
	}

	if _, err := e.org.Undo(context.Background(), r1.ManifestID); err != nil {
		t.Fatalf("undo by id: %v", err)
	}
	if testsupport.ReadFile(t, first) != "first.pdf" {
		t.Fatal("first.pdf not restored")
	}
}

func TestUndoLatestRefusesCorruptNewestManifest(t *testing.T) {
	e := newEnv(t)
	old := e.file(t, "old.pdf", 10)
	r1, err := e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	e.clock = testNow.Add(time.Minute)
	e.file(t, "new.jpg", 10)
	r2, err := e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(e.store.Path(r2.ManifestID), []byte("{garbage}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := e.org.UndoPreview(context.Background(), ""); !errors.Is(err, ops.ErrManifestCorrupt) {
		t.Fatalf("UndoPreview: expected ErrManifestCorrupt, got %v", err)
	}
	result, err := e.org.Undo(context.Background(), "")
	if !errors.Is(err, ops.ErrManifestCorrupt) {
		t.Fatalf("Undo: expected ErrManifestCorrupt, got %v (result %+v)", err, result)
	}
	testsupport.AssertMissing(t, old)
	m, err := e.store.Get(r1.ManifestID)
	if err != nil {
		t.Fatal(err)
	}
	if m.IsUndone() {
		t.Fatal("older manifest must stay active")
	}
}

func TestUndoCancelledBeforeStart(t *testing.T) {
	e := newEnv(t)
	e.file(t, "a.pdf", 10)
	result, err := e.org.Organize(context.Background(), e.cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.org.Undo(ctx, result.ManifestID); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	m, err := e.store.Get(result.ManifestID)
	if err != nil {
		t.Fatal(err)
	}
	if m.IsUndone() {
		t.Fatal("cancelled undo must not mark the manifest")
	}
}
