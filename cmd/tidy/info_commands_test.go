package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"tidy/internal/testsupport"
)

func TestCategoriesCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCategories("Documents"))

	out, _, err := runCLI(t, []string{"categories"}, env.configPath)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	requireContains(t, out, ".pdf")
	requireContains(t, out, "~Installers")
	requireContains(t, out, "(anything unrecognized)")
}

func TestStatsJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	env.aged(t, "a.pdf")
	env.aged(t, "b.png")
	testsupport.WriteFile(t, env.target, "new.txt", "x")
	testsupport.WriteFile(t, filepath.Join(env.target, "~Videos"), "clip.mp4", "12345")

	out, _, err := runCLI(t, []string{"stats", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var payload struct {
		Eligible    int            `json:"eligible"`
		PerCategory map[string]int `json:"per_category"`
		Skipped     map[string]int `json:"skipped"`
		Folders     []struct {
			Name  string
			Files int
			Size  int64
		} `json:"folders"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if payload.Eligible != 2 || payload.PerCategory["Documents"] != 1 || payload.PerCategory["Images"] != 1 {
		t.Fatalf("unexpected eligibility: %+v", payload)
	}
	if payload.Skipped["too recent"] != 1 || payload.Skipped["directory"] != 1 {
		t.Fatalf("unexpected skipped: %v", payload.Skipped)
	}
	if len(payload.Folders) != 1 || payload.Folders[0].Name != "~Videos" || payload.Folders[0].Size != 5 {
		t.Fatalf("unexpected folders: %+v", payload.Folders)
	}
}

func TestStatsTable(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.target, "~Audio"), "a.mp3", "abc")

	out, _, err := runCLI(t, []string{"stats"}, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "Ready to organize: 0 files")
	requireContains(t, out, "~Audio")
	requireContains(t, out, "Total")
}

func TestDoctorPasses(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Target directory")
	requireContains(t, out, "Run lock")
}

func TestDoctorFailsOnMissingTarget(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.target); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err == nil {
		t.Fatal("expected doctor to fail")
	}
	requireContains(t, out, "FAIL")
}

func TestLogsFilterByManifest(t *testing.T) {
	env := setupCLITestEnv(t)
	env.aged(t, "a.pdf")

	out, _, err := runCLI(t, []string{"organize", "--yes", "--json"}, env.configPath)
	if err != nil {
		t.Fatal(err)
	}
	var payload struct {
		ManifestID string `json:"manifest_id"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatal(err)
	}

	out, _, err = runCLI(t, []string{"logs", "--manifest", payload.ManifestID}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, payload.ManifestID)
	requireContains(t, out, "organize pass complete")
}
