package preflight

import (
	"context"

	"tidy/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Target directory", cfg.Paths.TargetDir),
		CheckCreatable("Data directory", cfg.Paths.DataDir),
		CheckCreatable("Log directory", cfg.Paths.LogDir),
		CheckSameDevice("Category folders", cfg.Paths.TargetDir, cfg.Organize.FolderPrefix),
		CheckRunLock("Run lock", cfg.LockPath()),
		CheckHistory(ctx, "History", cfg.HistoryDir()),
	}
	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
