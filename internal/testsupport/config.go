package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"tidy/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The target directory is created; data and log directories are not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.TargetDir = filepath.Join(base, "Downloads")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := os.MkdirAll(builder.cfg.Paths.TargetDir, 0o755); err != nil {
		t.Fatalf("mkdir target dir: %v", err)
	}
	return builder.cfg
}

// WithMinimumAge overrides organize.minimum_file_age_days.
func WithMinimumAge(days int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.MinimumFileAgeDays = days
	}
}

// WithCategories overrides organize.enabled_categories.
func WithCategories(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.EnabledCategories = append([]string(nil), names...)
	}
}

// WithFolderPrefix overrides organize.folder_prefix.
func WithFolderPrefix(prefix string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.FolderPrefix = prefix
	}
}

// WithHistoryLimits overrides the manifest retention limits.
func WithHistoryLimits(maxManifests, maxAgeDays int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.MaxManifests = maxManifests
		b.cfg.History.MaxAgeDays = maxAgeDays
	}
}

// WriteConfigFile encodes cfg to a TOML file under the config's base
// directory and returns its path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(BaseDir(cfg), "tidy.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.TargetDir)
}
