package config

import "tidy/internal/category"

const (
	defaultConfigPath         = "~/.config/tidy/config.toml"
	projectConfigName         = "tidy.toml"
	defaultTargetDir          = "~/Downloads"
	defaultDataDir            = "~/.local/share/tidy"
	defaultLogDir             = "~/.local/share/tidy/logs"
	defaultMinimumFileAgeDays = 7
	defaultFolderPrefix       = "~"
	defaultMaxManifests       = 5
	defaultHistoryMaxAgeDays  = 30
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogRetentionDays   = 60

	// TargetDirEnv overrides paths.target_dir when set.
	TargetDirEnv = "TIDY_TARGET_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	names := make([]string, 0, len(category.All()))
	for _, cat := range category.All() {
		names = append(names, string(cat))
	}
	return Config{
		Paths: Paths{
			TargetDir: defaultTargetDir,
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
		},
		Organize: Organize{
			MinimumFileAgeDays: defaultMinimumFileAgeDays,
			EnabledCategories:  names,
			FolderPrefix:       defaultFolderPrefix,
		},
		History: History{
			MaxManifests: defaultMaxManifests,
			MaxAgeDays:   defaultHistoryMaxAgeDays,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
