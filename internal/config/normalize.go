package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tidy/internal/category"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOrganize()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(TargetDirEnv); ok && strings.TrimSpace(value) != "" {
		c.Paths.TargetDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.TargetDir, err = expandPath(strings.TrimSpace(c.Paths.TargetDir)); err != nil {
		return fmt.Errorf("paths.target_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

// normalizeOrganize folds category names to their canonical spelling and
// orders them canonically. Unknown names are kept at the end so Validate can
// report them.
func (c *Config) normalizeOrganize() {
	caser := cases.Title(language.Und)
	known := make(map[category.Category]struct{}, len(c.Organize.EnabledCategories))
	var unknown []string
	seenUnknown := make(map[string]struct{})
	for _, raw := range c.Organize.EnabledCategories {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		folded := caser.String(strings.ToLower(trimmed))
		if cat, ok := category.Parse(folded); ok {
			known[cat] = struct{}{}
			continue
		}
		if _, dup := seenUnknown[folded]; dup {
			continue
		}
		seenUnknown[folded] = struct{}{}
		unknown = append(unknown, trimmed)
	}

	names := make([]string, 0, len(known)+len(unknown))
	for _, cat := range category.All() {
		if _, ok := known[cat]; ok {
			names = append(names, string(cat))
		}
	}
	c.Organize.EnabledCategories = append(names, unknown...)
	c.Organize.FolderPrefix = strings.TrimSpace(c.Organize.FolderPrefix)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
