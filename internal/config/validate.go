package config

import (
	"errors"
	"fmt"
	"strings"

	"tidy/internal/category"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOrganize(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.TargetDir) == "" {
		return fmt.Errorf("paths.target_dir must be set (or export %s)", TargetDirEnv)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateOrganize() error {
	if c.Organize.MinimumFileAgeDays < 0 {
		return errors.New("organize.minimum_file_age_days must be >= 0")
	}
	if len(c.Organize.EnabledCategories) == 0 {
		return errors.New("organize.enabled_categories must include at least one category")
	}
	var unknown []string
	for _, name := range c.Organize.EnabledCategories {
		if _, ok := category.Parse(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		valid := make([]string, 0, len(category.All()))
		for _, cat := range category.All() {
			valid = append(valid, string(cat))
		}
		return fmt.Errorf("organize.enabled_categories: unknown %s (valid: %s)",
			strings.Join(unknown, ", "), strings.Join(valid, ", "))
	}
	if strings.ContainsAny(c.Organize.FolderPrefix, `/\`) {
		return errors.New("organize.folder_prefix must not contain a path separator")
	}
	if c.Organize.FolderPrefix == "." || c.Organize.FolderPrefix == ".." {
		return errors.New("organize.folder_prefix must not be a relative path element")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.MaxManifests < 1 {
		return errors.New("history.max_manifests must be >= 1")
	}
	if c.History.MaxAgeDays < 1 {
		return errors.New("history.max_age_days must be >= 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
