package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"tidy/internal/config"
	"tidy/internal/logging"
	"tidy/internal/manifest"
	"tidy/internal/organizer"
)

type commandContext struct {
	configFlag string
	verbose    bool
	quiet      bool
	jsonOutput bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
	logger     *slog.Logger
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		if c.verbose {
			cfg.Logging.Level = "debug"
		}
		logger, err := logging.NewFromConfig(cfg, c.verbose)
		if err != nil {
			c.configErr = fmt.Errorf("init logger: %w", err)
			return
		}
		logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, cfg.Paths.LogDir, logging.LogFilePattern, time.Now())
		c.config = cfg
		c.configPath = path
		c.logger = logger
	})
	return c.config, c.configErr
}

// JSONMode reports whether --json was given.
func (c *commandContext) JSONMode() bool {
	return c.jsonOutput
}

func (c *commandContext) store() *manifest.Store {
	return manifest.NewStore(c.config.HistoryDir(),
		manifest.WithRetention(c.config.History.MaxManifests, c.config.History.MaxAgeDays),
		manifest.WithLogger(c.logger),
	)
}

func (c *commandContext) organizer() (*organizer.Organizer, organizer.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, organizer.Config{}, err
	}
	org := organizer.New(c.store(), c.logger, organizer.WithRunLock(cfg.LockPath()))
	return org, organizer.FromConfig(cfg), nil
}

// printf writes informational output unless --quiet was given.
func (c *commandContext) printf(out io.Writer, format string, args ...any) {
	if c.quiet {
		return
	}
	fmt.Fprintf(out, format, args...)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
