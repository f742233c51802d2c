package config

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateWorkWeek(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.BasePath == "" {
		return errors.New("paths.base_path must be set")
	}
	return nil
}

func (c *Config) validateWorkWeek() error {
	if _, _, err := c.ResolveWorkWeek(); err != nil {
		return fmt.Errorf("work_week: %w", err)
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.Workers < 1 {
		return errors.New("sync.workers must be >= 1")
	}
	if c.Sync.FileTimeoutSeconds < 1 {
		return errors.New("sync.file_timeout_seconds must be >= 1")
	}
	for _, pattern := range c.Sync.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("sync.ignore %q: %w", pattern, err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
