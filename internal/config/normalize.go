package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envBasePath  = "WORKJOURNAL_BASE_PATH"
	envIndexPath = "WORKJOURNAL_INDEX_PATH"
	envTimezone  = "WORKJOURNAL_TIMEZONE"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWorkWeek()
	c.normalizeSync()
	c.normalizeLogging()
	c.Editor.Command = strings.TrimSpace(c.Editor.Command)
	return nil
}

// applyEnv loads ./.env without overriding variables already set, then lets
// WORKJOURNAL_* variables win over the file.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if value, ok := lookupEnv(envBasePath); ok {
		c.Paths.BasePath = value
	}
	if value, ok := lookupEnv(envIndexPath); ok {
		c.Paths.IndexPath = value
	}
	if value, ok := lookupEnv(envTimezone); ok {
		c.WorkWeek.Timezone = value
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.BasePath) == "" {
		c.Paths.BasePath = defaultBasePath
	}
	if c.Paths.BasePath, err = expandPath(strings.TrimSpace(c.Paths.BasePath)); err != nil {
		return fmt.Errorf("paths.base_path: %w", err)
	}
	if c.Paths.IndexPath, err = expandPath(strings.TrimSpace(c.Paths.IndexPath)); err != nil {
		return fmt.Errorf("paths.index_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWorkWeek() {
	c.WorkWeek.Preset = strings.TrimSpace(c.WorkWeek.Preset)
	c.WorkWeek.Timezone = strings.TrimSpace(c.WorkWeek.Timezone)
}

func (c *Config) normalizeSync() {
	ignore := c.Sync.Ignore[:0]
	for _, pattern := range c.Sync.Ignore {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			ignore = append(ignore, pattern)
		}
	}
	c.Sync.Ignore = ignore
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
