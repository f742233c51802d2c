package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"workjournal/internal/domain"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the journal tree and index locations.
type Paths struct {
	BasePath  string `toml:"base_path"`
	IndexPath string `toml:"index_path"` // empty: derived from base_path under $XDG_DATA_HOME
	LogDir    string `toml:"log_dir"`
}

// WorkWeek is the raw work-week definition. Preset wins over the day fields.
type WorkWeek struct {
	Preset   string `toml:"preset"`
	StartDay int    `toml:"start_day"`
	EndDay   int    `toml:"end_day"`
	Timezone string `toml:"timezone"`
}

// Sync tunes index synchronization.
type Sync struct {
	Workers            int      `toml:"workers"`
	FileTimeoutSeconds int      `toml:"file_timeout_seconds"`
	Ignore             []string `toml:"ignore"`
}

// Editor selects the program used by `edit` and the TUI.
type Editor struct {
	Command string `toml:"command"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for workjournal.
type Config struct {
	Paths    Paths    `toml:"paths"`
	WorkWeek WorkWeek `toml:"work_week"`
	Sync     Sync     `toml:"sync"`
	Editor   Editor   `toml:"editor"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigRelPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. It also reports the resolved path and whether a
// file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ResolveWorkWeek turns the [work_week] section into a validated definition.
// Corrections describe adjustments the caller should surface to the user.
func (c *Config) ResolveWorkWeek() (domain.WorkWeekConfig, []domain.Correction, error) {
	return domain.Resolve(domain.RawWorkWeek{
		Preset:   c.WorkWeek.Preset,
		StartDay: c.WorkWeek.StartDay,
		EndDay:   c.WorkWeek.EndDay,
		Timezone: c.WorkWeek.Timezone,
	})
}

// FileTimeout returns the per-file read budget of a sync pass.
func (c *Config) FileTimeout() time.Duration {
	return time.Duration(c.Sync.FileTimeoutSeconds) * time.Second
}

// LogFile returns the log file used by the long-running binaries.
func (c *Config) LogFile(binary string) string {
	if c.Paths.LogDir == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, binary+".log")
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
// An existing file is left alone.
func CreateSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
