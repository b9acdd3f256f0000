// Package config loads taskdash settings from YAML files.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	dasherrors "github.com/abatilo/taskdash/internal/errors"
	"github.com/abatilo/taskdash/internal/notify"
	"github.com/abatilo/taskdash/internal/storage"
	"github.com/abatilo/taskdash/internal/view"
)

const (
	configDir  = ".taskdash"
	configFile = "config.yaml"
)

// Config is the merged configuration.
type Config struct {
	Storage       StorageConfig       `yaml:"storage" mapstructure:"storage"`
	Notifications NotificationsConfig `yaml:"notifications" mapstructure:"notifications"`
	View          ViewConfig          `yaml:"view" mapstructure:"view"`
	Dates         DatesConfig         `yaml:"dates" mapstructure:"dates"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

// StorageConfig selects where the task collection lives.
type StorageConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Dir defaults to ~/.taskdash when empty.
	Dir string `yaml:"dir" mapstructure:"dir"`
	Key string `yaml:"key" mapstructure:"key"`
	// PerProject keeps a separate collection for each git project.
	PerProject bool `yaml:"per_project" mapstructure:"per_project"`
}

type NotificationsConfig struct {
	DismissAfter time.Duration `yaml:"dismiss_after" mapstructure:"dismiss_after"`
}

// ViewConfig is the initial filter and sort state of list output.
type ViewConfig struct {
	Status    string `yaml:"status" mapstructure:"status"`
	Priority  string `yaml:"priority" mapstructure:"priority"`
	SortBy    string `yaml:"sort_by" mapstructure:"sort_by"`
	SortOrder string `yaml:"sort_order" mapstructure:"sort_order"`
}

type DatesConfig struct {
	EnforceWindow bool `yaml:"enforce_window" mapstructure:"enforce_window"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	def := view.DefaultState()
	return &Config{
		Storage: StorageConfig{
			Backend: storage.BackendFile,
			Key:     storage.DefaultKey,
		},
		Notifications: NotificationsConfig{DismissAfter: notify.DefaultTTL},
		View: ViewConfig{
			Status:    string(def.Status),
			Priority:  string(def.Priority),
			SortBy:    string(def.SortBy),
			SortOrder: string(def.SortOrder),
		},
		Dates: DatesConfig{EnforceWindow: true},
		Log:   LogConfig{Level: "warn"},
	}
}

// GlobalPath returns ~/.taskdash/config.yaml.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir, configFile), nil
}

// ProjectPath returns <project root>/.taskdash/config.yaml.
func ProjectPath() (string, error) {
	root, err := storage.FindProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, configDir, configFile), nil
}

// Load merges the global config, the project config and explicitPath, in
// that order, over DefaultConfig. Missing global and project files are
// skipped; a missing explicitPath is an error.
func Load(explicitPath string) (*Config, error) {
	cfg := DefaultConfig()

	var candidates []string
	if p, err := GlobalPath(); err == nil {
		candidates = append(candidates, p)
	}
	if p, err := ProjectPath(); err == nil {
		candidates = append(candidates, p)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if explicitPath != "" {
		if err := loadFile(explicitPath, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// WriteDefault writes DefaultConfig to path, creating parent directories.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	//nolint:gosec // G301: 0755 is appropriate for a user config directory
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	//nolint:gosec // G306: config holds no secrets
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects values the rest of the program cannot use.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendMemory:
	default:
		return dasherrors.UnknownBackendError{Name: c.Storage.Backend}
	}
	if c.Storage.Key == "" {
		return dasherrors.ValidationError{Field: "storage.key", Reason: "must not be empty"}
	}
	if c.Notifications.DismissAfter < 0 {
		return dasherrors.ValidationError{Field: "notifications.dismiss_after", Reason: "must not be negative"}
	}
	if _, err := c.ViewState(); err != nil {
		return err
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ViewState converts the view section into a validated view.State.
func (c *Config) ViewState() (view.State, error) {
	status, err := view.ParseStatus(c.View.Status)
	if err != nil {
		return view.State{}, err
	}
	priority, err := view.ParsePriority(c.View.Priority)
	if err != nil {
		return view.State{}, err
	}
	sortBy, err := view.ParseSortKey(c.View.SortBy)
	if err != nil {
		return view.State{}, err
	}
	order, err := view.ParseOrder(c.View.SortOrder)
	if err != nil {
		return view.State{}, err
	}
	return view.State{Status: status, Priority: priority, SortBy: sortBy, SortOrder: order}, nil
}

// DataDir resolves the storage directory: Dir (with ~ expanded) or the
// default, scoped to the git project when PerProject is set.
func (c *Config) DataDir() (string, error) {
	dir := c.Storage.Dir
	switch {
	case dir == "":
		d, err := storage.DefaultDir()
		if err != nil {
			return "", err
		}
		dir = d
	case dir == "~" || strings.HasPrefix(dir, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	if c.Storage.PerProject {
		return storage.ProjectDir(dir)
	}
	return dir, nil
}

// SlogLevel parses Level as a slog level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, dasherrors.ValidationError{Field: "log.level", Reason: fmt.Sprintf("%q is not one of debug, info, warn, error", l.Level)}
	}
	return level, nil
}
