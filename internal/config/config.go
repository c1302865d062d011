package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// CategoryStyle is the display palette entry for one category.
type CategoryStyle struct {
	Color     string `yaml:"color" json:"color"`
	TextColor string `yaml:"text_color,omitempty" json:"text_color,omitempty"`
}

// SourceConfig describes one calendar source feeding canonical events.
type SourceConfig struct {
	// ID is an internal identifier used for logging and de-dup.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
	// Local marks the source as locally owned: its single-event end
	// dates are inclusive and need the +1-day exclusive adjustment when
	// rendered. External subscriptions already carry exclusive ends.
	Local bool `yaml:"local" json:"local"`
}

// ReminderConfig controls the polling reminder scheduler.
type ReminderConfig struct {
	// Enabled turns the scheduler on.
	Enabled bool `yaml:"enabled" json:"enabled"`
	// PollCron is a cron-style schedule for the sweep (e.g. "@every 1m").
	PollCron string `yaml:"poll" json:"poll"`
	// LeadMinutes fires notifications this many minutes before an
	// occurrence boundary.
	LeadMinutes int `yaml:"lead_minutes" json:"lead_minutes"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA display timezone (e.g. "Europe/Budapest").
	// Events without a zone of their own inherit it.
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart controls the first day of the week in calendar views:
	// "monday" (default) or "sunday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	// GroupByCategory enables category/sub-category resource lanes in
	// the rendered view.
	GroupByCategory bool `yaml:"group_by_category" json:"group_by_category"`

	// Categories maps category names to display colors.
	Categories map[string]CategoryStyle `yaml:"categories" json:"categories"`

	// Sources lists the calendar sources events are read from.
	Sources []SourceConfig `yaml:"sources" json:"sources"`

	// Reminder configures the notification scheduler.
	Reminder ReminderConfig `yaml:"reminder" json:"reminder"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:        "UTC",
		WeekStart:       "monday",
		GroupByCategory: false,
		Categories:      map[string]CategoryStyle{},
		Sources:         []SourceConfig{},
		Reminder: ReminderConfig{
			Enabled:     false,
			PollCron:    "@every 1m",
			LeadMinutes: 10,
		},
	}
}

// Normalize fills missing/zero values with defaults so partially-filled
// configs from older versions still behave.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		c.WeekStart = "monday"
	}
	if c.Categories == nil {
		c.Categories = map[string]CategoryStyle{}
	}
	if c.Sources == nil {
		c.Sources = []SourceConfig{}
	}
	if c.Reminder.PollCron == "" {
		c.Reminder.PollCron = "@every 1m"
	}
	if c.Reminder.LeadMinutes <= 0 {
		c.Reminder.LeadMinutes = 10
	}
}

// Location resolves the configured display timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load loads configuration from the given YAML path. A missing file is a
// first run: a default config is written (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename) with
// 0600 permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".notecal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save for convenience.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
