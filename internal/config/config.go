// Package config loads sowkit's runtime settings and the business
// constants the engagement engine is configured with.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/HendryAvila/sowkit/internal/engagement"
)

// Config is the on-disk configuration, ~/.sowkit/config.yaml by default.
type Config struct {
	// DataDir holds SOW records and, unless overridden, the catalog database.
	DataDir string `yaml:"data_dir"`

	Catalog    CatalogConfig    `yaml:"catalog"`
	Engagement EngagementConfig `yaml:"engagement"`
	Log        LogConfig        `yaml:"log"`
}

// CatalogConfig points at the live store and the static fallback.
type CatalogConfig struct {
	// Database is the SQLite file of the live catalog (default <data_dir>/catalog.db).
	Database string `yaml:"database"`

	// StaticPath replaces the embedded fallback catalog when set.
	StaticPath string `yaml:"static_path"`

	// Watch reloads StaticPath when it changes.
	Watch bool `yaml:"watch"`

	// MaxSearchResults caps catalog_search (default 50).
	MaxSearchResults int `yaml:"max_search_results"`
}

// EngagementConfig mirrors engagement.Options.
type EngagementConfig struct {
	ItemSectionThreshold *int                `yaml:"item_section_threshold"`
	FunctionOrder        []string            `yaml:"function_order"`
	Tiers                []engagement.Tier   `yaml:"tiers"`
	Defaults             engagement.Defaults `yaml:"defaults"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultDir is ~/.sowkit.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sowkit")
}

// DefaultPath is the config file read when no --config flag is given.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Default returns the configuration used when no file exists.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// Load reads the YAML file at path. A missing file is not an error: the
// defaults are returned instead. Fields left empty in the file take their
// default value, and the result is validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDir()
	}
	if c.Catalog.Database == "" {
		c.Catalog.Database = filepath.Join(c.DataDir, "catalog.db")
	}
	if c.Catalog.MaxSearchResults == 0 {
		c.Catalog.MaxSearchResults = 50
	}

	e := &c.Engagement
	if e.ItemSectionThreshold == nil {
		n := engagement.DefaultItemSectionThreshold
		e.ItemSectionThreshold = &n
	}
	if len(e.FunctionOrder) == 0 {
		e.FunctionOrder = engagement.DefaultFunctionOrder()
	}
	if len(e.Tiers) == 0 {
		e.Tiers = engagement.DefaultTiers()
	}
	std := engagement.StandardDefaults()
	if e.Defaults.HoursLow == 0 {
		e.Defaults.HoursLow = std.HoursLow
	}
	if e.Defaults.HoursHigh == 0 {
		e.Defaults.HoursHigh = std.HoursHigh
	}
	if e.Defaults.Rate == 0 {
		e.Defaults.Rate = std.Rate
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the engagement section; runtime paths are checked
// when they are opened.
func (c Config) Validate() error {
	if c.Catalog.MaxSearchResults < 0 {
		return fmt.Errorf("catalog.max_search_results must not be negative")
	}
	if err := c.EngagementOptions().Validate(); err != nil {
		return fmt.Errorf("engagement: %w", err)
	}
	return nil
}

// EngagementOptions converts the engagement section for the engine. The
// returned slices are copies.
func (c Config) EngagementOptions() engagement.Options {
	opts := engagement.DefaultOptions()
	e := c.Engagement
	if e.ItemSectionThreshold != nil {
		opts.ItemSectionThreshold = *e.ItemSectionThreshold
	}
	if len(e.FunctionOrder) > 0 {
		opts.FunctionOrder = append([]string(nil), e.FunctionOrder...)
	}
	if len(e.Tiers) > 0 {
		opts.Tiers = append([]engagement.Tier(nil), e.Tiers...)
	}
	if e.Defaults != (engagement.Defaults{}) {
		opts.Defaults = e.Defaults
	}
	return opts
}

// SOWDir is where SOW records are stored.
func (c Config) SOWDir() string {
	return filepath.Join(c.DataDir, "sows")
}
