// Package config loads the application configuration from a TOML file.
// Every setting has a default; a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the config file looked up next to the binary when no
// explicit path is given.
const DefaultFileName = "padbind.toml"

// Config is the full application configuration.
type Config struct {
	Combinations CombinationsConfig `toml:"combinations"`
	Bus          BusConfig          `toml:"bus"`
	Preview      PreviewConfig      `toml:"preview"`
	Watcher      WatcherConfig      `toml:"watcher"`
	Log          LogConfig          `toml:"log"`
}

// CombinationsConfig controls where definitions live.
type CombinationsConfig struct {
	// Directory holds the definition files. Empty means a "combinations"
	// directory under the working directory, created on demand.
	Directory string `toml:"directory"`
}

// BusConfig controls event delivery.
type BusConfig struct {
	// QueueSize is the per-subscriber delivery queue capacity.
	QueueSize int `toml:"queue_size"`
}

// PreviewConfig controls preview timing, in milliseconds.
type PreviewConfig struct {
	DelayMS  int `toml:"delay_ms"`
	PollMS   int `toml:"poll_ms"`
	BudgetMS int `toml:"budget_ms"`
}

// Delay returns the display delay as a duration.
func (p PreviewConfig) Delay() time.Duration { return time.Duration(p.DelayMS) * time.Millisecond }

// Poll returns the staleness poll interval as a duration.
func (p PreviewConfig) Poll() time.Duration { return time.Duration(p.PollMS) * time.Millisecond }

// Budget returns the absolute display budget as a duration.
func (p PreviewConfig) Budget() time.Duration { return time.Duration(p.BudgetMS) * time.Millisecond }

// WatcherConfig controls the definition-directory watcher.
type WatcherConfig struct {
	Enabled    bool `toml:"enabled"`
	DebounceMS int  `toml:"debounce_ms"`
}

// Debounce returns the debounce window as a duration.
func (w WatcherConfig) Debounce() time.Duration { return time.Duration(w.DebounceMS) * time.Millisecond }

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Default returns the configuration used when no file overrides anything.
func Default() Config {
	return Config{
		Bus:     BusConfig{QueueSize: 256},
		Preview: PreviewConfig{DelayMS: 100, PollMS: 100, BudgetMS: 10000},
		Watcher: WatcherConfig{Enabled: true, DebounceMS: 250},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads the config file at path over the defaults. A missing file
// yields the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize clamps nonsensical values back to their defaults.
func (c *Config) normalize() {
	def := Default()
	if c.Bus.QueueSize <= 0 {
		c.Bus.QueueSize = def.Bus.QueueSize
	}
	if c.Preview.DelayMS < 0 {
		c.Preview.DelayMS = def.Preview.DelayMS
	}
	if c.Preview.PollMS <= 0 {
		c.Preview.PollMS = def.Preview.PollMS
	}
	if c.Preview.BudgetMS <= 0 {
		c.Preview.BudgetMS = def.Preview.BudgetMS
	}
	if c.Watcher.DebounceMS <= 0 {
		c.Watcher.DebounceMS = def.Watcher.DebounceMS
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
