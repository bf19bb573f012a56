// Package config handles Lumen configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration structure for Lumen.
type Config struct {
	// Global settings
	Global GlobalConfig `yaml:"global" mapstructure:"global"`

	// Library settings
	Library LibraryConfig `yaml:"library" mapstructure:"library"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Timeline engine tunables
	Timeline TimelineConfig `yaml:"timeline" mapstructure:"timeline"`

	// UI settings
	UI UIConfig `yaml:"ui" mapstructure:"ui"`
}

// GlobalConfig contains global Lumen settings.
type GlobalConfig struct {
	// DataDir is where Lumen stores its data (default: ~/.local/share/lumen).
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// ConfigDir is where config files are stored (default: ~/.config/lumen).
	ConfigDir string `yaml:"config_dir" mapstructure:"config_dir"`
}

// LibraryConfig contains media library settings.
type LibraryConfig struct {
	// Path is the SQLite library file path. Defaults to DataDir/library.db.
	Path string `yaml:"path" mapstructure:"path"`

	// BusyTimeoutMs is how long to wait for a locked database (milliseconds).
	BusyTimeoutMs int `yaml:"busy_timeout_ms" mapstructure:"busy_timeout_ms"`

	// Descending orders buckets newest first.
	Descending bool `yaml:"descending" mapstructure:"descending"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// File is an optional log file path. Defaults to DataDir/lumen.log
	// while the TUI runs.
	File string `yaml:"file" mapstructure:"file"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// TimelineConfig contains the scroll engine tunables. Values are layout
// units; the TUI maps units to terminal cells.
type TimelineConfig struct {
	// BufferHeight is the physical scroll headroom around the anchor.
	BufferHeight int `yaml:"buffer_height" mapstructure:"buffer_height"`

	// ResetThreshold is the edge distance that arms an anchor reset.
	ResetThreshold int `yaml:"reset_threshold" mapstructure:"reset_threshold"`

	// ResetDebounce is the quiet period before an armed reset executes.
	ResetDebounce time.Duration `yaml:"reset_debounce" mapstructure:"reset_debounce"`

	// LoadRadius is how many buckets around the cursor to keep loaded.
	LoadRadius int `yaml:"load_radius" mapstructure:"load_radius"`

	// BufferMultiplier sizes the near-visible margin in viewport heights.
	BufferMultiplier int `yaml:"buffer_multiplier" mapstructure:"buffer_multiplier"`

	// ChunkMax bounds the height of a single rendered spacer chunk.
	ChunkMax int `yaml:"chunk_max" mapstructure:"chunk_max"`

	// LoadMoreFraction is the legacy-mode load-more trigger fraction.
	LoadMoreFraction float64 `yaml:"load_more_fraction" mapstructure:"load_more_fraction"`
}

// UIConfig contains browser settings.
type UIConfig struct {
	// Columns is the number of thumbnails per row.
	Columns int `yaml:"columns" mapstructure:"columns"`

	// RowHeight is the thumbnail row height in terminal cells.
	RowHeight int `yaml:"row_height" mapstructure:"row_height"`

	// ShowHeaders toggles date headers above each day.
	ShowHeaders bool `yaml:"show_headers" mapstructure:"show_headers"`

	// Theme selects the color theme.
	Theme string `yaml:"theme" mapstructure:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Global: GlobalConfig{
			DataDir:   filepath.Join(homeDir, ".local", "share", "lumen"),
			ConfigDir: filepath.Join(homeDir, ".config", "lumen"),
		},
		Library: LibraryConfig{
			Path:          "", // Will be set to DataDir/library.db
			BusyTimeoutMs: 5000,
			Descending:    true,
		},
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "console",
			EnableCaller: false,
		},
		Timeline: TimelineConfig{
			BufferHeight:     50000,
			ResetThreshold:   2000,
			ResetDebounce:    150 * time.Millisecond,
			LoadRadius:       2,
			BufferMultiplier: 3,
			ChunkMax:         500000,
			LoadMoreFraction: 0.8,
		},
		UI: UIConfig{
			Columns:     4,
			RowHeight:   4,
			ShowHeaders: true,
			Theme:       "default",
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Library.BusyTimeoutMs < 0 {
		return fmt.Errorf("library.busy_timeout_ms must not be negative")
	}

	if c.Timeline.BufferHeight < 1000 {
		return fmt.Errorf("timeline.buffer_height must be at least 1000")
	}

	if c.Timeline.ResetDebounce < 10*time.Millisecond {
		return fmt.Errorf("timeline.reset_debounce must be at least 10ms")
	}

	if c.Timeline.LoadMoreFraction <= 0 || c.Timeline.LoadMoreFraction > 1 {
		return fmt.Errorf("timeline.load_more_fraction must be in (0, 1]")
	}

	if c.UI.Columns < 1 {
		return fmt.Errorf("ui.columns must be at least 1")
	}

	if c.UI.RowHeight < 1 {
		return fmt.Errorf("ui.row_height must be at least 1")
	}

	return nil
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Global.DataDir,
		c.Global.ConfigDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// LibraryPath returns the full library database path.
func (c *Config) LibraryPath() string {
	if c.Library.Path != "" {
		return c.Library.Path
	}
	return filepath.Join(c.Global.DataDir, "library.db")
}

// LogFilePath returns the log file path used while the TUI owns the terminal.
func (c *Config) LogFilePath() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(c.Global.DataDir, "lumen.log")
}
