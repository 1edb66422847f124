// Package config provides configuration types and defaults for folio.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/folio/internal/deck"
	"github.com/zjrosen/folio/internal/log"
)

// Config holds all configuration options for folio.
type Config struct {
	// Autoplay starts the deck with autoplay enabled.
	Autoplay bool `mapstructure:"autoplay"`
	// Interval is the default autoplay delay for slides without a duration.
	Interval time.Duration `mapstructure:"interval"`
	// Resume reopens a deck at the slide it was last left on.
	Resume  bool            `mapstructure:"resume"`
	Input   InputConfig     `mapstructure:"input"`
	Fit     FitConfig       `mapstructure:"fit"`
	Tracker TrackerConfig   `mapstructure:"tracker"`
	UI      UIConfig        `mapstructure:"ui"`
	Watch   WatchConfig     `mapstructure:"watch"`
	Store   StoreConfig     `mapstructure:"store"`
	Remote  RemoteConfig    `mapstructure:"remote"`
	Tracing TracingConfig   `mapstructure:"tracing"`
	Flags   map[string]bool `mapstructure:"flags"`
}

// InputConfig holds gesture thresholds, in terminal rows.
type InputConfig struct {
	WheelThreshold float64       `mapstructure:"wheel_threshold"`
	WheelCooldown  time.Duration `mapstructure:"wheel_cooldown"`
	WheelNotch     float64       `mapstructure:"wheel_notch"` // rows per wheel notch
	SwipeThreshold float64       `mapstructure:"swipe_threshold"`
	TouchSlop      float64       `mapstructure:"touch_slop"`
}

// FitConfig holds viewport fit options.
type FitConfig struct {
	Padding float64 `mapstructure:"padding"` // rows kept free below the banner
}

// TrackerConfig holds position tracker options.
type TrackerConfig struct {
	TieBreak string `mapstructure:"tie_break"` // "previous" (default), "earlier" or "later"
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark", "light" or "auto" (default)
	ShowChrome    bool   `mapstructure:"show_chrome"`
	ShowNotes     bool   `mapstructure:"show_notes"`
}

// WatchConfig controls live reload.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// StoreConfig controls the resume position store.
type StoreConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Path is the SQLite database file.
	// Default: ~/.config/folio/folio.db
	Path string `mapstructure:"path"`
}

// RemoteConfig controls the remote control server.
type RemoteConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Addr            string `mapstructure:"addr"`
	AllowAllOrigins bool   `mapstructure:"allow_all_origins"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/folio/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Dir returns the user config directory for folio.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".folio")
	}
	return filepath.Join(home, ".config", "folio")
}

// DefaultTracesFilePath returns the default path for trace files.
func DefaultTracesFilePath() string {
	return filepath.Join(Dir(), "traces", "traces.jsonl")
}

// DefaultStorePath returns the default resume store location.
func DefaultStorePath() string {
	return filepath.Join(Dir(), "folio.db")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	in := deck.DefaultInputConfig()
	return Config{
		Interval: deck.DefaultInterval,
		Resume:   true,
		Input: InputConfig{
			WheelThreshold: in.WheelThreshold,
			WheelCooldown:  in.WheelCooldown,
			WheelNotch:     3,
			SwipeThreshold: in.SwipeThreshold,
			TouchSlop:      in.TouchSlop,
		},
		Fit: FitConfig{
			Padding: 1,
		},
		Tracker: TrackerConfig{
			TieBreak: "previous",
		},
		UI: UIConfig{
			MarkdownStyle: "auto",
			ShowChrome:    true,
			ShowNotes:     false,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 100 * time.Millisecond,
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    DefaultStorePath(),
		},
		Remote: RemoteConfig{
			Enabled: false,
			Addr:    "127.0.0.1:7007",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the whole configuration.
func Validate(c Config) error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if err := ValidateInput(c.Input); err != nil {
		return err
	}
	if c.Fit.Padding < 0 {
		return fmt.Errorf("fit.padding must not be negative, got %v", c.Fit.Padding)
	}
	if _, err := deck.ParseTieBreak(c.Tracker.TieBreak); err != nil {
		return fmt.Errorf("tracker.tie_break: %w", err)
	}
	switch c.UI.MarkdownStyle {
	case "", "auto", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"auto\", \"dark\" or \"light\", got %q", c.UI.MarkdownStyle)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", c.Watch.Debounce)
	}
	if c.Remote.Enabled && c.Remote.Addr == "" {
		return fmt.Errorf("remote.addr is required when remote is enabled")
	}
	return ValidateTracing(c.Tracing)
}

// ValidateInput checks gesture thresholds.
func ValidateInput(in InputConfig) error {
	switch {
	case in.WheelThreshold < 0:
		return fmt.Errorf("input.wheel_threshold must not be negative, got %v", in.WheelThreshold)
	case in.WheelCooldown < 0:
		return fmt.Errorf("input.wheel_cooldown must not be negative, got %v", in.WheelCooldown)
	case in.WheelNotch <= 0:
		return fmt.Errorf("input.wheel_notch must be positive, got %v", in.WheelNotch)
	case in.SwipeThreshold < 0:
		return fmt.Errorf("input.swipe_threshold must not be negative, got %v", in.SwipeThreshold)
	case in.TouchSlop < 0:
		return fmt.Errorf("input.touch_slop must not be negative, got %v", in.TouchSlop)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DeckConfig converts the user configuration into engine settings.
func (c Config) DeckConfig(smooth bool) deck.Config {
	tb, _ := deck.ParseTieBreak(c.Tracker.TieBreak)
	dc := deck.DefaultConfig()
	dc.Interval = c.Interval
	dc.SmoothScroll = smooth
	dc.FitPadding = c.Fit.Padding
	dc.TieBreak = tb
	dc.Input = deck.InputConfig{
		WheelThreshold: c.Input.WheelThreshold,
		WheelCooldown:  c.Input.WheelCooldown,
		SwipeThreshold: c.Input.SwipeThreshold,
		TouchSlop:      c.Input.TouchSlop,
	}
	return dc
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Folio Configuration

# Start every deck with autoplay on (toggle with 'a')
autoplay: false

# Default autoplay delay; slides may override it with <!-- duration: 8s -->
interval: 5s

# Reopen a deck on the slide it was last left on
resume: true

# Gesture thresholds, in terminal rows
input:
  wheel_threshold: 1      # wheel deltas at or below this are ignored
  wheel_cooldown: 700ms   # wheel paging is suppressed this long after a page turn
  wheel_notch: 3          # rows per mouse wheel notch
  swipe_threshold: 3      # mouse drags longer than this page the deck
  touch_slop: 1           # drag distance after which a drag is a swipe

# Content scaling
fit:
  padding: 1              # rows kept free under the banner

# Active slide detection
tracker:
  tie_break: previous     # previous, earlier or later

# UI settings
ui:
  markdown_style: auto    # auto, dark or light
  show_chrome: true       # banner and progress bar (toggle with 'c')
  show_notes: false       # presenter notes pane (toggle with 'n')

# Live reload
watch:
  enabled: true
  debounce: 100ms

# Resume position store
store:
  enabled: true
  # path: ~/.config/folio/folio.db

# Remote control (HTTP + websocket)
# remote:
#   enabled: true
#   addr: 127.0.0.1:7007
#   allow_all_origins: false

# Tracing of navigation spans
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/folio/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0

# Feature flags
# flags:
#   reduced-motion: true           # jump between slides without animation
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
