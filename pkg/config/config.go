// Package config handles loading and saving tunebook configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/tunebook/config.yaml
//   - Data:    ~/.local/share/tunebook/ (bookmarks.yaml)
//   - State:   ~/.local/state/tunebook/ (debug log)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/tunebook/pkg/bookmarks"
	"github.com/vanderheijden86/tunebook/pkg/treesync"
)

const appName = "tunebook"

// TunerConfig is the receiver state a session starts with.
type TunerConfig struct {
	Center     int64 `yaml:"center,omitempty"`      // Hz
	SampleRate int64 `yaml:"sample_rate,omitempty"` // Hz
}

// WatchConfig controls reloading the bookmark file when another process
// changes it.
type WatchConfig struct {
	Enabled      *bool         `yaml:"enabled,omitempty"`
	ForcePoll    bool          `yaml:"force_poll,omitempty"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
	Debounce     time.Duration `yaml:"debounce,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	PanelWidth int  `yaml:"panel_width,omitempty"` // Width of the tree column
	HideProps  bool `yaml:"hide_props,omitempty"`  // Start with the properties pane hidden
}

// Config is the top-level configuration for tunebook.
type Config struct {
	BookmarksPath   string          `yaml:"bookmarks_path,omitempty"`
	RefreshInterval time.Duration   `yaml:"refresh_interval,omitempty"`
	SaveDelay       time.Duration   `yaml:"save_delay,omitempty"`
	MaxRecents      int             `yaml:"max_recents,omitempty"`
	Expand          map[string]bool `yaml:"expand,omitempty"` // Section id -> expanded
	Tuner           TunerConfig     `yaml:"tuner,omitempty"`
	Watch           WatchConfig     `yaml:"watch,omitempty"`
	UI              UIConfig        `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BookmarksPath:   DefaultBookmarksPath(),
		RefreshInterval: 100 * time.Millisecond,
		SaveDelay:       500 * time.Millisecond,
		MaxRecents:      bookmarks.DefaultMaxRecents,
		Expand:          make(map[string]bool),
		Tuner: TunerConfig{
			Center:     100_000_000,
			SampleRate: 2_048_000,
		},
		Watch: WatchConfig{
			PollInterval: 2 * time.Second,
			Debounce:     200 * time.Millisecond,
		},
		UI: UIConfig{
			PanelWidth: 44,
		},
	}
}

func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...)
}

// ConfigDir returns the XDG config directory for tunebook.
func ConfigDir() string { return xdgDir("XDG_CONFIG_HOME", ".config") }

// DataDir returns the XDG data directory for tunebook.
func DataDir() string { return xdgDir("XDG_DATA_HOME", ".local", "share") }

// StateDir returns the XDG state directory for tunebook.
func StateDir() string { return xdgDir("XDG_STATE_HOME", ".local", "state") }

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultBookmarksPath is where bookmarks live unless configured otherwise.
func DefaultBookmarksPath() string {
	dir := DataDir()
	if dir == "" {
		return "bookmarks.yaml"
	}
	return filepath.Join(dir, "bookmarks.yaml")
}

// LogPath is the file the TUI writes debug output to.
func LogPath() string {
	dir := StateDir()
	if dir == "" {
		return filepath.Join(os.TempDir(), appName+".log")
	}
	return filepath.Join(dir, appName+".log")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// normalize fills zero values with defaults and rejects settings that
// cannot work.
func (c *Config) normalize() error {
	def := DefaultConfig()
	if c.BookmarksPath == "" {
		c.BookmarksPath = def.BookmarksPath
	}
	c.BookmarksPath = expandHome(c.BookmarksPath)
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = def.RefreshInterval
	}
	if c.SaveDelay <= 0 {
		c.SaveDelay = def.SaveDelay
	}
	if c.MaxRecents <= 0 {
		c.MaxRecents = def.MaxRecents
	}
	if c.Expand == nil {
		c.Expand = make(map[string]bool)
	}
	var unknown []string
	for k := range c.Expand {
		if !treesync.Branch(k).Valid() {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("config: unknown section(s) in expand: %s", strings.Join(unknown, ", "))
	}
	if c.Tuner.SampleRate < 0 || c.Tuner.Center < 0 {
		return fmt.Errorf("config: tuner frequencies must not be negative")
	}
	if c.Tuner.SampleRate == 0 {
		c.Tuner.SampleRate = def.Tuner.SampleRate
	}
	if c.Tuner.Center == 0 {
		c.Tuner.Center = def.Tuner.Center
	}
	if c.Watch.PollInterval <= 0 {
		c.Watch.PollInterval = def.Watch.PollInterval
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = def.Watch.Debounce
	}
	if c.UI.PanelWidth <= 0 {
		c.UI.PanelWidth = def.UI.PanelWidth
	}
	return nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandState converts the configured section states, falling back to the
// built-in layout for sections not listed.
func (c Config) ExpandState() treesync.ExpandState {
	state := treesync.DefaultExpandState()
	for k, v := range c.Expand {
		state[treesync.Branch(k)] = v
	}
	return state
}

// WatchEnabled reports whether the bookmark file should be watched. It
// defaults to true.
func (c Config) WatchEnabled() bool {
	return c.Watch.Enabled == nil || *c.Watch.Enabled
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
