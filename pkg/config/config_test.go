package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/tunebook/pkg/bookmarks"
	"github.com/vanderheijden86/tunebook/pkg/treesync"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.RefreshInterval != 100*time.Millisecond {
		t.Errorf("expected refresh interval 100ms, got %v", cfg.RefreshInterval)
	}
	if cfg.MaxRecents != bookmarks.DefaultMaxRecents {
		t.Errorf("expected max recents %d, got %d", bookmarks.DefaultMaxRecents, cfg.MaxRecents)
	}
	if cfg.Tuner.SampleRate != 2_048_000 {
		t.Errorf("expected sample rate 2048000, got %d", cfg.Tuner.SampleRate)
	}
	if cfg.Expand == nil {
		t.Error("expected expand map to be initialized")
	}
	if !cfg.WatchEnabled() {
		t.Error("watching should default to on")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.PanelWidth != 44 {
		t.Errorf("expected default config, got panel width %d", cfg.UI.PanelWidth)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
bookmarks_path: ~/radio/bookmarks.yaml
refresh_interval: 250ms
max_recents: 10

expand:
  range: true
  recent: false

tuner:
  center: 145000000
  sample_rate: 2400000

watch:
  enabled: false
  poll_interval: 5s

ui:
  panel_width: 60
  hide_props: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "radio/bookmarks.yaml"); cfg.BookmarksPath != want {
		t.Errorf("expected expanded path %q, got %q", want, cfg.BookmarksPath)
	}
	if cfg.RefreshInterval != 250*time.Millisecond {
		t.Errorf("expected refresh_interval 250ms, got %v", cfg.RefreshInterval)
	}
	if cfg.MaxRecents != 10 {
		t.Errorf("expected max_recents 10, got %d", cfg.MaxRecents)
	}
	if cfg.Tuner.Center != 145_000_000 || cfg.Tuner.SampleRate != 2_400_000 {
		t.Errorf("unexpected tuner %+v", cfg.Tuner)
	}
	if cfg.WatchEnabled() {
		t.Error("expected watching disabled")
	}
	if cfg.Watch.PollInterval != 5*time.Second {
		t.Errorf("expected poll_interval 5s, got %v", cfg.Watch.PollInterval)
	}
	if cfg.Watch.Debounce != 200*time.Millisecond {
		t.Errorf("unset debounce should keep its default, got %v", cfg.Watch.Debounce)
	}
	if cfg.UI.PanelWidth != 60 || !cfg.UI.HideProps {
		t.Errorf("unexpected ui %+v", cfg.UI)
	}

	state := cfg.ExpandState()
	if !state.Get(treesync.BranchRanges) {
		t.Error("expected View Ranges expanded")
	}
	if state.Get(treesync.BranchRecents) {
		t.Error("expected Recents collapsed")
	}
	if !state.Get(treesync.BranchActive) {
		t.Error("unlisted sections keep their default")
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFrom_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown section", "expand:\n  favourites: true\n  root: true\n", "favourites, root"},
		{"negative rate", "tuner:\n  sample_rate: -1\n", "negative"},
		{"bad duration", "refresh_interval: soon\n", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFrom_ZeroValuesUseDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "refresh_interval: 0s\nmax_recents: 0\nui:\n  panel_width: -3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.RefreshInterval != def.RefreshInterval || cfg.MaxRecents != def.MaxRecents || cfg.UI.PanelWidth != def.UI.PanelWidth {
		t.Errorf("zero values not defaulted: %+v", cfg)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	off := false
	cfg := DefaultConfig()
	cfg.BookmarksPath = "/srv/radio/bookmarks.yaml"
	cfg.RefreshInterval = time.Second
	cfg.Expand = map[string]bool{"bookmark": false}
	cfg.Tuner.Center = 7_100_000
	cfg.Watch.Enabled = &off

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}

	if loaded.BookmarksPath != cfg.BookmarksPath {
		t.Errorf("expected %q, got %q", cfg.BookmarksPath, loaded.BookmarksPath)
	}
	if loaded.RefreshInterval != time.Second {
		t.Errorf("expected 1s, got %v", loaded.RefreshInterval)
	}
	if loaded.ExpandState().Get(treesync.BranchBookmarks) {
		t.Error("expected Bookmarks collapsed after round trip")
	}
	if loaded.Tuner.Center != 7_100_000 {
		t.Errorf("expected center 7100000, got %d", loaded.Tuner.Center)
	}
	if loaded.WatchEnabled() {
		t.Error("expected watching disabled after round trip")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/", filepath.Join(home, "")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestXDGOverrides(t *testing.T) {
	tests := []struct {
		env  string
		fn   func() string
		file func() string
		leaf string
	}{
		{"XDG_CONFIG_HOME", ConfigDir, ConfigPath, "config.yaml"},
		{"XDG_DATA_HOME", DataDir, DefaultBookmarksPath, "bookmarks.yaml"},
		{"XDG_STATE_HOME", StateDir, LogPath, "tunebook.log"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv(tt.env, dir)

			want := filepath.Join(dir, "tunebook")
			if got := tt.fn(); got != want {
				t.Errorf("expected %q, got %q", want, got)
			}
			if got := tt.file(); got != filepath.Join(want, tt.leaf) {
				t.Errorf("expected %q, got %q", filepath.Join(want, tt.leaf), got)
			}
		})
	}
}
