// Package config handles the resource database using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/bnema/fluxwl/internal/rcfile"
	"github.com/bnema/fluxwl/internal/wm"
)

// Config represents the merged resource database
type Config struct {
	Session SessionConfig `mapstructure:"session"`

	// Screens holds per-head overrides; index 0 is the fallback every
	// head inherits from.
	Screens []ScreenConfig `mapstructure:"screens"`
}

// SessionConfig contains the session-global settings
type SessionConfig struct {
	WorkspaceCount int    `mapstructure:"workspace_count"`
	WorkspaceNames string `mapstructure:"workspace_names"` // comma-separated

	KeysFile         string `mapstructure:"keys_file"`
	AppsFile         string `mapstructure:"apps_file"`
	StyleFile        string `mapstructure:"style_file"`
	StyleOverlayFile string `mapstructure:"style_overlay_file"`
	MenuFile         string `mapstructure:"menu_file"`
	SlitListFile     string `mapstructure:"slit_list_file"`

	TerminalCmd string `mapstructure:"terminal_cmd"`

	AllowRemoteActions bool `mapstructure:"allow_remote_actions"`
}

// ScreenConfig contains per-head policy settings
type ScreenConfig struct {
	FocusModel       string `mapstructure:"focus_model"`
	FocusNewWindows  bool   `mapstructure:"focus_new_windows"`
	FocusSameHead    bool   `mapstructure:"focus_same_head"`
	AutoRaise        bool   `mapstructure:"auto_raise"`
	AutoRaiseDelayMs int    `mapstructure:"auto_raise_delay_ms"`

	EdgeSnapThresholdPx int  `mapstructure:"edge_snap_threshold_px"`
	OpaqueMove          bool `mapstructure:"opaque_move"`
	OpaqueResize        bool `mapstructure:"opaque_resize"`
	FullMaximization    bool `mapstructure:"full_maximization"`
	WorkspaceWarping    bool `mapstructure:"workspace_warping"`

	Placement string `mapstructure:"placement"`
	RowDir    string `mapstructure:"row_dir"`
	ColDir    string `mapstructure:"col_dir"`

	DemandsAttentionTimeoutMs int `mapstructure:"demands_attention_timeout_ms"`
}

// DefaultConfig provides sensible defaults
var DefaultConfig = Config{
	Session: SessionConfig{
		WorkspaceCount: 4,
		WorkspaceNames: "",
		TerminalCmd:    "foot",
	},
	Screens: []ScreenConfig{defaultScreen()},
}

func defaultScreen() ScreenConfig {
	return ScreenConfig{
		FocusModel:                "clicktofocus",
		FocusNewWindows:           true,
		AutoRaiseDelayMs:          250,
		EdgeSnapThresholdPx:       10,
		OpaqueMove:                true,
		Placement:                 "rowsmartplacement",
		RowDir:                    "lefttoright",
		ColDir:                    "toptobottom",
		DemandsAttentionTimeoutMs: 500,
	}
}

// Global config instance
var cfg *Config

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("fluxwl")
	viper.SetConfigType("toml")

	viper.AddConfigPath("/etc/fluxwl")
	if home := os.Getenv("HOME"); home != "" {
		viper.AddConfigPath(filepath.Join(home, ".config", "fluxwl"))
	}
	viper.AddConfigPath(".")

	viper.SetDefault("session", DefaultConfig.Session)
	viper.SetDefault("screens", DefaultConfig.Screens)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(c.Screens) == 0 {
		c.Screens = []ScreenConfig{defaultScreen()}
	}
	cfg = c
	return nil
}

// Get returns the current configuration, initializing on first use
func Get() *Config {
	if cfg == nil {
		if err := Init(); err != nil {
			c := DefaultConfig
			cfg = &c
		}
	}
	return cfg
}

// Reset drops the cached config (used by tests and Reconfigure)
func Reset() {
	cfg = nil
	viper.Reset()
}

func parseFocusModel(s string) wm.FocusModel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mousefocus":
		return wm.MouseFocus
	case "strictmousefocus":
		return wm.StrictMouseFocus
	default:
		return wm.ClickToFocus
	}
}

func parsePlacement(s string) wm.PlacementStrategy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "colsmartplacement":
		return wm.PlaceColSmart
	case "cascadeplacement":
		return wm.PlaceCascade
	case "undermouseplacement":
		return wm.PlaceUnderMouse
	case "rowminoverlapplacement":
		return wm.PlaceRowMinOverlap
	case "colminoverlapplacement":
		return wm.PlaceColMinOverlap
	case "autotabplacement":
		return wm.PlaceAutoTab
	default:
		return wm.PlaceRowSmart
	}
}

// ScreenFor merges the per-head overrides into a wm.ScreenConfig. Heads
// without their own entry inherit head 0.
func (c *Config) ScreenFor(head int) *wm.ScreenConfig {
	sc := defaultScreen()
	if len(c.Screens) > 0 {
		if head >= 0 && head < len(c.Screens) {
			sc = c.Screens[head]
		} else {
			sc = c.Screens[0]
		}
	}

	out := wm.DefaultScreenConfig()
	out.FocusModel = parseFocusModel(sc.FocusModel)
	out.FocusNewWindows = sc.FocusNewWindows
	out.FocusSameHead = sc.FocusSameHead
	out.AutoRaise = sc.AutoRaise
	out.AutoRaiseDelayMs = sc.AutoRaiseDelayMs
	out.EdgeSnapThresholdPx = sc.EdgeSnapThresholdPx
	out.OpaqueMove = sc.OpaqueMove
	out.OpaqueResize = sc.OpaqueResize
	out.FullMaximization = sc.FullMaximization
	out.WorkspaceWarping = sc.WorkspaceWarping
	out.Placement = parsePlacement(sc.Placement)
	if strings.EqualFold(sc.RowDir, "righttoleft") {
		out.RowDir = wm.RowRightToLeft
	}
	if strings.EqualFold(sc.ColDir, "bottomtotop") {
		out.ColDir = wm.ColBottomToTop
	}
	out.DemandsAttentionTimeoutMs = sc.DemandsAttentionTimeoutMs
	out.AllowRemoteActions = c.Session.AllowRemoteActions
	return &out
}

// WorkspaceNames splits the comma-separated name list.
func (c *Config) WorkspaceNames() []string {
	if strings.TrimSpace(c.Session.WorkspaceNames) == "" {
		return nil
	}
	parts := strings.Split(c.Session.WorkspaceNames, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// InitFilePath returns the persisted init file location.
func InitFilePath() string {
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "fluxwl", "init")
	}
	return "fluxwl-init"
}

// SaveRC writes the session state keys back to the init file through the
// atomic rcfile rewrite, leaving unrelated keys untouched.
func SaveRC(path string, c *Config, workspaceCount int, names []string) error {
	f, err := rcfile.Load(path)
	if err != nil {
		return err
	}

	f.Set("session.workspaces", strconv.Itoa(workspaceCount))
	if len(names) > 0 {
		f.Set("session.workspaceNames", strings.Join(names, ","))
	}
	if c != nil {
		s := c.Session
		if s.KeysFile != "" {
			f.Set("session.keyFile", s.KeysFile)
		}
		if s.AppsFile != "" {
			f.Set("session.appsFile", s.AppsFile)
		}
		if s.StyleFile != "" {
			f.Set("session.styleFile", s.StyleFile)
		}
		if s.StyleOverlayFile != "" {
			f.Set("session.styleOverlay", s.StyleOverlayFile)
		}
		if s.MenuFile != "" {
			f.Set("session.menuFile", s.MenuFile)
		}
		if s.SlitListFile != "" {
			f.Set("session.slitlistFile", s.SlitListFile)
		}
		if len(c.Screens) > 0 {
			sc := c.Screens[0]
			f.Set("session.screen0.focusModel", sc.FocusModel)
			f.Set("session.screen0.autoRaise", strconv.FormatBool(sc.AutoRaise))
			f.Set("session.screen0.focusSameHead", strconv.FormatBool(sc.FocusSameHead))
			f.Set("session.screen0.demandsAttentionTimeout", strconv.Itoa(sc.DemandsAttentionTimeoutMs))
		}
		f.Set("session.allowRemoteActions", strconv.FormatBool(s.AllowRemoteActions))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir for init file: %w", err)
	}
	return f.Save()
}
