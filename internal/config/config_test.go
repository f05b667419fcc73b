package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/fluxwl/internal/wm"
)

func TestInitDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	require.NoError(t, Init())
	c := Get()
	require.NotNil(t, c)

	assert.Equal(t, 4, c.Session.WorkspaceCount)
	require.NotEmpty(t, c.Screens)

	sc := c.ScreenFor(0)
	assert.Equal(t, wm.ClickToFocus, sc.FocusModel)
	assert.Equal(t, wm.PlaceRowSmart, sc.Placement)
	assert.True(t, sc.FocusNewWindows)
}

func TestScreenForFallsBackToHeadZero(t *testing.T) {
	c := &Config{
		Session: DefaultConfig.Session,
		Screens: []ScreenConfig{{
			FocusModel: "strictmousefocus",
			Placement:  "colminoverlapplacement",
		}},
	}

	sc := c.ScreenFor(3)
	assert.Equal(t, wm.StrictMouseFocus, sc.FocusModel)
	assert.Equal(t, wm.PlaceColMinOverlap, sc.Placement)
}

func TestParsePlacementNames(t *testing.T) {
	tests := map[string]wm.PlacementStrategy{
		"RowSmartPlacement":      wm.PlaceRowSmart,
		"ColSmartPlacement":      wm.PlaceColSmart,
		"CascadePlacement":       wm.PlaceCascade,
		"UnderMousePlacement":    wm.PlaceUnderMouse,
		"RowMinOverlapPlacement": wm.PlaceRowMinOverlap,
		"ColMinOverlapPlacement": wm.PlaceColMinOverlap,
		"AutotabPlacement":       wm.PlaceAutoTab,
		"garbage":                wm.PlaceRowSmart,
	}
	for name, want := range tests {
		c := &Config{Screens: []ScreenConfig{{Placement: name}}}
		assert.Equal(t, want, c.ScreenFor(0).Placement, name)
	}
}

func TestWorkspaceNamesSplit(t *testing.T) {
	c := &Config{Session: SessionConfig{WorkspaceNames: "mail, web ,code"}}
	assert.Equal(t, []string{"mail", "web", "code"}, c.WorkspaceNames())

	c.Session.WorkspaceNames = ""
	assert.Nil(t, c.WorkspaceNames())
}

func TestSaveRCWritesKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "init")
	c := DefaultConfig
	c.Session.KeysFile = "/tmp/keys"

	require.NoError(t, SaveRC(path, &c, 5, []string{"one", "two"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "session.workspaces: 5")
	assert.Contains(t, out, "session.workspaceNames: one,two")
	assert.Contains(t, out, "session.keyFile: /tmp/keys")

	// Unrelated existing keys survive a rewrite.
	require.NoError(t, os.WriteFile(path, append(data, []byte("custom.key: kept\n")...), 0o644))
	require.NoError(t, SaveRC(path, &c, 5, nil))
	data, _ = os.ReadFile(path)
	assert.Contains(t, string(data), "custom.key: kept")
}
