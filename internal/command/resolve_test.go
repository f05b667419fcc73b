package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWorkspaceCommands(t *testing.T) {
	tests := []struct {
		name string
		line string
		ok   bool
		want Resolved
	}{
		{"one-based switch", "Workspace 3", true, Resolved{Action: ActionWorkspaceSwitch, Arg: 2}},
		{"workspace 1 selects 0", "Workspace 1", true, Resolved{Action: ActionWorkspaceSwitch, Arg: 0}},
		{"workspace 0 rejected", "Workspace 0", false, Resolved{}},
		{"next with count", "NextWorkspace 2", true, Resolved{Action: ActionWorkspaceNext, Arg: 2}},
		{"right is nowrap", "RightWorkspace", true, Resolved{Action: ActionWorkspaceNext, Arg: 1, Cmd: "nowrap"}},
		{"left is nowrap", "LeftWorkspace", true, Resolved{Action: ActionWorkspacePrev, Arg: 1, Cmd: "nowrap"}},
		{"send one-based", "SendToWorkspace 1", true, Resolved{Action: ActionSendToWorkspace, Arg: 0}},
		{"take one-based", "TakeToWorkspace 2", true, Resolved{Action: ActionTakeToWorkspace, Arg: 1}},
		{"send prev negates", "SendToPrevWorkspace 2", true, Resolved{Action: ActionSendToRelWorkspace, Arg: -2}},
		{"garbage workspace", "Workspace abc", false, Resolved{}},
		{"missing workspace", "Workspace", false, Resolved{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveLine(tt.line)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResolveWorkspaceOneIsIndexZero(t *testing.T) {
	r, ok := ResolveLine("Workspace 1")
	require.True(t, ok)
	assert.Equal(t, 0, r.Arg)
}

func TestResolveLayer(t *testing.T) {
	tests := []struct {
		line string
		arg  int
	}{
		{"SetLayer Top", 6},
		{"SetLayer normal", 8},
		{"SetLayer bottom", 10},
		{"SetLayer desktop", 12},
		{"SetLayer background", 12},
		{"SetLayer abovedock", 2},
		{"SetLayer dock", 4},
		{"SetLayer menu", 0},
		{"SetLayer overlay", 0},
		{"SetLayer 4", 4},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			r, ok := ResolveLine(tt.line)
			require.True(t, ok)
			assert.Equal(t, ActionSetLayer, r.Action)
			assert.Equal(t, tt.arg, r.Arg)
		})
	}

	_, ok := ResolveLine("SetLayer sideways")
	assert.False(t, ok)
}

func TestResolveAliases(t *testing.T) {
	for _, name := range []string{"exec", "execute", "execcommand"} {
		r, ok := Resolve(name, "xterm -e top")
		require.True(t, ok, name)
		assert.Equal(t, ActionExec, r.Action)
		assert.Equal(t, "xterm -e top", r.Cmd)
	}
	for _, name := range []string{"reconfig", "reconfigure"} {
		r, ok := Resolve(name, "")
		require.True(t, ok, name)
		assert.Equal(t, ActionReconfigure, r.Action)
	}
	_, ok := Resolve("exec", "")
	assert.False(t, ok, "exec requires a command")
}

func TestResolveTabs(t *testing.T) {
	r, ok := ResolveLine("Tab 4")
	require.True(t, ok)
	assert.Equal(t, ActionTabGoto, r.Action)
	assert.Equal(t, 3, r.Arg)

	_, ok = ResolveLine("Tab 0")
	assert.False(t, ok)
	_, ok = ResolveLine("Tab nope")
	assert.False(t, ok)

	r, ok = ResolveLine("Tab")
	require.True(t, ok)
	assert.Equal(t, 0, r.Arg)
}

func TestResolveArrange(t *testing.T) {
	r, ok := ResolveLine("ArrangeWindowsVertical")
	require.True(t, ok)
	assert.Equal(t, ActionArrangeWindows, r.Action)
	assert.Equal(t, ArrangeVertical, r.Arg)

	r, ok = ResolveLine("ArrangeWindowsStackLeft (class=term)")
	require.True(t, ok)
	assert.Equal(t, ArrangeStackLeft, r.Arg)
	assert.Equal(t, "(class=term)", r.Cmd)
}

func TestResolveActivateWithPattern(t *testing.T) {
	r, ok := ResolveLine("Activate (title=editor)")
	require.True(t, ok)
	assert.Equal(t, ActionGotoWindow, r.Action)
	assert.Equal(t, 1, r.Arg)
	assert.Equal(t, "(title=editor)", r.Cmd)

	r, ok = ResolveLine("Focus")
	require.True(t, ok)
	assert.Equal(t, ActionFocus, r.Action)
}

func TestResolveGeometryCommands(t *testing.T) {
	_, ok := ResolveLine("MoveTo 10")
	assert.False(t, ok, "MoveTo needs two tokens")

	r, ok := ResolveLine("MoveTo 10 20")
	require.True(t, ok)
	assert.Equal(t, ActionMoveTo, r.Action)

	r, ok = ResolveLine("MoveRight 5")
	require.True(t, ok)
	assert.Equal(t, ActionMoveRel, r.Action)
	assert.Equal(t, MoveRelRight, r.Arg)

	_, ok = ResolveLine("Resize 10")
	assert.False(t, ok)

	r, ok = ResolveLine("ResizeHorizontal -20")
	require.True(t, ok)
	assert.Equal(t, ResizeRelHorizontal, r.Arg)
}

func TestResolveSetXProp(t *testing.T) {
	_, ok := ResolveLine("SetXProp =bad")
	assert.False(t, ok)

	r, ok := ResolveLine("SetXProp _MY_PROP=hello world")
	require.True(t, ok)
	assert.Equal(t, ActionSetXProp, r.Action)
	assert.Equal(t, "_MY_PROP=hello world", r.Cmd)
}

func TestResolveCompound(t *testing.T) {
	r, ok := ResolveLine("If {matches (minimized=yes)} {Deiconify}")
	require.True(t, ok)
	assert.Equal(t, ActionIf, r.Action)

	r, ok = ResolveLine("MacroCmd {Raise} {Maximize}")
	require.True(t, ok)
	assert.Equal(t, ActionMacro, r.Action)

	_, ok = ResolveLine("ToggleCmd")
	assert.False(t, ok)
}

func TestResolveUnknown(t *testing.T) {
	_, ok := ResolveLine("FrobnicateWindow")
	assert.False(t, ok)
	_, ok = ResolveLine("")
	assert.False(t, ok)
}

func TestResolveCaseInsensitive(t *testing.T) {
	for _, line := range []string{"MAXIMIZE", "maximize", "MaXiMiZe"} {
		r, ok := ResolveLine(line)
		require.True(t, ok, line)
		assert.Equal(t, ActionToggleMaximize, r.Action)
	}
}
