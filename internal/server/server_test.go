package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/fluxwl/internal/config"
	"github.com/bnema/fluxwl/internal/dispatch"
	"github.com/bnema/fluxwl/internal/event"
	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/surface"
	"github.com/bnema/fluxwl/internal/wm"
)

func newTestServer(t *testing.T) (*Server, *event.ManualClock) {
	t.Helper()
	clock := event.NewManualClock()
	cfg := config.DefaultConfig
	cfg.Screens = append([]config.ScreenConfig(nil), cfg.Screens...)
	srv := New(Options{
		Outputs: []*geom.Output{
			{Name: "OUT-A", Box: geom.Box{Width: 1000, Height: 500}, Enabled: true},
		},
		Clock:    clock,
		Config:   &cfg,
		InitFile: filepath.Join(t.TempDir(), "init"),
	})
	t.Cleanup(srv.Shutdown)
	return srv, clock
}

func (s *Server) newMapped(t *testing.T, title string) *wm.View {
	t.Helper()
	top := surface.NewHeadless(surface.KindNative, 300, 200)
	top.TitleText = title
	v := s.SurfaceCreated(top, nil, &surface.HeadlessForeign{})
	s.SurfaceMapped(v)
	return v
}

func TestMapFocusesNewView(t *testing.T) {
	srv, _ := newTestServer(t)
	v := srv.newMapped(t, "first")

	assert.Same(t, v, srv.Core.Focused)
	assert.True(t, v.Placed)
	assert.True(t, v.Surface.(*surface.HeadlessToplevel).Activated)

	foreign := v.Foreign.(*surface.HeadlessForeign)
	assert.True(t, foreign.Activated)
	assert.Equal(t, "first", foreign.Title)
	assert.Equal(t, "OUT-A", foreign.Output)
}

func TestDestroyRefocusesPrevious(t *testing.T) {
	srv, _ := newTestServer(t)
	a := srv.newMapped(t, "a")
	b := srv.newMapped(t, "b")
	require.Same(t, b, srv.Core.Focused)

	srv.SurfaceDestroyed(b)
	assert.Same(t, a, srv.Core.Focused)
	assert.Len(t, srv.Core.Views(), 1)
}

func TestAttentionClearsOnFocus(t *testing.T) {
	srv, clock := newTestServer(t)
	a := srv.newMapped(t, "a")
	b := srv.newMapped(t, "b")
	require.Same(t, b, srv.Core.Focused)

	srv.RequestAttention(a, false)
	require.True(t, a.AttentionActive())

	clock.Advance(1e9)
	assert.True(t, a.AttentionActive(), "keeps blinking until focused")

	srv.RequestActivate(a)
	assert.Same(t, a, srv.Core.Focused)
	assert.False(t, a.AttentionActive())
	assert.True(t, a.DecorActive)
}

func TestActivateRestoresMinimized(t *testing.T) {
	srv, _ := newTestServer(t)
	a := srv.newMapped(t, "a")
	srv.newMapped(t, "b")
	a.SetMinimized(true, "test")

	srv.RequestActivate(a)
	assert.False(t, a.Minimized)
	assert.Same(t, a, srv.Core.Focused)
}

func TestActivateSwitchesWorkspace(t *testing.T) {
	srv, _ := newTestServer(t)
	a := srv.newMapped(t, "a")
	require.True(t, srv.RunCommandLine("SendToWorkspace 3"))
	require.Equal(t, 2, a.Workspace)

	srv.RequestActivate(a)
	assert.Equal(t, 2, srv.Core.WorkspaceCurrentForHead(0))
	assert.Same(t, a, srv.Core.Focused)
}

func TestRunCommandLine(t *testing.T) {
	srv, _ := newTestServer(t)
	v := srv.newMapped(t, "v")

	require.True(t, srv.RunCommandLine("Maximize"))
	assert.True(t, v.Maximized)

	require.True(t, srv.RunCommandLine("Maximize"))
	assert.False(t, v.Maximized)

	assert.False(t, srv.RunCommandLine("NotACommand"))
}

func TestHandleKeyDefaults(t *testing.T) {
	srv, _ := newTestServer(t)
	v := srv.newMapped(t, "v")

	// Alt+m toggles maximize via the default bindings.
	require.True(t, srv.HandleKey(58, "m", dispatch.ModAlt))
	assert.True(t, v.Maximized)

	// Unbound keys fall through.
	assert.False(t, srv.HandleKey(59, "z", dispatch.ModAlt|dispatch.ModShift))
}

func TestWorkspaceSwitchAppliesVisibility(t *testing.T) {
	srv, _ := newTestServer(t)
	a := srv.newMapped(t, "a")
	node := a.Node.(*wm.HeadlessNode)

	srv.WorkspaceSwitchOnHead(0, 1, "test")
	assert.False(t, node.Enabled)

	srv.WorkspaceSwitchOnHead(0, 0, "test")
	assert.True(t, node.Enabled)
}

func TestStickySurvivesWorkspaceSwitch(t *testing.T) {
	srv, _ := newTestServer(t)
	a := srv.newMapped(t, "a")
	require.True(t, srv.RunCommandLine("Stick"))

	srv.WorkspaceSwitchOnHead(0, 1, "test")
	assert.True(t, a.Node.(*wm.HeadlessNode).Enabled)
}

func TestSaveRCRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.Core.SetWorkspaceCount(6)
	srv.Core.SetWorkspaceName(0, "mail")
	srv.Core.SetWorkspaceName(1, "web")

	srv.SaveRC()

	// Parse it back and save again: byte-identical.
	first := readFile(t, srv.InitFile)
	srv.SaveRC()
	assert.Equal(t, first, readFile(t, srv.InitFile))
	assert.Contains(t, first, "session.workspaces: 6")
	assert.Contains(t, first, "mail,web")
}

func TestCommitSyncsTabSiblings(t *testing.T) {
	srv, _ := newTestServer(t)
	a := srv.newMapped(t, "a")
	b := srv.newMapped(t, "b")
	require.True(t, srv.Core.AttachTab(b, a, "test"))

	active := a.TabGroup.Active()
	srv.SurfaceCommitted(active, 640, 480)

	for _, m := range a.TabGroup.Views() {
		assert.Equal(t, 640, m.CurrentWidth())
		assert.Equal(t, 480, m.CurrentHeight())
	}
}

func TestPointerMotionFocusModels(t *testing.T) {
	srv, _ := newTestServer(t)
	a := srv.newMapped(t, "a")
	b := srv.newMapped(t, "b")
	require.Same(t, b, srv.Core.Focused)

	srv.ViewAt = func(x, y int) *wm.View { return a }

	// ClickToFocus: motion never focuses.
	srv.PointerMotion(10, 10)
	assert.Same(t, b, srv.Core.Focused)

	// MouseFocus: motion focuses the view under the cursor.
	srv.Config.Screens[0].FocusModel = "mousefocus"
	srv.Core.Config = srv.Config.ScreenFor
	srv.PointerMotion(11, 10)
	assert.Same(t, a, srv.Core.Focused)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
