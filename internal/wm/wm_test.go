package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/fluxwl/internal/event"
	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/surface"
)

type testRig struct {
	core    *Core
	clock   *event.ManualClock
	outputs []*geom.Output
	cfg     ScreenConfig
}

func newTestRig(t *testing.T, boxes ...geom.Box) *testRig {
	t.Helper()
	if len(boxes) == 0 {
		boxes = []geom.Box{{Width: 1000, Height: 500}}
	}
	var outputs []*geom.Output
	for i, b := range boxes {
		outputs = append(outputs, &geom.Output{
			Name:    "OUT-" + string(rune('A'+i)),
			Box:     b,
			Enabled: true,
		})
	}
	clock := event.NewManualClock()
	core := NewCore(geom.NewScreenMap(outputs), DefaultDecorTheme(), clock)
	rig := &testRig{core: core, clock: clock, outputs: outputs, cfg: DefaultScreenConfig()}
	core.Config = func(int) *ScreenConfig { return &rig.cfg }
	return rig
}

func (r *testRig) mapView(t *testing.T, x, y, w, h int) *View {
	t.Helper()
	top := surface.NewHeadless(surface.KindNative, w, h)
	v := r.core.NewView(top, NewHeadlessNode(), &surface.HeadlessForeign{})
	v.X, v.Y = x, y
	v.Width, v.Height = w, h
	v.DecorEnabled = false
	v.Placed = true
	r.core.MapView(v)
	return v
}

func TestMaximizeAxisHorizontal(t *testing.T) {
	rig := newTestRig(t)
	v := rig.mapView(t, 10, 10, 200, 100)

	v.SetMaximizedAxes(true, false)

	assert.Equal(t, 0, v.X)
	assert.Equal(t, 10, v.Y)
	assert.Equal(t, 1000, v.CurrentWidth())
	assert.Equal(t, 100, v.CurrentHeight())
	assert.True(t, v.MaximizedH)
	assert.False(t, v.MaximizedV)
	assert.False(t, v.Maximized)

	assert.Equal(t, 10, v.SavedX)
	assert.Equal(t, 10, v.SavedY)
	assert.Equal(t, 200, v.SavedW)
	assert.Equal(t, 100, v.SavedH)
}

func TestMaximizeRoundTrip(t *testing.T) {
	rig := newTestRig(t)
	v := rig.mapView(t, 30, 40, 300, 200)

	v.SetMaximized(true)
	require.True(t, v.Maximized)
	assert.True(t, v.MaximizedH)
	assert.True(t, v.MaximizedV)

	v.SetMaximized(false)
	assert.False(t, v.Maximized)
	assert.Equal(t, 30, v.X)
	assert.Equal(t, 40, v.Y)
	assert.Equal(t, 300, v.CurrentWidth())
	assert.Equal(t, 200, v.CurrentHeight())
}

func TestMaximizedImpliesBothAxes(t *testing.T) {
	rig := newTestRig(t)
	v := rig.mapView(t, 0, 0, 100, 100)

	v.SetMaximizedAxes(true, false)
	assert.Equal(t, v.Maximized, v.MaximizedH && v.MaximizedV)
	v.SetMaximizedAxes(true, true)
	assert.Equal(t, v.Maximized, v.MaximizedH && v.MaximizedV)
	v.SetMaximizedAxes(false, false)
	assert.Equal(t, v.Maximized, v.MaximizedH && v.MaximizedV)
}

func TestFullscreenRoundTripRestoresLayer(t *testing.T) {
	rig := newTestRig(t)
	v := rig.mapView(t, 25, 35, 400, 300)
	v.BaseLayer = LayerTop
	node := v.Node.(*HeadlessNode)
	node.Layer = LayerTop

	v.SetFullscreen(true, nil)
	require.True(t, v.Fullscreen)
	assert.Equal(t, LayerOverlay, node.Layer)
	assert.Equal(t, 1000, v.CurrentWidth())
	assert.Equal(t, 500, v.CurrentHeight())

	v.SetFullscreen(false, nil)
	assert.False(t, v.Fullscreen)
	assert.Equal(t, LayerTop, node.Layer)
	assert.Equal(t, 25, v.X)
	assert.Equal(t, 35, v.Y)
	assert.Equal(t, 400, v.CurrentWidth())
	assert.Equal(t, 300, v.CurrentHeight())
}

func TestFullscreenSuspendsMaximizeAxes(t *testing.T) {
	rig := newTestRig(t)
	v := rig.mapView(t, 10, 10, 200, 100)

	v.SetMaximizedAxes(true, false)
	v.SetFullscreen(true, nil)
	require.True(t, v.MaximizedH)

	v.SetFullscreen(false, nil)
	assert.True(t, v.MaximizedH)
	assert.Equal(t, 0, v.X)
	assert.Equal(t, 1000, v.CurrentWidth())
}

func TestTabAttach(t *testing.T) {
	rig := newTestRig(t)
	a := rig.mapView(t, 0, 0, 400, 300)
	b := rig.mapView(t, 100, 100, 500, 200)

	require.True(t, rig.core.AttachTab(b, a, "test"))

	assert.Equal(t, 0, b.X)
	assert.Equal(t, 0, b.Y)
	assert.Equal(t, 400, b.CurrentWidth())
	assert.Equal(t, 300, b.CurrentHeight())
	require.NotNil(t, a.TabGroup)
	assert.Same(t, a.TabGroup, b.TabGroup)
	assert.Equal(t, 2, a.TabGroup.Size())
	assert.Same(t, a, a.TabGroup.Active())

	// Activating B hides A's scene node and shows B's.
	wmA := a.Node.(*HeadlessNode)
	wmB := b.Node.(*HeadlessNode)
	a.TabGroup.Activate(b, "test")
	assert.False(t, wmA.Enabled)
	assert.True(t, wmB.Enabled)
}

func TestTabAttachRejectsMinimizedAnchor(t *testing.T) {
	rig := newTestRig(t)
	a := rig.mapView(t, 0, 0, 400, 300)
	b := rig.mapView(t, 0, 0, 400, 300)
	a.Minimized = true
	assert.False(t, rig.core.AttachTab(b, a, "test"))
}

func TestTabDetachAutoDestroysGroup(t *testing.T) {
	rig := newTestRig(t)
	a := rig.mapView(t, 0, 0, 400, 300)
	b := rig.mapView(t, 0, 0, 400, 300)
	require.True(t, rig.core.AttachTab(b, a, "test"))

	g := a.TabGroup
	g.Detach(b, "test")

	assert.Nil(t, a.TabGroup)
	assert.Nil(t, b.TabGroup)
	assert.True(t, a.Node.(*HeadlessNode).Enabled)
}

func TestTabGroupActivePointerSurvivesMinimize(t *testing.T) {
	rig := newTestRig(t)
	a := rig.mapView(t, 0, 0, 400, 300)
	b := rig.mapView(t, 0, 0, 400, 300)
	c := rig.mapView(t, 0, 0, 400, 300)
	require.True(t, rig.core.AttachTab(b, a, "test"))
	require.True(t, rig.core.AttachTab(c, a, "test"))

	a.SetMinimized(true, "test")
	active := a.TabGroup.Active()
	require.NotNil(t, active)
	assert.NotSame(t, a, active)
}

func TestTabPickNextSkipsMinimized(t *testing.T) {
	rig := newTestRig(t)
	a := rig.mapView(t, 0, 0, 400, 300)
	b := rig.mapView(t, 0, 0, 400, 300)
	c := rig.mapView(t, 0, 0, 400, 300)
	require.True(t, rig.core.AttachTab(b, a, "test"))
	require.True(t, rig.core.AttachTab(c, a, "test"))
	b.Minimized = true

	next := a.TabGroup.PickNext()
	assert.Same(t, c, next)
}

func TestDirectionalFocus(t *testing.T) {
	rig := newTestRig(t, geom.Box{Width: 1000, Height: 1000})
	v1 := rig.mapView(t, 50, 50, 100, 100)   // center (100, 100)
	v2 := rig.mapView(t, 450, 50, 100, 100)  // center (500, 100)
	v3 := rig.mapView(t, 50, 350, 100, 100)  // center (100, 400)

	rig.core.FocusView(v1, FocusReasonMap)

	right := rig.core.PickDirCandidate(v1, geom.DirRight)
	assert.Same(t, v2, right)

	down := rig.core.PickDirCandidate(v1, geom.DirDown)
	assert.Same(t, v3, down)

	assert.Nil(t, rig.core.PickDirCandidate(v1, geom.DirLeft))
	assert.Nil(t, rig.core.PickDirCandidate(v1, geom.DirUp))
}

func TestFocusCycleOrder(t *testing.T) {
	rig := newTestRig(t)
	a := rig.mapView(t, 0, 0, 100, 100)
	b := rig.mapView(t, 0, 0, 100, 100)
	c := rig.mapView(t, 0, 0, 100, 100)

	rig.core.FocusView(a, FocusReasonMap)
	assert.Same(t, b, rig.core.PickCycleCandidate(false, false, false, nil))
	assert.Same(t, c, rig.core.PickCycleCandidate(true, false, false, nil))

	b.Minimized = true
	assert.Same(t, c, rig.core.PickCycleCandidate(false, false, false, nil))
}

func TestFocusProtection(t *testing.T) {
	rig := newTestRig(t)
	a := rig.mapView(t, 0, 0, 100, 100)
	b := rig.mapView(t, 0, 0, 100, 100)
	rig.core.FocusView(a, FocusReasonMap)

	b.FocusProtection = ProtectDeny
	assert.False(t, rig.core.FocusView(b, FocusReasonMap))
	assert.Same(t, a, rig.core.Focused)

	b.FocusProtection = ProtectRefuse
	assert.False(t, rig.core.FocusView(b, FocusReasonCycle))
	// Refuse yields to explicit user intent.
	assert.True(t, rig.core.FocusView(b, FocusReasonKeybinding))
	assert.Same(t, b, rig.core.Focused)

	a.FocusProtection = ProtectGain
	assert.True(t, rig.core.FocusView(a, FocusReasonCycle))
}

func TestAttentionBlinkAndClearOnFocus(t *testing.T) {
	rig := newTestRig(t)
	a := rig.mapView(t, 0, 0, 100, 100)
	b := rig.mapView(t, 0, 0, 100, 100)
	rig.core.FocusView(a, FocusReasonMap)

	b.AttentionRequest(100, false, "test")
	require.True(t, b.AttentionActive())

	rig.clock.Advance(100e6)
	assert.True(t, b.AttentionState())
	assert.True(t, b.DecorActive)

	rig.clock.Advance(100e6)
	assert.False(t, b.AttentionState())
	assert.False(t, b.DecorActive)

	rig.core.FocusView(b, FocusReasonClick)
	assert.False(t, b.AttentionActive())
	assert.True(t, b.DecorActive)

	// No stale fires after the clear.
	rig.clock.Advance(1e9)
	assert.False(t, b.AttentionActive())
}

func TestAttentionNoOpWhenFocused(t *testing.T) {
	rig := newTestRig(t)
	a := rig.mapView(t, 0, 0, 100, 100)
	rig.core.FocusView(a, FocusReasonMap)
	a.AttentionRequest(100, false, "test")
	assert.False(t, a.AttentionActive())
}

func TestDestroyViewCancelsAttention(t *testing.T) {
	rig := newTestRig(t)
	a := rig.mapView(t, 0, 0, 100, 100)
	b := rig.mapView(t, 0, 0, 100, 100)
	rig.core.FocusView(a, FocusReasonMap)

	b.AttentionRequest(50, false, "test")
	require.True(t, b.AttentionActive())
	rig.core.DestroyView(b)

	// The timer must not observe the destroyed view.
	rig.clock.Advance(1e9)
	assert.Len(t, rig.core.Views(), 1)
}

func TestWorkspaceRegistersPerHead(t *testing.T) {
	rig := newTestRig(t,
		geom.Box{Width: 1000, Height: 500},
		geom.Box{X: 1000, Width: 800, Height: 600},
	)
	rig.core.SetHeadCount(2)
	rig.core.SetWorkspaceCount(4)

	rig.core.WorkspaceSwitchOnHead(1, 2)
	assert.Equal(t, 0, rig.core.WorkspaceCurrentForHead(0))
	assert.Equal(t, 2, rig.core.WorkspaceCurrentForHead(1))
	assert.Equal(t, 0, rig.core.WorkspacePrevForHead(1))

	rig.core.WorkspaceSwitchOnHead(1, 3)
	assert.Equal(t, 2, rig.core.WorkspacePrevForHead(1))
}

func TestStickyVisibleEverywhere(t *testing.T) {
	rig := newTestRig(t)
	rig.core.SetWorkspaceCount(3)
	v := rig.mapView(t, 0, 0, 100, 100)
	v.Sticky = true

	for ws := 0; ws < 3; ws++ {
		rig.core.WorkspaceSwitch(ws)
		assert.True(t, rig.core.ViewIsVisible(v), "workspace %d", ws)
	}
}

func TestWorkspaceCountClamp(t *testing.T) {
	rig := newTestRig(t)
	rig.core.SetWorkspaceCount(0)
	assert.Equal(t, 1, rig.core.WorkspaceCount())

	rig.core.SetWorkspaceCount(4)
	rig.core.WorkspaceSwitch(3)
	rig.core.SetWorkspaceCount(2)
	assert.Less(t, rig.core.WorkspaceCurrent(), 2)
}

func TestPlacementCascade(t *testing.T) {
	rig := newTestRig(t)
	rig.core.Placement = PlaceCascade
	out := rig.outputs[0]

	x0, y0 := rig.core.PlaceNext(out, 200, 100, 0, 0)
	x1, y1 := rig.core.PlaceNext(out, 200, 100, 0, 0)
	assert.Equal(t, 0, x0)
	assert.Equal(t, 0, y0)
	assert.Greater(t, x1, x0)
	assert.Greater(t, y1, y0)
}

func TestPlacementUnderMouseClamped(t *testing.T) {
	rig := newTestRig(t)
	rig.core.Placement = PlaceUnderMouse

	x, y := rig.core.PlaceNext(rig.outputs[0], 200, 100, 990, 490)
	assert.Equal(t, 800, x)
	assert.Equal(t, 400, y)
}

func TestPlacementRowSmartAvoidsOverlap(t *testing.T) {
	rig := newTestRig(t)
	first := rig.mapView(t, 0, 0, 300, 300)
	_ = first

	x, y := rig.core.PlaceNext(rig.outputs[0], 200, 200, 0, 0)
	placed := geom.Box{X: x, Y: y, Width: 200, Height: 200}
	assert.False(t, placed.Overlaps(geom.Box{X: 0, Y: 0, Width: 300, Height: 300}))
}

func TestAutoTabPlacementAttaches(t *testing.T) {
	rig := newTestRig(t)
	rig.core.Placement = PlaceAutoTab
	anchor := rig.mapView(t, 50, 60, 400, 300)
	rig.core.FocusView(anchor, FocusReasonMap)

	top := surface.NewHeadless(surface.KindNative, 200, 100)
	v := rig.core.NewView(top, NewHeadlessNode(), nil)
	v.DecorEnabled = false
	rig.core.MapView(v)
	rig.core.PlaceInitial(v, 0, 0)

	require.NotNil(t, v.TabGroup)
	assert.Equal(t, 50, v.X)
	assert.Equal(t, 60, v.Y)
}

func TestDecorHitTest(t *testing.T) {
	rig := newTestRig(t)
	v := rig.mapView(t, 100, 100, 400, 300)
	v.DecorEnabled = true
	theme := rig.core.Theme

	// Inside content: no hit.
	assert.Equal(t, DecorHitNone, v.DecorHitTest(theme, 200, 200).Kind)

	// Titlebar middle.
	hit := v.DecorHitTest(theme, 300, 100-theme.TitleHeight/2)
	assert.Equal(t, DecorHitTitlebar, hit.Kind)

	// Close button is rightmost.
	hit = v.DecorHitTest(theme, 100+400-theme.ButtonSpacing-theme.ButtonSize/2, 100-theme.TitleHeight/2)
	assert.Equal(t, DecorHitButtonClose, hit.Kind)

	// Bottom-right border resizes.
	hit = v.DecorHitTest(theme, 100+400, 100+300)
	assert.Equal(t, DecorHitResize, hit.Kind)
	assert.Equal(t, geom.EdgeRight|geom.EdgeBottom, hit.Edges)
}

func TestGotoCandidateIndexing(t *testing.T) {
	rig := newTestRig(t)
	a := rig.mapView(t, 0, 0, 100, 100)
	b := rig.mapView(t, 0, 0, 100, 100)
	c := rig.mapView(t, 0, 0, 100, 100)

	assert.Same(t, a, rig.core.PickGotoCandidate(1, false, true, nil))
	assert.Same(t, b, rig.core.PickGotoCandidate(2, false, true, nil))
	assert.Same(t, c, rig.core.PickGotoCandidate(-1, false, true, nil))
	assert.Nil(t, rig.core.PickGotoCandidate(4, false, true, nil))
}
