package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/fluxwl/internal/event"
	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/surface"
	"github.com/bnema/fluxwl/internal/wm"
)

func testCore(t *testing.T) *wm.Core {
	t.Helper()
	outputs := []*geom.Output{{Name: "A", Box: geom.Box{Width: 1000, Height: 800}, Enabled: true}}
	return wm.NewCore(geom.NewScreenMap(outputs), wm.DefaultDecorTheme(), event.NewManualClock())
}

func mapLegacy(t *testing.T, core *wm.Core, instance, class, title string) *wm.View {
	t.Helper()
	top := surface.NewHeadless(surface.KindLegacy, 200, 100)
	top.InstanceText = instance
	top.AppIDText = class
	top.TitleText = title
	v := core.NewView(top, wm.NewHeadlessNode(), nil)
	core.MapView(v)
	return v
}

func TestPatternClassAndTitle(t *testing.T) {
	core := testCore(t)
	v := mapLegacy(t, core, "xterm", "XTerm", "shell - one")
	env := &Env{Core: core}

	assert.True(t, Parse("(class=XTerm)").Matches(env, v, 0))
	assert.False(t, Parse("(class=Firefox)").Matches(env, v, 0))
	assert.True(t, Parse("(class!=Firefox)").Matches(env, v, 0))
	assert.True(t, Parse("(title=shell.*)").Matches(env, v, 0))
	assert.False(t, Parse("(title=shell)").Matches(env, v, 0), "regex is anchored")
	assert.True(t, Parse("(app_id=XTerm)").Matches(env, v, 0), "app_id aliases class")
}

func TestPatternDefaultKeyIsName(t *testing.T) {
	core := testCore(t)
	v := mapLegacy(t, core, "xterm", "XTerm", "shell")
	env := &Env{Core: core}

	assert.True(t, Parse("(xterm)").Matches(env, v, 0))
	assert.False(t, Parse("(emacs)").Matches(env, v, 0))
}

func TestPatternStateFlags(t *testing.T) {
	core := testCore(t)
	v := mapLegacy(t, core, "a", "A", "a")
	env := &Env{Core: core}

	assert.True(t, Parse("(minimized=no)").Matches(env, v, 0))
	v.Minimized = true
	assert.True(t, Parse("(minimized=yes)").Matches(env, v, 0))

	v.Sticky = true
	assert.True(t, Parse("(stuck=yes)").Matches(env, v, 0))
	assert.True(t, Parse("(sticky=yes)").Matches(env, v, 0))

	// A sticky view matches any workspace term.
	assert.True(t, Parse("(workspace=5)").Matches(env, v, 0))
}

func TestPatternWorkspaceCurrent(t *testing.T) {
	core := testCore(t)
	core.SetWorkspaceCount(3)
	v := mapLegacy(t, core, "a", "A", "a")
	v.Workspace = 1
	env := &Env{Core: core}

	assert.True(t, Parse("(workspace=[current])").Matches(env, v, 1))
	assert.False(t, Parse("(workspace=[current])").Matches(env, v, 0))
	assert.True(t, Parse("(workspace=1)").Matches(env, v, 0))
}

func TestPatternCurrentNeedsFocusedView(t *testing.T) {
	core := testCore(t)
	v := mapLegacy(t, core, "a", "A", "one")
	f := mapLegacy(t, core, "a", "A", "one")
	env := &Env{Core: core}

	// No focused view: [current] comparisons fail.
	assert.False(t, Parse("(title=[current])").Matches(env, v, 0))

	env.Focused = f
	assert.True(t, Parse("(title=[current])").Matches(env, v, 0))

	f.Surface.(*surface.HeadlessToplevel).TitleText = "other"
	assert.False(t, Parse("(title=[current])").Matches(env, v, 0))
}

func TestPatternInvalidRegexNeverMatches(t *testing.T) {
	core := testCore(t)
	v := mapLegacy(t, core, "a", "A", "anything")
	env := &Env{Core: core}

	p := Parse("(title=[broken)")
	assert.False(t, p.Matches(env, v, 0))
}

func TestPatternLayerAndHead(t *testing.T) {
	core := testCore(t)
	v := mapLegacy(t, core, "a", "A", "a")
	env := &Env{Core: core, CursorValid: true}

	assert.True(t, Parse("(layer=normal)").Matches(env, v, 0))
	v.BaseLayer = wm.LayerTop
	assert.True(t, Parse("(layer=top)").Matches(env, v, 0))
	// dock folds into top in this stack
	assert.True(t, Parse("(layer=dock)").Matches(env, v, 0))

	assert.True(t, Parse("(head=0)").Matches(env, v, 0))
	assert.True(t, Parse("(head=[mouse])").Matches(env, v, 0))
}

func TestPatternXProp(t *testing.T) {
	core := testCore(t)
	v := mapLegacy(t, core, "a", "A", "a")
	leg := v.Surface.(*surface.HeadlessToplevel)
	leg.SetProperty("_MY_MARKER", "yes")
	env := &Env{Core: core}

	assert.True(t, Parse("(@_MY_MARKER=yes)").Matches(env, v, 0))
	assert.False(t, Parse("(@_MY_MARKER=no)").Matches(env, v, 0))
	assert.True(t, Parse("(@_MY_MARKER!=no)").Matches(env, v, 0))
}

func TestPatternMultipleGroups(t *testing.T) {
	core := testCore(t)
	v := mapLegacy(t, core, "xterm", "XTerm", "shell")
	env := &Env{Core: core}

	require.True(t, Parse("(class=XTerm) (minimized=no)").Matches(env, v, 0))
	assert.False(t, Parse("(class=XTerm) (minimized=yes)").Matches(env, v, 0))
}

func TestIconbarVariantSkipsIconHidden(t *testing.T) {
	core := testCore(t)
	v := mapLegacy(t, core, "a", "A", "a")
	env := &Env{Core: core}

	p := Parse("")
	assert.True(t, p.IconbarMatches(env, v, 0))
	v.IconHidden = true
	assert.False(t, p.IconbarMatches(env, v, 0))
	assert.True(t, p.Matches(env, v, 0), "plain matcher ignores iconhidden")
}
