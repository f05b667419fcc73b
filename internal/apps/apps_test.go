package apps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/fluxwl/internal/event"
	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/pattern"
	"github.com/bnema/fluxwl/internal/surface"
	"github.com/bnema/fluxwl/internal/wm"
)

func testCore(t *testing.T) *wm.Core {
	t.Helper()
	outputs := []*geom.Output{{Name: "A", Box: geom.Box{Width: 1000, Height: 800}, Enabled: true}}
	return wm.NewCore(geom.NewScreenMap(outputs), wm.DefaultDecorTheme(), event.NewManualClock())
}

func mapView(t *testing.T, core *wm.Core, class string) *wm.View {
	t.Helper()
	top := surface.NewHeadless(surface.KindNative, 100, 100)
	top.AppIDText = class
	v := core.NewView(top, wm.NewHeadlessNode(), nil)
	core.MapView(v)
	return v
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestRuleAppliesPreMapSetters(t *testing.T) {
	core := testCore(t)
	core.SetWorkspaceCount(4)
	rules := NewRules()
	rules.Replace([]*Rule{{
		Pattern:   pattern.Parse("(class=editor)"),
		Workspace: intPtr(2),
		Sticky:    boolPtr(false),
		Layer:     intPtr(6),
	}})

	v := mapView(t, core, "editor")
	env := &pattern.Env{Core: core}
	require.True(t, rules.Apply(core, env, v, 0))

	assert.Equal(t, 2, v.Workspace)
	assert.Equal(t, wm.LayerTop, v.BaseLayer)
	assert.True(t, v.AppsRule.Applied)
	assert.Equal(t, rules.Generation(), v.AppsRule.Generation)
}

func TestMatchLimitLifecycle(t *testing.T) {
	core := testCore(t)
	rules := NewRules()
	rule := &Rule{
		Pattern:    pattern.Parse("(class=term)"),
		Workspace:  intPtr(1),
		MatchLimit: 1,
	}
	rules.Replace([]*Rule{rule})
	env := &pattern.Env{Core: core}

	a := mapView(t, core, "term")
	require.True(t, rules.Apply(core, env, a, 0))
	assert.Equal(t, 1, rule.MatchCount)

	// Second view with the same matcher: rule is at its limit.
	b := mapView(t, core, "term")
	assert.False(t, rules.Apply(core, env, b, 0))
	assert.Equal(t, 1, rule.MatchCount)

	// A closes: the slot is released.
	rules.Release(a)
	assert.Equal(t, 0, rule.MatchCount)

	// A new view re-applies the rule.
	c := mapView(t, core, "term")
	assert.True(t, rules.Apply(core, env, c, 0))
	assert.Equal(t, 1, rule.MatchCount)
}

func TestStaleReleaseIgnored(t *testing.T) {
	core := testCore(t)
	rules := NewRules()
	rule := &Rule{Pattern: pattern.Parse("(class=x)"), MatchLimit: 2}
	rules.Replace([]*Rule{rule})
	env := &pattern.Env{Core: core}

	v := mapView(t, core, "x")
	require.True(t, rules.Apply(core, env, v, 0))

	// A reload replaces the rule set; the old reference must not
	// decrement the fresh counters.
	fresh := &Rule{Pattern: pattern.Parse("(class=x)"), MatchLimit: 2, MatchCount: 1}
	rules.Replace([]*Rule{fresh})
	rules.Release(v)
	assert.Equal(t, 1, fresh.MatchCount)
}

func TestGroupIDAutoTabs(t *testing.T) {
	core := testCore(t)
	rules := NewRules()
	rules.Replace([]*Rule{{Pattern: pattern.Parse("(class=chat)"), GroupID: 7}})
	env := &pattern.Env{Core: core}

	a := mapView(t, core, "chat")
	require.True(t, rules.Apply(core, env, a, 0))
	b := mapView(t, core, "chat")
	require.True(t, rules.Apply(core, env, b, 0))

	require.NotNil(t, b.TabGroup)
	assert.Same(t, a.TabGroup, b.TabGroup)
}

func TestCountsChangedCallback(t *testing.T) {
	core := testCore(t)
	rules := NewRules()
	rules.Replace([]*Rule{{Pattern: pattern.Parse("(class=y)"), MatchLimit: 3}})
	calls := 0
	rules.OnCountsChanged = func() { calls++ }
	env := &pattern.Env{Core: core}

	v := mapView(t, core, "y")
	require.True(t, rules.Apply(core, env, v, 0))
	rules.Release(v)
	assert.Equal(t, 2, calls)
}
