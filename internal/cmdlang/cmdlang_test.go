package cmdlang

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/fluxwl/internal/command"
	"github.com/bnema/fluxwl/internal/event"
	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/surface"
	"github.com/bnema/fluxwl/internal/wm"
)

type execRecord struct {
	r      command.Resolved
	target *wm.View
}

type testEnv struct {
	core  *wm.Core
	clock *event.ManualClock
	state *State
	execs []execRecord
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	outputs := []*geom.Output{{Name: "A", Box: geom.Box{Width: 1000, Height: 800}, Enabled: true}}
	clock := event.NewManualClock()
	return &testEnv{
		core:  wm.NewCore(geom.NewScreenMap(outputs), wm.DefaultDecorTheme(), clock),
		clock: clock,
		state: NewState(),
	}
}

func (e *testEnv) mapView(t *testing.T, title string) *wm.View {
	t.Helper()
	top := surface.NewHeadless(surface.KindNative, 100, 100)
	top.TitleText = title
	v := e.core.NewView(top, wm.NewHeadlessNode(), nil)
	e.core.MapView(v)
	return v
}

func (e *testEnv) ctx(scope any) *Context {
	ctx := &Context{
		Core:  e.core,
		Owner: e,
		Scope: scope,
		Clock: e.clock,
		State: e.state,
	}
	ctx.Exec = func(r command.Resolved, target *wm.View, depth int) bool {
		e.execs = append(e.execs, execRecord{r: r, target: target})
		switch r.Action {
		case command.ActionIf:
			return ctx.ExecuteIf(r.Cmd, target, depth)
		case command.ActionForeach:
			return ctx.ExecuteForeach(r.Cmd, target, depth)
		case command.ActionToggleCmd:
			return ctx.ExecuteToggleCmd(r.Cmd, target, depth)
		case command.ActionDelay:
			return ctx.ExecuteDelay(r.Cmd, target, depth)
		case command.ActionMacro:
			return ctx.ExecuteMacro(r.Cmd, target, depth)
		}
		return true
	}
	ctx.RunDeferred = func(cmdLine string) {
		ctx.ExecuteLine(cmdLine, nil, 0)
	}
	return ctx
}

func (e *testEnv) actions() []command.Action {
	var out []command.Action
	for _, rec := range e.execs {
		out = append(out, rec.r.Action)
	}
	return out
}

func TestBraceTokenizer(t *testing.T) {
	toks, rest := tokensBetween("{a} {b c} {d {e} f}", '{', '}')
	require.Len(t, toks, 3)
	assert.Equal(t, "a", toks[0])
	assert.Equal(t, "b c", toks[1])
	assert.Equal(t, "d {e} f", toks[2])
	assert.Equal(t, "", rest)

	// Escaped braces do not nest.
	toks, _ = tokensBetween(`{a \{ b}`, '{', '}')
	require.Len(t, toks, 1)
	assert.Equal(t, `a \{ b`, toks[0])

	// Unbalanced input yields nothing.
	toks, rest = tokensBetween("{never closed", '{', '}')
	assert.Empty(t, toks)
	assert.Equal(t, "{never closed", rest)
}

func TestEvalMatches(t *testing.T) {
	e := newTestEnv(t)
	v := e.mapView(t, "editor")
	ctx := e.ctx("b1")

	assert.True(t, ctx.EvalBool("matches (title=editor)", v, 0))
	assert.False(t, ctx.EvalBool("matches (title=browser)", v, 0))
	assert.True(t, ctx.EvalBool("not matches (title=browser)", v, 0))
}

func TestEvalSomeEvery(t *testing.T) {
	e := newTestEnv(t)
	e.mapView(t, "one")
	e.mapView(t, "two")
	ctx := e.ctx("b1")

	assert.True(t, ctx.EvalBool("some matches (title=one)", nil, 0))
	assert.False(t, ctx.EvalBool("some matches (title=three)", nil, 0))
	assert.True(t, ctx.EvalBool("every matches (title=one|two)", nil, 0))
	assert.False(t, ctx.EvalBool("every matches (title=one)", nil, 0))
}

func TestEvalCombinators(t *testing.T) {
	e := newTestEnv(t)
	v := e.mapView(t, "one")
	ctx := e.ctx("b1")

	assert.True(t, ctx.EvalBool("and {matches (title=one)} {matches (minimized=no)}", v, 0))
	assert.False(t, ctx.EvalBool("and {matches (title=one)} {matches (minimized=yes)}", v, 0))
	assert.True(t, ctx.EvalBool("or {matches (title=no)} {matches (title=one)}", v, 0))
	assert.True(t, ctx.EvalBool("xor {matches (title=one)} {matches (title=nope)}", v, 0))
	assert.False(t, ctx.EvalBool("xor {matches (title=one)} {matches (title=one)}", v, 0))
}

func TestIfBranches(t *testing.T) {
	e := newTestEnv(t)
	v := e.mapView(t, "one")
	ctx := e.ctx("b1")

	ok := ctx.ExecuteIf("{matches (title=one)} {Raise} {Lower}", v, 0)
	require.True(t, ok)
	require.Len(t, e.execs, 1)
	assert.Equal(t, command.ActionRaise, e.execs[0].r.Action)

	e.execs = nil
	ok = ctx.ExecuteIf("{matches (title=zzz)} {Raise} {Lower}", v, 0)
	require.True(t, ok)
	require.Len(t, e.execs, 1)
	assert.Equal(t, command.ActionLower, e.execs[0].r.Action)

	// No else branch: false condition executes nothing.
	e.execs = nil
	assert.False(t, ctx.ExecuteIf("{matches (title=zzz)} {Raise}", v, 0))
	assert.Empty(t, e.execs)
}

func TestForeachTargetsEachView(t *testing.T) {
	e := newTestEnv(t)
	a := e.mapView(t, "a")
	b := e.mapView(t, "b")
	ctx := e.ctx("b1")

	ok := ctx.ExecuteForeach("{Shade}", nil, 0)
	require.True(t, ok)
	require.Len(t, e.execs, 2)
	assert.Same(t, a, e.execs[0].target)
	assert.Same(t, b, e.execs[1].target)
}

func TestForeachConditionAndGroups(t *testing.T) {
	e := newTestEnv(t)
	a := e.mapView(t, "a")
	b := e.mapView(t, "b")
	require.True(t, e.core.AttachTab(b, a, "test"))

	ctx := e.ctx("b1")
	ok := ctx.ExecuteForeach("{Raise} {{groups} matches (title=.*)}", nil, 0)
	require.True(t, ok)
	// Only the active member of the group runs.
	require.Len(t, e.execs, 1)
	assert.Same(t, a, e.execs[0].target)
}

func TestMacroRunsAll(t *testing.T) {
	e := newTestEnv(t)
	e.mapView(t, "a")
	ctx := e.ctx("b1")

	ok := ctx.ExecuteMacro("{Raise} {Maximize} {Lower}", nil, 0)
	require.True(t, ok)
	assert.Equal(t, []command.Action{
		command.ActionRaise, command.ActionToggleMaximize, command.ActionLower,
	}, e.actions())
}

func TestToggleCmdRotation(t *testing.T) {
	e := newTestEnv(t)
	ctx := e.ctx("binding-1")
	args := "{Workspace 1} {Workspace 2}"

	for i := 0; i < 4; i++ {
		require.True(t, ctx.ExecuteToggleCmd(args, nil, 0))
	}
	require.Len(t, e.execs, 4)
	assert.Equal(t, 0, e.execs[0].r.Arg)
	assert.Equal(t, 1, e.execs[1].r.Arg)
	assert.Equal(t, 0, e.execs[2].r.Arg)
	assert.Equal(t, 1, e.execs[3].r.Arg)
}

func TestToggleCmdScopedPerBinding(t *testing.T) {
	e := newTestEnv(t)
	args := "{Workspace 1} {Workspace 2}"

	require.True(t, e.ctx("binding-1").ExecuteToggleCmd(args, nil, 0))
	require.True(t, e.ctx("binding-2").ExecuteToggleCmd(args, nil, 0))

	// Each binding starts its own rotation at the first command.
	require.Len(t, e.execs, 2)
	assert.Equal(t, 0, e.execs[0].r.Arg)
	assert.Equal(t, 0, e.execs[1].r.Arg)
}

func TestDelayFiresOnce(t *testing.T) {
	e := newTestEnv(t)
	ctx := e.ctx("b1")

	require.True(t, ctx.ExecuteDelay("{Workspace 2} 5000", nil, 0))
	assert.Empty(t, e.execs)

	e.clock.Advance(5 * time.Millisecond)
	require.Len(t, e.execs, 1)
	assert.Equal(t, command.ActionWorkspaceSwitch, e.execs[0].r.Action)
	assert.Equal(t, 1, e.execs[0].r.Arg)

	// One-shot: no further fires.
	e.clock.Advance(time.Second)
	assert.Len(t, e.execs, 1)
}

func TestDelayReplacesQueuedCommand(t *testing.T) {
	e := newTestEnv(t)
	ctx := e.ctx("b1")

	require.True(t, ctx.ExecuteDelay("{Workspace 2} 200000", nil, 0))
	require.True(t, ctx.ExecuteDelay("{Workspace 2} 200000", nil, 0))

	e.clock.Advance(time.Second)
	assert.Len(t, e.execs, 1, "re-issuing replaces, not duplicates")
}

func TestDelayZeroClampsToOneMs(t *testing.T) {
	e := newTestEnv(t)
	ctx := e.ctx("b1")

	require.True(t, ctx.ExecuteDelay("{Raise} 0", nil, 0))
	e.clock.Advance(time.Millisecond)
	assert.Len(t, e.execs, 1)
}

func TestDepthCap(t *testing.T) {
	e := newTestEnv(t)
	ctx := e.ctx("b1")
	assert.False(t, ctx.EvalBool("matches (x)", nil, MaxDepth+1))
	assert.False(t, ctx.ExecuteMacro("{Raise}", nil, MaxDepth+1))
	assert.Empty(t, e.execs)
}

func TestStateFlush(t *testing.T) {
	e := newTestEnv(t)
	ctx := e.ctx("b1")
	require.True(t, ctx.ExecuteDelay("{Raise} 200000", nil, 0))

	e.state.Flush()
	e.clock.Advance(time.Second)
	assert.Empty(t, e.execs, "flushed delays never fire")
}
