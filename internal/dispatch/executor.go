package dispatch

import (
	"strings"

	"github.com/bnema/fluxwl/internal/cmdlang"
	"github.com/bnema/fluxwl/internal/command"
	"github.com/bnema/fluxwl/internal/event"
	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/logger"
	"github.com/bnema/fluxwl/internal/pattern"
	"github.com/bnema/fluxwl/internal/wm"
)

// Executor turns resolved actions into core mutations. One executor lives
// for the server's lifetime; per-trigger state travels in an Invocation.
type Executor struct {
	Core   *wm.Core
	Clock  event.Clock
	State  *cmdlang.State
	Marked *wm.MarkedWindows
	Hooks  *Hooks

	// Alpha defaults applied by SetAlpha with empty args.
	AlphaDefaultsConfigured bool
	AlphaDefaultFocused     uint8
	AlphaDefaultUnfocused   uint8

	// Owner keys the cmdlang state tables.
	Owner any
}

// Invocation is the per-trigger context: where the cursor was, which
// button fired, and which binding is the cmdlang scope.
type Invocation struct {
	CursorX, CursorY   int
	Button             uint32
	PlaceholderKeycode uint32
	Scope              any
	Target             *wm.View
}

// NewExecutor wires an executor over the core.
func NewExecutor(core *wm.Core, clock event.Clock, hooks *Hooks) *Executor {
	e := &Executor{
		Core:   core,
		Clock:  clock,
		State:  cmdlang.NewState(),
		Marked: &wm.MarkedWindows{},
		Hooks:  hooks,
	}
	e.Owner = e
	return e
}

func (e *Executor) resolveTarget(inv *Invocation) *wm.View {
	if inv != nil && inv.Target != nil {
		return inv.Target
	}
	return e.Core.Focused
}

func (e *Executor) workspaceCurrent(inv *Invocation) int {
	if e.Hooks != nil && e.Hooks.WorkspaceCurrent != nil {
		return e.Hooks.WorkspaceCurrent(inv.CursorX, inv.CursorY)
	}
	return e.Core.WorkspaceCurrent()
}

func (e *Executor) workspaceSwitch(inv *Invocation, ws int, why string) {
	if e.Hooks != nil && e.Hooks.WorkspaceSwitch != nil {
		e.Hooks.WorkspaceSwitch(inv.CursorX, inv.CursorY, ws, why)
		return
	}
	e.Core.WorkspaceSwitch(ws)
	e.Core.ApplyWorkspaceVisibility(why)
}

func wrapWorkspace(ws, count int) int {
	if count < 1 {
		return 0
	}
	for ws < 0 {
		ws += count
	}
	for ws >= count {
		ws -= count
	}
	return ws
}

// cmdlangContext builds the evaluation context for compound commands.
func (e *Executor) cmdlangContext(inv *Invocation) *cmdlang.Context {
	invCopy := *inv
	ctx := &cmdlang.Context{
		Core:    e.Core,
		CursorX: inv.CursorX,
		CursorY: inv.CursorY,
		WorkspaceCurrent: func() int {
			return e.workspaceCurrent(&invCopy)
		},
		Owner: e.Owner,
		Scope: inv.Scope,
		Clock: e.Clock,
		State: e.State,
	}
	ctx.Exec = func(r command.Resolved, target *wm.View, depth int) bool {
		sub := invCopy
		sub.Target = target
		return e.executeDepth(r, &sub, depth)
	}
	ctx.RunDeferred = func(cmdLine string) {
		fresh := Invocation{CursorX: invCopy.CursorX, CursorY: invCopy.CursorY, Scope: invCopy.Scope}
		c := e.cmdlangContext(&fresh)
		c.ExecuteLine(cmdLine, nil, 0)
	}
	return ctx
}

// parseCycleOptions strips a `{groups static}` block off a NextWindow-style
// argument and returns the remaining client pattern.
func parseCycleOptions(s string) (groups, staticOrder bool, pat string) {
	open := strings.IndexByte(s, '{')
	if open < 0 {
		return false, false, strings.TrimSpace(s)
	}
	close := strings.IndexByte(s[open:], '}')
	if close < 0 {
		return false, false, strings.TrimSpace(s)
	}
	opts := s[open+1 : open+close]
	for _, tok := range strings.Fields(opts) {
		switch strings.ToLower(tok) {
		case "groups":
			groups = true
		case "static":
			staticOrder = true
		}
	}
	return groups, staticOrder, strings.TrimSpace(s[:open] + s[open+close+1:])
}

func (e *Executor) patternEnv(inv *Invocation) *pattern.Env {
	return &pattern.Env{
		Core:        e.Core,
		Focused:     e.Core.Focused,
		CursorX:     inv.CursorX,
		CursorY:     inv.CursorY,
		CursorValid: true,
	}
}

// cycleFilter combines a textual pattern with the embedding's candidate
// hook into one wm.CycleFilter.
func (e *Executor) cycleFilter(inv *Invocation, pat string) wm.CycleFilter {
	var compiled *pattern.Pattern
	if strings.TrimSpace(pat) != "" {
		compiled = pattern.Parse(pat)
	}
	env := e.patternEnv(inv)
	ws := e.workspaceCurrent(inv)
	return func(v *wm.View) bool {
		if e.Hooks != nil && e.Hooks.CycleViewAllowed != nil && !e.Hooks.CycleViewAllowed(v) {
			return false
		}
		if compiled != nil && !compiled.Matches(env, v, ws) {
			return false
		}
		return true
	}
}

func (e *Executor) focusCycle(inv *Invocation, reverse, forceGroups bool, args, why string) bool {
	groups, staticOrder, pat := parseCycleOptions(args)
	if forceGroups {
		groups = true
	}
	candidate := e.Core.PickCycleCandidate(reverse, groups, staticOrder, e.cycleFilter(inv, pat))
	if candidate == nil || candidate == e.Core.Focused {
		return true
	}
	if !groups && candidate.TabGroup != nil && !candidate.TabGroup.IsActive(candidate) {
		wm.ActivateTab(candidate, why)
	}
	e.Core.FocusView(candidate, wm.FocusReasonCycle)
	return true
}

// Execute runs one action. The returned bool reports whether a mutation
// occurred; false lets mousebindings fall through to the client.
func (e *Executor) Execute(r command.Resolved, inv *Invocation) bool {
	return e.executeDepth(r, inv, 0)
}

func (e *Executor) executeDepth(r command.Resolved, inv *Invocation, depth int) bool {
	if e.Core == nil || inv == nil {
		return false
	}
	h := e.Hooks
	view := e.resolveTarget(inv)

	switch r.Action {
	case command.ActionExit:
		if h == nil || h.Terminate == nil {
			return false
		}
		h.Terminate()
		return true

	case command.ActionRestart:
		if h == nil || h.Restart == nil {
			return false
		}
		h.Restart(r.Cmd)
		return true

	case command.ActionExec:
		if h == nil || h.Spawn == nil {
			return false
		}
		h.Spawn(r.Cmd)
		return true

	case command.ActionSetEnv:
		return e.setEnv(r.Cmd)

	case command.ActionCommandDialog:
		if h == nil || h.CommandDialogOpen == nil {
			return false
		}
		h.CommandDialogOpen("Command: ", "", func(text string) {
			fresh := Invocation{CursorX: inv.CursorX, CursorY: inv.CursorY, Scope: inv.Scope}
			e.cmdlangContext(&fresh).ExecuteLine(text, nil, 0)
		})
		return true

	case command.ActionReconfigure:
		if h == nil || h.Reconfigure == nil {
			return false
		}
		h.Reconfigure()
		return true

	case command.ActionReloadStyle:
		if h == nil || h.ReloadStyle == nil {
			return false
		}
		h.ReloadStyle()
		return true

	case command.ActionSetStyle:
		if h == nil || h.SetStyle == nil {
			return false
		}
		h.SetStyle(r.Cmd)
		return true

	case command.ActionSaveRC:
		if h == nil || h.SaveRC == nil {
			return false
		}
		h.SaveRC()
		return true

	case command.ActionSetResourceValue:
		if h == nil || h.SetResourceValue == nil {
			return false
		}
		return h.SetResourceValue(r.Cmd)

	case command.ActionSetResourceValueDialog:
		if h == nil || h.CommandDialogOpen == nil || h.SetResourceValue == nil {
			return false
		}
		h.CommandDialogOpen("SetResourceValue ", "", func(text string) {
			h.SetResourceValue(text)
		})
		return true

	case command.ActionKeyMode:
		if h == nil || h.KeyModeSet == nil {
			return false
		}
		h.KeyModeSet(r.Cmd)
		return true

	case command.ActionBindKey:
		if h == nil || h.BindKey == nil {
			return false
		}
		h.BindKey(r.Cmd)
		return true

	case command.ActionIf:
		return e.cmdlangContext(inv).ExecuteIf(r.Cmd, view, depth)
	case command.ActionForeach:
		return e.cmdlangContext(inv).ExecuteForeach(r.Cmd, view, depth)
	case command.ActionToggleCmd:
		return e.cmdlangContext(inv).ExecuteToggleCmd(r.Cmd, view, depth)
	case command.ActionDelay:
		return e.cmdlangContext(inv).ExecuteDelay(r.Cmd, view, depth)
	case command.ActionMacro:
		return e.cmdlangContext(inv).ExecuteMacro(r.Cmd, inv.Target, depth)

	case command.ActionFocusNext:
		return e.focusCycle(inv, false, false, r.Cmd, "keybinding-nextwindow")
	case command.ActionFocusPrev:
		return e.focusCycle(inv, true, false, r.Cmd, "keybinding-prevwindow")
	case command.ActionFocusNextGroup:
		return e.focusCycle(inv, false, true, r.Cmd, "keybinding-nextgroup")
	case command.ActionFocusPrevGroup:
		return e.focusCycle(inv, true, true, r.Cmd, "keybinding-prevgroup")

	case command.ActionGotoWindow:
		if r.Arg == 0 {
			return true
		}
		groups, staticOrder, pat := parseCycleOptions(r.Cmd)
		candidate := e.Core.PickGotoCandidate(r.Arg, groups, staticOrder, e.cycleFilter(inv, pat))
		if candidate != nil {
			if !groups && candidate.TabGroup != nil && !candidate.TabGroup.IsActive(candidate) {
				wm.ActivateTab(candidate, "keybinding-gotowindow")
			}
			e.Core.FocusView(candidate, wm.FocusReasonKeybinding)
			e.raiseView(candidate, "goto-window")
		}
		return true

	case command.ActionAttach:
		return e.attachPattern(inv, r.Cmd)
	case command.ActionShowDesktop:
		return e.showDesktop(inv)
	case command.ActionArrangeWindows:
		return e.arrangeWindows(inv, r.Arg, r.Cmd)
	case command.ActionUnclutter:
		return e.unclutter(inv, r.Cmd)
	case command.ActionDeiconify:
		return e.deiconify(inv, r.Cmd)

	case command.ActionTabNext:
		if view == nil || view.TabGroup == nil {
			return true
		}
		if next := view.TabGroup.PickNext(); next != nil {
			wm.ActivateTab(next, "keybinding-nexttab")
			e.Core.FocusView(next, wm.FocusReasonKeybinding)
		}
		return true

	case command.ActionTabPrev:
		if view == nil || view.TabGroup == nil {
			return true
		}
		if prev := view.TabGroup.PickPrev(); prev != nil {
			wm.ActivateTab(prev, "keybinding-prevtab")
			e.Core.FocusView(prev, wm.FocusReasonKeybinding)
		}
		return true

	case command.ActionTabGoto:
		if view == nil || view.TabGroup == nil {
			return true
		}
		if pick := view.TabGroup.PickIndex(r.Arg); pick != nil {
			wm.ActivateTab(pick, "keybinding-tab")
			e.Core.FocusView(pick, wm.FocusReasonKeybinding)
		}
		return true

	case command.ActionTabActivate:
		// The click position selects the tab; the titlebar carries the
		// group's tab strip in index order.
		if view == nil || view.TabGroup == nil {
			return true
		}
		idx := e.tabIndexAt(view, inv.CursorX, inv.CursorY)
		if idx < 0 {
			return true
		}
		if pick := view.TabGroup.PickIndex(idx); pick != nil {
			wm.ActivateTab(pick, "keybinding-activatetab")
			e.Core.FocusView(pick, wm.FocusReasonClick)
			e.raiseView(pick, "activatetab")
		}
		return true

	case command.ActionMoveTabLeft:
		if view != nil && view.TabGroup != nil {
			view.TabGroup.MoveLeft(view, "keybinding-movetableft")
		}
		return true

	case command.ActionMoveTabRight:
		if view != nil && view.TabGroup != nil {
			view.TabGroup.MoveRight(view, "keybinding-movetabright")
		}
		return true

	case command.ActionDetachClient:
		if view != nil && view.TabGroup != nil {
			view.TabGroup.Detach(view, "keybinding-detachclient")
			e.Core.FocusView(view, wm.FocusReasonKeybinding)
			e.raiseView(view, "detachclient")
		}
		return true

	case command.ActionToggleMaximize:
		if view != nil {
			before := e.Hooks.viewUnderCursor()
			view.SetMaximized(!view.Maximized)
			e.Hooks.strictFocusRecheck(before, "maximize")
			e.Hooks.toolbarRebuild()
		}
		return true

	case command.ActionToggleMaximizeHorizontal:
		if view != nil {
			before := e.Hooks.viewUnderCursor()
			view.ToggleMaximizeHorizontal()
			e.Hooks.strictFocusRecheck(before, "maximize-h")
			e.Hooks.toolbarRebuild()
		}
		return true

	case command.ActionToggleMaximizeVertical:
		if view != nil {
			before := e.Hooks.viewUnderCursor()
			view.ToggleMaximizeVertical()
			e.Hooks.strictFocusRecheck(before, "maximize-v")
			e.Hooks.toolbarRebuild()
		}
		return true

	case command.ActionToggleFullscreen:
		if view != nil {
			before := e.Hooks.viewUnderCursor()
			view.SetFullscreen(!view.Fullscreen, nil)
			e.Hooks.strictFocusRecheck(before, "fullscreen")
			e.Hooks.toolbarRebuild()
		}
		return true

	case command.ActionToggleMinimize:
		target := view
		if target == nil {
			// With nothing focused, restore the first minimized view on
			// the current workspace instead.
			cur := e.workspaceCurrent(inv)
			for _, v := range e.Core.Views() {
				if v.Mapped && v.Minimized && (v.Sticky || v.Workspace == cur) {
					target = v
					break
				}
			}
		}
		if target != nil {
			target.SetMinimized(!target.Minimized, "keybinding")
			e.Hooks.toolbarRebuild()
		}
		return true

	case command.ActionWorkspaceSwitch:
		e.workspaceSwitch(inv, r.Arg, "switch")
		return true

	case command.ActionWorkspaceNext, command.ActionWorkspacePrev:
		if r.Arg == 0 && r.Cmd == "" {
			return e.workspaceTogglePrev(inv, "switch-toggle")
		}
		cur := e.workspaceCurrent(inv)
		count := e.Core.WorkspaceCount()
		delta := r.Arg
		if r.Action == command.ActionWorkspacePrev {
			delta = -delta
		}
		ws := cur + delta
		if r.Cmd == "nowrap" {
			if ws < 0 {
				ws = 0
			}
			if ws >= count {
				ws = count - 1
			}
		} else {
			ws = wrapWorkspace(ws, count)
		}
		e.workspaceSwitch(inv, ws, "switch-rel")
		return true

	case command.ActionAddWorkspace:
		return e.addWorkspace()
	case command.ActionRemoveLastWorkspace:
		return e.removeLastWorkspace()
	case command.ActionSetWorkspaceName:
		return e.setWorkspaceName(inv, r.Cmd)
	case command.ActionSetWorkspaceNameDialog:
		return e.setWorkspaceNameDialog(inv)

	case command.ActionSendToWorkspace:
		if r.Arg < 0 || r.Arg >= e.Core.WorkspaceCount() {
			return true
		}
		e.Core.MoveFocusedToWorkspace(r.Arg)
		e.Core.ApplyWorkspaceVisibility("move-focused")
		return true

	case command.ActionTakeToWorkspace:
		if r.Arg < 0 || r.Arg >= e.Core.WorkspaceCount() {
			return true
		}
		e.Core.MoveFocusedToWorkspace(r.Arg)
		e.workspaceSwitch(inv, r.Arg, "switch")
		return true

	case command.ActionSendToRelWorkspace:
		ws := wrapWorkspace(e.workspaceCurrent(inv)+r.Arg, e.Core.WorkspaceCount())
		e.Core.MoveFocusedToWorkspace(ws)
		e.Core.ApplyWorkspaceVisibility("move-focused")
		return true

	case command.ActionTakeToRelWorkspace:
		ws := wrapWorkspace(e.workspaceCurrent(inv)+r.Arg, e.Core.WorkspaceCount())
		e.Core.MoveFocusedToWorkspace(ws)
		e.workspaceSwitch(inv, ws, "switch")
		return true

	case command.ActionSetHead:
		return e.setHead(view, r.Arg)
	case command.ActionSendToRelHead:
		return e.sendToRelHead(view, r.Arg)

	case command.ActionClose, command.ActionKill:
		if view != nil {
			view.Close(r.Action == command.ActionKill)
		}
		return true

	case command.ActionCloseAllWindows:
		return e.closeAllWindows()

	case command.ActionWindowMenu:
		if h == nil || h.MenuOpenWindow == nil {
			return false
		}
		if view != nil {
			h.MenuOpenWindow(view, inv.CursorX, inv.CursorY)
		}
		return true

	case command.ActionRootMenu:
		if h == nil || h.MenuOpenRoot == nil {
			return false
		}
		h.MenuOpenRoot(inv.CursorX, inv.CursorY, r.Cmd)
		return true

	case command.ActionWorkspaceMenu:
		if h == nil || h.MenuOpenWorkspace == nil {
			return false
		}
		h.MenuOpenWorkspace(inv.CursorX, inv.CursorY)
		return true

	case command.ActionClientMenu:
		if h == nil || h.MenuOpenClient == nil {
			return false
		}
		h.MenuOpenClient(inv.CursorX, inv.CursorY, r.Cmd)
		return true

	case command.ActionHideMenus:
		if h == nil || h.MenuClose == nil {
			return false
		}
		h.MenuClose("binding")
		return true

	case command.ActionToggleToolbarHidden:
		if h == nil || h.ToolbarToggleHidden == nil {
			return false
		}
		h.ToolbarToggleHidden(inv.CursorX, inv.CursorY)
		return true
	case command.ActionToggleToolbarAbove:
		if h == nil || h.ToolbarToggleAbove == nil {
			return false
		}
		h.ToolbarToggleAbove(inv.CursorX, inv.CursorY)
		return true
	case command.ActionToggleSlitHidden:
		if h == nil || h.SlitToggleHidden == nil {
			return false
		}
		h.SlitToggleHidden(inv.CursorX, inv.CursorY)
		return true
	case command.ActionToggleSlitAbove:
		if h == nil || h.SlitToggleAbove == nil {
			return false
		}
		h.SlitToggleAbove(inv.CursorX, inv.CursorY)
		return true

	case command.ActionRaise:
		if view != nil {
			e.raiseView(view, "binding")
		}
		return true

	case command.ActionLower:
		if view != nil {
			e.lowerView(view, "binding")
		}
		return true

	case command.ActionRaiseLayer:
		return e.shiftLayer(view, r.Arg)
	case command.ActionLowerLayer:
		return e.shiftLayer(view, -r.Arg)
	case command.ActionSetLayer:
		return e.setLayer(view, r.Arg)

	case command.ActionFocus:
		if view != nil {
			e.Core.FocusView(view, wm.FocusReasonClick)
		}
		return true

	case command.ActionFocusDir:
		if view == nil {
			return true
		}
		var dir geom.Direction
		switch r.Arg {
		case command.FocusDirLeft:
			dir = geom.DirLeft
		case command.FocusDirRight:
			dir = geom.DirRight
		case command.FocusDirUp:
			dir = geom.DirUp
		default:
			dir = geom.DirDown
		}
		if candidate := e.Core.PickDirCandidate(view, dir); candidate != nil {
			e.Core.FocusView(candidate, wm.FocusReasonKeybinding)
		}
		return true

	case command.ActionSetXProp:
		return e.setXProp(view, r.Cmd)

	case command.ActionToggleShade:
		if view != nil {
			view.SetShaded(!view.Shaded, "keybinding")
		}
		return true
	case command.ActionShadeOn:
		if view != nil {
			view.SetShaded(true, "keybinding")
		}
		return true
	case command.ActionShadeOff:
		if view != nil {
			view.SetShaded(false, "keybinding")
		}
		return true

	case command.ActionToggleStick:
		return e.setSticky(view, view != nil && !view.Sticky)
	case command.ActionStickOn:
		if view == nil || view.Sticky {
			return true
		}
		return e.setSticky(view, true)
	case command.ActionStickOff:
		if view == nil || !view.Sticky {
			return true
		}
		return e.setSticky(view, false)

	case command.ActionSetAlpha:
		if view != nil {
			e.setAlpha(view, r.Cmd)
		}
		return true

	case command.ActionToggleDecor:
		if view != nil {
			e.toggleDecor(view)
		}
		return true
	case command.ActionSetDecor:
		if view != nil {
			e.setDecor(view, r.Cmd)
		}
		return true

	case command.ActionSetTitle:
		if view != nil {
			e.setTitleOverride(view, r.Cmd, "keybinding")
		}
		return true
	case command.ActionSetTitleDialog:
		return e.setTitleDialog(view)

	case command.ActionMarkWindow:
		return e.markWindow(view, inv.PlaceholderKeycode)
	case command.ActionGotoMarkedWindow:
		return e.gotoMarkedWindow(inv.PlaceholderKeycode)

	case command.ActionStartMoving:
		if h == nil || h.GrabBeginMove == nil {
			return false
		}
		if view != nil {
			e.Core.FocusView(view, wm.FocusReasonClick)
			e.raiseView(view, "move")
			h.GrabBeginMove(view, inv.Button)
		}
		return true

	case command.ActionStartResizing:
		if h == nil || h.GrabBeginResize == nil {
			return false
		}
		if view != nil {
			e.Core.FocusView(view, wm.FocusReasonClick)
			e.raiseView(view, "resize")
			edges := ResizeEdgesFromArgs(view, e.Core.Theme, inv.CursorX, inv.CursorY, r.Cmd)
			h.GrabBeginResize(view, inv.Button, edges)
		}
		return true

	case command.ActionStartTabbing:
		if h == nil || h.GrabBeginTabbing == nil {
			return false
		}
		if view != nil {
			drag := view
			if idx := e.tabIndexAt(view, inv.CursorX, inv.CursorY); idx >= 0 && view.TabGroup != nil {
				if tabView := view.TabGroup.PickIndex(idx); tabView != nil {
					drag = tabView
				}
			}
			if drag.TabGroup != nil && !drag.TabGroup.IsActive(drag) {
				wm.ActivateTab(drag, "keybinding-starttabbing")
			}
			e.Core.FocusView(drag, wm.FocusReasonClick)
			e.raiseView(drag, "starttabbing")
			h.GrabBeginTabbing(drag, inv.Button)
		}
		return true

	case command.ActionMoveTo:
		if view != nil {
			e.moveToCmd(view, r.Cmd)
		}
		return true
	case command.ActionMoveRel:
		if view != nil {
			e.moveRelCmd(view, r.Arg, r.Cmd)
		}
		return true
	case command.ActionResizeTo:
		if view != nil {
			e.resizeToCmd(view, r.Cmd)
		}
		return true
	case command.ActionResizeRel:
		if view != nil {
			e.resizeRelCmd(view, r.Arg, r.Cmd)
		}
		return true
	}

	logger.Debugf("Execute: unhandled action=%d", r.Action)
	return false
}

// raiseView restacks to the top of the base layer and re-checks strict
// mouse focus.
func (e *Executor) raiseView(v *wm.View, why string) {
	if v == nil || v.Node == nil {
		return
	}
	before := e.Hooks.viewUnderCursor()
	v.Node.RaiseToTop()
	logger.Infof("Raise: %s reason=%s", v.DisplayTitle(), why)
	e.Hooks.strictFocusRecheck(before, "raise")
}

func (e *Executor) lowerView(v *wm.View, why string) {
	if v == nil || v.Node == nil {
		return
	}
	before := e.Hooks.viewUnderCursor()
	v.Node.Lower()
	logger.Infof("Lower: %s reason=%s", v.DisplayTitle(), why)
	e.Hooks.strictFocusRecheck(before, "lower")
}

// setLayer reparents the view's base layer; fullscreen views keep their
// fullscreen stacking until they leave it.
func (e *Executor) setLayer(v *wm.View, layer int) bool {
	if v == nil || v.Node == nil {
		return true
	}
	before := e.Hooks.viewUnderCursor()
	v.BaseLayer = wm.LayerForValue(layer)
	if !v.Fullscreen {
		v.Node.Reparent(v.BaseLayer)
	}
	logger.Infof("Layer: %s set=%d reason=keybinding", v.DisplayTitle(), layer)
	if !v.Fullscreen {
		e.Hooks.strictFocusRecheck(before, "set-layer")
	}
	return true
}

// shiftLayer moves the view by steps through top/normal/bottom/desktop.
func (e *Executor) shiftLayer(v *wm.View, steps int) bool {
	if v == nil {
		return true
	}
	dir := 1
	if steps < 0 {
		dir = -1
		steps = -steps
	}
	for i := 0; i < steps; i++ {
		before := v.BaseLayer
		var next wm.Layer
		if dir > 0 {
			switch {
			case before >= wm.LayerDesktop:
				next = wm.LayerBottom
			case before >= wm.LayerBottom:
				next = wm.LayerNormal
			default:
				next = wm.LayerTop
			}
		} else {
			switch {
			case before <= wm.LayerTop:
				next = wm.LayerNormal
			case before <= wm.LayerNormal:
				next = wm.LayerBottom
			default:
				next = wm.LayerDesktop
			}
		}
		e.setLayer(v, int(next))
		if v.BaseLayer == before {
			break
		}
	}
	return true
}

func (e *Executor) setSticky(v *wm.View, sticky bool) bool {
	if v == nil {
		return true
	}
	v.Sticky = sticky
	logger.Infof("Stick: %s %s", v.DisplayTitle(), onOffStr(sticky))
	if g := v.TabGroup; g != nil {
		e.Core.RepairTabs()
	}
	why := "stick-off"
	if sticky {
		why = "stick-on"
	}
	e.Core.ApplyWorkspaceVisibility(why)
	return true
}

func (e *Executor) setXProp(v *wm.View, args string) bool {
	if v == nil || args == "" {
		return false
	}
	args = strings.TrimSpace(args)
	if len(args) < 2 || args[0] == '=' {
		return false
	}
	name := args
	value := ""
	if eq := strings.IndexByte(args, '='); eq >= 0 {
		name = args[:eq]
		value = args[eq+1:]
	}
	if name == "" {
		return false
	}
	type propWriter interface {
		SetProperty(name, value string)
	}
	pw, ok := v.Surface.(propWriter)
	if !ok {
		return false
	}
	pw.SetProperty(name, value)
	logger.Infof("SetXProp: %s prop=%s len=%d", v.DisplayTitle(), name, len(value))
	return true
}

// tabIndexAt maps a titlebar click to a tab strip index; -1 when the point
// is outside the strip.
func (e *Executor) tabIndexAt(v *wm.View, x, y int) int {
	if v == nil || v.TabGroup == nil || e.Core.Theme == nil || !v.DecorEnabled {
		return -1
	}
	theme := e.Core.Theme
	titleTop := v.Y - theme.TitleHeight
	if y < titleTop || y >= v.Y {
		return -1
	}
	cfg := e.Core.ConfigForView(v)
	tabW := cfg.Tabs.WidthPx
	if tabW < 1 {
		tabW = 64
	}
	if x < v.X {
		return -1
	}
	idx := (x - v.X) / tabW
	n := 0
	for _, m := range v.TabGroup.Views() {
		if m.Mapped && !m.Minimized {
			n++
		}
	}
	if idx >= n {
		return -1
	}
	return idx
}

func onOffStr(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
