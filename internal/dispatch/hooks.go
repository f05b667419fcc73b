// Package dispatch owns the keybinding and mousebinding tables and the
// exhaustive action executor that turns resolved commands into core
// mutations.
package dispatch

import (
	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/wm"
)

// Hooks is the slot structure the executor uses to reach its embedding.
// Every slot may be nil. For most slots, absence means the matching action
// no-ops and returns false so the input can fall through; the workspace
// overrides fall back to the core, and SaveRC, the cycle filter, the
// strict-focus pair and ToolbarRebuild are simply skipped.
type Hooks struct {
	// Lifecycle.
	Terminate         func()
	Restart           func(cmd string)
	Spawn             func(cmd string)
	Reconfigure       func()
	CommandDialogOpen func(prompt, initial string, submit func(text string))
	KeyModeSet        func(name string)

	// Persistence and theming.
	SaveRC                 func()
	ReloadStyle            func()
	SetStyle               func(path string)
	SetResourceValue       func(args string) bool
	BindKey                func(spec string)

	// Workspace overrides; nil falls back to the core's global registers.
	WorkspaceCurrent func(x, y int) int
	WorkspaceSwitch  func(x, y, ws int, why string)

	// Menus and widgets.
	MenuOpenRoot      func(x, y int, menuFile string)
	MenuOpenWindow    func(v *wm.View, x, y int)
	MenuOpenWorkspace func(x, y int)
	MenuOpenClient    func(x, y int, pat string)
	MenuClose         func(why string)

	ToolbarToggleHidden func(x, y int)
	ToolbarToggleAbove  func(x, y int)
	SlitToggleHidden    func(x, y int)
	SlitToggleAbove     func(x, y int)

	// Pointer grabs.
	GrabBeginMove    func(v *wm.View, button uint32)
	GrabBeginResize  func(v *wm.View, button uint32, edges geom.Edge)
	GrabBeginTabbing func(v *wm.View, button uint32)

	// CycleViewAllowed narrows focus-cycle candidates (same-head policy).
	CycleViewAllowed func(v *wm.View) bool

	// Strict-mouse-focus bookkeeping: the executor records the view under
	// the cursor before a restacking mutation and asks for a recheck
	// after.
	ViewUnderCursor    func() *wm.View
	StrictFocusRecheck func(before *wm.View, why string)

	// Invalidation fan-out after mutations that change what the toolbar
	// shows.
	ToolbarRebuild func()
}

func (h *Hooks) toolbarRebuild() {
	if h != nil && h.ToolbarRebuild != nil {
		h.ToolbarRebuild()
	}
}

func (h *Hooks) viewUnderCursor() *wm.View {
	if h != nil && h.ViewUnderCursor != nil {
		return h.ViewUnderCursor()
	}
	return nil
}

func (h *Hooks) strictFocusRecheck(before *wm.View, why string) {
	if h != nil && h.StrictFocusRecheck != nil {
		h.StrictFocusRecheck(before, why)
	}
}
