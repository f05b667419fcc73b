package wm

import (
	"fmt"

	"github.com/bnema/fluxwl/internal/event"
	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/logger"
)

// RefocusFilter rejects focus candidates (focus-hidden views, wrong head).
type RefocusFilter func(candidate, reference *View) bool

// Core owns the view population and the shared workspace registers. All
// methods must be called from the compositor event loop.
type Core struct {
	// views is the map-order list, oldest first. It is the single source
	// of truth for iteration; bulk actions snapshot it before mutating.
	views []*View

	Focused *View

	Screens *geom.ScreenMap
	Theme   *DecorTheme
	Clock   event.Clock

	// Config resolves the merged per-head resource table; head 0 is the
	// fallback and must always resolve.
	Config func(head int) *ScreenConfig

	refocusFilter RefocusFilter
	focusObserver func(old, new *View, reason FocusReason)

	workspaceCount int
	// Global fallback registers for APIs that do not carry a head.
	workspaceCurrent int
	workspacePrev    int
	workspaceCurrentByHead []int
	workspacePrevByHead    []int
	workspaceNames         []string

	Placement  PlacementStrategy
	RowDir     RowDirection
	ColDir     ColDirection
	PlaceNextX int
	PlaceNextY int

	tabGroups []*TabGroup

	createSeq uint64

	// ApplyVisibility re-evaluates per-view scene enablement after a
	// workspace change; installed by the embedding server.
	ApplyVisibility func(why string)
}

// NewCore builds a core over the given screen map with one workspace.
func NewCore(screens *geom.ScreenMap, theme *DecorTheme, clock event.Clock) *Core {
	if theme == nil {
		theme = DefaultDecorTheme()
	}
	defaultCfg := DefaultScreenConfig()
	c := &Core{
		Screens:        screens,
		Theme:          theme,
		Clock:          clock,
		workspaceCount: 1,
		Config: func(int) *ScreenConfig {
			return &defaultCfg
		},
	}
	c.SetHeadCount(screens.Count())
	return c
}

func (c *Core) logf(format string, args ...interface{}) {
	logger.Info(fmt.Sprintf(format, args...))
}

// Views returns the live map-order list. Callers that mutate while
// iterating must copy it first.
func (c *Core) Views() []*View {
	return c.views
}

// SnapshotViews copies the map-order list for destructive iteration.
func (c *Core) SnapshotViews() []*View {
	out := make([]*View, len(c.views))
	copy(out, c.views)
	return out
}

// ViewByCreateSeq looks a view up by its creation sequence number.
func (c *Core) ViewByCreateSeq(seq uint64) *View {
	if seq == 0 {
		return nil
	}
	for _, v := range c.views {
		if v.CreateSeq == seq {
			return v
		}
	}
	return nil
}

// MapView appends the view to the tracked list and marks it mapped.
func (c *Core) MapView(v *View) {
	if v == nil || v.Mapped {
		return
	}
	v.Mapped = true
	for _, w := range c.views {
		if w == v {
			// A remap keeps the slot it held before the unmap.
			return
		}
	}
	c.views = append(c.views, v)
}

// UnmapView marks the view unmapped but keeps its registry slot so a
// remap restores ordering.
func (c *Core) UnmapView(v *View) {
	if v == nil || !v.Mapped {
		return
	}
	v.Mapped = false
	if c.Focused == v {
		c.Refocus()
	}
}

// DestroyView detaches the view from every registry and tears down its
// owned resources. Safe to call twice.
func (c *Core) DestroyView(v *View) {
	if v == nil {
		return
	}
	v.attentionStop()
	if v.TabGroup != nil {
		v.TabGroup.Detach(v, "destroy")
	}
	for i, w := range c.views {
		if w == v {
			c.views = append(c.views[:i], c.views[i+1:]...)
			break
		}
	}
	if c.Focused == v {
		c.Focused = nil
		c.Refocus()
	}
	v.Mapped = false
	v.core = nil
}

// SetRefocusFilter installs the candidate filter used by Refocus and the
// focus cyclers.
func (c *Core) SetRefocusFilter(f RefocusFilter) {
	c.refocusFilter = f
}

// WorkspaceCount returns the global workspace count; always at least 1.
func (c *Core) WorkspaceCount() int {
	if c.workspaceCount < 1 {
		return 1
	}
	return c.workspaceCount
}

// SetWorkspaceCount clamps to >= 1 and resizes the per-head registers.
func (c *Core) SetWorkspaceCount(n int) {
	if n < 1 {
		n = 1
	}
	c.workspaceCount = n
	clampWs := func(ws int) int {
		if ws >= n {
			return n - 1
		}
		if ws < 0 {
			return 0
		}
		return ws
	}
	c.workspaceCurrent = clampWs(c.workspaceCurrent)
	c.workspacePrev = clampWs(c.workspacePrev)
	for i := range c.workspaceCurrentByHead {
		c.workspaceCurrentByHead[i] = clampWs(c.workspaceCurrentByHead[i])
		c.workspacePrevByHead[i] = clampWs(c.workspacePrevByHead[i])
	}
	if len(c.workspaceNames) > n {
		c.workspaceNames = c.workspaceNames[:n]
	}
}

// SetHeadCount reallocates the per-head workspace registers, preserving the
// registers of heads that survive.
func (c *Core) SetHeadCount(n int) {
	if n < 1 {
		n = 1
	}
	cur := make([]int, n)
	prev := make([]int, n)
	for i := 0; i < n; i++ {
		if i < len(c.workspaceCurrentByHead) {
			cur[i] = c.workspaceCurrentByHead[i]
			prev[i] = c.workspacePrevByHead[i]
		} else {
			cur[i] = c.workspaceCurrent
			prev[i] = c.workspacePrev
		}
	}
	c.workspaceCurrentByHead = cur
	c.workspacePrevByHead = prev
}

// HeadCount returns the number of per-head register slots.
func (c *Core) HeadCount() int {
	return len(c.workspaceCurrentByHead)
}

// WorkspaceCurrent returns the global fallback register.
func (c *Core) WorkspaceCurrent() int {
	return c.workspaceCurrent
}

// WorkspaceCurrentForHead returns the head's current workspace.
func (c *Core) WorkspaceCurrentForHead(head int) int {
	if head >= 0 && head < len(c.workspaceCurrentByHead) {
		return c.workspaceCurrentByHead[head]
	}
	return c.workspaceCurrent
}

// WorkspacePrevForHead returns the head's previous workspace register.
func (c *Core) WorkspacePrevForHead(head int) int {
	if head >= 0 && head < len(c.workspacePrevByHead) {
		return c.workspacePrevByHead[head]
	}
	return c.workspacePrev
}

// WorkspaceSwitch updates every head to the same workspace.
func (c *Core) WorkspaceSwitch(ws int) {
	if ws < 0 || ws >= c.WorkspaceCount() {
		return
	}
	if ws != c.workspaceCurrent {
		c.workspacePrev = c.workspaceCurrent
		c.workspaceCurrent = ws
	}
	for head := range c.workspaceCurrentByHead {
		if c.workspaceCurrentByHead[head] != ws {
			c.workspacePrevByHead[head] = c.workspaceCurrentByHead[head]
			c.workspaceCurrentByHead[head] = ws
		}
	}
}

// WorkspaceSwitchOnHead updates only the given head, saving the old value
// into the head's previous-workspace register.
func (c *Core) WorkspaceSwitchOnHead(head, ws int) {
	if ws < 0 || ws >= c.WorkspaceCount() {
		return
	}
	if head < 0 || head >= len(c.workspaceCurrentByHead) {
		c.WorkspaceSwitch(ws)
		return
	}
	if c.workspaceCurrentByHead[head] != ws {
		c.workspacePrevByHead[head] = c.workspaceCurrentByHead[head]
		c.workspaceCurrentByHead[head] = ws
	}
	if head == 0 {
		if c.workspaceCurrent != ws {
			c.workspacePrev = c.workspaceCurrent
			c.workspaceCurrent = ws
		}
	}
}

// MoveFocusedToWorkspace retargets the focused view without switching the
// visible workspace.
func (c *Core) MoveFocusedToWorkspace(ws int) {
	if c.Focused == nil || ws < 0 || ws >= c.WorkspaceCount() {
		return
	}
	if !c.Focused.Sticky {
		c.Focused.Workspace = ws
	}
	if g := c.Focused.TabGroup; g != nil {
		g.repairWorkspace()
	}
}

// ClearWorkspaceNames drops the whole name table.
func (c *Core) ClearWorkspaceNames() {
	c.workspaceNames = nil
}

// SetWorkspaceName names one workspace, growing the table as needed.
func (c *Core) SetWorkspaceName(ws int, name string) bool {
	if ws < 0 || ws >= c.WorkspaceCount() {
		return false
	}
	for len(c.workspaceNames) <= ws {
		c.workspaceNames = append(c.workspaceNames, "")
	}
	c.workspaceNames[ws] = name
	return true
}

// WorkspaceName returns the workspace name, or "" when unnamed.
func (c *Core) WorkspaceName(ws int) string {
	if ws < 0 || ws >= len(c.workspaceNames) {
		return ""
	}
	return c.workspaceNames[ws]
}

// WorkspaceNamesLen returns the populated length of the name table.
func (c *Core) WorkspaceNamesLen() int {
	return len(c.workspaceNames)
}

// viewVisibleOnWorkspace reports whether the view's workspace assignment
// makes it visible on its head's current workspace.
func (c *Core) viewVisibleOnWorkspace(v *View) bool {
	if v == nil || !v.Mapped {
		return false
	}
	if v.Sticky {
		return true
	}
	return v.Workspace == c.WorkspaceCurrentForHead(v.Head())
}

// ViewIsVisible is viewVisibleOnWorkspace plus minimize and tab gating: a
// non-active tab member is hidden even on its workspace.
func (c *Core) ViewIsVisible(v *View) bool {
	if !c.viewVisibleOnWorkspace(v) || v.Minimized {
		return false
	}
	if v.TabGroup != nil && !v.TabGroup.IsActive(v) {
		return false
	}
	return true
}

// applyVisibilityNow pushes the per-view enabled flags into the scene after a
// workspace or stickiness change, exactly once per event.
func (c *Core) applyVisibilityNow(why string) {
	for _, v := range c.views {
		if v.Node == nil {
			continue
		}
		v.Node.SetEnabled(c.ViewIsVisible(v) && !v.Shaded)
	}
	c.RepairTabs()
	if c.ApplyVisibility != nil {
		c.ApplyVisibility(why)
	}
}

// ApplyWorkspaceVisibility is the public entry point used by the executor
// and the workspace switchers.
func (c *Core) ApplyWorkspaceVisibility(why string) {
	c.applyVisibilityNow(why)
}

// ConfigForHead resolves the merged screen configuration for a head.
func (c *Core) ConfigForHead(head int) *ScreenConfig {
	if c.Config == nil {
		cfg := DefaultScreenConfig()
		return &cfg
	}
	return c.Config(head)
}

// ConfigForView resolves the configuration of the view's head.
func (c *Core) ConfigForView(v *View) *ScreenConfig {
	if v == nil {
		return c.ConfigForHead(0)
	}
	return c.ConfigForHead(v.Head())
}
