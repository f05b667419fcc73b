package wm

// TabGroup linearizes a set of views that share position, size, and
// workspace. Exactly one member is visible at a time. The group holds
// non-owning references; the core's map-order list owns the views.
type TabGroup struct {
	core   *Core
	views  []*View
	active *View
}

// Size returns the member count.
func (g *TabGroup) Size() int {
	if g == nil {
		return 0
	}
	return len(g.views)
}

// Views returns the members in tab order.
func (g *TabGroup) Views() []*View {
	if g == nil {
		return nil
	}
	return g.views
}

// Active returns the visible member.
func (g *TabGroup) Active() *View {
	if g == nil {
		return nil
	}
	return g.active
}

// IsActive reports whether v is the group's visible member. Views without
// a group count as active.
func (g *TabGroup) IsActive(v *View) bool {
	if g == nil {
		return true
	}
	return g.active == v
}

// TabsViewIsActive is the nil-safe form used by callers holding only a view.
func TabsViewIsActive(v *View) bool {
	if v == nil {
		return false
	}
	if v.TabGroup == nil {
		return true
	}
	return v.TabGroup.IsActive(v)
}

func viewMappedNotMinimized(v *View) bool {
	return v != nil && v.Mapped && !v.Minimized
}

func (g *TabGroup) pickActiveFallback() *View {
	if g == nil {
		return nil
	}
	if viewMappedNotMinimized(g.active) {
		return g.active
	}
	for _, v := range g.views {
		if viewMappedNotMinimized(v) {
			return v
		}
	}
	if len(g.views) > 0 {
		return g.views[0]
	}
	return nil
}

func (g *TabGroup) applyVisibility() {
	if g == nil {
		return
	}
	if a := g.pickActiveFallback(); a != nil && g.active != a {
		g.active = a
	}
	for _, v := range g.views {
		if v.Node == nil {
			continue
		}
		visibleWs := g.core.viewVisibleOnWorkspace(v)
		v.Node.SetEnabled(visibleWs && g.active == v && !v.Shaded)
	}
}

func (g *TabGroup) repairWorkspace() {
	ref := g.pickActiveFallback()
	if ref == nil {
		return
	}
	for _, v := range g.views {
		v.Workspace = ref.Workspace
		v.Sticky = ref.Sticky
	}
}

// RepairTabs re-synchronizes workspace and visibility across every group
// after workspace reassignments or batch mutations.
func (c *Core) RepairTabs() {
	for _, g := range c.tabGroups {
		g.repairWorkspace()
		g.applyVisibility()
	}
}

func (c *Core) tabGroupDestroy(g *TabGroup) {
	for i, o := range c.tabGroups {
		if o == g {
			c.tabGroups = append(c.tabGroups[:i], c.tabGroups[i+1:]...)
			return
		}
	}
}

func (g *TabGroup) maybeDestroy() {
	if g == nil || len(g.views) >= 2 {
		return
	}
	if len(g.views) == 1 {
		v := g.views[0]
		g.views = nil
		v.TabGroup = nil
		if v.Node != nil {
			v.Node.SetEnabled(g.core.viewVisibleOnWorkspace(v) && !v.Minimized && !v.Shaded)
		}
	}
	g.core.tabGroupDestroy(g)
}

func (g *TabGroup) add(v *View) {
	v.TabGroup = g
	g.views = append(g.views, v)
	if g.active == nil {
		g.active = v
	}
}

// AttachTab inserts view into anchor's group, creating the group on demand.
// The anchor must be mapped and not minimized; the new member inherits the
// anchor's geometry, workspace, and stickiness.
func (c *Core) AttachTab(view, anchor *View, reason string) bool {
	if view == nil || anchor == nil || view == anchor {
		return false
	}
	if view.core != c || anchor.core != c {
		return false
	}
	if view.TabGroup != nil {
		return false
	}
	if !viewMappedNotMinimized(anchor) {
		return false
	}

	g := anchor.TabGroup
	if g == nil {
		g = &TabGroup{core: c}
		c.tabGroups = append(c.tabGroups, g)
		g.add(anchor)
		g.active = anchor
	}

	g.add(view)

	view.X, view.Y = anchor.X, anchor.Y
	if view.Node != nil {
		view.Node.SetPosition(view.X, view.Y)
	}
	if w, h := anchor.CurrentWidth(), anchor.CurrentHeight(); w >= 1 && h >= 1 {
		if l := view.legacy(); l != nil {
			l.Configure(view.X, view.Y, w, h)
		} else if view.Surface != nil {
			view.Surface.SetSize(w, h)
		}
		view.Width, view.Height = w, h
	}
	view.Workspace = anchor.Workspace
	view.Sticky = anchor.Sticky
	view.Placed = true

	g.applyVisibility()
	c.logf("Tabs: attach reason=%s anchor=%s view=%s tabs=%d",
		reason, anchor.DisplayTitle(), view.DisplayTitle(), g.Size())
	return true
}

// Detach removes view from its group. When the active member leaves, the
// next mapped non-minimized member takes over; a group shrinking below two
// is dissolved.
func (g *TabGroup) Detach(view *View, reason string) {
	if g == nil || view == nil || view.TabGroup != g {
		return
	}

	wasActive := g.active == view
	for i, v := range g.views {
		if v == view {
			g.views = append(g.views[:i], g.views[i+1:]...)
			break
		}
	}
	view.TabGroup = nil

	if wasActive {
		g.active = nil
		g.active = g.pickActiveFallback()
	}

	g.core.logf("Tabs: detach reason=%s title=%s remaining=%d",
		reason, view.DisplayTitle(), len(g.views))

	g.maybeDestroy()
	g.core.RepairTabs()
	if view.Node != nil {
		view.Node.SetEnabled(g.core.viewVisibleOnWorkspace(view) && !view.Minimized && !view.Shaded)
	}
}

// Activate makes view the group's visible member.
func (g *TabGroup) Activate(view *View, reason string) {
	if g == nil || view == nil || view.TabGroup != g {
		return
	}
	if g.active != view {
		g.active = view
		g.core.logf("Tabs: activate reason=%s title=%s", reason, view.DisplayTitle())
	}
	g.applyVisibility()
}

// ActivateTab is the nil-safe entry point used by the executor.
func ActivateTab(view *View, reason string) {
	if view == nil || view.TabGroup == nil {
		return
	}
	view.TabGroup.Activate(view, reason)
}

func (g *TabGroup) indexOf(v *View) int {
	for i, w := range g.views {
		if w == v {
			return i
		}
	}
	return -1
}

// PickNext returns the next mapped, non-minimized member after the active
// one, cycling; nil when the active member is the only candidate.
func (g *TabGroup) PickNext() *View {
	start := g.pickActiveFallback()
	if start == nil {
		return nil
	}
	i := g.indexOf(start)
	for step := 1; step < len(g.views); step++ {
		v := g.views[(i+step)%len(g.views)]
		if viewMappedNotMinimized(v) {
			return v
		}
	}
	return nil
}

// PickPrev mirrors PickNext in the other direction.
func (g *TabGroup) PickPrev() *View {
	start := g.pickActiveFallback()
	if start == nil {
		return nil
	}
	i := g.indexOf(start)
	n := len(g.views)
	for step := 1; step < n; step++ {
		v := g.views[((i-step)%n+n)%n]
		if viewMappedNotMinimized(v) {
			return v
		}
	}
	return nil
}

// PickIndex returns the i-th mapped, non-minimized member (zero-based).
func (g *TabGroup) PickIndex(index0 int) *View {
	if g == nil || index0 < 0 {
		return nil
	}
	idx := 0
	for _, v := range g.views {
		if !viewMappedNotMinimized(v) {
			continue
		}
		if idx == index0 {
			return v
		}
		idx++
	}
	return nil
}

// MoveLeft swaps the view one slot toward the front of the tab order.
func (g *TabGroup) MoveLeft(view *View, reason string) bool {
	if g == nil || view == nil {
		return false
	}
	i := g.indexOf(view)
	if i <= 0 {
		return false
	}
	g.views[i-1], g.views[i] = g.views[i], g.views[i-1]
	g.core.logf("Tabs: move-left reason=%s title=%s", reason, view.DisplayTitle())
	return true
}

// MoveRight swaps the view one slot toward the end of the tab order.
func (g *TabGroup) MoveRight(view *View, reason string) bool {
	if g == nil || view == nil {
		return false
	}
	i := g.indexOf(view)
	if i < 0 || i >= len(g.views)-1 {
		return false
	}
	g.views[i], g.views[i+1] = g.views[i+1], g.views[i]
	g.core.logf("Tabs: move-right reason=%s title=%s", reason, view.DisplayTitle())
	return true
}

// SyncGeometryFromView copies position (and optionally size) from source to
// every other member.
func (g *TabGroup) SyncGeometryFromView(source *View, includeSize bool, width, height int, reason string) {
	if g == nil || source == nil {
		return
	}
	for _, v := range g.views {
		if v == source {
			continue
		}
		v.X, v.Y = source.X, source.Y
		if v.Node != nil {
			v.Node.SetPosition(v.X, v.Y)
		}
		if !includeSize {
			continue
		}
		if width < 1 || height < 1 {
			continue
		}
		if l := v.legacy(); l != nil {
			l.Configure(v.X, v.Y, width, height)
		} else if v.Surface != nil {
			v.Surface.SetSize(width, height)
		}
		v.Width, v.Height = width, height
	}
	g.core.logf("Tabs: sync-geometry reason=%s title=%s", reason, source.DisplayTitle())
}
