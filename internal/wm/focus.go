package wm

import (
	"sort"

	"github.com/bnema/fluxwl/internal/geom"
)

// FocusReason describes why a focus request was issued; the protection
// rules treat some reasons as explicit user intent.
type FocusReason int

const (
	FocusReasonOther FocusReason = iota
	FocusReasonMap
	FocusReasonActivate
	FocusReasonKeybinding
	FocusReasonPointerMotion
	FocusReasonClick
	FocusReasonCycle
	FocusReasonRefocus
)

func (r FocusReason) String() string {
	switch r {
	case FocusReasonMap:
		return "map"
	case FocusReasonActivate:
		return "activate"
	case FocusReasonKeybinding:
		return "keybinding"
	case FocusReasonPointerMotion:
		return "pointer"
	case FocusReasonClick:
		return "click"
	case FocusReasonCycle:
		return "cycle"
	case FocusReasonRefocus:
		return "refocus"
	default:
		return "other"
	}
}

// newWindowFocusReason reports whether the reason counts as "new window
// focus" for the Refuse protection escape hatch.
func newWindowFocusReason(r FocusReason) bool {
	return r == FocusReasonMap || r == FocusReasonActivate || r == FocusReasonKeybinding
}

// SetFocusObserver installs the focus transition observer. The embedding
// server uses it for strict-mouse-focus bookkeeping and toolbar
// invalidation; it fires after the core state has been updated.
func (c *Core) SetFocusObserver(fn func(old, new *View, reason FocusReason)) {
	c.focusObserver = fn
}

// focusAllowed applies the §4.4 decision contract.
func (c *Core) focusAllowed(v *View, reason FocusReason) bool {
	if v == nil || !v.Mapped {
		return false
	}
	if v.FocusHidden && reason != FocusReasonActivate {
		return false
	}

	cfg := c.ConfigForView(v)
	if reason == FocusReasonPointerMotion && cfg != nil && cfg.FocusModel == ClickToFocus {
		return false
	}

	if c.refocusFilter != nil && !c.refocusFilter(v, c.Focused) {
		if reason != FocusReasonClick && reason != FocusReasonActivate {
			return false
		}
	}

	p := v.FocusProtection
	if p&ProtectGain != 0 {
		return true
	}
	if p&ProtectDeny != 0 {
		return false
	}
	if p&ProtectRefuse != 0 && !newWindowFocusReason(reason) {
		return false
	}
	return true
}

// FocusView moves keyboard focus to v, subject to the decision contract.
// Returns true when focus actually changed hands.
func (c *Core) FocusView(v *View, reason FocusReason) bool {
	if v == c.Focused {
		return false
	}
	if v != nil && !c.focusAllowed(v, reason) {
		return false
	}

	old := c.Focused
	c.Focused = v

	if old != nil {
		old.SetActivated(false)
		old.DecorSetActive(false)
	}
	if v != nil {
		v.SetActivated(true)
		v.AttentionClear("focus")
		v.DecorSetActive(true)
		c.logf("Focus: %s reason=%s", v.DisplayTitle(), reason)
	}

	if c.focusObserver != nil {
		c.focusObserver(old, v, reason)
	}
	return true
}

// Refocus picks a replacement after the focused view went away: the newest
// visible view that passes the refocus filter.
func (c *Core) Refocus() {
	var pick *View
	for i := len(c.views) - 1; i >= 0; i-- {
		v := c.views[i]
		if v == c.Focused {
			continue
		}
		if !c.ViewIsVisible(v) || v.FocusHidden {
			continue
		}
		if c.refocusFilter != nil && !c.refocusFilter(v, c.Focused) {
			continue
		}
		pick = v
		break
	}
	old := c.Focused
	c.Focused = pick
	if old != nil && old != pick {
		old.SetActivated(false)
		old.DecorSetActive(false)
	}
	if pick != nil {
		pick.SetActivated(true)
		pick.AttentionClear("refocus")
		pick.DecorSetActive(true)
		c.logf("Focus: %s reason=refocus", pick.DisplayTitle())
	}
	if c.focusObserver != nil && old != pick {
		c.focusObserver(old, pick, FocusReasonRefocus)
	}
}

// CycleFilter narrows cycle candidates beyond the built-in checks; nil
// accepts everything.
type CycleFilter func(v *View) bool

func (c *Core) cycleCandidates(groups, staticOrder bool, filter CycleFilter) []*View {
	var out []*View
	for _, v := range c.views {
		if !v.Mapped || v.Minimized || v.FocusHidden || v.InSlit {
			continue
		}
		if !c.viewVisibleOnWorkspace(v) {
			continue
		}
		if groups && v.TabGroup != nil && !v.TabGroup.IsActive(v) {
			continue
		}
		if filter != nil && !filter(v) {
			continue
		}
		out = append(out, v)
	}
	if staticOrder {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreateSeq < out[j].CreateSeq
		})
	}
	return out
}

// PickCycleCandidate returns the next (or previous) focus candidate
// relative to the focused view, honoring group collapsing, static order,
// and the extra filter.
func (c *Core) PickCycleCandidate(reverse, groups, staticOrder bool, filter CycleFilter) *View {
	candidates := c.cycleCandidates(groups, staticOrder, filter)
	if len(candidates) == 0 {
		return nil
	}

	cur := -1
	for i, v := range candidates {
		if v == c.Focused || (c.Focused != nil && v.TabGroup != nil && v.TabGroup == c.Focused.TabGroup) {
			cur = i
			break
		}
	}
	if cur < 0 {
		if reverse {
			return candidates[len(candidates)-1]
		}
		return candidates[0]
	}

	n := len(candidates)
	if reverse {
		return candidates[((cur-1)%n+n)%n]
	}
	return candidates[(cur+1)%n]
}

// PickGotoCandidate selects the n-th candidate (1-based; negative counts
// from the end) among the filtered, visible views.
func (c *Core) PickGotoCandidate(n int, groups, staticOrder bool, filter CycleFilter) *View {
	if n == 0 {
		return nil
	}
	candidates := c.cycleCandidates(groups, staticOrder, filter)
	if len(candidates) == 0 {
		return nil
	}
	if n > 0 {
		if n > len(candidates) {
			return nil
		}
		return candidates[n-1]
	}
	if -n > len(candidates) {
		return nil
	}
	return candidates[len(candidates)+n]
}

// PickDirCandidate finds the nearest view in the given cardinal direction
// from the reference view, measured between frame centers and projected
// onto the axis. Ties break toward the older view.
func (c *Core) PickDirCandidate(from *View, dir geom.Direction) *View {
	if from == nil {
		return nil
	}
	fx, fy := from.FrameBox(c.Theme).Center()

	var best *View
	var bestDist int64
	for _, v := range c.views {
		if v == from || !c.ViewIsVisible(v) || v.FocusHidden || v.InSlit {
			continue
		}
		cx, cy := v.FrameBox(c.Theme).Center()
		dx, dy := int64(cx-fx), int64(cy-fy)

		var onAxis bool
		var dist int64
		switch dir {
		case geom.DirLeft:
			onAxis = dx < 0
			dist = -dx*2 + abs64(dy)
		case geom.DirRight:
			onAxis = dx > 0
			dist = dx*2 + abs64(dy)
		case geom.DirUp:
			onAxis = dy < 0
			dist = -dy*2 + abs64(dx)
		case geom.DirDown:
			onAxis = dy > 0
			dist = dy*2 + abs64(dx)
		}
		if !onAxis {
			continue
		}
		if best == nil || dist < bestDist ||
			(dist == bestDist && v.CreateSeq < best.CreateSeq) {
			best = v
			bestDist = dist
		}
	}
	return best
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
