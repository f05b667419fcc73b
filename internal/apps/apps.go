// Package apps applies declarative pre-map rules to freshly created views:
// initial workspace, stickiness, state flags, decoration, layer, and tab
// group. Rules with a match limit stop applying once the limit is reached
// and release a slot when an owning view closes.
package apps

import (
	"github.com/bnema/fluxwl/internal/logger"
	"github.com/bnema/fluxwl/internal/pattern"
	"github.com/bnema/fluxwl/internal/wm"
)

// Rule is one parsed apps-file entry.
type Rule struct {
	Pattern *pattern.Pattern

	// Pre-map setters; each pointer is nil when the rule leaves the
	// attribute alone.
	Workspace    *int
	Sticky       *bool
	Jump         bool // follow the view to its workspace
	Minimized    *bool
	Maximized    *bool
	Fullscreen   *bool
	DecorEnabled *bool
	Layer        *int
	GroupID      int // 0 means no auto-grouping

	// MatchLimit caps how many live views the rule may own; 0 means
	// unlimited.
	MatchLimit int
	MatchCount int
}

// Rules is the ordered rule set with a generation counter so stale view
// references from an earlier load never decrement fresh counters.
type Rules struct {
	rules      []*Rule
	generation uint64

	// groups maps rule group ids to the anchor view for auto-tabbing.
	groups map[int]*wm.View

	// OnCountsChanged persists match counts when a limited rule's count
	// moves (apps-file rewrite).
	OnCountsChanged func()
}

// NewRules returns an empty, generation-1 rule set.
func NewRules() *Rules {
	return &Rules{generation: 1, groups: map[int]*wm.View{}}
}

// Replace installs a freshly parsed rule set and bumps the generation.
func (r *Rules) Replace(rules []*Rule) {
	r.rules = rules
	r.generation++
	r.groups = map[int]*wm.View{}
}

// Generation returns the current rule-set generation.
func (r *Rules) Generation() uint64 {
	return r.generation
}

// Rules returns the live rule list.
func (r *Rules) Rules() []*Rule {
	return r.rules
}

func (rule *Rule) applicable() bool {
	return rule.MatchLimit == 0 || rule.MatchCount < rule.MatchLimit
}

// Apply finds the first applicable matching rule and applies its pre-map
// setters. Returns true when a rule claimed the view.
func (r *Rules) Apply(core *wm.Core, env *pattern.Env, v *wm.View, currentWS int) bool {
	if v == nil || v.AppsRule.Applied {
		return false
	}
	for i, rule := range r.rules {
		if !rule.applicable() {
			continue
		}
		if rule.Pattern != nil && !rule.Pattern.Matches(env, v, currentWS) {
			continue
		}

		if rule.Workspace != nil {
			v.Workspace = *rule.Workspace
		}
		if rule.Sticky != nil {
			v.Sticky = *rule.Sticky
		}
		if rule.Minimized != nil {
			v.Minimized = *rule.Minimized
		}
		if rule.DecorEnabled != nil {
			v.DecorSetEnabled(*rule.DecorEnabled)
			v.DecorForced = true
		}
		if rule.Layer != nil {
			v.BaseLayer = wm.LayerForValue(*rule.Layer)
		}

		rule.MatchCount++
		v.AppsRule = wm.AppsRuleRef{Index: i, Generation: r.generation, Applied: true}

		if rule.GroupID != 0 && core != nil {
			if anchor := r.groups[rule.GroupID]; anchor != nil && anchor.Mapped {
				core.AttachTab(v, anchor, "apps-group")
			} else {
				r.groups[rule.GroupID] = v
			}
		}

		logger.Infof("Apps: rule=%d applied title=%s ws=%d count=%d",
			i, v.DisplayTitle(), v.Workspace, rule.MatchCount)
		if rule.MatchLimit > 0 && r.OnCountsChanged != nil {
			r.OnCountsChanged()
		}
		return true
	}
	return false
}

// ApplyPostMap runs the effects that need a mapped view: maximize,
// fullscreen, and the jump-to-workspace follow.
func (r *Rules) ApplyPostMap(core *wm.Core, v *wm.View) {
	if v == nil || !v.AppsRule.Applied || v.AppsRule.Generation != r.generation {
		return
	}
	if v.AppsRule.Index < 0 || v.AppsRule.Index >= len(r.rules) {
		return
	}
	rule := r.rules[v.AppsRule.Index]

	if rule.Maximized != nil && *rule.Maximized {
		v.SetMaximized(true)
	}
	if rule.Fullscreen != nil && *rule.Fullscreen {
		v.SetFullscreen(true, nil)
	}
	if rule.Jump && core != nil && !v.Sticky {
		core.WorkspaceSwitch(v.Workspace)
		core.ApplyWorkspaceVisibility("apps-jump")
	}
}

// Release returns the view's slot to its rule when the view closes. Stale
// references (from a replaced rule set) are dropped silently.
func (r *Rules) Release(v *wm.View) {
	if v == nil || !v.AppsRule.Applied {
		return
	}
	ref := v.AppsRule
	v.AppsRule = wm.AppsRuleRef{}
	if ref.Generation != r.generation {
		return
	}
	if ref.Index < 0 || ref.Index >= len(r.rules) {
		return
	}
	rule := r.rules[ref.Index]
	if rule.MatchCount > 0 {
		rule.MatchCount--
	}
	if anchor, ok := r.groups[rule.GroupID]; ok && anchor == v {
		delete(r.groups, rule.GroupID)
	}
	logger.Infof("Apps: rule=%d released count=%d", ref.Index, rule.MatchCount)
	if rule.MatchLimit > 0 && r.OnCountsChanged != nil {
		r.OnCountsChanged()
	}
}
