// Package pattern compiles `(key=value ...)` client patterns into
// predicates over the view population, as used by cmdlang matches, the
// iconbar, cycle filters, and apps rules.
package pattern

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bnema/fluxwl/internal/logger"
	"github.com/bnema/fluxwl/internal/wm"
)

// Env carries the matching context a pattern may reference: the focused
// view for [current] terms and the cursor for [mouse].
type Env struct {
	Core        *wm.Core
	Focused     *wm.View
	CursorX     int
	CursorY     int
	CursorValid bool
}

type termKind int

const (
	termWorkspace termKind = iota
	termMinimized
	termMaximized
	termMaximizedH
	termMaximizedV
	termFullscreen
	termShaded
	termStuck
	termTransient
	termUrgent
	termIconHidden
	termFocusHidden
	termWorkspaceName
	termHead
	termLayer
	termScreen
	termTitle
	termName
	termRole
	termClass
	termXProp
)

type layerKind int

const (
	layerUnknown layerKind = iota
	layerAboveDock
	layerDock
	layerTop
	layerNormal
	layerBottom
	layerDesktop
)

type term struct {
	kind    termKind
	negate  bool
	current bool
	mouse   bool

	boolVal  bool
	intVal   int
	layer    layerKind
	regex    *regexp.Regexp
	xprop    string
}

// Pattern is a compiled sequence of terms; a view matches when every term
// passes.
type Pattern struct {
	terms []term
}

// Empty reports whether the pattern has no terms (and so matches anything).
func (p *Pattern) Empty() bool {
	return p == nil || len(p.terms) == 0
}

func compileAnchored(pat, why string) *regexp.Regexp {
	re, err := regexp.Compile("^" + pat + "$")
	if err != nil {
		// A broken term never matches; the rule is disabled silently
		// beyond this one log line.
		logger.Errorf("Pattern: invalid regex %s='%s': %v", why, pat, err)
		return nil
	}
	return re
}

func parseYesNo(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, true
	case "no", "false", "0":
		return false, true
	}
	return false, false
}

func parseLayerKind(s string) layerKind {
	switch strings.ToLower(s) {
	case "abovedock":
		return layerAboveDock
	case "dock":
		return layerDock
	case "top":
		return layerTop
	case "normal":
		return layerNormal
	case "bottom":
		return layerBottom
	case "desktop":
		return layerDesktop
	}
	return layerUnknown
}

var knownKeys = map[string]termKind{
	"workspace":           termWorkspace,
	"minimized":           termMinimized,
	"maximized":           termMaximized,
	"maximizedhorizontal": termMaximizedH,
	"maximizedvertical":   termMaximizedV,
	"fullscreen":          termFullscreen,
	"shaded":              termShaded,
	"stuck":               termStuck,
	"sticky":              termStuck,
	"transient":           termTransient,
	"urgent":              termUrgent,
	"iconhidden":          termIconHidden,
	"focushidden":         termFocusHidden,
	"workspacename":       termWorkspaceName,
	"head":                termHead,
	"layer":               termLayer,
	"screen":              termScreen,
	"title":               termTitle,
	"name":                termName,
	"role":                termRole,
	"class":               termClass,
	"app_id":              termClass,
	"appid":               termClass,
}

func (p *Pattern) parseTerm(raw string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return
	}

	negate := false
	var key, val string
	if i := strings.Index(s, "!="); i >= 0 {
		negate = true
		key = strings.TrimSpace(s[:i])
		val = strings.TrimSpace(s[i+2:])
	} else if i := strings.Index(s, "="); i >= 0 {
		key = strings.TrimSpace(s[:i])
		val = strings.TrimSpace(s[i+1:])
	} else {
		lower := strings.ToLower(s)
		if _, ok := knownKeys[lower]; ok || (strings.HasPrefix(s, "@") && len(s) > 1) {
			key = s
			val = "[current]"
		} else {
			// The default property with no key is the instance name.
			if re := compileAnchored(s, "name"); re != nil {
				p.terms = append(p.terms, term{kind: termName, regex: re})
			} else {
				p.terms = append(p.terms, term{kind: termName})
			}
			return
		}
	}

	if key == "" || val == "" {
		return
	}

	if strings.HasPrefix(key, "@") && len(key) > 1 {
		t := term{kind: termXProp, negate: negate, xprop: key[1:]}
		t.regex = compileAnchored(val, key)
		p.terms = append(p.terms, t)
		return
	}

	kind, ok := knownKeys[strings.ToLower(key)]
	if !ok {
		return
	}
	isCurrent := strings.EqualFold(val, "[current]")
	t := term{kind: kind, negate: negate, current: isCurrent}

	switch kind {
	case termWorkspace, termScreen:
		if !isCurrent {
			n, err := strconv.Atoi(val)
			if err != nil {
				return
			}
			t.intVal = n
		}
	case termHead:
		if strings.EqualFold(val, "[mouse]") {
			t.current = false
			t.mouse = true
		} else if !isCurrent {
			n, err := strconv.Atoi(val)
			if err != nil {
				return
			}
			t.intVal = n
		}
	case termMinimized, termMaximized, termMaximizedH, termMaximizedV,
		termFullscreen, termShaded, termStuck, termTransient, termUrgent,
		termIconHidden, termFocusHidden:
		if !isCurrent {
			b, ok := parseYesNo(val)
			if !ok {
				return
			}
			t.boolVal = b
		}
	case termLayer:
		if !isCurrent {
			t.layer = parseLayerKind(val)
		}
	case termWorkspaceName, termTitle, termName, termRole, termClass:
		if !isCurrent {
			t.regex = compileAnchored(val, strings.ToLower(key))
		}
	}
	p.terms = append(p.terms, t)
}

// Parse compiles a pattern string. Terms outside parentheses are ignored,
// matching the original grammar.
func Parse(s string) *Pattern {
	p := &Pattern{}
	for {
		open := strings.IndexByte(s, '(')
		if open < 0 {
			break
		}
		close := strings.IndexByte(s[open+1:], ')')
		if close < 0 {
			break
		}
		inside := s[open+1 : open+1+close]
		for _, tok := range strings.Fields(inside) {
			p.parseTerm(tok)
		}
		s = s[open+close+2:]
	}
	return p
}

func viewLayerKind(v *wm.View) layerKind {
	switch v.BaseLayer {
	case wm.LayerOverlay:
		return layerAboveDock
	case wm.LayerTop:
		return layerTop
	case wm.LayerBottom:
		return layerBottom
	case wm.LayerDesktop:
		return layerDesktop
	default:
		return layerNormal
	}
}

func matchBool(t term, candidate bool, focused *wm.View, focusedVal bool) bool {
	var ok bool
	if t.current {
		ok = focused != nil && candidate == focusedVal
	} else {
		ok = candidate == t.boolVal
	}
	if t.negate {
		ok = !ok
	}
	return ok
}

func matchText(t term, candidate string, focused *wm.View, focusedVal string) bool {
	var ok bool
	if t.current {
		if focused == nil {
			ok = false
		} else {
			ok = candidate == focusedVal
		}
	} else if t.regex == nil {
		ok = false
	} else {
		ok = t.regex.MatchString(candidate)
	}
	if t.negate {
		ok = !ok
	}
	return ok
}

func legacyPropText(v *wm.View, name string) string {
	if v.Surface == nil {
		return ""
	}
	type propReader interface {
		Property(name string) (string, bool)
	}
	if pr, ok := v.Surface.(propReader); ok {
		if s, present := pr.Property(name); present {
			return s
		}
	}
	return ""
}

// Matches evaluates the pattern against a view. currentWS is the workspace
// of the head the trigger happened on.
func (p *Pattern) Matches(env *Env, v *wm.View, currentWS int) bool {
	if p == nil || env == nil || v == nil {
		return false
	}
	focused := env.Focused

	for _, t := range p.terms {
		var ok bool
		switch t.kind {
		case termWorkspace:
			if v.Sticky {
				ok = true
			} else if t.current {
				ok = v.Workspace == currentWS
			} else {
				ok = v.Workspace == t.intVal
			}
			if t.negate {
				ok = !ok
			}
		case termMinimized:
			ok = matchBool(t, v.Minimized, focused, focused != nil && focused.Minimized)
		case termMaximized:
			ok = matchBool(t, v.Maximized, focused, focused != nil && focused.Maximized)
		case termMaximizedH:
			ok = matchBool(t, v.MaximizedH, focused, focused != nil && focused.MaximizedH)
		case termMaximizedV:
			ok = matchBool(t, v.MaximizedV, focused, focused != nil && focused.MaximizedV)
		case termFullscreen:
			ok = matchBool(t, v.Fullscreen, focused, focused != nil && focused.Fullscreen)
		case termShaded:
			ok = matchBool(t, v.Shaded, focused, focused != nil && focused.Shaded)
		case termStuck:
			ok = matchBool(t, v.Sticky, focused, focused != nil && focused.Sticky)
		case termTransient:
			ok = matchBool(t, v.IsTransient(), focused, focused != nil && focused.IsTransient())
		case termUrgent:
			ok = matchBool(t, v.IsUrgent(), focused, focused != nil && focused.IsUrgent())
		case termIconHidden:
			ok = matchBool(t, v.IconHidden, focused, focused != nil && focused.IconHidden)
		case termFocusHidden:
			ok = matchBool(t, v.FocusHidden, focused, focused != nil && focused.FocusHidden)
		case termWorkspaceName:
			name := ""
			if env.Core != nil {
				name = env.Core.WorkspaceName(v.Workspace)
			}
			if t.current {
				cur := ""
				if env.Core != nil {
					cur = env.Core.WorkspaceName(currentWS)
				}
				ok = name == cur
			} else if t.regex != nil {
				ok = t.regex.MatchString(name)
			}
			if t.negate {
				ok = !ok
			}
		case termHead:
			switch {
			case t.mouse:
				ok = env.CursorValid && env.Core != nil &&
					v.Head() == env.Core.Screens.ScreenAt(env.CursorX, env.CursorY)
			case t.current:
				ok = focused != nil && v.Head() == focused.Head()
			default:
				ok = v.Head() == t.intVal
			}
			if t.negate {
				ok = !ok
			}
		case termLayer:
			kind := viewLayerKind(v)
			if t.current {
				ok = focused != nil && kind == viewLayerKind(focused)
			} else if t.layer == layerDock {
				// The dock layer is folded into top in this stack.
				ok = kind == layerTop
			} else {
				ok = kind == t.layer
			}
			if t.negate {
				ok = !ok
			}
		case termScreen:
			// Single logical screen: [current] needs a focused view,
			// a literal index matches only 0.
			if t.current {
				ok = focused != nil
			} else {
				ok = t.intVal == 0
			}
			if t.negate {
				ok = !ok
			}
		case termTitle:
			var f string
			if focused != nil {
				f = focused.Title()
			}
			ok = matchText(t, v.Title(), focused, f)
		case termName:
			var f string
			if focused != nil {
				f = focused.Instance()
			}
			ok = matchText(t, v.Instance(), focused, f)
		case termRole:
			var f string
			if focused != nil {
				f = focused.Role()
			}
			ok = matchText(t, v.Role(), focused, f)
		case termClass:
			var f string
			if focused != nil {
				f = focused.AppID()
			}
			ok = matchText(t, v.AppID(), focused, f)
		case termXProp:
			if t.regex == nil {
				ok = false
			} else {
				ok = t.regex.MatchString(legacyPropText(v, t.xprop))
			}
			if t.negate {
				ok = !ok
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// IconbarMatches is the iconbar variant: it implicitly requires
// iconhidden=no before the user pattern runs.
func (p *Pattern) IconbarMatches(env *Env, v *wm.View, currentWS int) bool {
	if v == nil || v.IconHidden {
		return false
	}
	return p.Matches(env, v, currentWS)
}
