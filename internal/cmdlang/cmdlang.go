// Package cmdlang implements the composable command language: boolean
// expressions over the view population and the compound commands
// if/foreach/macro/togglecmd/delay. Evaluation is recursive with a hard
// depth cap so a pathological config cannot blow the stack.
package cmdlang

import (
	"sort"
	"strings"

	"github.com/bnema/fluxwl/internal/command"
	"github.com/bnema/fluxwl/internal/event"
	"github.com/bnema/fluxwl/internal/pattern"
	"github.com/bnema/fluxwl/internal/wm"
)

// MaxDepth caps recursive evaluation.
const MaxDepth = 8

// Exec runs one resolved action against an optional target view. It is the
// executor's entry point, passed in to break the package cycle.
type Exec func(r command.Resolved, target *wm.View, depth int) bool

// Context carries everything one evaluation needs. Contexts are cheap
// values rebuilt per trigger; State is the long-lived part.
type Context struct {
	Core    *wm.Core
	CursorX int
	CursorY int

	// WorkspaceCurrent resolves the workspace of the head under the
	// cursor; nil falls back to the core's global register.
	WorkspaceCurrent func() int

	// Owner identifies the server instance and Scope the binding that
	// triggered the outer command; togglecmd/delay state is keyed on
	// both so distinct bindings rotate independently.
	Owner any
	Scope any

	Clock event.Clock
	State *State

	Exec Exec

	// RunDeferred re-enters command execution from a timer fire with a
	// fresh context.
	RunDeferred func(cmdLine string)
}

func (ctx *Context) currentWorkspace() int {
	if ctx.WorkspaceCurrent != nil {
		return ctx.WorkspaceCurrent()
	}
	if ctx.Core != nil {
		return ctx.Core.WorkspaceCurrent()
	}
	return 0
}

func (ctx *Context) resolveTarget(target *wm.View) *wm.View {
	if target != nil {
		return target
	}
	if ctx.Core == nil {
		return nil
	}
	return ctx.Core.Focused
}

// getStringBetween extracts one `{...}`-style token from in, honoring
// backslash escapes and (optionally) nested delimiters. It returns the
// token and the number of input bytes consumed; 0 when no token starts the
// input.
func getStringBetween(in string, first, last byte, allowNesting bool) (string, int) {
	i := 0
	for i < len(in) && (in[i] == ' ' || in[i] == '\t' || in[i] == '\n') {
		i++
	}
	if i >= len(in) || in[i] != first {
		return "", 0
	}
	open := i
	nesting := 0
	for j := open + 1; j < len(in); j++ {
		escaped := in[j-1] == '\\'
		if allowNesting && in[j] == first && !escaped {
			nesting++
			continue
		}
		if in[j] == last && !escaped {
			if allowNesting && nesting > 0 {
				nesting--
				continue
			}
			return in[open+1 : j], j + 1
		}
	}
	return "", 0
}

// tokensBetween splits the input into consecutive brace tokens, returning
// the unparsed remainder.
func tokensBetween(in string, first, last byte) ([]string, string) {
	var toks []string
	pos := 0
	for {
		tok, n := getStringBetween(in[pos:], first, last, true)
		if n <= 0 {
			break
		}
		toks = append(toks, tok)
		pos += n
	}
	return toks, in[pos:]
}

func restEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

func (ctx *Context) patternEnv() *pattern.Env {
	env := &pattern.Env{
		Core:        ctx.Core,
		CursorX:     ctx.CursorX,
		CursorY:     ctx.CursorY,
		CursorValid: true,
	}
	if ctx.Core != nil {
		env.Focused = ctx.Core.Focused
	}
	return env
}

func (ctx *Context) evalMatches(pat string, target *wm.View) bool {
	view := ctx.resolveTarget(target)
	if view == nil {
		return false
	}
	p := pattern.Parse(pat)
	return p.Matches(ctx.patternEnv(), view, ctx.currentWorkspace())
}

func (ctx *Context) evalSome(cond string, depth int) bool {
	if ctx.Core == nil || depth > MaxDepth {
		return false
	}
	for _, v := range ctx.Core.Views() {
		if ctx.EvalBool(cond, v, depth+1) {
			return true
		}
	}
	return false
}

func (ctx *Context) evalEvery(cond string, depth int) bool {
	if ctx.Core == nil || depth > MaxDepth {
		return false
	}
	for _, v := range ctx.Core.Views() {
		if !ctx.EvalBool(cond, v, depth+1) {
			return false
		}
	}
	return true
}

func (ctx *Context) evalCombinator(head, args string, target *wm.View, depth int) bool {
	toks, rest := tokensBetween(args, '{', '}')
	if len(toks) == 0 || !restEmpty(rest) {
		return false
	}
	switch head {
	case "and":
		for _, t := range toks {
			s := strings.TrimSpace(t)
			if s == "" || !ctx.EvalBool(s, target, depth+1) {
				return false
			}
		}
		return true
	case "or":
		for _, t := range toks {
			s := strings.TrimSpace(t)
			if s == "" {
				continue
			}
			if ctx.EvalBool(s, target, depth+1) {
				return true
			}
		}
		return false
	default: // xor
		acc := false
		for _, t := range toks {
			s := strings.TrimSpace(t)
			if s == "" {
				continue
			}
			if ctx.EvalBool(s, target, depth+1) {
				acc = !acc
			}
		}
		return acc
	}
}

// EvalBool evaluates a boolean expression against the target view.
func (ctx *Context) EvalBool(expr string, target *wm.View, depth int) bool {
	if depth > MaxDepth {
		return false
	}
	s := strings.TrimSpace(expr)
	if s == "" {
		return false
	}
	head, args := command.SplitLine(s)

	switch strings.ToLower(head) {
	case "matches":
		return ctx.evalMatches(args, target)
	case "some":
		return ctx.evalSome(args, depth)
	case "every":
		return ctx.evalEvery(args, depth)
	case "not":
		return !ctx.EvalBool(args, target, depth+1)
	case "and", "or", "xor":
		return ctx.evalCombinator(strings.ToLower(head), args, target, depth)
	}
	return false
}

// ExecuteLine resolves and runs one command line against the target view.
func (ctx *Context) ExecuteLine(line string, target *wm.View, depth int) bool {
	if ctx.Exec == nil || depth > MaxDepth {
		return false
	}
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	name, args := command.SplitLine(s)
	r, ok := command.Resolve(name, args)
	if !ok {
		return false
	}
	return ctx.Exec(r, target, depth)
}

// ExecuteMacro runs each brace-wrapped command line in order and reports
// whether any succeeded.
func (ctx *Context) ExecuteMacro(args string, target *wm.View, depth int) bool {
	if depth > MaxDepth {
		return false
	}
	toks, rest := tokensBetween(args, '{', '}')
	if len(toks) == 0 || !restEmpty(rest) {
		return false
	}
	any := false
	for _, t := range toks {
		s := strings.TrimSpace(t)
		if s == "" {
			continue
		}
		if ctx.ExecuteLine(s, target, depth+1) {
			any = true
		}
	}
	return any
}

// ExecuteIf evaluates `{cond} {then} [{else}]`.
func (ctx *Context) ExecuteIf(args string, target *wm.View, depth int) bool {
	if depth > MaxDepth {
		return false
	}
	toks, rest := tokensBetween(args, '{', '}')
	if len(toks) < 2 || len(toks) > 3 || !restEmpty(rest) {
		return false
	}
	cond := strings.TrimSpace(toks[0])
	thenCmd := strings.TrimSpace(toks[1])
	elseCmd := ""
	if len(toks) == 3 {
		elseCmd = strings.TrimSpace(toks[2])
	}

	if ctx.EvalBool(cond, target, depth+1) {
		if thenCmd != "" {
			return ctx.ExecuteLine(thenCmd, target, depth+1)
		}
		return false
	}
	if elseCmd != "" {
		return ctx.ExecuteLine(elseCmd, target, depth+1)
	}
	return false
}

// parseForeachOptions strips a leading `{groups static}` option block from
// the condition token.
func parseForeachOptions(s string) (groups, staticOrder bool, cond string) {
	cond = strings.TrimSpace(s)
	if cond == "" || cond[0] != '{' {
		return false, false, cond
	}
	opts, n := getStringBetween(cond, '{', '}', true)
	if n <= 0 {
		return false, false, cond
	}
	for _, tok := range strings.Fields(opts) {
		switch strings.ToLower(tok) {
		case "groups":
			groups = true
		case "static":
			staticOrder = true
		}
	}
	return groups, staticOrder, strings.TrimSpace(cond[n:])
}

// ExecuteForeach runs `{cmd} [{ [options] cond }]` once per matching view,
// with that view as the implicit target.
func (ctx *Context) ExecuteForeach(args string, _ *wm.View, depth int) bool {
	if ctx.Core == nil || depth > MaxDepth {
		return false
	}
	toks, rest := tokensBetween(args, '{', '}')
	if len(toks) == 0 || len(toks) > 2 || !restEmpty(rest) {
		return false
	}
	cmdLine := strings.TrimSpace(toks[0])
	if cmdLine == "" {
		return false
	}

	var groups, staticOrder bool
	cond := ""
	if len(toks) > 1 {
		groups, staticOrder, cond = parseForeachOptions(toks[1])
	}

	// Snapshot before executing anything; the command may mutate the list.
	var views []*wm.View
	for _, v := range ctx.Core.Views() {
		if groups && v.TabGroup != nil && !v.TabGroup.IsActive(v) {
			continue
		}
		views = append(views, v)
	}
	if staticOrder {
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].CreateSeq < views[j].CreateSeq
		})
	}

	any := false
	for _, v := range views {
		if cond != "" && !ctx.EvalBool(cond, v, depth+1) {
			continue
		}
		if ctx.ExecuteLine(cmdLine, v, depth+1) {
			any = true
		}
	}
	return any
}
