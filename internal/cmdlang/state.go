package cmdlang

import (
	"strconv"
	"strings"
	"time"

	"github.com/bnema/fluxwl/internal/event"
	"github.com/bnema/fluxwl/internal/logger"
	"github.com/bnema/fluxwl/internal/wm"
)

// State holds the togglecmd rotations and delay timers, keyed by
// (owner, scope, textual args). It lives on the server and is flushed when
// the server is torn down.
type State struct {
	toggles map[stateKey]*toggleState
	delays  map[stateKey]*delayState
}

type stateKey struct {
	owner any
	scope any
	key   string
}

type toggleState struct {
	idx int
}

type delayState struct {
	timer   event.Timer
	cmdLine string
}

func NewState() *State {
	return &State{
		toggles: map[stateKey]*toggleState{},
		delays:  map[stateKey]*delayState{},
	}
}

// Flush cancels every pending delay and drops all rotations.
func (s *State) Flush() {
	for _, d := range s.delays {
		if d.timer != nil {
			d.timer.Stop()
		}
	}
	s.toggles = map[stateKey]*toggleState{}
	s.delays = map[stateKey]*delayState{}
}

func (ctx *Context) stateKeyFor(args string) (stateKey, bool) {
	key := strings.TrimSpace(args)
	if key == "" {
		return stateKey{}, false
	}
	scope := ctx.Scope
	if scope == nil {
		scope = ctx.Owner
	}
	return stateKey{owner: ctx.Owner, scope: scope, key: key}, true
}

// ExecuteToggleCmd rotates through the brace-wrapped command lines, one per
// invocation, with the rotation index scoped to the triggering binding.
func (ctx *Context) ExecuteToggleCmd(args string, target *wm.View, depth int) bool {
	if ctx.State == nil || depth > MaxDepth {
		return false
	}
	key, ok := ctx.stateKeyFor(args)
	if !ok {
		return false
	}
	st := ctx.State.toggles[key]
	if st == nil {
		st = &toggleState{}
		ctx.State.toggles[key] = st
	}

	toks, rest := tokensBetween(args, '{', '}')
	if len(toks) == 0 || !restEmpty(rest) {
		return false
	}

	pick := st.idx % len(toks)
	okRun := false
	if s := strings.TrimSpace(toks[pick]); s != "" {
		okRun = ctx.ExecuteLine(s, target, depth+1)
	}
	st.idx = (st.idx + 1) % len(toks)
	return okRun
}

// ExecuteDelay arms (or replaces) a one-shot timer running the wrapped
// command line. The optional trailing number is microseconds, default 200,
// converted to milliseconds and clamped to at least 1.
func (ctx *Context) ExecuteDelay(args string, _ *wm.View, depth int) bool {
	if ctx.State == nil || depth > MaxDepth {
		return false
	}

	cmd, consumed := getStringBetween(args, '{', '}', true)
	if consumed <= 0 {
		return false
	}
	cmdLine := strings.TrimSpace(cmd)
	if cmdLine == "" {
		return false
	}

	usec := int64(200)
	if rest := strings.TrimSpace(args[consumed:]); rest != "" {
		if v, err := strconv.ParseInt(rest, 10, 64); err == nil && v >= 0 {
			usec = v
		}
	}

	if ctx.Clock == nil || ctx.RunDeferred == nil {
		// No loop to defer onto; run inline.
		return ctx.ExecuteLine(cmdLine, nil, depth+1)
	}

	key, ok := ctx.stateKeyFor(args)
	if !ok {
		return false
	}
	st := ctx.State.delays[key]
	if st == nil {
		st = &delayState{}
		ctx.State.delays[key] = st
	}

	// Re-issuing before the fire replaces the queued line.
	st.cmdLine = cmdLine
	if st.timer == nil {
		run := ctx.RunDeferred
		st.timer = ctx.Clock.AddTimer(func() {
			if st.cmdLine == "" {
				return
			}
			logger.Infof("Delay: fire cmd=%s", st.cmdLine)
			run(st.cmdLine)
		})
	}

	msec := (usec + 999) / 1000
	if msec < 1 {
		msec = 1
	}
	st.timer.Update(time.Duration(msec) * time.Millisecond)
	return true
}
