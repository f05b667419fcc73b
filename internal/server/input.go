package server

import (
	"github.com/bnema/fluxwl/internal/command"
	"github.com/bnema/fluxwl/internal/dispatch"
	"github.com/bnema/fluxwl/internal/wm"
)

// HandleKey routes a key press through the keybinding table. Returns true
// when a binding consumed the event.
func (s *Server) HandleKey(keycode uint32, sym string, mods dispatch.Modifier) bool {
	return s.Keys.Handle(s.Executor, keycode, sym, mods, s.KeyMode, dispatch.Invocation{
		CursorX: s.CursorX,
		CursorY: s.CursorY,
	})
}

// HandleMouse routes a pointer button through the mousebinding table with
// the hit view as the implicit target. Click-to-focus runs first so the
// binding sees the final focus state.
func (s *Server) HandleMouse(ctx dispatch.MouseContext, ev dispatch.MouseEventKind,
	button uint32, mods dispatch.Modifier, target *wm.View) bool {

	if ev == dispatch.MousePress && target != nil {
		if target.TabGroup != nil && !target.TabGroup.IsActive(target) {
			wm.ActivateTab(target, "click")
		}
		s.Core.FocusView(target, wm.FocusReasonClick)
	}

	return s.Mouse.Handle(s.Executor, ctx, ev, button, mods, s.KeyMode, dispatch.Invocation{
		CursorX: s.CursorX,
		CursorY: s.CursorY,
		Button:  button,
		Target:  target,
	})
}

// RunCommandLine executes one textual command, as the command dialog and
// the remote-action surface do.
func (s *Server) RunCommandLine(line string) bool {
	r, ok := command.ResolveLine(line)
	if !ok {
		return false
	}
	return s.Executor.Execute(r, &dispatch.Invocation{
		CursorX: s.CursorX,
		CursorY: s.CursorY,
	})
}
