package server

import (
	"github.com/bnema/fluxwl/internal/logger"
	"github.com/bnema/fluxwl/internal/wm"
)

func parsePositiveInt(s string) (int, error) {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, errNotANumber
		}
		n = n*10 + int(s[i]-'0')
		if n > 1000000 {
			return 0, errNotANumber
		}
	}
	if len(s) == 0 || n < 1 {
		return 0, errNotANumber
	}
	return n, nil
}

var errNotANumber = errorString("not a positive number")

type errorString string

func (e errorString) Error() string { return string(e) }

// refocusCandidateAllowed rejects focus-hidden views and, under the
// focus-same-head policy, views on a different head than the cursor.
func (s *Server) refocusCandidateAllowed(candidate, reference *wm.View) bool {
	if candidate != nil && candidate.FocusHidden {
		return false
	}
	cfg := s.Core.ConfigForHead(s.Core.Screens.ScreenAt(s.CursorX, s.CursorY))
	if cfg == nil || !cfg.FocusSameHead {
		return true
	}
	if candidate == nil {
		return true
	}
	cursorHead := s.Core.Screens.ScreenAt(s.CursorX, s.CursorY)
	return candidate.Head() == cursorHead
}

// cycleViewAllowed mirrors refocusCandidateAllowed for the cycle pickers.
func (s *Server) cycleViewAllowed(v *wm.View) bool {
	if v == nil {
		return true
	}
	cfg := s.Core.ConfigForHead(s.Core.Screens.ScreenAt(s.CursorX, s.CursorY))
	if cfg == nil || !cfg.FocusSameHead {
		return true
	}
	return v.Head() == s.Core.Screens.ScreenAt(s.CursorX, s.CursorY)
}

func (s *Server) viewUnderCursor() *wm.View {
	if s.ViewAt == nil {
		return nil
	}
	return s.ViewAt(s.CursorX, s.CursorY)
}

func (s *Server) strictMouseFocusEnabled() bool {
	cfg := s.Core.ConfigForHead(s.Core.Screens.ScreenAt(s.CursorX, s.CursorY))
	return cfg != nil && cfg.FocusModel == wm.StrictMouseFocus
}

// strictMouseFocusReconfigure re-evaluates who should own focus after any
// focus transition under the strict model.
func (s *Server) strictMouseFocusReconfigure() {
	if !s.strictMouseFocusEnabled() {
		return
	}
	under := s.viewUnderCursor()
	if under != nil && under != s.Core.Focused {
		s.Core.FocusView(under, wm.FocusReasonPointerMotion)
	}
}

// strictFocusRecheckAfterRestack compares the view under the cursor before
// and after a restacking mutation and refocuses when it changed.
func (s *Server) strictFocusRecheckAfterRestack(before *wm.View, why string) {
	if !s.strictMouseFocusEnabled() {
		return
	}
	after := s.viewUnderCursor()
	if after == before {
		return
	}
	logger.Debugf("StrictFocus: recheck reason=%s", why)
	if after != nil && after != s.Core.Focused {
		s.Core.FocusView(after, wm.FocusReasonPointerMotion)
	}
}

// PointerMotion updates the cursor and drives the mouse focus models.
func (s *Server) PointerMotion(x, y int) {
	s.CursorX, s.CursorY = x, y
	cfg := s.Core.ConfigForHead(s.Core.Screens.ScreenAt(x, y))
	if cfg == nil || cfg.FocusModel == wm.ClickToFocus {
		return
	}
	under := s.viewUnderCursor()
	if under != nil && under != s.Core.Focused {
		s.Core.FocusView(under, wm.FocusReasonPointerMotion)
	}
}
