package server

import (
	"github.com/bnema/fluxwl/internal/logger"
	"github.com/bnema/fluxwl/internal/pattern"
	"github.com/bnema/fluxwl/internal/surface"
	"github.com/bnema/fluxwl/internal/wm"
)

// The protocol shim: wire adapters deliver surface lifecycle events here
// and the server routes them into view state. Requests flow the other way
// through the per-kind surface shims.

// SurfaceCreated makes a view for a new toplevel. The view stays untracked
// until SurfaceMapped.
func (s *Server) SurfaceCreated(top surface.Toplevel, node wm.SceneNode, foreign surface.ForeignHandle) *wm.View {
	if node == nil {
		node = wm.NewHeadlessNode()
	}
	v := s.Core.NewView(top, node, foreign)
	v.Workspace = s.Core.WorkspaceCurrentForHead(s.Core.Screens.ScreenAt(s.CursorX, s.CursorY))
	logger.Infof("Surface: created kind=%s title=%s", top.Kind(), v.DisplayTitle())
	return v
}

func (s *Server) patternEnv() *pattern.Env {
	return &pattern.Env{
		Core:        s.Core,
		Focused:     s.Core.Focused,
		CursorX:     s.CursorX,
		CursorY:     s.CursorY,
		CursorValid: true,
	}
}

// SurfaceMapped tracks the view, applies apps rules, places it, and runs
// the focus-on-map policy.
func (s *Server) SurfaceMapped(v *wm.View) {
	if v == nil || v.Mapped {
		return
	}
	if w, h := v.Surface.CurrentSize(); w > 0 && h > 0 {
		v.Width, v.Height = w, h
	}
	s.Core.MapView(v)

	ws := s.Core.WorkspaceCurrentForHead(s.Core.Screens.ScreenAt(s.CursorX, s.CursorY))
	s.Apps.Apply(s.Core, s.patternEnv(), v, ws)

	if !v.Placed {
		s.Core.PlaceInitial(v, s.CursorX, s.CursorY)
	}
	s.Apps.ApplyPostMap(s.Core, v)

	if v.Foreign != nil {
		v.Foreign.SetTitle(v.Title())
		v.Foreign.SetAppID(v.AppID())
	}
	v.ForeignUpdateOutputFromPosition()
	s.Core.ApplyWorkspaceVisibility("map")

	cfg := s.Core.ConfigForView(v)
	wantFocus := cfg == nil || cfg.FocusNewWindows
	if v.FocusProtection&wm.ProtectGain != 0 {
		wantFocus = true
	}
	if wantFocus && !v.Minimized {
		s.Core.FocusView(v, wm.FocusReasonMap)
	}
	logger.Infof("Surface: mapped title=%s ws=%d x=%d y=%d", v.DisplayTitle(), v.Workspace, v.X, v.Y)
}

// SurfaceUnmapped drops the view from focus but keeps its registry slot.
func (s *Server) SurfaceUnmapped(v *wm.View) {
	if v == nil {
		return
	}
	s.Core.UnmapView(v)
	s.Core.ApplyWorkspaceVisibility("unmap")
}

// SurfaceDestroyed releases the apps-rule slot and detaches everything.
func (s *Server) SurfaceDestroyed(v *wm.View) {
	if v == nil {
		return
	}
	s.Apps.Release(v)
	s.Core.DestroyView(v)
	logger.Infof("Surface: destroyed title=%s", v.DisplayTitle())
}

// SurfaceTitleChanged invalidates the decor title cache and foreign state.
func (s *Server) SurfaceTitleChanged(v *wm.View) {
	if v == nil {
		return
	}
	v.DecorUpdateTitleText(s.Core.Theme)
	if v.Foreign != nil && v.TitleOverride == "" {
		v.Foreign.SetTitle(v.Title())
	}
}

// SurfaceAppIDChanged mirrors the app id to foreign listeners.
func (s *Server) SurfaceAppIDChanged(v *wm.View) {
	if v == nil || v.Foreign == nil {
		return
	}
	v.Foreign.SetAppID(v.AppID())
}

// SurfaceCommitted records a client-driven size change and keeps tab
// siblings in step.
func (s *Server) SurfaceCommitted(v *wm.View, w, h int) {
	if v == nil || w < 1 || h < 1 {
		return
	}
	if v.Width == w && v.Height == h {
		return
	}
	v.Width, v.Height = w, h
	if v.TabGroup != nil && v.TabGroup.IsActive(v) {
		v.TabGroup.SyncGeometryFromView(v, true, w, h, "commit")
	}
}

// Request routing: a client asked for a state change.

func (s *Server) RequestMaximize(v *wm.View, maximized bool) {
	if v == nil {
		return
	}
	v.SetMaximized(maximized)
}

func (s *Server) RequestFullscreen(v *wm.View, fullscreen bool) {
	if v == nil {
		return
	}
	v.SetFullscreen(fullscreen, nil)
}

func (s *Server) RequestMinimize(v *wm.View, minimized bool) {
	if v == nil {
		return
	}
	v.SetMinimized(minimized, "client-request")
}

// RequestActivate is the foreign-toplevel / xdg-activation path: focus,
// restore, raise.
func (s *Server) RequestActivate(v *wm.View) {
	if v == nil || !v.Mapped {
		return
	}
	if v.Minimized {
		v.SetMinimized(false, "activate")
	}
	if v.TabGroup != nil && !v.TabGroup.IsActive(v) {
		wm.ActivateTab(v, "activate")
	}
	if !s.Core.ViewIsVisible(v) {
		s.WorkspaceSwitchOnHead(v.Head(), v.Workspace, "activate")
	}
	s.Core.FocusView(v, wm.FocusReasonActivate)
	if v.Node != nil {
		v.Node.RaiseToTop()
	}
}

// RequestClose forwards a close request initiated outside the core.
func (s *Server) RequestClose(v *wm.View) {
	if v == nil {
		return
	}
	v.Close(false)
}

// RequestAttention starts the urgency blinker with the configured
// demands-attention interval.
func (s *Server) RequestAttention(v *wm.View, fromLegacyUrgency bool) {
	if v == nil {
		return
	}
	cfg := s.Core.ConfigForView(v)
	interval := 500
	if cfg != nil {
		interval = cfg.DemandsAttentionTimeoutMs
	}
	why := "request"
	if fromLegacyUrgency {
		why = "xwayland-urgency"
	}
	v.AttentionRequest(interval, fromLegacyUrgency, why)
}
