package server

import (
	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/logger"
	"github.com/bnema/fluxwl/internal/wm"
)

// tileViewHalf fills the left or right half of the view's usable area,
// dropping any maximize state first.
func (s *Server) tileViewHalf(v *wm.View, right bool) {
	if v == nil || !v.Mapped {
		return
	}
	out := s.Core.Screens.OutputForView(v.X, v.Y)
	if out == nil {
		return
	}
	usable := out.UsableBox()
	if usable.Empty() {
		return
	}

	if v.Fullscreen {
		v.SetFullscreen(false, nil)
	}
	if v.Maximized || v.MaximizedH || v.MaximizedV {
		v.SetMaximizedAxes(false, false)
	}

	half := geom.Box{X: usable.X, Y: usable.Y, Width: usable.Width / 2, Height: usable.Height}
	if right {
		half.X = usable.X + usable.Width - half.Width
	}

	left, top, rightExt, bottom := v.FrameExtents(s.Core.Theme)
	w := half.Width - left - rightExt
	h := half.Height - top - bottom
	if w < 1 || h < 1 {
		return
	}
	v.X, v.Y = half.X+left, half.Y+top
	if v.Node != nil {
		v.Node.SetPosition(v.X, v.Y)
	}
	v.Resize(w, h, "tile-half")
	side := "left"
	if right {
		side = "right"
	}
	logger.Infof("TileHalf: %s side=%s x=%d y=%d w=%d h=%d", v.DisplayTitle(), side, v.X, v.Y, w, h)
}

// DecorButtonPressed routes a decoration hit to its action. Returns false
// for hits the server does not consume (titlebar and resize borders start
// grabs in the input path instead).
func (s *Server) DecorButtonPressed(v *wm.View, hit wm.DecorHit) bool {
	if v == nil {
		return false
	}
	switch hit.Kind {
	case wm.DecorHitButtonClose:
		v.Close(false)
	case wm.DecorHitButtonMax:
		v.SetMaximized(!v.Maximized)
	case wm.DecorHitButtonMin:
		v.SetMinimized(true, "decor-button")
	case wm.DecorHitButtonShade:
		v.SetShaded(!v.Shaded, "decor-button")
	case wm.DecorHitButtonStick:
		v.Sticky = !v.Sticky
		s.Core.RepairTabs()
		s.Core.ApplyWorkspaceVisibility("decor-stick")
	case wm.DecorHitButtonLHalf:
		s.tileViewHalf(v, false)
	case wm.DecorHitButtonRHalf:
		s.tileViewHalf(v, true)
	case wm.DecorHitButtonMenu:
		if s.hooks.MenuOpenWindow != nil {
			s.hooks.MenuOpenWindow(v, s.CursorX, s.CursorY)
		}
	default:
		return false
	}
	return true
}
