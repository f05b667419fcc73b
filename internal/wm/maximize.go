package wm

import "github.com/bnema/fluxwl/internal/geom"

// outputBox returns the full box of the view's output, or of preferred when
// given.
func (v *View) outputBox(preferred *geom.Output) geom.Box {
	out := preferred
	if out == nil {
		out = v.core.Screens.OutputForView(v.X, v.Y)
	}
	if out == nil {
		return geom.Box{}
	}
	return out.Box
}

// outputUsableBox is outputBox minus struts.
func (v *View) outputUsableBox(preferred *geom.Output) geom.Box {
	out := preferred
	if out == nil {
		out = v.core.Screens.OutputForView(v.X, v.Y)
	}
	if out == nil {
		return geom.Box{}
	}
	return out.UsableBox()
}

// maximizeTargetBox picks the rectangle a maximize should fill on the given
// output, honoring the full-maximization resource.
func (v *View) maximizeTargetBox(preferred *geom.Output) geom.Box {
	cfg := v.core.ConfigForView(v)
	if cfg != nil && cfg.FullMaximization {
		return v.outputBox(preferred)
	}
	return v.outputUsableBox(preferred)
}

func (v *View) pushProtocolGeometry(w, h int) {
	if l := v.legacy(); l != nil {
		l.SetMaximized(v.MaximizedH || v.Maximized, v.MaximizedV || v.Maximized)
		l.Configure(v.X, v.Y, w, h)
	} else if v.Surface != nil {
		v.Surface.SetMaximized(v.Maximized, v.Maximized)
		v.Surface.SetSize(w, h)
	}
	if v.Foreign != nil {
		v.Foreign.SetMaximized(v.Maximized)
	}
	v.Width, v.Height = w, h
}

// SetMaximized fills (or restores from) the full maximize rectangle on the
// view's output. Entering records the current geometry first.
func (v *View) SetMaximized(maximized bool) {
	if v == nil || v.core == nil || !v.Mapped {
		return
	}
	if v.Fullscreen {
		// Record the request; it is re-applied when leaving fullscreen.
		v.Maximized = maximized
		v.MaximizedH = maximized
		v.MaximizedV = maximized
		if v.Surface != nil {
			v.Surface.ScheduleConfigure()
		}
		return
	}
	if maximized == v.Maximized && v.MaximizedH == maximized && v.MaximizedV == maximized {
		if v.Surface != nil {
			v.Surface.ScheduleConfigure()
		}
		return
	}

	if maximized {
		if !v.MaximizedH && !v.MaximizedV {
			v.SaveGeometry()
		}
		box := v.maximizeTargetBox(nil)
		if box.Empty() {
			return
		}
		x, y, w, h := box.X, box.Y, box.Width, box.Height
		if v.DecorEnabled {
			left, top, right, bottom := v.FrameExtents(v.core.Theme)
			x += left
			y += top
			w -= left + right
			h -= top + bottom
		}
		if w < 1 || h < 1 {
			return
		}
		v.Maximized, v.MaximizedH, v.MaximizedV = true, true, true
		v.X, v.Y = x, y
		if v.Node != nil {
			v.Node.SetPosition(x, y)
			v.Node.RaiseToTop()
		}
		v.pushProtocolGeometry(w, h)
		if v.TabGroup != nil {
			v.TabGroup.SyncGeometryFromView(v, true, w, h, "maximize-on")
		}
		v.ForeignUpdateOutputFromPosition()
		v.core.logf("Maximize: %s on w=%d h=%d", v.DisplayTitle(), w, h)
		return
	}

	v.Maximized, v.MaximizedH, v.MaximizedV = false, false, false
	w := v.SavedW
	h := v.SavedH
	if w < 1 || h < 1 {
		w, h = v.CurrentWidth(), v.CurrentHeight()
	}
	v.X, v.Y = v.SavedX, v.SavedY
	if v.Node != nil {
		v.Node.SetPosition(v.X, v.Y)
	}
	v.pushProtocolGeometry(w, h)
	if v.TabGroup != nil {
		v.TabGroup.SyncGeometryFromView(v, true, w, h, "maximize-off")
	}
	v.ForeignUpdateOutputFromPosition()
	v.core.logf("Maximize: %s off w=%d h=%d", v.DisplayTitle(), w, h)
}

// SetMaximizedAxes sets the horizontal and vertical axes independently.
// Both on means a full maximize, both off an unmaximize; a single axis
// applies only that side of the target box.
func (v *View) SetMaximizedAxes(maximizedH, maximizedV bool) {
	if v == nil || v.core == nil || !v.Mapped {
		return
	}
	if maximizedH && maximizedV {
		v.SetMaximized(true)
		return
	}
	if !maximizedH && !maximizedV {
		v.SetMaximized(false)
		return
	}
	if v.Fullscreen {
		if v.Surface != nil {
			v.Surface.ScheduleConfigure()
		}
		return
	}
	if v.MaximizedH == maximizedH && v.MaximizedV == maximizedV {
		if v.Surface != nil {
			v.Surface.ScheduleConfigure()
		}
		return
	}

	hadAxes := v.MaximizedH || v.MaximizedV
	if !hadAxes || v.SavedW < 1 || v.SavedH < 1 {
		v.SaveGeometry()
	}

	curW, curH := v.CurrentWidth(), v.CurrentHeight()
	if curW < 1 || curH < 1 {
		return
	}

	box := v.maximizeTargetBox(nil)
	if box.Empty() {
		if v.Surface != nil {
			v.Surface.ScheduleConfigure()
		}
		return
	}

	x, y, w, h := v.X, v.Y, curW, curH
	if maximizedH {
		x, w = box.X, box.Width
	} else {
		x = v.SavedX
		if v.SavedW > 0 {
			w = v.SavedW
		}
	}
	if maximizedV {
		y, h = box.Y, box.Height
	} else {
		y = v.SavedY
		if v.SavedH > 0 {
			h = v.SavedH
		}
	}

	if v.DecorEnabled && v.core.Theme != nil {
		border := v.core.Theme.BorderWidth
		titleH := v.core.Theme.TitleHeight
		if maximizedH {
			x += border
			w -= 2 * border
		}
		if maximizedV {
			y += titleH + border
			h -= titleH + 2*border
		}
	}
	if w < 1 || h < 1 {
		if v.Surface != nil {
			v.Surface.ScheduleConfigure()
		}
		return
	}

	v.MaximizedH = maximizedH
	v.MaximizedV = maximizedV
	v.Maximized = maximizedH && maximizedV
	v.X, v.Y = x, y
	if v.Node != nil {
		v.Node.SetPosition(x, y)
		v.Node.RaiseToTop()
	}
	v.pushProtocolGeometry(w, h)
	reason := "maximize-v-set"
	if maximizedH {
		reason = "maximize-h-set"
	}
	if v.TabGroup != nil {
		v.TabGroup.SyncGeometryFromView(v, true, w, h, reason)
	}
	v.ForeignUpdateOutputFromPosition()
	v.core.logf("MaximizeAxes: %s horz=%s vert=%s w=%d h=%d",
		v.DisplayTitle(), onOff(maximizedH), onOff(maximizedV), w, h)
}

// ToggleMaximizeHorizontal flips the horizontal axis. Leaving fullscreen
// and collapsing an inconsistent full-maximize happen first.
func (v *View) ToggleMaximizeHorizontal() {
	if v == nil || v.core == nil || !v.Mapped {
		return
	}
	if v.Fullscreen {
		v.SetFullscreen(false, nil)
	}
	if v.Maximized && (!v.MaximizedH || !v.MaximizedV) {
		v.MaximizedH, v.MaximizedV = true, true
	}
	v.SetMaximizedAxes(!v.MaximizedH, v.MaximizedV)
}

// ToggleMaximizeVertical flips the vertical axis.
func (v *View) ToggleMaximizeVertical() {
	if v == nil || v.core == nil || !v.Mapped {
		return
	}
	if v.Fullscreen {
		v.SetFullscreen(false, nil)
	}
	if v.Maximized && (!v.MaximizedH || !v.MaximizedV) {
		v.MaximizedH, v.MaximizedV = true, true
	}
	v.SetMaximizedAxes(v.MaximizedH, !v.MaximizedV)
}

// SetFullscreen reparents the scene node to the fullscreen layer and fills
// the target output; leaving restores the base layer and saved geometry.
// The maximize axes stay recorded and are re-applied on exit.
func (v *View) SetFullscreen(fullscreen bool, output *geom.Output) {
	if v == nil || v.core == nil || !v.Mapped || v.Fullscreen == fullscreen {
		return
	}

	if fullscreen {
		if !v.Maximized && !v.MaximizedH && !v.MaximizedV {
			v.SaveGeometry()
		}
		box := v.outputBox(output)
		if box.Empty() {
			return
		}
		v.Fullscreen = true
		v.X, v.Y = box.X, box.Y
		if v.Node != nil {
			v.Node.Reparent(LayerOverlay)
			v.Node.SetPosition(box.X, box.Y)
			v.Node.RaiseToTop()
		}
		if l := v.legacy(); l != nil {
			l.SetFullscreen(true)
			l.Configure(v.X, v.Y, box.Width, box.Height)
		} else if v.Surface != nil {
			v.Surface.SetFullscreen(true)
			v.Surface.SetSize(box.Width, box.Height)
		}
		if v.Foreign != nil {
			v.Foreign.SetFullscreen(true)
		}
		v.Width, v.Height = box.Width, box.Height
		if v.TabGroup != nil {
			v.TabGroup.SyncGeometryFromView(v, true, box.Width, box.Height, "fullscreen-on")
		}
		v.ForeignUpdateOutputFromPosition()
		v.core.logf("Fullscreen: %s on w=%d h=%d", v.DisplayTitle(), box.Width, box.Height)
		return
	}

	v.Fullscreen = false
	if v.Node != nil {
		v.Node.Reparent(v.BaseLayer)
	}
	if l := v.legacy(); l != nil {
		l.SetFullscreen(false)
	} else if v.Surface != nil {
		v.Surface.SetFullscreen(false)
	}
	if v.Foreign != nil {
		v.Foreign.SetFullscreen(false)
	}

	if v.Maximized || v.MaximizedH || v.MaximizedV {
		// Re-apply the suspended maximize axes on the way out, starting
		// from the saved box so the axis math is not polluted by the
		// fullscreen geometry.
		h, vv := v.MaximizedH || v.Maximized, v.MaximizedV || v.Maximized
		v.Maximized, v.MaximizedH, v.MaximizedV = false, false, false
		if v.SavedW > 0 && v.SavedH > 0 {
			v.X, v.Y = v.SavedX, v.SavedY
			v.Width, v.Height = v.SavedW, v.SavedH
		}
		v.SetMaximizedAxes(h, vv)
		v.core.logf("Fullscreen: %s off (remaximize)", v.DisplayTitle())
		return
	}

	w, h := v.SavedW, v.SavedH
	if w < 1 || h < 1 {
		w, h = v.CurrentWidth(), v.CurrentHeight()
	}
	v.X, v.Y = v.SavedX, v.SavedY
	if v.Node != nil {
		v.Node.SetPosition(v.X, v.Y)
	}
	if l := v.legacy(); l != nil {
		l.Configure(v.X, v.Y, w, h)
	} else if v.Surface != nil {
		v.Surface.SetSize(w, h)
	}
	v.Width, v.Height = w, h
	if v.TabGroup != nil {
		v.TabGroup.SyncGeometryFromView(v, true, w, h, "fullscreen-off")
	}
	v.ForeignUpdateOutputFromPosition()
	v.core.logf("Fullscreen: %s off w=%d h=%d", v.DisplayTitle(), w, h)
}

// SetMinimized hides or restores the view and mirrors the state to the
// protocol and foreign listeners.
func (v *View) SetMinimized(minimized bool, why string) {
	if v == nil || v.core == nil || !v.Mapped || v.Minimized == minimized {
		return
	}
	v.Minimized = minimized
	if v.Surface != nil {
		v.Surface.SetMinimized(minimized)
	}
	if v.Foreign != nil {
		v.Foreign.SetMinimized(minimized)
	}
	if v.Node != nil {
		v.Node.SetEnabled(v.core.ViewIsVisible(v) && !v.Shaded)
	}
	if v.TabGroup != nil {
		v.TabGroup.applyVisibility()
	}
	v.core.logf("Minimize: %s %s reason=%s", v.DisplayTitle(), onOff(minimized), why)
	if minimized && v.core.Focused == v {
		v.core.Refocus()
	}
}
