package wm

import (
	"strings"

	"github.com/bnema/fluxwl/internal/geom"
)

// DecorTheme carries the frame metrics the core needs for geometry math.
// Colors and textures live with the renderer.
type DecorTheme struct {
	BorderWidth  int
	TitleHeight  int
	ButtonSize   int
	ButtonSpacing int
	HandleWidth  int
}

// DefaultDecorTheme matches the shipped style metrics.
func DefaultDecorTheme() *DecorTheme {
	return &DecorTheme{
		BorderWidth:   1,
		TitleHeight:   20,
		ButtonSize:    16,
		ButtonSpacing: 2,
		HandleWidth:   6,
	}
}

// Decoration mask bits. A mask describes which frame parts a view shows.
const (
	DecorMaskBorder uint32 = 1 << iota
	DecorMaskHandle
	DecorMaskTitlebar
	DecorMaskMenu
	DecorMaskIconify
	DecorMaskMaximize
	DecorMaskClose
	DecorMaskTab
)

const (
	DecorMaskNone   uint32 = 0
	DecorMaskNormal        = DecorMaskBorder | DecorMaskHandle | DecorMaskTitlebar |
		DecorMaskMenu | DecorMaskIconify | DecorMaskMaximize | DecorMaskClose | DecorMaskTab
	DecorMaskTiny = DecorMaskBorder | DecorMaskTitlebar | DecorMaskIconify | DecorMaskMenu
	DecorMaskTool = DecorMaskTitlebar | DecorMaskMenu
)

// ParseDecorMask accepts a preset name or a numeric bitmask.
func ParseDecorMask(s string) (uint32, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "none":
		return DecorMaskNone, true
	case "normal":
		return DecorMaskNormal, true
	case "tiny":
		return DecorMaskTiny, true
	case "tool":
		return DecorMaskTool, true
	case "border":
		return DecorMaskBorder, true
	}
	// Numeric form, as written by SaveRC.
	var mask uint32
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0, false
		}
		mask = mask*10 + uint32(r-'0')
		if mask > 0xff {
			return 0, false
		}
	}
	if v == "" {
		return 0, false
	}
	return mask, true
}

// DecorMaskPresetName returns the preset a mask corresponds to, or "".
func DecorMaskPresetName(mask uint32) string {
	switch mask {
	case DecorMaskNone:
		return "NONE"
	case DecorMaskNormal:
		return "NORMAL"
	case DecorMaskTiny:
		return "TINY"
	case DecorMaskTool:
		return "TOOL"
	case DecorMaskBorder:
		return "BORDER"
	}
	return ""
}

// DecorMaskHasFrame reports whether the mask draws any frame at all.
func DecorMaskHasFrame(mask uint32) bool {
	return mask&(DecorMaskBorder|DecorMaskTitlebar|DecorMaskHandle) != 0
}

// DecorHitKind classifies where in the frame a point landed.
type DecorHitKind int

const (
	DecorHitNone DecorHitKind = iota
	DecorHitTitlebar
	DecorHitResize
	DecorHitButtonClose
	DecorHitButtonMax
	DecorHitButtonMin
	DecorHitButtonMenu
	DecorHitButtonShade
	DecorHitButtonStick
	DecorHitButtonLHalf
	DecorHitButtonRHalf
)

// DecorHit is the result of a frame hit test.
type DecorHit struct {
	Kind  DecorHitKind
	Edges geom.Edge
}

// FrameExtents returns the decoration margins around the content box. All
// zero when decorations are disabled.
func (v *View) FrameExtents(theme *DecorTheme) (left, top, right, bottom int) {
	if v == nil || theme == nil || !v.DecorEnabled {
		return 0, 0, 0, 0
	}
	b := theme.BorderWidth
	return b, theme.TitleHeight + b, b, b
}

// FrameBox returns the view's outer frame rectangle.
func (v *View) FrameBox(theme *DecorTheme) geom.Box {
	w := v.CurrentWidth()
	h := v.CurrentHeight()
	left, top, right, bottom := v.FrameExtents(theme)
	return geom.Box{
		X:      v.X - left,
		Y:      v.Y - top,
		Width:  w + left + right,
		Height: h + top + bottom,
	}
}

// DecorHitTest maps a layout point to a frame part. Points inside the
// content area report DecorHitNone so clicks reach the client.
func (v *View) DecorHitTest(theme *DecorTheme, lx, ly int) DecorHit {
	if v == nil || theme == nil || !v.DecorEnabled || !v.Mapped {
		return DecorHit{}
	}

	frame := v.FrameBox(theme)
	if !frame.Contains(lx, ly) {
		return DecorHit{}
	}

	w := v.CurrentWidth()
	h := v.CurrentHeight()
	content := geom.Box{X: v.X, Y: v.Y, Width: w, Height: h}
	if content.Contains(lx, ly) {
		return DecorHit{}
	}

	// Titlebar strip, buttons right-aligned: close, max, min.
	titleTop := v.Y - theme.TitleHeight
	if ly >= titleTop && ly < v.Y && lx >= v.X && lx < v.X+w {
		btn := theme.ButtonSize
		pad := theme.ButtonSpacing
		right := v.X + w - pad
		buttons := []DecorHitKind{DecorHitButtonClose, DecorHitButtonMax, DecorHitButtonMin}
		if v.DecorMask&DecorMaskTab != 0 {
			buttons = append(buttons, DecorHitButtonShade, DecorHitButtonStick)
		}
		for _, kind := range buttons {
			if lx >= right-btn && lx < right {
				return DecorHit{Kind: kind}
			}
			right -= btn + pad
		}
		// Left-aligned: menu, then the half-tiling buttons.
		left := v.X + pad
		for _, kind := range []DecorHitKind{DecorHitButtonMenu, DecorHitButtonLHalf, DecorHitButtonRHalf} {
			if lx >= left && lx < left+btn {
				return DecorHit{Kind: kind}
			}
			left += btn + pad
		}
		return DecorHit{Kind: DecorHitTitlebar}
	}

	// Everything else on the frame is a resize border; classify edges.
	var edges geom.Edge
	if lx < v.X {
		edges |= geom.EdgeLeft
	} else if lx >= v.X+w {
		edges |= geom.EdgeRight
	}
	if ly < titleTop {
		edges |= geom.EdgeTop
	} else if ly >= v.Y+h {
		edges |= geom.EdgeBottom
	}
	if edges == geom.EdgeNone {
		edges = geom.EdgeBottom | geom.EdgeRight
	}
	return DecorHit{Kind: DecorHitResize, Edges: edges}
}

// DecorSetEnabled flips frame drawing and invalidates the cached title.
func (v *View) DecorSetEnabled(enabled bool) {
	if v == nil || v.DecorEnabled == enabled {
		return
	}
	v.DecorEnabled = enabled
	v.decorTitleCache = ""
	v.decorTitleCacheW = 0
}

// DecorUpdateTitleText refreshes the cached title text; returns true when
// the cache was actually invalidated.
func (v *View) DecorUpdateTitleText(theme *DecorTheme) bool {
	if v == nil || !v.DecorEnabled {
		return false
	}
	title := v.DisplayTitle()
	w := v.CurrentWidth()
	if title == v.decorTitleCache && w == v.decorTitleCacheW {
		return false
	}
	v.decorTitleCache = title
	v.decorTitleCacheW = w
	return true
}

// DecorSetActive flips the frame between its active and inactive palette.
// The attention blinker drives this on a timer.
func (v *View) DecorSetActive(active bool) {
	if v == nil {
		return
	}
	v.DecorActive = active
}
