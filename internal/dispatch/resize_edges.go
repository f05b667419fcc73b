package dispatch

import (
	"strconv"
	"strings"

	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/wm"
)

func testCorner(xy, wh, cornerPx, cornerPc int) bool {
	if xy < cornerPx {
		return true
	}
	if cornerPc <= 0 {
		return false
	}
	return int64(100)*int64(xy) < int64(cornerPc)*int64(wh)
}

// edgesFromEdgeOrCorner classifies the cursor position on the frame into a
// corner (within the corner-size thresholds) or the nearest edge.
func edgesFromEdgeOrCorner(v *wm.View, theme *wm.DecorTheme, cursorX, cursorY, cornerPx, cornerPc int) geom.Edge {
	def := geom.EdgeRight | geom.EdgeBottom
	if v == nil {
		return def
	}
	if cornerPx < 0 {
		cornerPx = 0
	}
	if cornerPc < 0 {
		cornerPc = 0
	}
	if cornerPc > 100 {
		cornerPc = 100
	}

	frame := v.FrameBox(theme)
	if frame.Empty() {
		return def
	}

	x := cursorX - frame.X
	y := cursorY - frame.Y
	cx := frame.Width / 2
	cy := frame.Height / 2

	if x < cx && testCorner(x, cx, cornerPx, cornerPc) {
		if y < cy && testCorner(y, cy, cornerPx, cornerPc) {
			return geom.EdgeLeft | geom.EdgeTop
		}
		if testCorner(frame.Height-y-1, frame.Height-cy, cornerPx, cornerPc) {
			return geom.EdgeLeft | geom.EdgeBottom
		}
	} else if testCorner(frame.Width-x-1, frame.Width-cx, cornerPx, cornerPc) {
		if y < cy && testCorner(y, cy, cornerPx, cornerPc) {
			return geom.EdgeRight | geom.EdgeTop
		}
		if testCorner(frame.Height-y-1, frame.Height-cy, cornerPx, cornerPc) {
			return geom.EdgeRight | geom.EdgeBottom
		}
	}

	// Not a corner; find the nearest edge.
	if cy-absInt(y-cy) < cx-absInt(x-cx) {
		if y > cy {
			return geom.EdgeBottom
		}
		return geom.EdgeTop
	}
	if x > cx {
		return geom.EdgeRight
	}
	return geom.EdgeLeft
}

// ResizeEdgesFromArgs parses the StartResizing argument grammar: a fixed
// edge/corner name, Center, or the Nearest* family with optional corner
// sizes (pixels and/or a percentage).
func ResizeEdgesFromArgs(v *wm.View, theme *wm.DecorTheme, cursorX, cursorY int, args string) geom.Edge {
	def := geom.EdgeRight | geom.EdgeBottom
	toks := strings.Fields(args)
	if len(toks) == 0 {
		return def
	}

	switch strings.ToLower(toks[0]) {
	case "center":
		return geom.EdgeLeft | geom.EdgeRight | geom.EdgeTop | geom.EdgeBottom
	case "topleft":
		return geom.EdgeTop | geom.EdgeLeft
	case "top":
		return geom.EdgeTop
	case "topright":
		return geom.EdgeTop | geom.EdgeRight
	case "left":
		return geom.EdgeLeft
	case "right":
		return geom.EdgeRight
	case "bottomleft":
		return geom.EdgeBottom | geom.EdgeLeft
	case "bottom":
		return geom.EdgeBottom
	case "bottomright":
		return geom.EdgeBottom | geom.EdgeRight
	case "nearestcorner":
		return edgesFromEdgeOrCorner(v, theme, cursorX, cursorY, 0, 100)
	case "nearestedge":
		return edgesFromEdgeOrCorner(v, theme, cursorX, cursorY, 0, 0)
	case "nearestcorneroredge":
		cornerPx, cornerPc := 50, 30
		if len(toks) >= 2 {
			cornerPx, cornerPc = 0, 0
			if strings.HasSuffix(toks[1], "%") {
				cornerPc, _ = strconv.Atoi(strings.TrimSuffix(toks[1], "%"))
			} else {
				cornerPx, _ = strconv.Atoi(toks[1])
				if len(toks) >= 3 {
					cornerPc, _ = strconv.Atoi(toks[2])
				}
			}
		}
		return edgesFromEdgeOrCorner(v, theme, cursorX, cursorY, cornerPx, cornerPc)
	}
	return def
}
