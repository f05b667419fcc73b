package wm

import "github.com/bnema/fluxwl/internal/geom"

// placementObstacles collects the frame boxes of views a new placement must
// avoid: mapped, visible, not minimized, on the target head.
func (c *Core) placementObstacles(usable geom.Box, skip *View) []geom.Box {
	var out []geom.Box
	for _, v := range c.views {
		if v == skip || !c.ViewIsVisible(v) || v.InSlit {
			continue
		}
		frame := v.FrameBox(c.Theme)
		if !frame.Overlaps(usable) {
			continue
		}
		out = append(out, frame)
	}
	return out
}

func placementStep() int { return 16 }

// placeSmart walks the usable area row- or column-major looking for the
// first slot with no overlap. Returns false when every slot collides.
func placeSmart(usable geom.Box, w, h int, rowMajor bool, rowDir RowDirection, colDir ColDirection,
	obstacles []geom.Box) (int, int, bool) {

	step := placementStep()
	fits := func(x, y int) bool {
		cand := geom.Box{X: x, Y: y, Width: w, Height: h}
		for _, o := range obstacles {
			if cand.Overlaps(o) {
				return false
			}
		}
		return true
	}

	xs := func(yield func(x int) bool) {
		if rowDir == RowLeftToRight {
			for x := usable.X; x+w <= usable.X+usable.Width; x += step {
				if !yield(x) {
					return
				}
			}
		} else {
			for x := usable.X + usable.Width - w; x >= usable.X; x -= step {
				if !yield(x) {
					return
				}
			}
		}
	}
	ys := func(yield func(y int) bool) {
		if colDir == ColTopToBottom {
			for y := usable.Y; y+h <= usable.Y+usable.Height; y += step {
				if !yield(y) {
					return
				}
			}
		} else {
			for y := usable.Y + usable.Height - h; y >= usable.Y; y -= step {
				if !yield(y) {
					return
				}
			}
		}
	}

	foundX, foundY, found := 0, 0, false
	if rowMajor {
		ys(func(y int) bool {
			xs(func(x int) bool {
				if fits(x, y) {
					foundX, foundY, found = x, y, true
					return false
				}
				return true
			})
			return !found
		})
	} else {
		xs(func(x int) bool {
			ys(func(y int) bool {
				if fits(x, y) {
					foundX, foundY, found = x, y, true
					return false
				}
				return true
			})
			return !found
		})
	}
	return foundX, foundY, found
}

// placeMinOverlap scans the same grid but keeps the slot with the least
// cumulative overlap instead of requiring a free one.
func placeMinOverlap(usable geom.Box, w, h int, rowMajor bool, rowDir RowDirection, colDir ColDirection,
	obstacles []geom.Box) (int, int) {

	step := placementStep()
	bestX, bestY := usable.X, usable.Y
	var bestOverlap int64 = -1

	overlapAt := func(x, y int) int64 {
		cand := geom.Box{X: x, Y: y, Width: w, Height: h}
		var sum int64
		for _, o := range obstacles {
			sum += cand.OverlapArea(o)
		}
		return sum
	}

	consider := func(x, y int) bool {
		ov := overlapAt(x, y)
		if bestOverlap < 0 || ov < bestOverlap {
			bestX, bestY, bestOverlap = x, y, ov
		}
		return bestOverlap != 0
	}

	if rowMajor {
		for y := usable.Y; y+h <= usable.Y+usable.Height; y += step {
			for x := usable.X; x+w <= usable.X+usable.Width; x += step {
				xx, yy := x, y
				if rowDir == RowRightToLeft {
					xx = usable.X + usable.Width - w - (x - usable.X)
				}
				if colDir == ColBottomToTop {
					yy = usable.Y + usable.Height - h - (y - usable.Y)
				}
				if !consider(xx, yy) {
					return bestX, bestY
				}
			}
		}
	} else {
		for x := usable.X; x+w <= usable.X+usable.Width; x += step {
			for y := usable.Y; y+h <= usable.Y+usable.Height; y += step {
				xx, yy := x, y
				if rowDir == RowRightToLeft {
					xx = usable.X + usable.Width - w - (x - usable.X)
				}
				if colDir == ColBottomToTop {
					yy = usable.Y + usable.Height - h - (y - usable.Y)
				}
				if !consider(xx, yy) {
					return bestX, bestY
				}
			}
		}
	}
	return bestX, bestY
}

func clampInto(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PlaceNext computes the initial frame position for a w×h view on the
// output, per the core's current strategy. The returned point is the frame
// origin; the caller adds decoration offsets.
func (c *Core) PlaceNext(out *geom.Output, w, h, cursorX, cursorY int) (int, int) {
	if out == nil {
		return 0, 0
	}
	usable := out.UsableBox()
	if usable.Empty() || w < 1 || h < 1 {
		return usable.X, usable.Y
	}

	obstacles := c.placementObstacles(usable, nil)

	switch c.Placement {
	case PlaceColSmart:
		if x, y, ok := placeSmart(usable, w, h, false, c.RowDir, c.ColDir, obstacles); ok {
			return x, y
		}
		return placeMinOverlap(usable, w, h, false, c.RowDir, c.ColDir, obstacles)
	case PlaceRowMinOverlap:
		return placeMinOverlap(usable, w, h, true, c.RowDir, c.ColDir, obstacles)
	case PlaceColMinOverlap:
		return placeMinOverlap(usable, w, h, false, c.RowDir, c.ColDir, obstacles)
	case PlaceCascade:
		stepX := c.Theme.TitleHeight + c.Theme.BorderWidth
		stepY := stepX
		x, y := c.PlaceNextX, c.PlaceNextY
		if x < usable.X || x+w > usable.X+usable.Width {
			x = usable.X
		}
		if y < usable.Y || y+h > usable.Y+usable.Height {
			y = usable.Y
		}
		c.PlaceNextX = x + stepX
		c.PlaceNextY = y + stepY
		return x, y
	case PlaceUnderMouse:
		x := clampInto(cursorX-w/2, usable.X, usable.X+usable.Width-w)
		y := clampInto(cursorY-h/2, usable.Y, usable.Y+usable.Height-h)
		return x, y
	default: // PlaceRowSmart and the auto-tab fallback
		if x, y, ok := placeSmart(usable, w, h, true, c.RowDir, c.ColDir, obstacles); ok {
			return x, y
		}
		return placeMinOverlap(usable, w, h, true, c.RowDir, c.ColDir, obstacles)
	}
}

// PlaceInitial positions a freshly mapped, unplaced view. Auto-tab attaches
// to the focused view instead of placing when possible.
func (c *Core) PlaceInitial(v *View, cursorX, cursorY int) {
	if v == nil || v.Placed {
		return
	}

	if c.Placement == PlaceAutoTab {
		if anchor := c.Focused; anchor != nil && anchor != v &&
			viewMappedNotMinimized(anchor) && !anchor.InSlit {
			if c.AttachTab(v, anchor, "autotab-place") {
				return
			}
		}
		// No anchor; fall through to row-smart.
		saved := c.Placement
		c.Placement = PlaceRowSmart
		defer func() { c.Placement = saved }()
	}

	out := c.Screens.OutputAt(cursorX, cursorY)
	if out == nil {
		out = c.Screens.OutputForScreen(0)
	}
	if out == nil {
		v.Placed = true
		return
	}

	left, top, _, _ := v.FrameExtents(c.Theme)
	frame := v.FrameBox(c.Theme)
	fx, fy := c.PlaceNext(out, frame.Width, frame.Height, cursorX, cursorY)
	v.X = fx + left
	v.Y = fy + top
	if v.Node != nil {
		v.Node.SetPosition(v.X, v.Y)
	}
	v.Placed = true
	v.ForeignUpdateOutputFromPosition()
	c.logf("Place: %s strategy=%d x=%d y=%d", v.DisplayTitle(), c.Placement, v.X, v.Y)
}
