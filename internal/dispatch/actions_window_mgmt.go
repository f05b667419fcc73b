package dispatch

import (
	"math"
	"strings"

	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/logger"
	"github.com/bnema/fluxwl/internal/pattern"
	"github.com/bnema/fluxwl/internal/wm"
)

func (e *Executor) currentWorkspaceAtCursor(inv *Invocation) (int, int) {
	head := e.Core.Screens.ScreenAt(inv.CursorX, inv.CursorY)
	return e.Core.WorkspaceCurrentForHead(head), head
}

// attachPattern walks the mapped views; the first match anchors a tab
// group and every further match attaches to it.
func (e *Executor) attachPattern(inv *Invocation, pat string) bool {
	compiled := pattern.Parse(pat)
	env := e.patternEnv(inv)
	ws, head := e.currentWorkspaceAtCursor(inv)

	var anchor *wm.View
	attached := 0
	for _, v := range e.Core.Views() {
		if !v.Mapped || v.InSlit {
			continue
		}
		if !compiled.Matches(env, v, ws) {
			continue
		}
		if anchor == nil {
			if v.Minimized {
				continue
			}
			anchor = v
			continue
		}
		if e.Core.AttachTab(v, anchor, "attach-cmd") {
			attached++
		}
	}

	if anchor != nil {
		logger.Infof("Attach: head=%d ws=%d anchor=%s attached=%d pattern=%s",
			head, ws, anchor.DisplayTitle(), attached, pat)
	} else {
		logger.Infof("Attach: head=%d ws=%d anchor=(none) attached=%d pattern=%s",
			head, ws, attached, pat)
	}
	if attached > 0 {
		e.Hooks.toolbarRebuild()
	}
	return true
}

// showDesktop minimizes every visible non-desktop view; when everything is
// already minimized it restores them instead, newest first.
func (e *Executor) showDesktop(inv *Invocation) bool {
	ws, head := e.currentWorkspaceAtCursor(inv)

	var views []*wm.View
	for _, v := range e.Core.Views() {
		if !v.Mapped || v.InSlit {
			continue
		}
		if !(v.Sticky || v.Workspace == ws) {
			continue
		}
		if v.BaseLayer == wm.LayerDesktop {
			continue
		}
		views = append(views, v)
	}

	anyUnminimized := false
	for _, v := range views {
		if !v.Minimized {
			anyUnminimized = true
			break
		}
	}

	if anyUnminimized {
		for _, v := range views {
			if !v.Minimized {
				v.SetMinimized(true, "showdesktop")
			}
		}
	} else {
		for i := len(views) - 1; i >= 0; i-- {
			if views[i].Minimized {
				views[i].SetMinimized(false, "showdesktop")
			}
		}
	}

	action := "restore"
	if anyUnminimized {
		action = "minimize"
	}
	logger.Infof("ShowDesktop: head=%d ws=%d action=%s count=%d", head, ws, action, len(views))
	e.Hooks.toolbarRebuild()
	return true
}

func floorSqrt(n int) int {
	if n < 1 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	for (r+1)*(r+1) <= n {
		r++
	}
	for r*r > n {
		r--
	}
	return r
}

func arrangeIsStacked(method int) bool {
	return method >= 3
}

// arrangeSplitBoxes carves a main cell off the usable area for the stack
// variants; tile is the remainder the grid goes into.
func arrangeSplitBoxes(usable geom.Box, method int) (tile, main geom.Box) {
	tile = usable
	if !arrangeIsStacked(method) {
		return tile, geom.Box{}
	}
	if method == 3 || method == 4 {
		tileW := usable.Width / 2
		mainW := usable.Width - tileW
		if method == 3 {
			tile = geom.Box{X: usable.X, Y: usable.Y, Width: tileW, Height: usable.Height}
			main = geom.Box{X: usable.X + tileW, Y: usable.Y, Width: mainW, Height: usable.Height}
		} else {
			main = geom.Box{X: usable.X, Y: usable.Y, Width: mainW, Height: usable.Height}
			tile = geom.Box{X: usable.X + mainW, Y: usable.Y, Width: tileW, Height: usable.Height}
		}
		return tile, main
	}
	tileH := usable.Height / 2
	mainH := usable.Height - tileH
	if method == 5 {
		tile = geom.Box{X: usable.X, Y: usable.Y, Width: usable.Width, Height: tileH}
		main = geom.Box{X: usable.X, Y: usable.Y + tileH, Width: usable.Width, Height: mainH}
	} else {
		main = geom.Box{X: usable.X, Y: usable.Y, Width: usable.Width, Height: mainH}
		tile = geom.Box{X: usable.X, Y: usable.Y + mainH, Width: usable.Width, Height: tileH}
	}
	return tile, main
}

func dist2(x0, y0, x1, y1 int) int64 {
	dx := int64(x0 - x1)
	dy := int64(y0 - y1)
	return dx*dx + dy*dy
}

// arrangeViewsInBox tiles the views into a near-square grid over area.
// Each cell takes the view whose frame centroid lies nearest, tie-broken
// toward the older view, so windows keep their rough relative placement.
func (e *Executor) arrangeViewsInBox(views []*wm.View, area geom.Box, method int, why string) {
	if len(views) == 0 || area.Empty() {
		return
	}

	cols := floorSqrt(len(views))
	if cols < 1 {
		cols = 1
	}
	rows := (len(views) + cols - 1) / cols

	rotate := method == 1 || (method == 0 && area.Width < area.Height)
	if rotate {
		cols, rows = rows, cols
	}

	cellW := area.Width / cols
	cellH := area.Height / rows

	remaining := append([]*wm.View(nil), views...)
	for i := 0; i < rows && len(remaining) > 0; i++ {
		for j := 0; j < cols && len(remaining) > 0; j++ {
			frameX := area.X + j*cellW
			frameY := area.Y + i*cellH
			frameW := cellW
			frameH := cellH
			if j+1 == cols {
				frameW = area.X + area.Width - frameX
			}
			if i+1 == rows {
				frameH = area.Y + area.Height - frameY
			}

			cellCX := frameX + frameW/2
			cellCY := frameY + frameH/2

			bestIdx := 0
			bestDist := int64(math.MaxInt64)
			var bestSeq uint64
			for k, candidate := range remaining {
				cx, cy := candidate.FrameBox(e.Core.Theme).Center()
				d := dist2(cx, cy, cellCX, cellCY)
				if d < bestDist || (d == bestDist && candidate.CreateSeq < bestSeq) {
					bestIdx, bestDist, bestSeq = k, d, candidate.CreateSeq
				}
			}

			pick := remaining[bestIdx]
			e.prepareForManualGeometry(pick)
			if e.moveResizeFrame(pick, frameX, frameY, frameW, frameH, why) {
				logger.Infof("ArrangeWindows: view=%s x=%d y=%d w=%d h=%d",
					pick.DisplayTitle(), frameX, frameY, frameW, frameH)
			}
			remaining[bestIdx] = remaining[len(remaining)-1]
			remaining = remaining[:len(remaining)-1]
		}
	}
}

// arrangeWindows tiles the filtered view set, reserving a main cell for
// the focused view in the stack variants.
func (e *Executor) arrangeWindows(inv *Invocation, method int, pat string) bool {
	out := e.Core.Screens.OutputAt(inv.CursorX, inv.CursorY)
	if out == nil {
		out = e.Core.Screens.OutputForScreen(0)
	}
	if out == nil {
		return false
	}
	usable := out.UsableBox()

	compiled := pattern.Parse(pat)
	env := e.patternEnv(inv)
	ws, head := e.currentWorkspaceAtCursor(inv)

	// Snapshot the selection before any geometry moves.
	var views []*wm.View
	for _, v := range e.Core.Views() {
		if !v.Mapped || v.Minimized || v.InSlit {
			continue
		}
		if !(v.Sticky || v.Workspace == ws) {
			continue
		}
		if v.Head() != head {
			continue
		}
		if !compiled.Matches(env, v, ws) {
			continue
		}
		views = append(views, v)
	}

	var main *wm.View
	if arrangeIsStacked(method) && len(views) > 0 {
		if focused := e.Core.Focused; focused != nil {
			for i, v := range views {
				if v == focused {
					main = focused
					views = append(views[:i], views[i+1:]...)
					break
				}
			}
		}
		if main == nil {
			main = views[len(views)-1]
			views = views[:len(views)-1]
		}
	}

	total := len(views)
	if main != nil {
		total++
	}

	tile, mainBox := arrangeSplitBoxes(usable, method)
	e.arrangeViewsInBox(views, tile, method, "arrange-windows")

	if main != nil && !mainBox.Empty() {
		e.prepareForManualGeometry(main)
		if e.moveResizeFrame(main, mainBox.X, mainBox.Y, mainBox.Width, mainBox.Height, "arrange-windows-main") {
			logger.Infof("ArrangeWindows: main=%s x=%d y=%d w=%d h=%d",
				main.DisplayTitle(), mainBox.X, mainBox.Y, mainBox.Width, mainBox.Height)
		}
	}

	logger.Infof("ArrangeWindows: head=%d ws=%d method=%d count=%d pattern=%s",
		head, ws, method, total, pat)
	e.Hooks.toolbarRebuild()
	e.Hooks.strictFocusRecheck(e.Hooks.viewUnderCursor(), "arrange-windows")
	return true
}

// unclutter moves the matching views off-screen, then re-places each with a
// min-overlap strategy oriented to the output's aspect.
func (e *Executor) unclutter(inv *Invocation, pat string) bool {
	out := e.Core.Screens.OutputAt(inv.CursorX, inv.CursorY)
	if out == nil {
		out = e.Core.Screens.OutputForScreen(0)
	}
	if out == nil {
		return false
	}
	usable := out.UsableBox()

	compiled := pattern.Parse(pat)
	env := e.patternEnv(inv)
	ws, head := e.currentWorkspaceAtCursor(inv)

	var placed []*wm.View
	for _, v := range e.Core.Views() {
		if !v.Mapped || v.Minimized || v.InSlit {
			continue
		}
		if v.Fullscreen || v.Maximized || v.MaximizedH || v.MaximizedV {
			continue
		}
		if !(v.Sticky || v.Workspace == ws) {
			continue
		}
		if v.Head() != head {
			continue
		}
		if !compiled.Matches(env, v, ws) {
			continue
		}
		placed = append(placed, v)
	}
	if len(placed) == 0 {
		return true
	}

	// Clear the slate so earlier views do not collide with later ones.
	for _, v := range placed {
		frame := v.FrameBox(e.Core.Theme)
		e.moveFrame(v, -frame.Width, -frame.Height, "unclutter-clean")
	}

	orig := e.Core.Placement
	if usable.Width >= usable.Height {
		e.Core.Placement = wm.PlaceRowMinOverlap
	} else {
		e.Core.Placement = wm.PlaceColMinOverlap
	}

	for _, v := range placed {
		frame := v.FrameBox(e.Core.Theme)
		x, y := e.Core.PlaceNext(out, frame.Width, frame.Height, inv.CursorX, inv.CursorY)
		if e.moveFrame(v, x, y, "unclutter") {
			logger.Infof("Unclutter: view=%s x=%d y=%d", v.DisplayTitle(), x, y)
		}
	}
	e.Core.Placement = orig

	logger.Infof("Unclutter: head=%d ws=%d count=%d pattern=%s", head, ws, len(placed), pat)
	e.Hooks.toolbarRebuild()
	e.Hooks.strictFocusRecheck(e.Hooks.viewUnderCursor(), "unclutter")
	return true
}

// deiconify restores minimized views. Mode picks how many and from where;
// dest picks which workspace they land on.
func (e *Executor) deiconify(inv *Invocation, args string) bool {
	ws, head := e.currentWorkspaceAtCursor(inv)

	const (
		modeLastWorkspace = iota
		modeLast
		modeAllWorkspace
		modeAll
	)
	const (
		destCurrent = iota
		destOrigin
		destOriginQuiet
	)

	mode := modeLastWorkspace
	dest := destCurrent
	if s := strings.TrimSpace(args); s != "" {
		toks := strings.Fields(s)
		if len(toks) > 2 {
			logger.Errorf("Deiconify: too many args: %s", s)
			return false
		}
		switch strings.ToLower(toks[0]) {
		case "all":
			mode = modeAll
		case "allworkspace":
			mode = modeAllWorkspace
		case "last":
			mode = modeLast
		case "lastworkspace":
			mode = modeLastWorkspace
		default:
			logger.Errorf("Deiconify: invalid mode=%s", toks[0])
			return false
		}
		if len(toks) == 2 {
			switch strings.ToLower(toks[1]) {
			case "current":
				dest = destCurrent
			case "origin":
				dest = destOrigin
			case "originquiet":
				dest = destOriginQuiet
			default:
				logger.Errorf("Deiconify: invalid destination=%s", toks[1])
				return false
			}
		}
	}

	workspaceLimited := mode == modeLastWorkspace || mode == modeAllWorkspace
	pickOne := mode == modeLastWorkspace || mode == modeLast

	var picks []*wm.View
	for _, v := range e.Core.Views() {
		if !v.Mapped || v.InSlit || !v.Minimized {
			continue
		}
		if workspaceLimited && !(v.Sticky || v.Workspace == ws) {
			continue
		}
		picks = append(picks, v)
		if pickOne {
			break
		}
	}
	if len(picks) == 0 {
		logger.Infof("Deiconify: head=%d ws=%d count=0", head, ws)
		return true
	}

	switch dest {
	case destCurrent:
		for _, v := range picks {
			if !v.Sticky {
				v.Workspace = ws
			}
		}
	case destOrigin:
		e.workspaceSwitch(inv, picks[0].Workspace, "deiconify-origin")
	}

	for _, v := range picks {
		v.SetMinimized(false, "deiconify")
	}

	logger.Infof("Deiconify: head=%d ws=%d count=%d", head, ws, len(picks))
	e.Hooks.toolbarRebuild()
	return true
}

// closeAllWindows snapshots first; closing mutates the list underneath.
func (e *Executor) closeAllWindows() bool {
	var views []*wm.View
	for _, v := range e.Core.Views() {
		if !v.Mapped || v.InSlit {
			continue
		}
		views = append(views, v)
	}
	logger.Infof("CloseAllWindows: count=%d", len(views))
	for _, v := range views {
		logger.Infof("CloseAllWindows: close title=%s", v.DisplayTitle())
		v.Close(false)
	}
	return true
}
