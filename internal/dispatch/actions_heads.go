package dispatch

import (
	"fmt"
	"strings"

	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/logger"
	"github.com/bnema/fluxwl/internal/wm"
)

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// moveViewToHead relocates a view onto another head. Plain views keep
// their relative position; an edge-adjacent frame stays anchored to the
// matching edge on the destination. Maximized and fullscreen views are
// recomputed against the destination box instead.
func (e *Executor) moveViewToHead(v *wm.View, head0 int, why string) {
	dst := e.Core.Screens.OutputForScreen(head0)
	if dst == nil {
		return
	}
	dstBox := dst.Box

	curW, curH := v.CurrentWidth(), v.CurrentHeight()
	if curW < 1 || curH < 1 {
		return
	}

	if v.Fullscreen {
		v.X, v.Y = dstBox.X, dstBox.Y
		if v.Node != nil {
			v.Node.SetPosition(v.X, v.Y)
		}
		v.Resize(dstBox.Width, dstBox.Height, why)
		v.Placed = true
		v.ForeignUpdateOutputFromPosition()
		logger.Infof("Head: move fullscreen title=%s head=%d x=%d y=%d w=%d h=%d reason=%s",
			v.DisplayTitle(), head0+1, v.X, v.Y, dstBox.Width, dstBox.Height, why)
		return
	}

	if v.Maximized || v.MaximizedH || v.MaximizedV {
		cfg := e.Core.ConfigForHead(head0)
		box := dst.UsableBox()
		if cfg != nil && cfg.FullMaximization {
			box = dstBox
		}
		if box.Empty() {
			return
		}

		x, y, w, h := v.X, v.Y, curW, curH
		if v.MaximizedH || v.Maximized {
			x, w = box.X, box.Width
		} else {
			x = v.SavedX
			if v.SavedW > 0 {
				w = v.SavedW
			}
		}
		if v.MaximizedV || v.Maximized {
			y, h = box.Y, box.Height
		} else {
			y = v.SavedY
			if v.SavedH > 0 {
				h = v.SavedH
			}
		}

		left, top, right, bottom := v.FrameExtents(e.Core.Theme)
		if v.MaximizedH || v.Maximized {
			x += left
			w -= left + right
		}
		if v.MaximizedV || v.Maximized {
			y += top
			h -= top + bottom
		}
		if w < 1 || h < 1 {
			return
		}

		v.X, v.Y = x, y
		if v.Node != nil {
			v.Node.SetPosition(x, y)
		}
		v.Resize(w, h, why)
		v.Placed = true
		v.ForeignUpdateOutputFromPosition()
		logger.Infof("Head: move maximized title=%s head=%d x=%d y=%d w=%d h=%d reason=%s",
			v.DisplayTitle(), head0+1, x, y, w, h, why)
		return
	}

	srcHead := v.Head()
	src := e.Core.Screens.OutputForScreen(srcHead)
	srcBox := dstBox
	if src != nil {
		srcBox = src.Box
	}

	frame := v.FrameBox(e.Core.Theme)
	left, top, _, _ := v.FrameExtents(e.Core.Theme)
	border := left

	newFrameX := frame.X
	newFrameY := frame.Y

	if srcBox.Width > 0 && dstBox.Width > 0 {
		d := (srcBox.X + srcBox.Width) - (frame.X + frame.Width)
		if absInt(srcBox.X-frame.X) > border && absInt(d) <= border {
			newFrameX = dstBox.X + dstBox.Width - (frame.Width + d)
		} else {
			newFrameX = int(int64(dstBox.Width)*int64(frame.X-srcBox.X)/int64(srcBox.Width)) + dstBox.X
		}
	} else {
		newFrameX = dstBox.X
	}

	if srcBox.Height > 0 && dstBox.Height > 0 {
		d := (srcBox.Y + srcBox.Height) - (frame.Y + frame.Height)
		if absInt(srcBox.Y-frame.Y) > border && absInt(d) <= border {
			newFrameY = dstBox.Y + dstBox.Height - (frame.Height + d)
		} else {
			newFrameY = int(int64(dstBox.Height)*int64(frame.Y-srcBox.Y)/int64(srcBox.Height)) + dstBox.Y
		}
	} else {
		newFrameY = dstBox.Y
	}

	v.MoveTo(newFrameX+left, newFrameY+top, why)
	v.Placed = true
	logger.Infof("Head: move title=%s head=%d x=%d y=%d reason=%s",
		v.DisplayTitle(), head0+1, v.X, v.Y, why)
}

// setHead implements SetHead N: 1-based, 0 treated as 1, negative wraps
// from the last head.
func (e *Executor) setHead(v *wm.View, head int) bool {
	if v == nil {
		return true
	}
	heads := e.Core.Screens.Count()
	if heads < 1 {
		return true
	}
	num := head
	if num == 0 {
		num = 1
	}
	if num < 0 {
		num += heads + 1
	}
	if num < 1 {
		num = 1
	}
	if num > heads {
		num = heads
	}
	e.moveViewToHead(v, num-1, "sethead")
	return true
}

// sendToRelHead moves the view delta heads over, wrapping at the ends.
func (e *Executor) sendToRelHead(v *wm.View, delta int) bool {
	if v == nil {
		return true
	}
	heads := e.Core.Screens.Count()
	if heads < 2 {
		return true
	}
	if delta == 0 {
		delta = 1
	}
	cur := v.Head()
	next := ((cur+delta)%heads + heads) % heads
	why := "sendtoprevhead"
	if delta > 0 {
		why = "sendtonexthead"
	}
	e.moveViewToHead(v, next, why)
	return true
}

// markWindow bookmarks the view under the placeholder keycode that fired.
func (e *Executor) markWindow(v *wm.View, keycode uint32) bool {
	if v == nil {
		return true
	}
	if keycode == 0 {
		logger.Error("MarkWindow: missing placeholder keycode (use Arg binding)")
		return false
	}
	if !e.Marked.Set(keycode, v.CreateSeq) {
		return false
	}
	logger.Infof("MarkWindow: keycode=%d create_seq=%d title=%s", keycode, v.CreateSeq, v.DisplayTitle())
	return true
}

// gotoMarkedWindow returns focus to the bookmarked view, restoring and
// raising it; stale marks are pruned.
func (e *Executor) gotoMarkedWindow(keycode uint32) bool {
	if keycode == 0 {
		logger.Error("GotoMarkedWindow: missing placeholder keycode (use Arg binding)")
		return false
	}
	seq, ok := e.Marked.Get(keycode)
	if !ok || seq == 0 {
		logger.Infof("GotoMarkedWindow: no match keycode=%d", keycode)
		return true
	}
	v := e.Core.ViewByCreateSeq(seq)
	if v == nil {
		e.Marked.Remove(keycode)
		logger.Infof("GotoMarkedWindow: stale keycode=%d create_seq=%d", keycode, seq)
		return true
	}

	if v.Minimized {
		v.SetMinimized(false, "goto-marked-window")
	}
	if v.TabGroup != nil && !v.TabGroup.IsActive(v) {
		wm.ActivateTab(v, "goto-marked-window")
	}
	if e.Core.ViewIsVisible(v) {
		e.Core.FocusView(v, wm.FocusReasonKeybinding)
	} else {
		e.Core.Refocus()
	}
	e.raiseView(v, "goto-marked-window")
	logger.Infof("GotoMarkedWindow: keycode=%d create_seq=%d title=%s", keycode, seq, v.DisplayTitle())
	return true
}

// workspaceTogglePrev flips the cursor head to its previous workspace.
func (e *Executor) workspaceTogglePrev(inv *Invocation, why string) bool {
	head := e.Core.Screens.ScreenAt(inv.CursorX, inv.CursorY)
	cur := e.Core.WorkspaceCurrentForHead(head)
	prev := e.Core.WorkspacePrevForHead(head)
	if prev == cur {
		return true
	}
	if e.Hooks != nil && e.Hooks.WorkspaceSwitch != nil {
		e.Hooks.WorkspaceSwitch(inv.CursorX, inv.CursorY, prev, why)
		return true
	}
	e.Core.WorkspaceSwitchOnHead(head, prev)
	e.Core.ApplyWorkspaceVisibility(why)
	return true
}

const workspaceLimit = 1000

func (e *Executor) ensureWorkspaceNameDefaults(count int) {
	if count < 1 {
		count = 1
	}
	if count > workspaceLimit {
		count = workspaceLimit
	}
	for i := 0; i < count; i++ {
		if e.Core.WorkspaceName(i) != "" {
			continue
		}
		e.Core.SetWorkspaceName(i, fmt.Sprintf("Workspace %d", i+1))
	}
}

func (e *Executor) addWorkspace() bool {
	cur := e.Core.WorkspaceCount()
	if cur >= workspaceLimit {
		logger.Errorf("AddWorkspace: workspace limit reached (count=%d)", cur)
		return false
	}
	next := cur + 1
	e.Core.SetWorkspaceCount(next)
	if e.Core.WorkspaceNamesLen() > 0 {
		e.ensureWorkspaceNameDefaults(next)
	}
	e.Hooks.toolbarRebuild()
	logger.Infof("Workspace: add count=%d", next)
	if e.Hooks != nil && e.Hooks.SaveRC != nil {
		e.Hooks.SaveRC()
	}
	return true
}

func (e *Executor) removeLastWorkspace() bool {
	cur := e.Core.WorkspaceCount()
	if cur <= 1 {
		logger.Infof("RemoveLastWorkspace: ignored (count=%d)", cur)
		return true
	}
	next := cur - 1
	target := next - 1
	for _, v := range e.Core.Views() {
		if !v.Sticky && v.Workspace >= next {
			v.Workspace = target
		}
	}
	e.Core.SetWorkspaceCount(next)
	e.Core.ApplyWorkspaceVisibility("remove-last-workspace")
	logger.Infof("Workspace: remove-last count=%d", next)
	if e.Hooks != nil && e.Hooks.SaveRC != nil {
		e.Hooks.SaveRC()
	}
	return true
}

func (e *Executor) setWorkspaceName(inv *Invocation, args string) bool {
	ws, _ := e.currentWorkspaceAtCursor(inv)
	if ws < 0 {
		ws = 0
	}
	e.ensureWorkspaceNameDefaults(e.Core.WorkspaceCount())

	name := strings.TrimSpace(args)
	if name == "" {
		name = "empty"
	}
	if !e.Core.SetWorkspaceName(ws, name) {
		logger.Errorf("SetWorkspaceName: failed ws=%d", ws+1)
		return false
	}
	logger.Infof("WorkspaceName: set ws=%d", ws+1)
	e.Hooks.toolbarRebuild()
	if e.Hooks != nil && e.Hooks.SaveRC != nil {
		e.Hooks.SaveRC()
	}
	return true
}

func (e *Executor) setWorkspaceNameDialog(inv *Invocation) bool {
	if e.Hooks == nil || e.Hooks.CommandDialogOpen == nil {
		return false
	}
	ws, _ := e.currentWorkspaceAtCursor(inv)
	initial := e.Core.WorkspaceName(ws)
	if initial == "" {
		initial = fmt.Sprintf("%d", ws+1)
	}
	invCopy := *inv
	e.Hooks.CommandDialogOpen("SetWorkspaceName ", initial, func(text string) {
		e.setWorkspaceName(&invCopy, text)
	})
	return true
}

// headBoxAt is a small helper for cursor-relative actions.
func (e *Executor) headBoxAt(x, y int) geom.Box {
	if out := e.Core.Screens.OutputAt(x, y); out != nil {
		return out.UsableBox()
	}
	if out := e.Core.Screens.OutputForScreen(0); out != nil {
		return out.UsableBox()
	}
	return geom.Box{}
}
