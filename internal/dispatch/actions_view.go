package dispatch

import (
	"os"
	"strconv"
	"strings"

	"github.com/bnema/fluxwl/internal/command"
	"github.com/bnema/fluxwl/internal/logger"
	"github.com/bnema/fluxwl/internal/wm"
)

func envNameValid(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		ok := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}
	return true
}

// setEnv implements `SetEnv NAME=VALUE` and `SetEnv NAME VALUE`.
func (e *Executor) setEnv(args string) bool {
	s := strings.TrimSpace(args)
	if s == "" {
		return false
	}

	var name, value string
	firstWs := strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '\t' })
	eq := strings.IndexByte(s, '=')
	switch {
	case eq >= 0 && (firstWs < 0 || eq < firstWs):
		name = strings.TrimSpace(s[:eq])
		value = strings.TrimSpace(s[eq+1:])
	case firstWs >= 0:
		name = strings.TrimSpace(s[:firstWs])
		value = strings.TrimSpace(s[firstWs+1:])
	default:
		logger.Errorf("SetEnv: expected 'NAME VALUE' or 'NAME=VALUE': %s", s)
		return false
	}

	if !envNameValid(name) {
		logger.Errorf("SetEnv: invalid variable name: %s", name)
		return false
	}
	if err := os.Setenv(name, value); err != nil {
		logger.Errorf("SetEnv: %s failed: %v", name, err)
		return false
	}
	logger.Infof("SetEnv: set %s", name)
	return true
}

func stripBraces(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		return s[1 : len(s)-1]
	}
	return s
}

// parseAlphaToken parses "200", "+10", or "-10".
func parseAlphaToken(tok string) (relative bool, value int, ok bool) {
	if tok == "" {
		return false, 0, false
	}
	sign := 1
	p := tok
	if p[0] == '+' || p[0] == '-' {
		relative = true
		if p[0] == '-' {
			sign = -1
		}
		p = p[1:]
	}
	if p == "" {
		return false, 0, false
	}
	v, err := strconv.Atoi(p)
	if err != nil || v < 0 || v > 100000 {
		return false, 0, false
	}
	return relative, sign * v, true
}

func clampAlpha(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// setAlpha implements `SetAlpha [f [u]]` with +/- relative adjustments and
// an empty-args restore to the configured defaults.
func (e *Executor) setAlpha(v *wm.View, args string) {
	defF, defU := uint8(255), uint8(255)
	if e.AlphaDefaultsConfigured {
		defF, defU = e.AlphaDefaultFocused, e.AlphaDefaultUnfocused
	}

	s := strings.TrimSpace(args)
	if s == "" {
		v.AlphaSet = true
		v.AlphaFocused, v.AlphaUnfocused = defF, defU
		v.AlphaIsDefault = true
		logger.Infof("SetAlpha: %s default", v.DisplayTitle())
		return
	}

	toks := strings.Fields(s)
	if len(toks) > 2 {
		logger.Errorf("SetAlpha: invalid args (expected 0-2 values): %s", s)
		return
	}

	baseF, baseU := int(defF), int(defU)
	if v.AlphaSet {
		baseF, baseU = int(v.AlphaFocused), int(v.AlphaUnfocused)
	}

	rel1, val1, ok := parseAlphaToken(toks[0])
	if !ok {
		logger.Errorf("SetAlpha: invalid token: %s", toks[0])
		return
	}

	var outF, outU int
	if len(toks) == 1 {
		if rel1 {
			outF, outU = baseF+val1, baseU+val1
		} else {
			outF, outU = val1, val1
		}
	} else {
		rel2, val2, ok := parseAlphaToken(toks[1])
		if !ok {
			logger.Errorf("SetAlpha: invalid token: %s", toks[1])
			return
		}
		if rel1 {
			outF = baseF + val1
		} else {
			outF = val1
		}
		if rel2 {
			outU = baseU + val2
		} else {
			outU = val2
		}
	}

	v.AlphaSet = true
	v.AlphaFocused = clampAlpha(outF)
	v.AlphaUnfocused = clampAlpha(outU)
	v.AlphaIsDefault = false
	logger.Infof("SetAlpha: %s focused=%d unfocused=%d", v.DisplayTitle(), v.AlphaFocused, v.AlphaUnfocused)
}

func (e *Executor) toggleDecor(v *wm.View) {
	before := e.Hooks.viewUnderCursor()
	enable := !v.DecorEnabled
	v.DecorForced = true
	v.DecorSetEnabled(enable)
	v.DecorUpdateTitleText(e.Core.Theme)
	logger.Infof("ToggleDecor: %s %s reason=keybinding", v.DisplayTitle(), onOffStr(enable))
	why := "decor-off"
	if enable {
		why = "decor-on"
	}
	e.Hooks.strictFocusRecheck(before, why)
	e.Hooks.toolbarRebuild()
}

func (e *Executor) setDecor(v *wm.View, value string) {
	s := strings.TrimSpace(value)
	if s == "" {
		logger.Error("SetDecor: missing value")
		return
	}
	mask, ok := wm.ParseDecorMask(stripBraces(s))
	if !ok {
		logger.Errorf("SetDecor: invalid value: %s", s)
		return
	}

	enable := wm.DecorMaskHasFrame(mask)
	preset := wm.DecorMaskPresetName(mask)
	if preset == "" {
		preset = "(custom)"
	}

	before := e.Hooks.viewUnderCursor()
	v.DecorForced = true
	v.DecorMask = mask
	v.DecorSetEnabled(enable)
	v.DecorUpdateTitleText(e.Core.Theme)
	logger.Infof("SetDecor: %s value=%s enabled=%v mask=0x%02x preset=%s reason=keybinding",
		v.DisplayTitle(), s, enable, mask, preset)
	why := "decor-off"
	if enable {
		why = "decor-on"
	}
	e.Hooks.strictFocusRecheck(before, why)
	e.Hooks.toolbarRebuild()
}

// setTitleOverride installs or clears the user title override.
func (e *Executor) setTitleOverride(v *wm.View, text, why string) {
	final := strings.TrimSpace(stripBraces(text))
	if final == "" {
		v.TitleOverride = ""
		if v.Foreign != nil {
			v.Foreign.SetTitle(v.Title())
		}
		v.DecorUpdateTitleText(e.Core.Theme)
		e.Hooks.toolbarRebuild()
		logger.Infof("Title: cleared title override create_seq=%d reason=%s", v.CreateSeq, why)
		return
	}
	v.TitleOverride = final
	if v.Foreign != nil {
		v.Foreign.SetTitle(final)
	}
	v.DecorUpdateTitleText(e.Core.Theme)
	e.Hooks.toolbarRebuild()
	logger.Infof("Title: set title override create_seq=%d title=%s reason=%s", v.CreateSeq, final, why)
}

func (e *Executor) setTitleDialog(v *wm.View) bool {
	if v == nil || e.Hooks == nil || e.Hooks.CommandDialogOpen == nil {
		return false
	}
	seq := v.CreateSeq
	e.Hooks.CommandDialogOpen("Set Title: ", "", func(text string) {
		target := e.Core.ViewByCreateSeq(seq)
		if target == nil {
			logger.Errorf("Title: set-title-dialog no match create_seq=%d", seq)
			return
		}
		e.setTitleOverride(target, text, "set-title-dialog")
	})
	return true
}

// prepareForManualGeometry drops fullscreen and any maximize axes before a
// manual move/resize takes over the geometry.
func (e *Executor) prepareForManualGeometry(v *wm.View) {
	if v.Fullscreen {
		v.SetFullscreen(false, nil)
	}
	if !v.Maximized && !v.MaximizedH && !v.MaximizedV {
		return
	}
	v.Maximized, v.MaximizedH, v.MaximizedV = false, false, false
	if v.Surface != nil {
		v.Surface.SetMaximized(false, false)
	}
	if v.Foreign != nil {
		v.Foreign.SetMaximized(false)
	}
}

// moveFrame positions the view by its frame origin.
func (e *Executor) moveFrame(v *wm.View, frameX, frameY int, why string) bool {
	w, h := v.CurrentWidth(), v.CurrentHeight()
	if w < 1 || h < 1 {
		return false
	}
	left, top, _, _ := v.FrameExtents(e.Core.Theme)
	v.MoveTo(frameX+left, frameY+top, why)
	v.Placed = true
	return true
}

// moveResizeFrame positions and sizes the view by its frame box.
func (e *Executor) moveResizeFrame(v *wm.View, frameX, frameY, frameW, frameH int, why string) bool {
	left, top, right, bottom := v.FrameExtents(e.Core.Theme)
	w := frameW - left - right
	h := frameH - top - bottom
	if w < 1 || h < 1 {
		return false
	}
	v.X, v.Y = frameX+left, frameY+top
	if v.Node != nil {
		v.Node.SetPosition(v.X, v.Y)
	}
	v.Resize(w, h, why)
	v.Placed = true
	return true
}

// moveToCmd implements `MoveTo <x|*> <y|*> [anchor]`. The anchor names the
// frame corner the coordinates refer to.
func (e *Executor) moveToCmd(v *wm.View, args string) {
	toks := strings.Fields(args)
	if len(toks) < 2 {
		logger.Errorf("MoveTo: invalid args: %s", args)
		return
	}

	frame := v.FrameBox(e.Core.Theme)
	usable := e.Core.Screens.OutputForView(v.X, v.Y)
	if usable == nil {
		return
	}
	box := usable.UsableBox()

	anchor := ""
	if len(toks) >= 3 {
		anchor = strings.ToLower(toks[2])
	}

	parseCoord := func(tok string, cur int) (int, bool) {
		if tok == "*" {
			return cur, true
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	x, okX := parseCoord(toks[0], frame.X-box.X)
	y, okY := parseCoord(toks[1], frame.Y-box.Y)
	if !okX || !okY {
		logger.Errorf("MoveTo: invalid args: %s", args)
		return
	}

	fx := box.X + x
	fy := box.Y + y
	if strings.Contains(anchor, "right") {
		fx = box.X + box.Width - frame.Width - x
	}
	if strings.Contains(anchor, "lower") || strings.Contains(anchor, "bottom") {
		fy = box.Y + box.Height - frame.Height - y
	}

	e.prepareForManualGeometry(v)
	if e.moveFrame(v, fx, fy, "moveto") {
		logger.Infof("MoveTo: %s x=%d y=%d", v.DisplayTitle(), fx, fy)
	}
}

// moveRelCmd implements Move / MoveRight / MoveLeft / MoveUp / MoveDown.
func (e *Executor) moveRelCmd(v *wm.View, kind int, args string) {
	toks := strings.Fields(args)
	var dx, dy int
	switch kind {
	case command.MoveRelFree:
		if len(toks) < 2 {
			logger.Errorf("Move: invalid args: %s", args)
			return
		}
		x, err1 := strconv.Atoi(toks[0])
		y, err2 := strconv.Atoi(toks[1])
		if err1 != nil || err2 != nil {
			logger.Errorf("Move: invalid args: %s", args)
			return
		}
		dx, dy = x, y
	default:
		step := 2
		if len(toks) >= 1 {
			n, err := strconv.Atoi(toks[0])
			if err != nil {
				logger.Errorf("Move: invalid args: %s", args)
				return
			}
			step = n
		}
		switch kind {
		case command.MoveRelRight:
			dx = step
		case command.MoveRelLeft:
			dx = -step
		case command.MoveRelUp:
			dy = -step
		case command.MoveRelDown:
			dy = step
		}
	}

	e.prepareForManualGeometry(v)
	frame := v.FrameBox(e.Core.Theme)
	if e.moveFrame(v, frame.X+dx, frame.Y+dy, "move-rel") {
		logger.Infof("Move: %s dx=%d dy=%d", v.DisplayTitle(), dx, dy)
	}
}

// resizeToCmd implements `ResizeTo <w> <h>` in content pixels.
func (e *Executor) resizeToCmd(v *wm.View, args string) {
	toks := strings.Fields(args)
	if len(toks) < 2 {
		logger.Errorf("ResizeTo: invalid args: %s", args)
		return
	}
	w, err1 := strconv.Atoi(toks[0])
	h, err2 := strconv.Atoi(toks[1])
	if err1 != nil || err2 != nil || w < 1 || h < 1 {
		logger.Errorf("ResizeTo: invalid args: %s", args)
		return
	}
	e.prepareForManualGeometry(v)
	v.Resize(w, h, "resizeto")
	logger.Infof("ResizeTo: %s w=%d h=%d", v.DisplayTitle(), w, h)
}

// resizeRelCmd implements Resize / ResizeHorizontal / ResizeVertical.
func (e *Executor) resizeRelCmd(v *wm.View, kind int, args string) {
	toks := strings.Fields(args)
	var dw, dh int
	switch kind {
	case command.ResizeRelBoth:
		if len(toks) < 2 {
			logger.Errorf("Resize: invalid args: %s", args)
			return
		}
		w, err1 := strconv.Atoi(toks[0])
		h, err2 := strconv.Atoi(toks[1])
		if err1 != nil || err2 != nil {
			logger.Errorf("Resize: invalid args: %s", args)
			return
		}
		dw, dh = w, h
	case command.ResizeRelHorizontal:
		if len(toks) < 1 {
			return
		}
		n, err := strconv.Atoi(toks[0])
		if err != nil {
			logger.Errorf("Resize: invalid args: %s", args)
			return
		}
		dw = n
	case command.ResizeRelVertical:
		if len(toks) < 1 {
			return
		}
		n, err := strconv.Atoi(toks[0])
		if err != nil {
			logger.Errorf("Resize: invalid args: %s", args)
			return
		}
		dh = n
	}

	w := v.CurrentWidth() + dw
	h := v.CurrentHeight() + dh
	if w < 1 || h < 1 {
		return
	}
	e.prepareForManualGeometry(v)
	v.Resize(w, h, "resize-rel")
	logger.Infof("Resize: %s w=%d h=%d", v.DisplayTitle(), w, h)
}
