package command

import (
	"strconv"
	"strings"
)

// Resolved is the outcome of resolving one command line: the tagged action
// plus its integer argument and optional textual payload.
type Resolved struct {
	Action Action
	Arg    int
	Cmd    string
}

const argLimit = 100000

// parseOneBasedWorkspace converts "3" to workspace index 2. Zero is
// rejected; negative values pass through unchanged so relative forms keep
// working downstream.
func parseOneBasedWorkspace(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	ws, _, ok := leadingInt(s)
	if !ok || ws == 0 {
		return 0, false
	}
	if ws > 0 {
		ws--
	}
	if ws < -argLimit || ws > argLimit {
		return 0, false
	}
	return ws, true
}

// leadingInt parses a decimal prefix, returning the remainder.
func leadingInt(s string) (int, string, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, s, false
	}
	v, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, s, false
	}
	return v, s[i:], true
}

// parseLeadingIntDefault parses an optional integer argument, falling back
// to def on empty input and failing on garbage.
func parseLeadingIntDefault(s string, def int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, true
	}
	v, _, ok := leadingInt(s)
	if !ok || v < -argLimit || v > argLimit {
		return 0, false
	}
	return v, true
}

// parseLayerArg accepts a numeric layer or a §6.5 keyword.
func parseLayerArg(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	return parseLayerName(s)
}

func parseLayerName(s string) (int, bool) {
	switch strings.ToLower(s) {
	case "menu", "overlay":
		return 0, true
	case "abovedock":
		return 2, true
	case "dock":
		return 4, true
	case "top":
		return 6, true
	case "normal":
		return 8, true
	case "bottom":
		return 10, true
	case "desktop", "background":
		return 12, true
	}
	return 0, false
}

func hasAtLeastTokens(args string, n int) bool {
	return len(strings.Fields(args)) >= n
}

// SplitLine separates a command line into its name and argument string.
func SplitLine(line string) (name, args string) {
	line = strings.TrimSpace(line)
	if i := strings.IndexFunc(line, func(r rune) bool { return r == ' ' || r == '\t' }); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}

// ResolveLine resolves a full "<name> <args>" command line.
func ResolveLine(line string) (Resolved, bool) {
	name, args := SplitLine(line)
	return Resolve(name, args)
}

// Resolve maps one command name plus argument string to a tagged action.
// Name matching is case-insensitive; it returns false on unknown names or
// obviously malformed arguments, committing nothing.
func Resolve(name, args string) (Resolved, bool) {
	if name == "" {
		return Resolved{}, false
	}
	args = strings.TrimSpace(args)

	requireArgs := func(action Action) (Resolved, bool) {
		if args == "" {
			return Resolved{}, false
		}
		return Resolved{Action: action, Cmd: args}, true
	}
	optionalArgs := func(action Action) (Resolved, bool) {
		return Resolved{Action: action, Cmd: args}, true
	}
	plain := func(action Action) (Resolved, bool) {
		return Resolved{Action: action}, true
	}
	arrange := func(method int) (Resolved, bool) {
		return Resolved{Action: ActionArrangeWindows, Arg: method, Cmd: args}, true
	}
	workspaceOffset := func(action Action, sign int, nowrap bool) (Resolved, bool) {
		offset, ok := parseLeadingIntDefault(args, 1)
		if !ok {
			return Resolved{}, false
		}
		r := Resolved{Action: action, Arg: sign * offset}
		if nowrap {
			r.Cmd = "nowrap"
		}
		return r, true
	}

	switch strings.ToLower(name) {
	case "execcommand", "exec", "execute":
		return requireArgs(ActionExec)
	case "setenv", "export":
		return requireArgs(ActionSetEnv)
	case "commanddialog", "rundialog":
		return plain(ActionCommandDialog)
	case "exit", "quit":
		return plain(ActionExit)
	case "restart":
		return optionalArgs(ActionRestart)
	case "reconfig", "reconfigure":
		return plain(ActionReconfigure)
	case "reloadstyle":
		return plain(ActionReloadStyle)
	case "setstyle":
		return requireArgs(ActionSetStyle)
	case "saverc":
		return plain(ActionSaveRC)
	case "setresourcevalue":
		return requireArgs(ActionSetResourceValue)
	case "setresourcevaluedialog":
		return plain(ActionSetResourceValueDialog)
	case "keymode":
		return requireArgs(ActionKeyMode)
	case "bindkey":
		return requireArgs(ActionBindKey)

	case "nextwindow":
		return optionalArgs(ActionFocusNext)
	case "prevwindow":
		return optionalArgs(ActionFocusPrev)
	case "nextgroup":
		return optionalArgs(ActionFocusNextGroup)
	case "prevgroup":
		return optionalArgs(ActionFocusPrevGroup)
	case "gotowindow":
		if args == "" {
			return Resolved{}, false
		}
		num, rest, ok := leadingInt(args)
		if !ok {
			return Resolved{}, false
		}
		return Resolved{Action: ActionGotoWindow, Arg: num, Cmd: strings.TrimSpace(rest)}, true
	case "attach":
		return optionalArgs(ActionAttach)
	case "showdesktop":
		return plain(ActionShowDesktop)
	case "arrangewindows":
		return arrange(ArrangeUnspecified)
	case "arrangewindowsvertical":
		return arrange(ArrangeVertical)
	case "arrangewindowshorizontal":
		return arrange(ArrangeHorizontal)
	case "arrangewindowsstackleft":
		return arrange(ArrangeStackLeft)
	case "arrangewindowsstackright":
		return arrange(ArrangeStackRight)
	case "arrangewindowsstacktop":
		return arrange(ArrangeStackTop)
	case "arrangewindowsstackbottom":
		return arrange(ArrangeStackBottom)
	case "unclutter":
		return optionalArgs(ActionUnclutter)

	case "nexttab":
		return plain(ActionTabNext)
	case "prevtab":
		return plain(ActionTabPrev)
	case "tab":
		tab0 := 0
		if args != "" {
			tab, rest, ok := leadingInt(args)
			if !ok || strings.TrimSpace(rest) != "" {
				return Resolved{}, false
			}
			if tab < 1 || tab > argLimit {
				return Resolved{}, false
			}
			tab0 = tab - 1
		}
		return Resolved{Action: ActionTabGoto, Arg: tab0}, true
	case "activatetab":
		return plain(ActionTabActivate)
	case "movetableft":
		return plain(ActionMoveTabLeft)
	case "movetabright":
		return plain(ActionMoveTabRight)
	case "detachclient":
		return plain(ActionDetachClient)

	case "maximize", "maximizewindow":
		return plain(ActionToggleMaximize)
	case "maximizehorizontal":
		return plain(ActionToggleMaximizeHorizontal)
	case "maximizevertical":
		return plain(ActionToggleMaximizeVertical)
	case "fullscreen":
		return plain(ActionToggleFullscreen)
	case "minimize", "minimizewindow", "iconify":
		return plain(ActionToggleMinimize)
	case "deiconify":
		return optionalArgs(ActionDeiconify)

	case "markwindow":
		return plain(ActionMarkWindow)
	case "gotomarkedwindow":
		return plain(ActionGotoMarkedWindow)

	case "close":
		return plain(ActionClose)
	case "kill", "killwindow":
		return plain(ActionKill)
	case "closeallwindows":
		return plain(ActionCloseAllWindows)

	case "shade", "shadewindow":
		return plain(ActionToggleShade)
	case "shadeon":
		return plain(ActionShadeOn)
	case "shadeoff":
		return plain(ActionShadeOff)
	case "stick", "stickwindow":
		return plain(ActionToggleStick)
	case "stickon":
		return plain(ActionStickOn)
	case "stickoff":
		return plain(ActionStickOff)

	case "setalpha":
		return optionalArgs(ActionSetAlpha)
	case "toggledecor":
		return plain(ActionToggleDecor)
	case "setdecor":
		return requireArgs(ActionSetDecor)
	case "settitle":
		return optionalArgs(ActionSetTitle)
	case "settitledialog":
		return plain(ActionSetTitleDialog)

	case "windowmenu":
		return plain(ActionWindowMenu)
	case "rootmenu":
		return plain(ActionRootMenu)
	case "custommenu":
		if args == "" {
			return Resolved{}, false
		}
		return Resolved{Action: ActionRootMenu, Cmd: args}, true
	case "workspacemenu":
		return plain(ActionWorkspaceMenu)
	case "clientmenu":
		return optionalArgs(ActionClientMenu)
	case "hidemenu", "hidemenus":
		return plain(ActionHideMenus)

	case "addworkspace":
		return plain(ActionAddWorkspace)
	case "removelastworkspace":
		return plain(ActionRemoveLastWorkspace)
	case "setworkspacename":
		return optionalArgs(ActionSetWorkspaceName)
	case "setworkspacenamedialog":
		return plain(ActionSetWorkspaceNameDialog)

	case "toggletoolbarhidden", "toggletoolbarvisible":
		return plain(ActionToggleToolbarHidden)
	case "toggletoolbarabove":
		return plain(ActionToggleToolbarAbove)
	case "toggleslithidden":
		return plain(ActionToggleSlitHidden)
	case "toggleslitabove", "toggleslitbarabove":
		return plain(ActionToggleSlitAbove)

	case "workspace":
		ws0, ok := parseOneBasedWorkspace(args)
		if !ok {
			return Resolved{}, false
		}
		return Resolved{Action: ActionWorkspaceSwitch, Arg: ws0}, true
	case "nextworkspace":
		return workspaceOffset(ActionWorkspaceNext, 1, false)
	case "prevworkspace":
		return workspaceOffset(ActionWorkspacePrev, 1, false)
	case "rightworkspace":
		return workspaceOffset(ActionWorkspaceNext, 1, true)
	case "leftworkspace":
		return workspaceOffset(ActionWorkspacePrev, 1, true)

	case "sendtoworkspace":
		ws0, ok := parseOneBasedWorkspace(args)
		if !ok {
			return Resolved{}, false
		}
		return Resolved{Action: ActionSendToWorkspace, Arg: ws0}, true
	case "taketoworkspace":
		ws0, ok := parseOneBasedWorkspace(args)
		if !ok {
			return Resolved{}, false
		}
		return Resolved{Action: ActionTakeToWorkspace, Arg: ws0}, true
	case "sendtonextworkspace":
		return workspaceOffset(ActionSendToRelWorkspace, 1, false)
	case "sendtoprevworkspace":
		return workspaceOffset(ActionSendToRelWorkspace, -1, false)
	case "taketonextworkspace":
		return workspaceOffset(ActionTakeToRelWorkspace, 1, false)
	case "taketoprevworkspace":
		return workspaceOffset(ActionTakeToRelWorkspace, -1, false)

	case "sethead":
		head, ok := parseLeadingIntDefault(args, 1)
		if !ok {
			return Resolved{}, false
		}
		return Resolved{Action: ActionSetHead, Arg: head}, true
	case "sendtonexthead":
		return workspaceOffset(ActionSendToRelHead, 1, false)
	case "sendtoprevhead":
		return workspaceOffset(ActionSendToRelHead, -1, false)

	case "raise":
		return plain(ActionRaise)
	case "lower":
		return plain(ActionLower)
	case "raiselayer":
		offset, ok := parseLeadingIntDefault(args, 1)
		if !ok {
			return Resolved{}, false
		}
		return Resolved{Action: ActionRaiseLayer, Arg: offset}, true
	case "lowerlayer":
		offset, ok := parseLeadingIntDefault(args, 1)
		if !ok {
			return Resolved{}, false
		}
		return Resolved{Action: ActionLowerLayer, Arg: offset}, true
	case "setlayer":
		layer, ok := parseLayerArg(args)
		if !ok {
			return Resolved{}, false
		}
		return Resolved{Action: ActionSetLayer, Arg: layer}, true

	case "activate", "focus":
		if args != "" {
			return Resolved{Action: ActionGotoWindow, Arg: 1, Cmd: args}, true
		}
		return plain(ActionFocus)
	case "focusleft":
		return Resolved{Action: ActionFocusDir, Arg: FocusDirLeft}, true
	case "focusright":
		return Resolved{Action: ActionFocusDir, Arg: FocusDirRight}, true
	case "focusup":
		return Resolved{Action: ActionFocusDir, Arg: FocusDirUp}, true
	case "focusdown":
		return Resolved{Action: ActionFocusDir, Arg: FocusDirDown}, true

	case "moveto":
		if !hasAtLeastTokens(args, 2) {
			return Resolved{}, false
		}
		return Resolved{Action: ActionMoveTo, Cmd: args}, true
	case "move":
		return Resolved{Action: ActionMoveRel, Arg: MoveRelFree, Cmd: args}, true
	case "moveright":
		return Resolved{Action: ActionMoveRel, Arg: MoveRelRight, Cmd: args}, true
	case "moveleft":
		return Resolved{Action: ActionMoveRel, Arg: MoveRelLeft, Cmd: args}, true
	case "moveup":
		return Resolved{Action: ActionMoveRel, Arg: MoveRelUp, Cmd: args}, true
	case "movedown":
		return Resolved{Action: ActionMoveRel, Arg: MoveRelDown, Cmd: args}, true

	case "resizeto":
		if !hasAtLeastTokens(args, 2) {
			return Resolved{}, false
		}
		return Resolved{Action: ActionResizeTo, Cmd: args}, true
	case "resize":
		if !hasAtLeastTokens(args, 2) {
			return Resolved{}, false
		}
		return Resolved{Action: ActionResizeRel, Arg: ResizeRelBoth, Cmd: args}, true
	case "resizehorizontal":
		if !hasAtLeastTokens(args, 1) {
			return Resolved{}, false
		}
		return Resolved{Action: ActionResizeRel, Arg: ResizeRelHorizontal, Cmd: args}, true
	case "resizevertical":
		if !hasAtLeastTokens(args, 1) {
			return Resolved{}, false
		}
		return Resolved{Action: ActionResizeRel, Arg: ResizeRelVertical, Cmd: args}, true

	case "setxprop":
		if args == "" || len(args) < 2 || args[0] == '=' {
			return Resolved{}, false
		}
		return Resolved{Action: ActionSetXProp, Cmd: args}, true

	case "startmoving":
		return plain(ActionStartMoving)
	case "startresizing":
		return optionalArgs(ActionStartResizing)
	case "starttabbing":
		return plain(ActionStartTabbing)

	case "if", "cond":
		return requireArgs(ActionIf)
	case "foreach", "map":
		return requireArgs(ActionForeach)
	case "togglecmd":
		return requireArgs(ActionToggleCmd)
	case "delay":
		return requireArgs(ActionDelay)
	case "macrocmd":
		return requireArgs(ActionMacro)
	}

	return Resolved{}, false
}
