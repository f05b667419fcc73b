package dispatch

import (
	"strings"

	"github.com/bnema/fluxwl/internal/command"
)

// Modifier is the masked modifier state a binding matches on.
type Modifier uint32

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModLogo
	ModMod2
	ModMod3
	ModMod5
)

// ModMask is the set of modifiers bindings are compared under; anything
// outside it (caps lock state and friends) is ignored.
const ModMask = ModShift | ModCtrl | ModAlt | ModLogo | ModMod2 | ModMod3 | ModMod5

// KeyKind discriminates how a keybinding entry matches.
type KeyKind int

const (
	// BindKeysym matches the translated key symbol, lower-cased.
	BindKeysym KeyKind = iota
	// BindKeycode matches the raw keycode.
	BindKeycode
	// BindPlaceholder matches by modifiers alone, only when no
	// keysym/keycode entry matched.
	BindPlaceholder
	// BindChangeWorkspace fires on workspace-changed events, not keys.
	BindChangeWorkspace
)

// Keybinding is one entry in the ordered key table.
type Keybinding struct {
	ID        int
	Kind      KeyKind
	Sym       string
	Keycode   uint32
	Modifiers Modifier
	Action    command.Action
	Arg       int
	Cmd       string
	Mode      string
}

// Keybindings is the ordered key table; later entries override earlier.
type Keybindings struct {
	entries []Keybinding
	nextID  int
}

func modeIsDefault(mode string) bool {
	return mode == "" || strings.EqualFold(mode, "default")
}

func modeMatches(bindingMode, currentMode string) bool {
	bd := modeIsDefault(bindingMode)
	cd := modeIsDefault(currentMode)
	if bd && cd {
		return true
	}
	if bd || cd {
		return false
	}
	return bindingMode == currentMode
}

func (k *Keybindings) push(b Keybinding) *Keybinding {
	k.nextID++
	b.ID = k.nextID
	b.Modifiers &= ModMask
	k.entries = append(k.entries, b)
	return &k.entries[len(k.entries)-1]
}

// Add appends a keysym binding.
func (k *Keybindings) Add(sym string, mods Modifier, action command.Action, arg int, cmd, mode string) {
	k.push(Keybinding{Kind: BindKeysym, Sym: strings.ToLower(sym), Modifiers: mods,
		Action: action, Arg: arg, Cmd: cmd, Mode: mode})
}

// AddKeycode appends a raw-keycode binding.
func (k *Keybindings) AddKeycode(keycode uint32, mods Modifier, action command.Action, arg int, cmd, mode string) {
	k.push(Keybinding{Kind: BindKeycode, Keycode: keycode, Modifiers: mods,
		Action: action, Arg: arg, Cmd: cmd, Mode: mode})
}

// AddPlaceholder appends a modifier-only fallback binding.
func (k *Keybindings) AddPlaceholder(mods Modifier, action command.Action, arg int, cmd, mode string) {
	k.push(Keybinding{Kind: BindPlaceholder, Modifiers: mods,
		Action: action, Arg: arg, Cmd: cmd, Mode: mode})
}

// AddChangeWorkspace appends an entry fired on workspace changes.
func (k *Keybindings) AddChangeWorkspace(action command.Action, arg int, cmd, mode string) {
	k.push(Keybinding{Kind: BindChangeWorkspace, Action: action, Arg: arg, Cmd: cmd, Mode: mode})
}

// Clear drops every entry.
func (k *Keybindings) Clear() {
	k.entries = nil
}

// Len returns the entry count.
func (k *Keybindings) Len() int {
	return len(k.entries)
}

// AddDefaults installs the stock bindings used before a keys file loads.
func (k *Keybindings) AddDefaults(terminalCmd string) {
	k.Add("escape", ModAlt, command.ActionExit, 0, "", "")
	k.Add("return", ModAlt, command.ActionExec, 0, terminalCmd, "")
	k.Add("f2", ModAlt, command.ActionCommandDialog, 0, "", "")
	k.Add("f1", ModAlt, command.ActionFocusNext, 0, "", "")
	k.Add("m", ModAlt, command.ActionToggleMaximize, 0, "", "")
	k.Add("f", ModAlt, command.ActionToggleFullscreen, 0, "", "")
	k.Add("i", ModAlt, command.ActionToggleMinimize, 0, "", "")
	for i := 0; i < 9; i++ {
		digit := string(rune('1' + i))
		k.Add(digit, ModAlt, command.ActionWorkspaceSwitch, i, "", "")
		k.Add(digit, ModAlt|ModCtrl, command.ActionSendToWorkspace, i, "", "")
	}
}

// Handle matches a key event against the table, later entries first, and
// executes the match through the executor. Placeholder entries only fire
// when nothing more specific matched.
func (k *Keybindings) Handle(e *Executor, keycode uint32, sym string, mods Modifier, currentMode string, inv Invocation) bool {
	if k == nil || len(k.entries) == 0 || e == nil {
		return false
	}
	sym = strings.ToLower(sym)
	mods &= ModMask

	var placeholder *Keybinding
	for i := len(k.entries) - 1; i >= 0; i-- {
		b := &k.entries[i]
		if !modeMatches(b.Mode, currentMode) {
			continue
		}
		if b.Modifiers != mods {
			continue
		}
		switch b.Kind {
		case BindPlaceholder:
			if placeholder == nil {
				placeholder = b
			}
		case BindKeycode:
			if b.Keycode == keycode {
				inv.Scope = b.ID
				return e.Execute(command.Resolved{Action: b.Action, Arg: b.Arg, Cmd: b.Cmd}, &inv)
			}
		case BindKeysym:
			if b.Sym == sym {
				inv.Scope = b.ID
				return e.Execute(command.Resolved{Action: b.Action, Arg: b.Arg, Cmd: b.Cmd}, &inv)
			}
		}
	}

	if placeholder != nil {
		inv.PlaceholderKeycode = keycode
		inv.Scope = placeholder.ID
		return e.Execute(command.Resolved{Action: placeholder.Action, Arg: placeholder.Arg, Cmd: placeholder.Cmd}, &inv)
	}
	return false
}

// HandleChangeWorkspace fires the change-workspace entries after a
// workspace switch.
func (k *Keybindings) HandleChangeWorkspace(e *Executor, currentMode string, inv Invocation) bool {
	if k == nil || e == nil {
		return false
	}
	for i := len(k.entries) - 1; i >= 0; i-- {
		b := &k.entries[i]
		if b.Kind != BindChangeWorkspace || b.Modifiers != 0 {
			continue
		}
		if !modeMatches(b.Mode, currentMode) {
			continue
		}
		inv.Scope = b.ID
		return e.Execute(command.Resolved{Action: b.Action, Arg: b.Arg, Cmd: b.Cmd}, &inv)
	}
	return false
}

// MouseContext tags where on screen a mouse binding applies.
type MouseContext int

const (
	ContextDesktop MouseContext = iota
	ContextWindow
	ContextTitlebar
	ContextHandle
	ContextToolbar
	ContextSlit
	ContextTabs
)

// MouseEventKind is the pointer event class a binding matches.
type MouseEventKind int

const (
	MousePress MouseEventKind = iota
	MouseRelease
	MouseMotion
)

// Mousebinding is one entry in the ordered mouse table.
type Mousebinding struct {
	ID        int
	Context   MouseContext
	Event     MouseEventKind
	Button    uint32
	Modifiers Modifier
	Action    command.Action
	Arg       int
	Cmd       string
	Mode      string
}

// Mousebindings is the ordered mouse table; later entries override earlier.
type Mousebindings struct {
	entries []Mousebinding
	nextID  int
}

// Add appends a mouse binding.
func (m *Mousebindings) Add(ctx MouseContext, ev MouseEventKind, button uint32, mods Modifier,
	action command.Action, arg int, cmd, mode string) {
	m.nextID++
	m.entries = append(m.entries, Mousebinding{
		ID: m.nextID, Context: ctx, Event: ev, Button: button,
		Modifiers: mods & ModMask, Action: action, Arg: arg, Cmd: cmd, Mode: mode,
	})
}

// Clear drops every entry.
func (m *Mousebindings) Clear() {
	m.entries = nil
}

// Len returns the entry count.
func (m *Mousebindings) Len() int {
	return len(m.entries)
}

// Handle matches a pointer event and executes the binding. Returns false
// when nothing matched or the action declined, so the caller can forward
// the event to the client.
func (m *Mousebindings) Handle(e *Executor, ctx MouseContext, ev MouseEventKind, button uint32,
	mods Modifier, currentMode string, inv Invocation) bool {
	if m == nil || e == nil {
		return false
	}
	mods &= ModMask
	for i := len(m.entries) - 1; i >= 0; i-- {
		b := &m.entries[i]
		if b.Context != ctx || b.Event != ev || b.Button != button || b.Modifiers != mods {
			continue
		}
		if !modeMatches(b.Mode, currentMode) {
			continue
		}
		inv.Scope = -b.ID // distinct scope space from keybindings
		inv.Button = button
		return e.Execute(command.Resolved{Action: b.Action, Arg: b.Arg, Cmd: b.Cmd}, &inv)
	}
	return false
}
