package wm

import (
	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/surface"
)

// Protection is the per-view focus-protection bitmask set by apps rules.
type Protection uint32

const (
	ProtectNone   Protection = 0
	ProtectGain   Protection = 1 << 0
	ProtectRefuse Protection = 1 << 1
	ProtectDeny   Protection = 1 << 2
)

// AppsRuleRef remembers which apps rule claimed this view so the rule's
// match counter can be released on close.
type AppsRuleRef struct {
	Index      int
	Generation uint64
	Applied    bool
}

// View is the first-class handle for one managed client surface.
type View struct {
	core *Core

	Surface surface.Toplevel
	Foreign surface.ForeignHandle
	Node    SceneNode

	// Content-area position and last committed size in layout coordinates.
	X, Y          int
	Width, Height int

	Mapped bool
	Placed bool

	Minimized  bool
	Maximized  bool
	MaximizedH bool
	MaximizedV bool
	Fullscreen bool
	Shaded     bool

	SavedX, SavedY int
	SavedW, SavedH int

	Workspace int
	Sticky    bool

	BaseLayer Layer
	InSlit    bool

	DecorEnabled bool
	DecorForced  bool
	DecorActive  bool
	DecorMask    uint32

	decorTitleCache  string
	decorTitleCacheW int

	TabGroup *TabGroup

	FocusProtection Protection
	IconHidden      bool
	FocusHidden     bool

	attention attentionState

	AppsRule AppsRuleRef

	AlphaSet       bool
	AlphaFocused   uint8
	AlphaUnfocused uint8
	AlphaIsDefault bool

	ForeignOutput *geom.Output

	CreateSeq     uint64
	TitleOverride string
}

// NewView wires a surface into the core with a fresh creation sequence.
// The view is not tracked until MapView is called.
func (c *Core) NewView(top surface.Toplevel, node SceneNode, foreign surface.ForeignHandle) *View {
	c.createSeq++
	v := &View{
		core:         c,
		Surface:      top,
		Foreign:      foreign,
		Node:         node,
		BaseLayer:    LayerNormal,
		DecorEnabled: true,
		DecorMask:    DecorMaskNormal,
		CreateSeq:    c.createSeq,
	}
	return v
}

// Kind returns the protocol flavor of the backing surface.
func (v *View) Kind() surface.Kind {
	if v == nil || v.Surface == nil {
		return surface.KindNative
	}
	return v.Surface.Kind()
}

func (v *View) legacy() surface.Legacy {
	if v == nil || v.Surface == nil || v.Surface.Kind() != surface.KindLegacy {
		return nil
	}
	l, _ := v.Surface.(surface.Legacy)
	return l
}

// Title is the client-provided title.
func (v *View) Title() string {
	if v == nil || v.Surface == nil {
		return ""
	}
	return v.Surface.Title()
}

// AppID is the application id (the X11 class for legacy surfaces).
func (v *View) AppID() string {
	if v == nil || v.Surface == nil {
		return ""
	}
	return v.Surface.AppID()
}

// Instance is the X11 WM_CLASS instance; empty for native surfaces.
func (v *View) Instance() string {
	if l := v.legacy(); l != nil {
		return l.Instance()
	}
	return ""
}

// Role is the X11 window role; empty for native surfaces.
func (v *View) Role() string {
	if l := v.legacy(); l != nil {
		return l.Role()
	}
	return ""
}

// DisplayTitle is the title the user sees: the override when set, else the
// client title, else the app id.
func (v *View) DisplayTitle() string {
	if v == nil {
		return "(no-title)"
	}
	if v.TitleOverride != "" {
		return v.TitleOverride
	}
	if t := v.Title(); t != "" {
		return t
	}
	if a := v.AppID(); a != "" {
		return a
	}
	return "(no-title)"
}

// CurrentWidth is the preferred current content width, falling back to the
// last committed size when the bookkeeping width is zero.
func (v *View) CurrentWidth() int {
	if v == nil {
		return 0
	}
	if v.Width > 0 {
		return v.Width
	}
	if v.Surface != nil {
		w, _ := v.Surface.CurrentSize()
		return w
	}
	return 0
}

// CurrentHeight mirrors CurrentWidth for the vertical axis.
func (v *View) CurrentHeight() int {
	if v == nil {
		return 0
	}
	if v.Height > 0 {
		return v.Height
	}
	if v.Surface != nil {
		_, h := v.Surface.CurrentSize()
		return h
	}
	return 0
}

// SaveGeometry records the pre-maximize/pre-fullscreen box. Callers must
// invoke it before entering any maximize axis or fullscreen.
func (v *View) SaveGeometry() {
	if v == nil {
		return
	}
	v.SavedX, v.SavedY = v.X, v.Y
	v.SavedW, v.SavedH = v.CurrentWidth(), v.CurrentHeight()
}

// IsTransient reports the legacy transient-for hint; native toplevel popups
// never become views in the first place.
func (v *View) IsTransient() bool {
	if l := v.legacy(); l != nil {
		return l.Transient()
	}
	return false
}

// IsUrgent reports whether the view currently demands attention.
func (v *View) IsUrgent() bool {
	if v == nil {
		return false
	}
	if v.attention.active {
		return true
	}
	if l := v.legacy(); l != nil {
		return l.DemandsAttention()
	}
	return false
}

// SetActivated forwards keyboard-focus state to the client and the foreign
// handle.
func (v *View) SetActivated(activated bool) {
	if v == nil || v.Surface == nil {
		return
	}
	v.Surface.SetActivated(activated)
	if v.Foreign != nil {
		v.Foreign.SetActivated(activated)
	}
}

// SetShaded rolls the view up into its titlebar. The scene keeps the
// decoration tree; only the content node toggles.
func (v *View) SetShaded(shaded bool, why string) {
	if v == nil || !v.Mapped || v.Shaded == shaded {
		return
	}
	v.Shaded = shaded
	if v.Node != nil {
		v.Node.SetEnabled(!shaded && v.core.viewVisibleOnWorkspace(v))
	}
	v.core.logf("Shade: %s %s reason=%s", v.DisplayTitle(), onOff(shaded), why)
}

// ForeignUpdateOutputFromPosition recomputes the output containing the view
// and announces it to foreign-toplevel listeners.
func (v *View) ForeignUpdateOutputFromPosition() {
	if v == nil || v.core == nil || v.core.Screens == nil {
		return
	}
	out := v.core.Screens.OutputForView(v.X, v.Y)
	if out == nil || out == v.ForeignOutput {
		return
	}
	v.ForeignOutput = out
	if v.Foreign != nil {
		v.Foreign.OutputEnter(out.Name)
	}
}

// Head returns the view's head index.
func (v *View) Head() int {
	if v == nil || v.core == nil || v.core.Screens == nil {
		return 0
	}
	out := v.ForeignOutput
	if out == nil {
		out = v.core.Screens.OutputForView(v.X, v.Y)
	}
	if out == nil {
		return 0
	}
	idx, _ := v.core.Screens.ScreenForOutput(out)
	return idx
}

// MoveTo repositions the content box and syncs the scene, tab siblings, and
// foreign output.
func (v *View) MoveTo(x, y int, why string) {
	if v == nil {
		return
	}
	v.X, v.Y = x, y
	if v.Node != nil {
		v.Node.SetPosition(x, y)
	}
	if l := v.legacy(); l != nil {
		l.Configure(x, y, v.CurrentWidth(), v.CurrentHeight())
	}
	if v.TabGroup != nil {
		v.TabGroup.SyncGeometryFromView(v, false, 0, 0, why)
	}
	v.ForeignUpdateOutputFromPosition()
}

// Resize requests a new content size from the client.
func (v *View) Resize(w, h int, why string) {
	if v == nil || w < 1 || h < 1 {
		return
	}
	if l := v.legacy(); l != nil {
		l.Configure(v.X, v.Y, w, h)
	} else if v.Surface != nil {
		v.Surface.SetSize(w, h)
	}
	v.Width, v.Height = w, h
	if v.TabGroup != nil {
		v.TabGroup.SyncGeometryFromView(v, true, w, h, why)
	}
	v.ForeignUpdateOutputFromPosition()
}

// SetInSlit moves the view in or out of the slit. Slit members lose their
// decorations and become sticky.
func (v *View) SetInSlit(inSlit bool) {
	if v == nil || v.InSlit == inSlit {
		return
	}
	v.InSlit = inSlit
	if inSlit {
		v.DecorSetEnabled(false)
		v.Sticky = true
	}
}

// Close asks the client to go away; force severs the connection.
func (v *View) Close(force bool) {
	if v == nil || v.Surface == nil {
		return
	}
	if force {
		v.Surface.Kill()
		return
	}
	v.Surface.SendClose()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
