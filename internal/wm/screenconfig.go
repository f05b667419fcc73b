// Package wm implements the window-management core: the view population,
// tab groups, workspaces and heads, focus arbitration, and placement. It is
// driven exclusively from the compositor event loop.
package wm

// FocusModel selects how pointer motion and clicks affect keyboard focus.
type FocusModel int

const (
	// ClickToFocus focuses on button press only.
	ClickToFocus FocusModel = iota
	// MouseFocus focuses the view the pointer enters.
	MouseFocus
	// StrictMouseFocus keeps focus on the topmost view under the cursor
	// at all times, re-evaluated after every restack.
	StrictMouseFocus
)

func (m FocusModel) String() string {
	switch m {
	case MouseFocus:
		return "MouseFocus"
	case StrictMouseFocus:
		return "StrictMouseFocus"
	default:
		return "ClickToFocus"
	}
}

// PlacementStrategy selects how an unplaced view gets its initial position.
type PlacementStrategy int

const (
	PlaceRowSmart PlacementStrategy = iota
	PlaceColSmart
	PlaceCascade
	PlaceUnderMouse
	PlaceRowMinOverlap
	PlaceColMinOverlap
	PlaceAutoTab
)

// RowDirection and ColDirection orient the smart placement walks.
type RowDirection int

const (
	RowLeftToRight RowDirection = iota
	RowRightToLeft
)

type ColDirection int

const (
	ColTopToBottom ColDirection = iota
	ColBottomToTop
)

// TabsConfig groups the external tab bar settings.
type TabsConfig struct {
	InTitlebar bool
	MaxOver    bool
	UsePixmap  bool
	WidthPx    int
	PaddingPx  int
}

// DefaultTabsConfig mirrors the shipped defaults.
func DefaultTabsConfig() TabsConfig {
	return TabsConfig{
		InTitlebar: true,
		UsePixmap:  true,
		WidthPx:    64,
	}
}

// ScreenConfig is the per-head merged resource table. Head 0 is the
// fallback for heads without their own overrides.
type ScreenConfig struct {
	FocusModel       FocusModel
	FocusNewWindows  bool
	FocusSameHead    bool
	AutoRaise        bool
	AutoRaiseDelayMs int

	EdgeSnapThresholdPx int
	OpaqueMove          bool
	OpaqueResize        bool
	FullMaximization    bool
	WorkspaceWarping    bool

	Placement PlacementStrategy
	RowDir    RowDirection
	ColDir    ColDirection

	Tabs TabsConfig

	// DemandsAttentionTimeoutMs is the blink interval handed to the
	// attention protocol; 0 disables urgency blinking.
	DemandsAttentionTimeoutMs int

	AllowRemoteActions bool
}

// DefaultScreenConfig returns the head-0 fallback configuration.
func DefaultScreenConfig() ScreenConfig {
	return ScreenConfig{
		FocusModel:                ClickToFocus,
		FocusNewWindows:           true,
		AutoRaiseDelayMs:          250,
		EdgeSnapThresholdPx:       10,
		OpaqueMove:                true,
		OpaqueResize:              false,
		Placement:                 PlaceRowSmart,
		Tabs:                      DefaultTabsConfig(),
		DemandsAttentionTimeoutMs: 500,
	}
}
