// Package command resolves textual command lines into tagged actions. The
// executor in internal/dispatch gives each action exactly one arm.
package command

// Action tags one executable command.
type Action int

const (
	ActionExit Action = iota
	ActionRestart
	ActionExec
	ActionSetEnv
	ActionCommandDialog
	ActionReconfigure
	ActionReloadStyle
	ActionSetStyle
	ActionSaveRC
	ActionSetResourceValue
	ActionSetResourceValueDialog
	ActionKeyMode
	ActionBindKey

	ActionIf
	ActionForeach
	ActionToggleCmd
	ActionDelay
	ActionMacro

	ActionFocusNext
	ActionFocusPrev
	ActionFocusNextGroup
	ActionFocusPrevGroup
	ActionGotoWindow
	ActionAttach
	ActionShowDesktop
	ActionArrangeWindows
	ActionUnclutter

	ActionTabNext
	ActionTabPrev
	ActionTabGoto
	ActionTabActivate
	ActionMoveTabLeft
	ActionMoveTabRight
	ActionDetachClient

	ActionToggleMaximize
	ActionToggleMaximizeHorizontal
	ActionToggleMaximizeVertical
	ActionToggleFullscreen
	ActionToggleMinimize
	ActionDeiconify

	ActionMarkWindow
	ActionGotoMarkedWindow

	ActionClose
	ActionKill
	ActionCloseAllWindows

	ActionToggleShade
	ActionShadeOn
	ActionShadeOff
	ActionToggleStick
	ActionStickOn
	ActionStickOff

	ActionSetAlpha
	ActionToggleDecor
	ActionSetDecor
	ActionSetTitle
	ActionSetTitleDialog

	ActionWindowMenu
	ActionRootMenu
	ActionWorkspaceMenu
	ActionClientMenu
	ActionHideMenus

	ActionAddWorkspace
	ActionRemoveLastWorkspace
	ActionSetWorkspaceName
	ActionSetWorkspaceNameDialog

	ActionToggleToolbarHidden
	ActionToggleToolbarAbove
	ActionToggleSlitHidden
	ActionToggleSlitAbove

	ActionWorkspaceSwitch
	ActionWorkspaceNext
	ActionWorkspacePrev
	ActionSendToWorkspace
	ActionTakeToWorkspace
	ActionSendToRelWorkspace
	ActionTakeToRelWorkspace

	ActionSetHead
	ActionSendToRelHead

	ActionRaise
	ActionLower
	ActionRaiseLayer
	ActionLowerLayer
	ActionSetLayer

	ActionFocus
	ActionFocusDir

	ActionSetXProp

	ActionStartMoving
	ActionStartResizing
	ActionStartTabbing

	ActionMoveTo
	ActionMoveRel
	ActionResizeTo
	ActionResizeRel

	// ActionChangeWorkspace tags the synthetic change-workspace binding
	// kind; it never comes out of the resolver.
	ActionChangeWorkspace
)

// Arrange methods carried in the ArrangeWindows arg.
const (
	ArrangeUnspecified = 0
	ArrangeVertical    = 1
	ArrangeHorizontal  = 2
	ArrangeStackLeft   = 3
	ArrangeStackRight  = 4
	ArrangeStackTop    = 5
	ArrangeStackBottom = 6
)

// Directions carried in the FocusDir arg.
const (
	FocusDirLeft = iota
	FocusDirRight
	FocusDirUp
	FocusDirDown
)

// Relative move kinds carried in the MoveRel arg.
const (
	MoveRelFree = iota
	MoveRelRight
	MoveRelLeft
	MoveRelUp
	MoveRelDown
)

// Relative resize kinds carried in the ResizeRel arg.
const (
	ResizeRelBoth = iota
	ResizeRelHorizontal
	ResizeRelVertical
)
