// Package server wires the window-management core, the binding tables, and
// the executor onto one event loop, and adapts protocol events into view
// lifecycle calls.
package server

import (
	"os"
	"os/exec"
	"strings"

	"github.com/bnema/fluxwl/internal/apps"
	"github.com/bnema/fluxwl/internal/config"
	"github.com/bnema/fluxwl/internal/dispatch"
	"github.com/bnema/fluxwl/internal/event"
	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/logger"
	"github.com/bnema/fluxwl/internal/wm"
)

// Server is the compositor-side owner of the core. Everything here runs on
// the event loop; no locking.
type Server struct {
	Core     *wm.Core
	Clock    event.Clock
	Executor *dispatch.Executor
	Keys     *dispatch.Keybindings
	Mouse    *dispatch.Mousebindings
	Apps     *apps.Rules

	Config *config.Config

	// Cursor is the last known pointer position in layout coordinates.
	CursorX, CursorY int

	// KeyMode scopes the binding tables.
	KeyMode string

	// InitFile is where SaveRC persists session state.
	InitFile string

	// ViewAt resolves the topmost view under a layout point; installed by
	// the renderer integration. Nil disables strict mouse focus.
	ViewAt func(x, y int) *wm.View

	// terminate is called when an Exit or Restart action fires.
	terminate func()

	hooks dispatch.Hooks
}

// Options configures New.
type Options struct {
	Outputs   []*geom.Output
	Clock     event.Clock
	Config    *config.Config
	InitFile  string
	Terminate func()
}

// New builds a fully wired server.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Get()
	}
	clock := opts.Clock
	if clock == nil {
		clock = event.NewManualClock()
	}

	screens := geom.NewScreenMap(opts.Outputs)
	core := wm.NewCore(screens, wm.DefaultDecorTheme(), clock)
	core.Config = cfg.ScreenFor
	core.SetWorkspaceCount(cfg.Session.WorkspaceCount)
	for i, name := range cfg.WorkspaceNames() {
		core.SetWorkspaceName(i, name)
	}

	s := &Server{
		Core:      core,
		Clock:     clock,
		Keys:      &dispatch.Keybindings{},
		Mouse:     &dispatch.Mousebindings{},
		Apps:      apps.NewRules(),
		Config:    cfg,
		InitFile:  opts.InitFile,
		terminate: opts.Terminate,
	}
	if s.InitFile == "" {
		s.InitFile = config.InitFilePath()
	}

	core.SetRefocusFilter(s.refocusCandidateAllowed)
	core.SetFocusObserver(func(old, new *wm.View, reason wm.FocusReason) {
		s.strictMouseFocusReconfigure()
	})

	s.hooks = dispatch.Hooks{
		Terminate: func() {
			logger.Info("Server: terminate requested")
			if s.terminate != nil {
				s.terminate()
			}
		},
		Restart: func(cmd string) {
			logger.Infof("Server: restart requested cmd=%s", cmd)
			if s.terminate != nil {
				s.terminate()
			}
		},
		Spawn:       s.Spawn,
		Reconfigure: s.Reconfigure,
		KeyModeSet: func(name string) {
			s.KeyMode = strings.TrimSpace(name)
			logger.Infof("KeyMode: set mode=%s", s.KeyMode)
		},
		SaveRC: s.SaveRC,
		SetResourceValue: func(args string) bool {
			return s.setResourceValue(args)
		},
		WorkspaceCurrent: func(x, y int) int {
			head := s.Core.Screens.ScreenAt(x, y)
			return s.Core.WorkspaceCurrentForHead(head)
		},
		WorkspaceSwitch: func(x, y, ws int, why string) {
			head := s.Core.Screens.ScreenAt(x, y)
			s.WorkspaceSwitchOnHead(head, ws, why)
		},
		CycleViewAllowed:   s.cycleViewAllowed,
		ViewUnderCursor:    s.viewUnderCursor,
		StrictFocusRecheck: s.strictFocusRecheckAfterRestack,
	}
	s.Executor = dispatch.NewExecutor(core, clock, &s.hooks)
	s.Keys.AddDefaults(cfg.Session.TerminalCmd)
	return s
}

// Hooks exposes the hook table for the embedding to extend (menus, grabs,
// toolbar) before the loop starts.
func (s *Server) Hooks() *dispatch.Hooks {
	return &s.hooks
}

// Shutdown flushes process-wide command-language state and timers.
func (s *Server) Shutdown() {
	if s.Executor != nil && s.Executor.State != nil {
		s.Executor.State.Flush()
	}
	for _, v := range s.Core.SnapshotViews() {
		s.Core.DestroyView(v)
	}
}

// Spawn fork-execs a command line through the shell.
func (s *Server) Spawn(cmdLine string) {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		return
	}
	cmd := exec.Command("/bin/sh", "-c", cmdLine)
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		logger.Errorf("Spawn: %s failed: %v", cmdLine, err)
		return
	}
	logger.Infof("Spawn: pid=%d cmd=%s", cmd.Process.Pid, cmdLine)
	go func() {
		_ = cmd.Wait()
	}()
}

// Reconfigure reloads the resource database and reapplies it to the core.
func (s *Server) Reconfigure() {
	config.Reset()
	if err := config.Init(); err != nil {
		logger.Errorf("Reconfigure: %v", err)
		return
	}
	s.Config = config.Get()
	s.Core.Config = s.Config.ScreenFor
	s.Core.SetWorkspaceCount(s.Config.Session.WorkspaceCount)
	for i, name := range s.Config.WorkspaceNames() {
		s.Core.SetWorkspaceName(i, name)
	}
	s.Core.ApplyWorkspaceVisibility("reconfigure")
	logger.Info("Reconfigure: done")
}

// SaveRC persists workspace count/names and session keys via the atomic
// init-file rewrite.
func (s *Server) SaveRC() {
	names := make([]string, 0, s.Core.WorkspaceNamesLen())
	for i := 0; i < s.Core.WorkspaceNamesLen(); i++ {
		names = append(names, s.Core.WorkspaceName(i))
	}
	if err := config.SaveRC(s.InitFile, s.Config, s.Core.WorkspaceCount(), names); err != nil {
		logger.Errorf("SaveRC: %v", err)
		return
	}
	logger.Infof("SaveRC: wrote %s", s.InitFile)
}

// setResourceValue applies a `key value` resource update and saves.
func (s *Server) setResourceValue(args string) bool {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		logger.Errorf("SetResourceValue: invalid args: %s", args)
		return false
	}
	key := fields[0]
	value := strings.Join(fields[1:], " ")

	switch strings.ToLower(key) {
	case "session.workspaces":
		n, err := parsePositiveInt(value)
		if err != nil {
			logger.Errorf("SetResourceValue: %s: %v", key, err)
			return false
		}
		s.Core.SetWorkspaceCount(n)
	case "session.screen0.focusmodel":
		if len(s.Config.Screens) > 0 {
			s.Config.Screens[0].FocusModel = value
		}
	default:
		logger.Errorf("SetResourceValue: unknown key: %s", key)
		return false
	}
	s.SaveRC()
	return true
}

// WorkspaceSwitchOnHead switches one head's workspace, reapplies
// visibility exactly once, and fires the change-workspace bindings.
func (s *Server) WorkspaceSwitchOnHead(head, ws int, why string) {
	if ws < 0 || ws >= s.Core.WorkspaceCount() {
		return
	}
	if s.Core.WorkspaceCurrentForHead(head) == ws {
		return
	}
	s.Core.WorkspaceSwitchOnHead(head, ws)
	s.Core.ApplyWorkspaceVisibility(why)
	logger.Infof("Workspace: switch head=%d ws=%d reason=%s", head, ws+1, why)

	s.Core.Refocus()
	s.Keys.HandleChangeWorkspace(s.Executor, s.KeyMode, dispatch.Invocation{
		CursorX: s.CursorX, CursorY: s.CursorY,
	})
}
