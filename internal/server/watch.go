package server

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/fluxwl/internal/event"
	"github.com/bnema/fluxwl/internal/logger"
)

// WatchConfigFiles posts a Reconfigure onto the loop whenever the style or
// keys file changes on disk. Returns a stop function.
func (s *Server) WatchConfigFiles(loop *event.Loop) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	paths := []string{}
	if s.Config.Session.StyleFile != "" {
		paths = append(paths, s.Config.Session.StyleFile)
	}
	if s.Config.Session.KeysFile != "" {
		paths = append(paths, s.Config.Session.KeysFile)
	}
	watched := map[string]bool{}
	for _, p := range paths {
		dir := filepath.Dir(p)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			logger.Warnf("Watch: cannot watch %s: %v", dir, err)
			continue
		}
		watched[dir] = true
	}

	interesting := map[string]bool{}
	for _, p := range paths {
		interesting[filepath.Clean(p)] = true
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !interesting[filepath.Clean(ev.Name)] {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				logger.Infof("Watch: %s changed, reconfiguring", ev.Name)
				loop.Post(s.Reconfigure)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnf("Watch: %v", err)
			}
		}
	}()

	return func() { _ = watcher.Close() }, nil
}
