package server

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/logging"
	"github.com/fsnotify/fsnotify"
)

// WatchDebounceDelay groups bursts of editor writes into one reload.
const WatchDebounceDelay = 100 * time.Millisecond

// Watch reloads the configuration from path whenever it, a .env file next
// to it, or a module overlay under one of the module paths changes. It
// blocks until ctx is done. A config that fails to load is logged and the
// previous one kept.
func (s *Server) Watch(ctx context.Context, path string, onReload func(*config.ApplicationConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchDirs(path, s.Config()) {
		if err := watcher.Add(dir); err != nil {
			logging.Warn("Server", "failed to watch %s: %v", dir, err)
		}
	}

	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
	)
	defer func() {
		mu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) || !isConfigFile(event.Name) {
				continue
			}
			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				cfg, err := config.LoadConfig(path)
				if err != nil {
					logging.Error("Server", err, "reloading %s after change to %s", path, event.Name)
					return
				}
				s.SetConfig(cfg)
				logging.Info("Server", "reloaded %s after change to %s", path, event.Name)
				if onReload != nil {
					onReload(cfg)
				}
			})
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("Server", err, "watching %s", path)
		}
	}
}

func watchDirs(path string, cfg *config.ApplicationConfig) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if dir == "" || seen[dir] {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	add(filepath.Dir(path))
	for _, dir := range cfg.ModuleListenerOptions.ModulePaths {
		add(dir)
	}
	return dirs
}

func isConfigFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json", ".env":
		return true
	}
	return false
}
