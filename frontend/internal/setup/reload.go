package setup

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/henhouse-dev/henhouse/frontend/internal/handler"
	"github.com/henhouse-dev/henhouse/shared/logger"
)

// watchTemplates reparses the template directory whenever an .html file in
// it changes and swaps the result into h. Bursts of events, as editors
// produce on save, collapse into one reload. A template that fails to parse
// is logged and the previous set stays live.
func watchTemplates(ctx context.Context, h *handler.Handler, tmplPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(tmplPath); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", tmplPath, err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		templates, err := loadTemplates(tmplPath)
		if err != nil {
			logger.Log.Error("reloading templates", "error", err)
			return
		}
		h.SetTemplates(templates)
		logger.Log.Info("templates reloaded", "count", len(templates))
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				mu.Unlock()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Ext(event.Name) != ".html" || !event.Op.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
					continue
				}
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(templateReloadDebounce, reload)
				mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Log.Warn("template watcher error", "error", err)
			}
		}
	}()
	return nil
}
