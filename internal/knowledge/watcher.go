package knowledge

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sopsearch-cli/internal/logger"
)

// debounceDelay coalesces bursts of file events into one reload.
// Editors and ingest runs touch several collection files in a row.
const debounceDelay = 500 * time.Millisecond

// Watch blocks until ctx is cancelled, reloading the store whenever a
// collection file in a candidate directory changes. onReload, if not
// nil, is called after each successful reload.
func (s *Store) Watch(ctx context.Context, onReload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watching := 0
	for _, dir := range s.dirs {
		if err := watcher.Add(dir); err != nil {
			logger.Debug("Knowledge watcher: cannot watch %s: %v", dir, err)
			continue
		}
		watching++
	}
	if watching == 0 {
		logger.Warn("Knowledge watcher: no watchable directories")
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
				continue
			}
			logger.Debug("Knowledge watcher: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				timer.Reset(debounceDelay)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if err := s.Reload(); err != nil {
				logger.Warn("Knowledge watcher: reload failed: %v", err)
				continue
			}
			if onReload != nil {
				onReload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Knowledge watcher: %v", err)
		}
	}
}
