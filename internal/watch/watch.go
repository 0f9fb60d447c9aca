// Package watch re-runs the harness whenever an exercise file changes,
// giving learners the edit-save-feedback loop the exercises are built
// around.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"excheck/internal/registry"
)

// DefaultDebounce batches the event bursts editors produce on save.
const DefaultDebounce = 300 * time.Millisecond

// Config describes one watch session.
type Config struct {
	Root     string
	Debounce time.Duration
}

// Run watches the exercise tree rooted at cfg.Root and invokes rerun after
// each debounced batch of relevant changes, plus once immediately so the
// learner sees the current state. It blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config, logger *zap.Logger, rerun func(context.Context)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, cfg.Root); err != nil {
		return err
	}

	rerun(ctx)

	timer := time.NewTimer(cfg.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// New directories must be picked up so nested exercises
			// keep triggering re-runs.
			if event.Has(fsnotify.Create) {
				if err := addTree(watcher, event.Name); err != nil {
					logger.Warn("cannot watch new path, changes under it will not trigger re-runs",
						zap.String("path", event.Name),
						zap.Error(err),
					)
				} else {
					logger.Debug("watching new directory", zap.String("path", event.Name))
				}
			}

			if !relevant(event) {
				continue
			}

			logger.Debug("exercise change detected",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()),
			)

			if pending {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
			timer.Reset(cfg.Debounce)
			pending = true

		case <-timer.C:
			pending = false
			rerun(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// relevant filters the event stream down to changes that can alter a run's
// outcome: writes, creates, removes and renames of exercise files.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return registry.Recognized(filepath.Base(event.Name))
}

// addTree registers path and every directory below it. Non-directories and
// vanished paths are ignored; the caller may race against deletions.
func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
