// Copyright (c) Face SDK contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package face

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceInterval coalesces bursts of file events into one reconcile pass.
const debounceInterval = 200 * time.Millisecond

// Watch monitors the animation root with fsnotify and keeps the caches in
// sync until ctx is cancelled: new or changed animation directories are
// re-discovered, removed ones leave both caches, and changed ones are
// evicted from the frame cache so the next load decodes fresh frames.
//
// Watch blocks; run it on its own goroutine. Animations registered by hand
// through AddSubanimation are not watcher-managed and are left alone.
func (l *Library) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := l.watchDirs(w, l.root); err != nil {
		return err
	}

	l.logger.Info("watcher started", slog.String("root", l.root))

	dirty := make(map[string]struct{})

	// reconcileTimer debounces bursts of events into one reconcile pass.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	schedule := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(debounceInterval)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(debounceInterval)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			l.logger.Info("watcher stopped")
			return nil

		case <-reconcileCh:
			l.reconcile(w, dirty)
			dirty = make(map[string]struct{})

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if name, ok := l.animationFor(ev.Name); ok {
				dirty[name] = struct{}{}
			}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// animationFor maps an event path to the animation directory it belongs to.
func (l *Library) animationFor(path string) (string, bool) {
	rel, err := filepath.Rel(l.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	parts := strings.SplitN(filepath.ToSlash(rel), "/", 2)
	return parts[0], parts[0] != ""
}

// reconcile re-discovers the root and applies the differences to the
// caches. Animations whose files changed (dirty) are evicted from the frame
// cache even when their discovered shape is unchanged, since a frame file
// may have been rewritten in place.
func (l *Library) reconcile(w *fsnotify.Watcher, dirty map[string]struct{}) {
	found, err := l.discoverAnimations(l.root)
	if err != nil {
		l.logger.Warn("rediscovery reported invalid animations", slog.String("error", err.Error()))
	}

	l.mu.Lock()
	for name, src := range l.pathCache {
		if !strings.HasPrefix(src.Path, l.root) {
			continue // not under the watched root
		}
		if _, ok := found[name]; !ok {
			delete(l.pathCache, name)
			delete(l.frameCache, name)
			delete(l.active, name)
			l.logger.Info("animation removed", slog.String("name", name))
		}
	}
	for name, src := range found {
		prev, known := l.pathCache[name]
		l.pathCache[name] = src

		_, isDirty := dirty[name]
		if known && !isDirty && sourcesEqual(prev, src) {
			continue
		}
		delete(l.frameCache, name)
		l.logger.Info("animation changed", slog.String("name", name))
	}
	l.mu.Unlock()

	// Newly created directories need to be watched too.
	if err := l.watchDirs(w, l.root); err != nil {
		l.logger.Warn("watch new directories", slog.String("error", err.Error()))
	}
}

// watchDirs registers root and every directory below it with the watcher.
func (l *Library) watchDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func sourcesEqual(a, b *AnimationSource) bool {
	return a.Path == b.Path &&
		a.Transition.PlaybackPath == b.Transition.PlaybackPath &&
		a.Idle.PlaybackPath == b.Idle.PlaybackPath &&
		slices.Equal(a.Transition.FramePaths, b.Transition.FramePaths) &&
		slices.Equal(a.Idle.FramePaths, b.Idle.FramePaths)
}
