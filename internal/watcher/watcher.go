// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package watcher reloads when the combined-models configuration changes on disk.
// It watches the parent directories of the configured files, so files that do
// not exist yet, or that editors replace by rename, are still picked up.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle.
const DefaultDebounce = 100 * time.Millisecond

// ErrNoPaths is returned when a watcher is created without files to watch.
var ErrNoPaths = errors.New("watcher: no paths to watch")

// Watcher invokes a callback after any of a set of files changes.
type Watcher struct {
	files    map[string]struct{}
	dirs     []string
	onChange func()
	debounce time.Duration

	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for paths. onChange runs on the watcher goroutine,
// once per settled burst of changes.
func New(paths []string, onChange func()) (*Watcher, error) {
	w := &Watcher{
		files:    make(map[string]struct{}, len(paths)),
		onChange: onChange,
		debounce: DefaultDebounce,
	}
	seenDirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("watcher: resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := seenDirs[dir]; !ok {
			seenDirs[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	if len(w.files) == 0 {
		return nil, ErrNoPaths
	}
	return w, nil
}

// SetDebounce changes the settle delay. It must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	added := 0
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			log.Warnf("watcher: cannot watch %s: %v", dir, err)
			continue
		}
		added++
	}
	if added == 0 {
		_ = fsw.Close()
		return fmt.Errorf("watcher: none of %d directories could be watched", len(w.dirs))
	}

	w.fsw = fsw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	go w.run(fsw, w.stopCh, w.doneCh)
	return nil
}

// Stop ends watching and waits for the background goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	fsw, stopCh, doneCh := w.fsw, w.stopCh, w.doneCh
	w.mu.Unlock()
	if fsw == nil {
		return
	}
	w.stopOnce.Do(func() {
		close(stopCh)
		_ = fsw.Close()
		<-doneCh
	})
}

func (w *Watcher) run(fsw *fsnotify.Watcher, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			log.Debugf("watcher: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			log.Infof("Configuration changed, recombining...")
			if w.onChange != nil {
				w.onChange()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.Errorf("watcher error: %v", err)
		case <-stopCh:
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}
