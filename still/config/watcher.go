/*
DESCRIPTION
  watcher.go provides Watcher, which reloads a configuration file into a Live
  config whenever the file changes.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ausocean/utils/logging"
)

// Used to indicate package in logging.
const pkg = "config: "

const defaultDebounce = 500 * time.Millisecond

// Watcher watches a configuration file and applies it to a Live config on
// every change. Bursts of events are debounced.
type Watcher struct {
	path     string
	debounce time.Duration
	live     *Live
	log      logging.Logger
	onReload func(Config)

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce duration for file changes.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithReloadHandler sets a function called with the new Config after each
// reload.
func WithReloadHandler(f func(Config)) WatcherOption {
	return func(w *Watcher) { w.onReload = f }
}

// NewWatcher returns a Watcher for the file at path updating live.
func NewWatcher(path string, live *Live, l logging.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		live:     live,
		log:      l,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching the file. The directory is watched so that a file
// replaced by rename is still followed.
func (w *Watcher) Start() error {
	_, err := os.Stat(w.path)
	if err != nil {
		return fmt.Errorf("could not watch %s: %w", w.path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	err = fw.Add(filepath.Dir(w.path))
	if err != nil {
		fw.Close()
		return fmt.Errorf("could not watch %s: %w", w.path, err)
	}
	w.watcher = fw
	w.done = make(chan struct{})

	w.log.Info(pkg+"watching config file", "path", w.path, "debounce", w.debounce)
	w.wg.Add(1)
	go w.watch()
	return nil
}

// Stop stops watching and waits for the watch routine to return.
func (w *Watcher) Stop() error {
	if w == nil || w.watcher == nil {
		return nil
	}
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	w.watcher = nil
	return err
}

func (w *Watcher) watch() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Some editors replace the file rather than writing it.
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.log.Debug(pkg+"config file change detected", "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warning(pkg+"config watcher error", "error", err.Error())
		}
	}
}

func (w *Watcher) reload() {
	vars, err := LoadFile(w.path)
	if err != nil {
		w.log.Warning(pkg+"could not reload config", "error", err.Error())
		return
	}
	c := w.live.Update(vars)
	w.log.Info(pkg+"config reloaded", "vars", len(vars))
	if w.onReload != nil {
		w.onReload(c)
	}
}
