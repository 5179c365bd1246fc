/*
DESCRIPTION
  watcher_test.go provides testing for the config file Watcher.

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
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/ausocean/utils/logging"
)

func TestWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.toml")
	err := os.WriteFile(path, []byte("still-change-time = 500\n"), 0o644)
	if err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	l := (*logging.TestLogger)(t)
	live := NewLive(New(l))
	reloaded := make(chan Config, 4)
	w := NewWatcher(path, live, l,
		WithDebounce(50*time.Millisecond),
		WithReloadHandler(func(c Config) { reloaded <- c }),
	)
	err = w.Start()
	if err != nil {
		t.Fatalf("could not start watcher: %v", err)
	}
	defer w.Stop()

	err = os.WriteFile(path, []byte("still-change-time = 900\nuse-stale-frame = 1\n"), 0o644)
	if err != nil {
		t.Fatalf("could not rewrite config file: %v", err)
	}

	select {
	case c := <-reloaded:
		if c.StillChangeTime != 900 || !c.UseStaleFrame {
			t.Errorf("unexpected reloaded config: change time %d, stale %v", c.StillChangeTime, c.UseStaleFrame)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("config was not reloaded")
	}

	got := live.Load()
	if got.StillChangeTime != 900 {
		t.Errorf("live config not updated, got: %d", got.StillChangeTime)
	}
}

func TestWatcherMissingFile(t *testing.T) {
	l := (*logging.TestLogger)(t)
	w := NewWatcher(filepath.Join(t.TempDir(), "none.toml"), NewLive(New(l)), l)
	if err := w.Start(); err == nil {
		w.Stop()
		t.Error("expected error watching missing file")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("unexpected error stopping unstarted watcher: %v", err)
	}
}

// Saving by writing a temporary file and renaming it over the config, as
// many editors do, is followed on every save. Other files in the directory
// are ignored.
func TestWatcherRenameSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "still.toml")
	err := os.WriteFile(path, []byte("still-change-time = 500\n"), 0o644)
	if err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	l := (*logging.TestLogger)(t)
	live := NewLive(New(l))
	reloaded := make(chan Config, 4)
	w := NewWatcher(path, live, l,
		WithDebounce(50*time.Millisecond),
		WithReloadHandler(func(c Config) { reloaded <- c }),
	)
	err = w.Start()
	if err != nil {
		t.Fatalf("could not start watcher: %v", err)
	}
	defer w.Stop()

	err = os.WriteFile(filepath.Join(dir, "other.toml"), []byte("still-change-time = 700\n"), 0o644)
	if err != nil {
		t.Fatalf("could not write other file: %v", err)
	}
	select {
	case c := <-reloaded:
		t.Fatalf("reloaded on change to another file: change time %d", c.StillChangeTime)
	case <-time.After(300 * time.Millisecond):
	}

	for _, want := range []int{800, 1200} {
		tmp := path + ".tmp"
		err := os.WriteFile(tmp, []byte("still-change-time = "+strconv.Itoa(want)+"\n"), 0o644)
		if err != nil {
			t.Fatalf("could not write temporary file: %v", err)
		}
		err = os.Rename(tmp, path)
		if err != nil {
			t.Fatalf("could not rename over config file: %v", err)
		}

		select {
		case c := <-reloaded:
			if c.StillChangeTime != want {
				t.Errorf("unexpected change time, got: %d, want: %d", c.StillChangeTime, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("config was not reloaded after rename to %d", want)
		}
	}
}
