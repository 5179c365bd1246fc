/*
DESCRIPTION
  main_test.go provides testing for command line parsing, configuration
  loading and the user interface of still.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/stillcam/frame"
	"github.com/ausocean/stillcam/still/config"
	"github.com/ausocean/utils/logging"
)

func TestExecuteInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "low", args: []string{"--getch-delay", "5"}},
		{name: "high", args: []string{"--video-num", "12"}},
		{name: "bool range", args: []string{"--force-handler-exit", "2"}},
		{name: "not int", args: []string{"--sharp-diff-high", "lots"}},
		{name: "unknown", args: []string{"--bogus"}},
		{name: "positional", args: []string{"extra"}},
		{name: "missing config", args: []string{"--config", filepath.Join(t.TempDir(), "none.toml")}},
	}

	for _, test := range tests {
		var stdout, stderr bytes.Buffer
		got := execute(test.args, &stdout, &stderr)
		if got != exitConfig {
			t.Errorf("%s: unexpected exit code, got: %d, want: %d", test.name, got, exitConfig)
		}
		if stderr.Len() == 0 {
			t.Errorf("%s: expected a diagnostic", test.name)
		}
	}
}

func TestExecuteHelp(t *testing.T) {
	var stdout bytes.Buffer
	got := execute([]string{"--help"}, &stdout, io.Discard)
	if got != exitOK {
		t.Errorf("unexpected exit code: %d", got)
	}
	for _, v := range config.Variables {
		if !strings.Contains(stdout.String(), "--"+v.Name) {
			t.Errorf("help does not list %s", v.Name)
		}
	}
	for _, f := range []string{"--show-opts", "--use-curses", "--show-window", "--config", "[10..5000]"} {
		if !strings.Contains(stdout.String(), f) {
			t.Errorf("help does not contain %s", f)
		}
	}
}

func TestLoadVars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.toml")
	err := os.WriteFile(path, []byte("still-change-time = 900\nsharp-tiles-req = 7\noutput-prefix = \"/tmp/a-\"\n"), 0o644)
	if err != nil {
		t.Fatalf("could not write config: %v", err)
	}

	var code int
	cmd := newCommand(&code, io.Discard, io.Discard)
	err = cmd.Flags().Parse([]string{"--sharp-tiles-req", "3", "--use-stale-frame", "1", "--show-opts"})
	if err != nil {
		t.Fatalf("could not parse flags: %v", err)
	}

	got, err := loadVars(cmd.Flags(), path)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	want := map[string]string{
		config.KeyStillChangeTime: "900",
		config.KeySharpTilesReq:   "3",
		config.KeyUseStaleFrame:   "1",
		config.KeyOutputPrefix:    "/tmp/a-",
	}
	if !cmp.Equal(want, got) {
		t.Errorf("unexpected vars\n%s", cmp.Diff(want, got))
	}
}

func TestCliVarsRange(t *testing.T) {
	var code int
	cmd := newCommand(&code, io.Discard, io.Discard)
	err := cmd.Flags().Parse([]string{"--sharp-tiles-per-side", "41", "--still-noise-limit", "0", "--still-change-time", "10"})
	if err != nil {
		t.Fatalf("could not parse flags: %v", err)
	}
	_, err = cliVars(cmd.Flags())
	var rerr *config.RangeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected range error, got: %v", err)
	}
	for _, name := range []string{config.KeySharpTilesPerSide, config.KeyStillNoiseLimit} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error does not name %s: %v", name, err)
		}
	}
	if strings.Contains(err.Error(), config.KeyStillChangeTime) {
		t.Errorf("error names valid option: %v", err)
	}
}

func TestShowOpts(t *testing.T) {
	c := config.New((*logging.TestLogger)(t))
	c.Update(map[string]string{config.KeyHandlerTimeout: "150"})
	var buf bytes.Buffer
	showOpts(&buf, options{useCurses: true}, c)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(config.Variables)+2 {
		t.Fatalf("unexpected line count: %d", len(lines))
	}
	for _, want := range []string{"-use-curses: 1", "-show-window: 0", "-handler-timeout: 150", "-still-change-time: 500", "-log-level: info"} {
		if !strings.Contains(buf.String(), want+"\n") {
			t.Errorf("missing %q in:\n%s", want, buf.String())
		}
	}
}

func TestShowcaseKeys(t *testing.T) {
	l := (*logging.TestLogger)(t)
	live := config.NewLive(config.New(l))
	live.Update(map[string]string{config.KeyGetchDelay: "10"})

	s, err := newShowcase(l, live, true, false, strings.NewReader("x1q"))
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	defer s.Close()

	quit := false
	deadline := time.Now().Add(time.Second)
	for !quit && time.Now().Before(deadline) {
		quit = s.Check()
	}
	if !quit {
		t.Fatal("quit key not seen")
	}
	if s.prev != 'q' {
		t.Errorf("unexpected previous key: %q", rune(s.prev))
	}

	// Frames are only kept for a window.
	s.Show(frame.NewFilled(4, 4, 1))
	if s.img != nil {
		t.Error("frame kept without window")
	}
}

func TestShowcaseNoInput(t *testing.T) {
	l := (*logging.TestLogger)(t)
	live := config.NewLive(config.New(l))
	live.Update(map[string]string{config.KeyGetchDelay: "20"})

	s, _ := newShowcase(l, live, false, false, nil)
	start := time.Now()
	if s.Check() {
		t.Error("quit without input")
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("check did not wait for the getch delay")
	}
	if err := s.Close(); err != nil {
		t.Errorf("did not expect error: %v", err)
	}
}
