/*
DESCRIPTION
  showcase.go provides the limited user interface of still: keystroke
  polling from the terminal or a preview window, and the preview image.

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
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/ausocean/stillcam/frame"
	"github.com/ausocean/stillcam/still/config"
	"github.com/ausocean/utils/logging"
)

const (
	windowName = "Image"
	quitKey    = 'q'
	keyBuffer  = 16

	// The window waits this many getch delays for a key.
	windowDelayFactor = 5
)

// window shows preview frames and reads keystrokes.
type window interface {
	// show displays m, or the previous frame if m is nil, and waits up to
	// wait for a key. It returns the key, or -1 if none was pressed.
	show(m *frame.Mat, wait time.Duration) int
	close() error
}

// showcase polls for the quit key and, with a window, implements
// still.Preview.
type showcase struct {
	log  logging.Logger
	cfg  *config.Live
	win  window
	keys chan byte

	restore func() error

	mu   sync.Mutex // Guards img.
	img  *frame.Mat
	prev int
}

// newShowcase returns a showcase reading keys from in when useCurses is set,
// putting the terminal in raw mode if in is one, and opening a window when
// showWindow is set. A showcase is always returned; an error means some of
// the requested interface is unavailable.
func newShowcase(l logging.Logger, cfg *config.Live, useCurses, showWindow bool, in io.Reader) (*showcase, error) {
	s := &showcase{log: l, cfg: cfg, prev: -1}

	var err error
	if showWindow {
		s.win, err = newWindow(windowName)
		if err != nil {
			err = fmt.Errorf("could not open window: %w", err)
		}
	}

	if useCurses && s.win == nil {
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fd := int(f.Fd())
			state, rawErr := term.MakeRaw(fd)
			if rawErr != nil {
				return s, fmt.Errorf("could not set terminal to raw mode: %w", rawErr)
			}
			s.restore = func() error { return term.Restore(fd, state) }
		}
		s.keys = make(chan byte, keyBuffer)
		go s.read(in)
	}
	return s, err
}

// read forwards keystrokes from in until it fails. Keys are dropped while
// the buffer is full.
func (s *showcase) read(in io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n == 1 {
			select {
			case s.keys <- buf[0]:
			default:
			}
		}
		if err != nil {
			return
		}
	}
}

// Show implements still.Preview.
func (s *showcase) Show(m *frame.Mat) {
	if s.win == nil || m.Empty() {
		return
	}
	c := m.Clone()
	s.mu.Lock()
	s.img = c
	s.mu.Unlock()
}

// Check waits for a keystroke for about the getch delay and reports whether
// the quit key was pressed.
func (s *showcase) Check() bool {
	delay := time.Duration(s.cfg.Load().GetchDelay) * time.Millisecond
	key := -1
	switch {
	case s.win != nil:
		s.mu.Lock()
		img := s.img
		s.img = nil
		s.mu.Unlock()
		key = s.win.show(img, windowDelayFactor*delay)
	case s.keys != nil:
		select {
		case k := <-s.keys:
			key = int(k)
		case <-time.After(delay):
		}
	default:
		time.Sleep(delay)
	}

	if isAlnum(key) {
		s.log.Debug(pkg+"key pressed", "key", string(rune(key)), "previous", s.prev)
		s.prev = key
	}
	return key == quitKey
}

// Close restores the terminal and closes the window.
func (s *showcase) Close() error {
	var err error
	if s.restore != nil {
		err = s.restore()
		s.restore = nil
	}
	if s.win != nil {
		if cerr := s.win.close(); err == nil {
			err = cerr
		}
		s.win = nil
	}
	return err
}

func isAlnum(k int) bool {
	return k >= '0' && k <= '9' || k >= 'a' && k <= 'z' || k >= 'A' && k <= 'Z'
}
