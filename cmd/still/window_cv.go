//go:build withcv
// +build withcv

/*
DESCRIPTION
  window_cv.go provides the Open CV preview window.

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
	"time"

	"gocv.io/x/gocv"

	"github.com/ausocean/stillcam/frame"
)

// Side of the placeholder shown before the first frame.
const placeholderSide = 100

type cvWindow struct {
	w       *gocv.Window
	showing gocv.Mat
}

func newWindow(name string) (window, error) {
	w := &cvWindow{w: gocv.NewWindow(name)}
	w.showing = gocv.Eye(placeholderSide, placeholderSide, gocv.MatTypeCV8U)
	w.showing.MultiplyUChar(255)
	return w, nil
}

func (w *cvWindow) show(m *frame.Mat, wait time.Duration) int {
	if !m.Empty() {
		w.update(m)
	}
	w.w.IMShow(w.showing)
	return w.w.WaitKey(int(wait / time.Millisecond))
}

// update converts m, grey or YCrCb, into the displayed image.
func (w *cvWindow) update(m *frame.Mat) {
	m = m.Clone()
	typ := gocv.MatTypeCV8UC1
	if m.Channels == 3 {
		typ = gocv.MatTypeCV8UC3
	}
	src, err := gocv.NewMatFromBytes(m.Rows, m.Cols, typ, m.Data)
	if err != nil {
		return
	}
	defer src.Close()

	dst := gocv.NewMat()
	if m.Channels == 3 {
		gocv.CvtColor(src, &dst, gocv.ColorYCrCbToBGR)
	} else {
		src.CopyTo(&dst)
	}
	w.showing.Close()
	w.showing = dst
}

func (w *cvWindow) close() error {
	w.showing.Close()
	return w.w.Close()
}
