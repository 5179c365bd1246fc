//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Replaces the gocv webcam when building without Open CV. This is needed
  because Circle-CI does not have a copy of Open CV installed.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package webcam provides an implementation of Capture for webcams.
package webcam

import (
	"github.com/ausocean/stillcam/device"
	"github.com/ausocean/stillcam/frame"
	"github.com/ausocean/utils/logging"
)

// Webcam is a stand in for the gocv webcam that never opens.
type Webcam struct {
	log logging.Logger
}

// New returns a new Webcam.
func New(l logging.Logger) *Webcam { return &Webcam{log: l} }

// Name returns the name of the device.
func (w *Webcam) Name() string { return "Webcam" }

// Open always fails with ErrNoCV.
func (w *Webcam) Open(index int) error {
	w.log.Error(pkg+"built without Open CV", "index", index)
	return ErrNoCV
}

func (w *Webcam) IsOpened() bool                            { return false }
func (w *Webcam) SetProps(p device.RetrieveProps)           {}
func (w *Webcam) Set(prop device.Property, v float64) bool  { return false }
func (w *Webcam) Get(prop device.Property) float64          { return 0 }
func (w *Webcam) Grab() bool                                { return false }
func (w *Webcam) Retrieve(dst *frame.Mat, channel int) bool { return false }
func (w *Webcam) Close() error                              { return nil }
