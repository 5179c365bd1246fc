//go:build withcv
// +build withcv

/*
DESCRIPTION
  webcam.go provides an implementation of Capture for V4L2 webcams using
  OpenCV through gocv.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

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
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ausocean/stillcam/device"
	"github.com/ausocean/stillcam/frame"
	"github.com/ausocean/utils/logging"
)

// Webcam is an implementation of the Capture interface for a webcam. Grab
// reads a BGR frame from the OpenCV VideoCapture into an internal Mat which
// Retrieve converts according to the active RetrieveProps.
type Webcam struct {
	log   logging.Logger
	vc    *gocv.VideoCapture
	slot  gocv.Mat
	props device.RetrieveProps
}

// New returns a new, unopened Webcam.
func New(l logging.Logger) *Webcam {
	return &Webcam{
		log:   l,
		slot:  gocv.NewMat(),
		props: device.RetrieveProps{Region: device.Whole, Colorspace: device.YCrCb},
	}
}

// Name returns the name of the device.
func (w *Webcam) Name() string {
	return "Webcam"
}

// Open opens the video device with the given index, i.e. /dev/video<index>.
func (w *Webcam) Open(index int) error {
	vc, err := gocv.VideoCaptureDevice(index)
	if err != nil {
		return fmt.Errorf("could not open video device %d: %w", index, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return fmt.Errorf("video device %d did not open", index)
	}
	w.vc = vc
	w.log.Info(pkg+"opened device", "index", index,
		"width", vc.Get(gocv.VideoCaptureFrameWidth),
		"height", vc.Get(gocv.VideoCaptureFrameHeight),
	)
	return nil
}

// IsOpened reports whether the device is open.
func (w *Webcam) IsOpened() bool {
	return w.vc != nil && w.vc.IsOpened()
}

// SetProps sets the props used by subsequent Retrieve calls.
func (w *Webcam) SetProps(p device.RetrieveProps) {
	if p.Colorspace == device.BGR {
		w.log.Debug(pkg + "BGR not supported, using YCrCb")
		p.Colorspace = device.YCrCb
	}
	w.props = p
}

var cvProps = map[device.Property]gocv.VideoCaptureProperties{
	device.FrameWidth:  gocv.VideoCaptureFrameWidth,
	device.FrameHeight: gocv.VideoCaptureFrameHeight,
	device.FPS:         gocv.VideoCaptureFPS,
}

// Set sets a numeric device property.
func (w *Webcam) Set(prop device.Property, v float64) bool {
	p, ok := cvProps[prop]
	if !ok || w.vc == nil {
		return false
	}
	w.vc.Set(p, v)
	return true
}

// Get returns a numeric device property.
func (w *Webcam) Get(prop device.Property) float64 {
	p, ok := cvProps[prop]
	if !ok || w.vc == nil {
		return 0
	}
	return w.vc.Get(p)
}

// Grab reads the next frame from the device into the internal slot.
func (w *Webcam) Grab() bool {
	if w.vc == nil {
		return false
	}
	return w.vc.Read(&w.slot) && !w.slot.Empty()
}

// Retrieve converts the grabbed frame into dst according to the active
// props.
func (w *Webcam) Retrieve(dst *frame.Mat, channel int) bool {
	if dst == nil || w.slot.Empty() {
		return false
	}

	src := w.slot
	p := w.props
	if p.Sampling == device.Original && p.Region.X >= 0 {
		r := p.Region.Rectangle().Intersect(image.Rect(0, 0, src.Cols(), src.Rows()))
		if r.Empty() {
			return false
		}
		src = src.Region(r)
		defer src.Close()
	}

	if den := p.Denominator(); den > 1 {
		small := gocv.NewMat()
		defer small.Close()
		f := 1 / float64(den)
		gocv.Resize(src, &small, image.Point{}, f, f, gocv.InterpolationNearestNeighbor)
		src = small
	}

	out := gocv.NewMat()
	defer out.Close()
	code := gocv.ColorBGRToYCrCb
	if p.Colorspace == device.Gray {
		code = gocv.ColorBGRToGray
	}
	gocv.CvtColor(src, &out, code)
	if out.Empty() {
		return false
	}

	ch := out.Channels()
	*dst = frame.Mat{
		Rows:     out.Rows(),
		Cols:     out.Cols(),
		Channels: ch,
		Depth:    frame.U8,
		Step:     out.Cols() * ch,
		Data:     out.ToBytes(),
	}
	return true
}

// Close releases the device and the internal slot.
func (w *Webcam) Close() error {
	w.slot.Close()
	w.slot = gocv.NewMat()
	if w.vc == nil {
		return nil
	}
	err := w.vc.Close()
	w.vc = nil
	return err
}
