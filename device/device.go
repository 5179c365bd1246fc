/*
DESCRIPTION
  device.go provides Capture, an interface that describes a video capture
  device from which frames are grabbed and then retrieved with
  configurable downsampling, colour space and region of interest.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package device provides an interface and implementations for video capture
// devices from which still frames can be obtained.
package device

import (
	"fmt"
	"image"

	"github.com/ausocean/stillcam/frame"
)

// Sampling is the downsampling applied to a retrieved frame.
type Sampling int

// Downsampling possibilities: original size, divide by 2, 4 and 8.
const (
	Original Sampling = iota
	Half
	Quarter
	Oct
)

// Colorspace is the colour format of a retrieved frame.
type Colorspace int

// Colour formats. BGR is not implemented; YCrCb is used instead.
const (
	Gray Colorspace = iota
	YCrCb
	BGR
)

func (c Colorspace) String() string {
	switch c {
	case Gray:
		return "GRAY"
	case YCrCb:
		return "YCRCB"
	case BGR:
		return "BGR"
	default:
		return "unknown"
	}
}

// Rect is a region of interest. A negative X selects the whole frame.
type Rect struct {
	X, Y, W, H int
}

// Whole is the region selecting the whole frame.
var Whole = Rect{X: -1}

// Rectangle returns r as an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle { return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H) }

// RetrieveProps describes how a grabbed frame is decoded by Retrieve.
type RetrieveProps struct {
	// Sampling is the downsampling of the full frame.
	Sampling Sampling

	// Region is the region of interest, considered only when Sampling is
	// Original.
	Region Rect

	// Colorspace is the resulting colour format.
	Colorspace Colorspace
}

// Denominator returns the downsampling denominator.
func (p RetrieveProps) Denominator() int { return 1 << p.Sampling }

// Channels returns the number of channels for the colour format.
func (p RetrieveProps) Channels() int {
	if p.Colorspace == Gray {
		return 1
	}
	return 3
}

// Property identifies a numeric capture property.
type Property int

// Numeric capture properties.
const (
	FrameWidth Property = iota
	FrameHeight
	FPS
)

// Capture describes a video capture device. Grab pulls one frame from the
// device into an internal slot; Retrieve decodes that slot into a caller
// provided Mat according to the active RetrieveProps. Retrieve may be called
// more than once per Grab, with different props, and will yield the same
// underlying frame. A Capture is not safe for concurrent use.
type Capture interface {
	// Name returns the name of the Capture.
	Name() string

	// Open opens the capture device with the given index.
	Open(index int) error

	// IsOpened reports whether the device is open.
	IsOpened() bool

	// SetProps sets the props used by subsequent Retrieve calls.
	SetProps(p RetrieveProps)

	// Set sets a numeric property and reports whether it was accepted.
	Set(prop Property, v float64) bool

	// Get returns a numeric property.
	Get(prop Property) float64

	// Grab pulls one frame into the internal slot. It returns false if no
	// frame could be obtained.
	Grab() bool

	// Retrieve decodes the most recently grabbed frame into dst. The channel
	// argument selects the device channel and is 0 for single stream devices.
	Retrieve(dst *frame.Mat, channel int) bool

	// Close releases the device.
	Close() error
}

// MultiError implements the built in error interface. MultiError is used here
// to collect multiple errors during validation of configuration parameters.
type MultiError []error

func (me MultiError) Error() string {
	if len(me) == 0 {
		panic("device: invalid use of MultiError")
	}
	return fmt.Sprintf("%v", []error(me))
}

// Unwrap returns the collected errors so that errors.Is and errors.As can
// match any of them.
func (me MultiError) Unwrap() []error { return me }
