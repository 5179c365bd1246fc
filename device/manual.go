/*
DESCRIPTION
  manual.go provides ManualCapture, an implementation of Capture whose frames
  are written to it through software.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package device

import (
	"errors"
	"image"
	"sync"
	"time"

	"github.com/ausocean/stillcam/frame"
)

// Default time Grab waits for a frame to be written.
const defaultGrabWait = 20 * time.Millisecond

var (
	errNotOpen = errors.New("manual capture has not been opened, can't write")
	errBadMat  = errors.New("manual capture accepts only 3 channel 8 bit mats")
)

// ManualCapture is an implementation of Capture that represents a manual
// input mechanism, i.e. frames are written to it through software. Written
// frames are queued; each Grab takes the next frame from the queue, waiting
// up to GrabWait for one to arrive. Source frames are held as YCrCb and
// converted on Retrieve.
type ManualCapture struct {
	// GrabWait is the longest Grab blocks waiting for a written frame.
	GrabWait time.Duration

	// Repeat makes Grab take the previous frame again when no new frame was
	// written within GrabWait, as a camera looking at a static scene would.
	Repeat bool

	mu    sync.Mutex
	cond  *sync.Cond
	queue []*frame.Mat
	open  bool

	slot   *frame.Mat
	props  RetrieveProps
	width  float64
	height float64

	grabs      int
	retrievals int
}

// NewManualCapture returns a new, unopened ManualCapture.
func NewManualCapture() *ManualCapture {
	m := &ManualCapture{GrabWait: defaultGrabWait, props: RetrieveProps{Region: Whole, Colorspace: YCrCb}}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Name returns the name of ManualCapture i.e. "ManualCapture".
func (m *ManualCapture) Name() string { return "ManualCapture" }

// Open marks the capture as open. The index is ignored.
func (m *ManualCapture) Open(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	return nil
}

// IsOpened reports whether Open has been called (and Close has not).
func (m *ManualCapture) IsOpened() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// SetProps sets the props used by subsequent Retrieve calls.
func (m *ManualCapture) SetProps(p RetrieveProps) {
	if p.Colorspace == BGR {
		p.Colorspace = YCrCb
	}
	m.props = p
}

// Props returns the props currently in use.
func (m *ManualCapture) Props() RetrieveProps { return m.props }

// Set stores the frame width or height. Other properties are not supported.
func (m *ManualCapture) Set(prop Property, v float64) bool {
	switch prop {
	case FrameWidth:
		m.width = v
	case FrameHeight:
		m.height = v
	default:
		return false
	}
	return true
}

// Get returns a stored property.
func (m *ManualCapture) Get(prop Property) float64 {
	switch prop {
	case FrameWidth:
		return m.width
	case FrameHeight:
		return m.height
	}
	return 0
}

// Write queues img, converted to YCrCb, for a later Grab.
func (m *ManualCapture) Write(img image.Image) error {
	return m.WriteMat(frame.FromImage(img))
}

// WriteMat queues a three channel YCrCb Mat for a later Grab. The Mat must
// not be modified after the call.
func (m *ManualCapture) WriteMat(f *frame.Mat) error {
	if f.Empty() || f.Channels != 3 || f.Depth != frame.U8 {
		return errBadMat
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return errNotOpen
	}
	m.queue = append(m.queue, f)
	m.cond.Broadcast()
	return nil
}

// Pending returns the number of written frames not yet grabbed.
func (m *ManualCapture) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Grabs returns the number of successful Grab calls.
func (m *ManualCapture) Grabs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grabs
}

// Retrievals returns the number of successful Retrieve calls.
func (m *ManualCapture) Retrievals() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retrievals
}

// Grab takes the next written frame into the internal slot. It waits up to
// GrabWait for a frame and returns false if none arrived or the capture is
// closed, unless Repeat is set and a frame was grabbed before.
func (m *ManualCapture) Grab() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) == 0 && m.open && m.GrabWait > 0 {
		t := time.AfterFunc(m.GrabWait, func() {
			m.mu.Lock()
			m.cond.Broadcast()
			m.mu.Unlock()
		})
		deadline := time.Now().Add(m.GrabWait)
		for len(m.queue) == 0 && m.open && time.Now().Before(deadline) {
			m.cond.Wait()
		}
		t.Stop()
	}

	if !m.open {
		return false
	}
	if len(m.queue) == 0 {
		if m.Repeat && m.slot != nil {
			m.grabs++
			return true
		}
		return false
	}
	m.slot = m.queue[0]
	m.queue[0] = nil
	m.queue = m.queue[1:]
	m.grabs++
	return true
}

// Retrieve decodes the grabbed frame into dst according to the current
// props. The slot is left untouched so that Retrieve may be called again.
func (m *ManualCapture) Retrieve(dst *frame.Mat, channel int) bool {
	m.mu.Lock()
	src := m.slot
	m.mu.Unlock()
	if dst == nil || src.Empty() {
		return false
	}

	p := m.props
	if p.Sampling == Original && p.Region.X >= 0 {
		src = src.Region(p.Region.Rectangle())
		if src.Empty() {
			return false
		}
	}
	out := frame.Downsample(src, p.Denominator())
	if p.Colorspace == Gray {
		var err error
		out, err = frame.ExtractChannel(out, frame.ChanY)
		if err != nil {
			return false
		}
	}
	*dst = *out

	m.mu.Lock()
	m.retrievals++
	m.mu.Unlock()
	return true
}

// Close wakes any waiting Grab and drops queued frames.
func (m *ManualCapture) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	m.queue = nil
	m.slot = nil
	m.cond.Broadcast()
	return nil
}
