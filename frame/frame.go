/*
DESCRIPTION
  frame.go provides Mat, a two dimensional pixel buffer modelled on the
  OpenCV Mat, which is used to move frames between the capture device, the
  change detector, the sharpness analyser and the frame processor without
  requiring cgo.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frame provides a cgo free pixel buffer and the conversions the
// still pipeline needs between capture formats.
package frame

import (
	"fmt"
	"image"

	"github.com/pkg/errors"
)

// Depth is the element depth of a Mat, following the OpenCV CV_* depths.
type Depth int

// Element depths.
const (
	U8 Depth = iota
	S8
	U16
	S16
	S32
	F32
	F64
)

// Size returns the size of one element in bytes.
func (d Depth) Size() int {
	switch d {
	case U8, S8:
		return 1
	case U16, S16:
		return 2
	case S32, F32:
		return 4
	case F64:
		return 8
	default:
		panic(fmt.Sprintf("frame: unknown depth %d", int(d)))
	}
}

func (d Depth) String() string {
	switch d {
	case U8:
		return "CV_8U"
	case S8:
		return "CV_8S"
	case U16:
		return "CV_16U"
	case S16:
		return "CV_16S"
	case S32:
		return "CV_32S"
	case F32:
		return "CV_32F"
	case F64:
		return "CV_64F"
	default:
		return "unknown"
	}
}

// ErrShape is returned (wrapped) when a Mat handed to an analytic routine is
// empty, not continuous, not 8 bit unsigned or has the wrong channel count.
var ErrShape = errors.New("frame: unexpected mat shape")

// Mat is a two dimensional, row major, interleaved pixel buffer. Row y
// starts at Data[y*Step]. A Mat is continuous when there is no padding
// between rows.
type Mat struct {
	Rows     int
	Cols     int
	Channels int
	Depth    Depth
	Step     int // Bytes per row.
	Data     []byte
}

// New returns a continuous 8 bit unsigned Mat of the given size with all
// elements zero.
func New(rows, cols, channels int) *Mat {
	step := cols * channels
	return &Mat{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Depth:    U8,
		Step:     step,
		Data:     make([]byte, rows*step),
	}
}

// NewFilled returns a continuous 8 bit Mat with every pixel set to px. The
// number of channels is len(px).
func NewFilled(rows, cols int, px ...byte) *Mat {
	m := New(rows, cols, len(px))
	m.Fill(px...)
	return m
}

// Empty reports whether m holds no pixels. A nil Mat is empty.
func (m *Mat) Empty() bool {
	return m == nil || m.Rows == 0 || m.Cols == 0 || len(m.Data) == 0
}

// Continuous reports whether rows are stored without padding.
func (m *Mat) Continuous() bool {
	return m.Step == m.Cols*m.Channels*m.Depth.Size()
}

// Total returns the number of pixels.
func (m *Mat) Total() int { return m.Rows * m.Cols }

// Size returns the dimensions as an image.Point{X: cols, Y: rows}.
func (m *Mat) Size() image.Point { return image.Pt(m.Cols, m.Rows) }

// Release drops the pixel data, leaving an empty Mat.
func (m *Mat) Release() {
	*m = Mat{}
}

// Require checks the preconditions of the analytic routines: m must be
// non-empty, continuous, 8 bit unsigned and have the given channel count.
func (m *Mat) Require(channels int) error {
	switch {
	case m.Empty():
		return errors.Wrap(ErrShape, "mat is empty")
	case !m.Continuous():
		return errors.Wrapf(ErrShape, "mat is not continuous (step %d, cols %d)", m.Step, m.Cols)
	case m.Depth != U8:
		return errors.Wrapf(ErrShape, "mat depth is %v, want %v", m.Depth, U8)
	case m.Channels != channels:
		return errors.Wrapf(ErrShape, "mat has %d channels, want %d", m.Channels, channels)
	}
	return nil
}

// offset returns the index into Data of channel c of pixel (x, y).
func (m *Mat) offset(x, y, c int) int {
	return y*m.Step + x*m.Channels + c
}

// At returns channel c of pixel (x, y) of an 8 bit Mat.
func (m *Mat) At(x, y, c int) byte { return m.Data[m.offset(x, y, c)] }

// SetAt sets channel c of pixel (x, y) of an 8 bit Mat.
func (m *Mat) SetAt(x, y, c int, v byte) { m.Data[m.offset(x, y, c)] = v }

// Fill sets every pixel to px. len(px) must equal the channel count.
func (m *Mat) Fill(px ...byte) {
	if len(px) != m.Channels {
		panic(fmt.Sprintf("frame: fill with %d values on %d channel mat", len(px), m.Channels))
	}
	for y := 0; y < m.Rows; y++ {
		row := m.Data[y*m.Step : y*m.Step+m.Cols*m.Channels]
		for i := range row {
			row[i] = px[i%m.Channels]
		}
	}
}

// Clone returns a continuous deep copy of m.
func (m *Mat) Clone() *Mat {
	if m.Empty() {
		return &Mat{}
	}
	step := m.Cols * m.Channels * m.Depth.Size()
	c := &Mat{
		Rows:     m.Rows,
		Cols:     m.Cols,
		Channels: m.Channels,
		Depth:    m.Depth,
		Step:     step,
		Data:     make([]byte, m.Rows*step),
	}
	for y := 0; y < m.Rows; y++ {
		copy(c.Data[y*c.Step:(y+1)*c.Step], m.Data[y*m.Step:])
	}
	return c
}

// CopyTo replaces the contents of dst with a continuous copy of m.
func (m *Mat) CopyTo(dst *Mat) {
	*dst = *m.Clone()
}

// Region returns a view onto the rectangle r of m. The view shares pixel data
// with m and, unless r spans whole rows, is not continuous.
func (m *Mat) Region(r image.Rectangle) *Mat {
	r = r.Intersect(image.Rect(0, 0, m.Cols, m.Rows))
	if r.Empty() {
		return &Mat{}
	}
	return &Mat{
		Rows:     r.Dy(),
		Cols:     r.Dx(),
		Channels: m.Channels,
		Depth:    m.Depth,
		Step:     m.Step,
		Data:     m.Data[m.offset(r.Min.X, r.Min.Y, 0):],
	}
}

// Equal reports whether a and b have the same shape and pixel values.
func Equal(a, b *Mat) bool {
	if a.Empty() || b.Empty() {
		return a.Empty() && b.Empty()
	}
	if a.Rows != b.Rows || a.Cols != b.Cols || a.Channels != b.Channels || a.Depth != b.Depth {
		return false
	}
	n := a.Cols * a.Channels * a.Depth.Size()
	for y := 0; y < a.Rows; y++ {
		ra := a.Data[y*a.Step : y*a.Step+n]
		rb := b.Data[y*b.Step : y*b.Step+n]
		if string(ra) != string(rb) {
			return false
		}
	}
	return true
}
