/*
DESCRIPTION
  convert.go provides colour space conversions, channel extraction and
  downsampling for Mats.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frame

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// Channel indices of a YCrCb Mat. Luma is always first.
const (
	ChanY  = 0
	ChanCr = 1
	ChanCb = 2
)

// FromImage converts img into a three channel, continuous YCrCb Mat.
func FromImage(img image.Image) *Mat {
	b := img.Bounds()
	m := New(b.Dy(), b.Dx(), 3)
	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < m.Rows; y++ {
			for x := 0; x < m.Cols; x++ {
				i := m.offset(x, y, 0)
				m.Data[i] = src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)]
				m.Data[i+ChanCr] = 128
				m.Data[i+ChanCb] = 128
			}
		}
	default:
		for y := 0; y < m.Rows; y++ {
			for x := 0; x < m.Cols; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				yy, cb, cr := color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
				i := m.offset(x, y, 0)
				m.Data[i] = yy
				m.Data[i+ChanCr] = cr
				m.Data[i+ChanCb] = cb
			}
		}
	}
	return m
}

// ExtractChannel copies channel c of src into a new single channel Mat.
func ExtractChannel(src *Mat, c int) (*Mat, error) {
	if src.Empty() || src.Depth != U8 {
		return nil, errors.Wrap(ErrShape, "cannot extract channel")
	}
	if c < 0 || c >= src.Channels {
		return nil, errors.Wrapf(ErrShape, "channel %d out of range for %d channel mat", c, src.Channels)
	}
	dst := New(src.Rows, src.Cols, 1)
	for y := 0; y < src.Rows; y++ {
		row := src.Data[y*src.Step:]
		out := dst.Data[y*dst.Step : (y+1)*dst.Step]
		for x := range out {
			out[x] = row[x*src.Channels+c]
		}
	}
	return dst, nil
}

// Downsample returns src scaled down by den using nearest neighbour
// sampling. A den of 1 returns a continuous copy.
func Downsample(src *Mat, den int) *Mat {
	if src.Empty() {
		return &Mat{}
	}
	if den <= 1 {
		return src.Clone()
	}
	rows, cols := src.Rows/den, src.Cols/den
	if rows == 0 {
		rows = 1
	}
	if cols == 0 {
		cols = 1
	}
	dst := New(rows, cols, src.Channels)
	ch := src.Channels
	for y := 0; y < rows; y++ {
		row := src.Data[y*den*src.Step:]
		out := dst.Data[y*dst.Step : (y+1)*dst.Step]
		for x := 0; x < cols; x++ {
			copy(out[x*ch:(x+1)*ch], row[x*den*ch:])
		}
	}
	return dst
}

// Gray returns a single channel Mat as an *image.Gray sharing no memory
// with m.
func Gray(m *Mat) (*image.Gray, error) {
	if m.Empty() || m.Depth != U8 || m.Channels != 1 {
		return nil, errors.Wrap(ErrShape, "cannot convert to gray image")
	}
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	for y := 0; y < m.Rows; y++ {
		copy(img.Pix[y*img.Stride:(y+1)*img.Stride], m.Data[y*m.Step:])
	}
	return img, nil
}
