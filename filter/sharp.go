/*
DESCRIPTION
  sharp.go provides CheckSharpness, a tile based sharpness analyser, and the
  TileSet it produces.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"image"
	"sort"

	"github.com/pkg/errors"

	"github.com/ausocean/stillcam/frame"
)

// MinTileSide is the smallest tile side Divisor will produce, apart from
// the remainder tile.
const MinTileSide = 16

// SharpTile is a tile of a frame that passed the sharpness check.
type SharpTile struct {
	HighPercent int // Strong to weak edge ratio in percent.
	Width       int
	Height      int
	StartX      int
	StartY      int
}

// Rect returns the area of the frame covered by the tile.
func (t SharpTile) Rect() image.Rectangle {
	return image.Rect(t.StartX, t.StartY, t.StartX+t.Width, t.StartY+t.Height)
}

// TileSet holds SharpTiles ordered by HighPercent ascending. Tiles with
// equal HighPercent are kept in insertion order.
type TileSet struct {
	tiles []SharpTile
}

// Insert adds t keeping the set ordered.
func (s *TileSet) Insert(t SharpTile) {
	i := sort.Search(len(s.tiles), func(i int) bool { return s.tiles[i].HighPercent > t.HighPercent })
	s.tiles = append(s.tiles, SharpTile{})
	copy(s.tiles[i+1:], s.tiles[i:])
	s.tiles[i] = t
}

// Len returns the number of tiles. A nil set is empty.
func (s *TileSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tiles)
}

// Tiles returns the tiles in ascending HighPercent order. The slice must not
// be modified.
func (s *TileSet) Tiles() []SharpTile {
	if s == nil {
		return nil
	}
	return s.tiles
}

// Divisor returns the number of tiles to split a side of length n into,
// given the requested div. div is reduced when the tiles would be shorter
// than MinTileSide, but is never less than 1.
func Divisor(n, div int) int {
	if div < 1 {
		div = 1
	}
	if n/div < MinTileSide {
		div = n / MinTileSide
		if div == 0 {
			div = 1
		}
	}
	return div
}

// tileLengths returns the length of each of div tiles along a side of n
// pixels. All but the last are n/div; the last takes the remainder less one
// pixel so the neighbour of every visited pixel is inside the frame.
func tileLengths(n, div int) (lens []int, divided int) {
	divided = n / div
	lens = make([]int, div)
	for i := range lens[:div-1] {
		lens[i] = divided
	}
	lens[div-1] = n - divided*(div-1) - 1
	return lens, divided
}

// CheckSharpness splits m into tiles and returns those whose luma has a high
// enough share of strong edges. m must be a continuous three channel 8 bit
// Mat with luma in the first channel, i.e. YCrCb.
//
// For each visited pixel the absolute differences to the right and lower
// neighbours are counted when above DiffLow (weak) and DiffHigh (strong). A
// direction scores strong*100/weak if it saw at least a tile side's worth of
// weak edges, else -1. A tile is sharp when its better direction scores above
// HighPercent.
func CheckSharpness(m *frame.Mat, p SharpParams) (*TileSet, error) {
	if err := m.Require(3); err != nil {
		return nil, errors.Wrap(err, "cannot check sharpness")
	}
	if m.Cols < 2 || m.Rows < 2 {
		return nil, errors.Wrapf(frame.ErrShape, "frame too small: %v", m.Size())
	}

	lensX, dividedW := tileLengths(m.Cols, Divisor(m.Cols, p.TilesPerSide))
	lensY, dividedH := tileLengths(m.Rows, Divisor(m.Rows, p.TilesPerSide))

	const ch = 3
	img := m.Data
	step := m.Step
	set := &TileSet{}
	for fx, w := range lensX {
		startX := fx * dividedW
		for fy, h := range lensY {
			startY := fy * dividedH
			var vertL, vertH, horL, horH int
			for y := startY; y < startY+h; y++ {
				i := y*step + startX*ch
				end := i + w*ch
				for ; i < end; i += ch {
					d := int(img[i+step]) - int(img[i])
					if d < 0 {
						d = -d
					}
					if d > p.DiffLow {
						vertL++
						if d > p.DiffHigh {
							vertH++
						}
					}

					d = int(img[i+ch]) - int(img[i])
					if d < 0 {
						d = -d
					}
					if d > p.DiffLow {
						horL++
						if d > p.DiffHigh {
							horH++
						}
					}
				}
			}

			highH, highV := -1, -1
			if horL >= dividedW {
				highH = horH * 100 / horL
			}
			if vertL >= dividedH {
				highV = vertH * 100 / vertL
			}
			high := highH
			if highV > high {
				high = highV
			}
			if high > p.HighPercent {
				set.Insert(SharpTile{HighPercent: high, Width: w, Height: h, StartX: startX, StartY: startY})
			}
		}
	}
	return set, nil
}
