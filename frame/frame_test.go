/*
DESCRIPTION
  frame_test.go provides testing for Mat and its conversions.

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
	"testing"

	"github.com/pkg/errors"
)

func TestRequire(t *testing.T) {
	full := New(8, 8, 3)
	tests := []struct {
		name     string
		m        *Mat
		channels int
		wantErr  bool
	}{
		{name: "ok", m: full, channels: 3},
		{name: "nil", m: nil, channels: 1, wantErr: true},
		{name: "empty", m: &Mat{}, channels: 1, wantErr: true},
		{name: "channels", m: full, channels: 1, wantErr: true},
		{name: "region", m: full.Region(image.Rect(1, 1, 4, 4)), channels: 3, wantErr: true},
		{name: "whole rows", m: full.Region(image.Rect(0, 2, 8, 4)), channels: 3},
		{name: "depth", m: &Mat{Rows: 2, Cols: 2, Channels: 1, Depth: U16, Step: 4, Data: make([]byte, 8)}, channels: 1, wantErr: true},
	}

	for _, test := range tests {
		err := test.m.Require(test.channels)
		if (err != nil) != test.wantErr {
			t.Errorf("%s: unexpected error state, got: %v, wantErr: %v", test.name, err, test.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrShape) {
			t.Errorf("%s: error does not wrap ErrShape: %v", test.name, err)
		}
	}
}

func TestDownsample(t *testing.T) {
	src := New(480, 640, 1)
	for y := 0; y < src.Rows; y++ {
		for x := 0; x < src.Cols; x++ {
			src.SetAt(x, y, 0, byte(x+y))
		}
	}

	for den, want := range map[int]image.Point{1: {640, 480}, 2: {320, 240}, 4: {160, 120}, 8: {80, 60}} {
		got := Downsample(src, den)
		if got.Size() != want {
			t.Errorf("den %d: unexpected size, got: %v, want: %v", den, got.Size(), want)
		}
		if !got.Continuous() {
			t.Errorf("den %d: result not continuous", den)
		}
		if got.At(3, 5, 0) != byte(3*den+5*den) {
			t.Errorf("den %d: unexpected pixel, got: %d, want: %d", den, got.At(3, 5, 0), byte(3*den+5*den))
		}
	}
}

func TestFromImage(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 4, 3))
	for i := range g.Pix {
		g.Pix[i] = 77
	}
	m := FromImage(g)
	if m.Channels != 3 || m.Rows != 3 || m.Cols != 4 {
		t.Fatalf("unexpected shape: %dx%dx%d", m.Rows, m.Cols, m.Channels)
	}
	if m.At(1, 1, ChanY) != 77 || m.At(1, 1, ChanCr) != 128 || m.At(1, 1, ChanCb) != 128 {
		t.Errorf("unexpected pixel: %v", m.Data[m.offset(1, 1, 0):m.offset(1, 1, 3)])
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	rgba.Set(0, 0, color.RGBA{255, 255, 255, 255})
	m = FromImage(rgba)
	if m.At(0, 0, ChanY) != 255 {
		t.Errorf("white luma: got %d, want 255", m.At(0, 0, ChanY))
	}
	if m.At(1, 1, ChanY) != 0 {
		t.Errorf("black luma: got %d, want 0", m.At(1, 1, ChanY))
	}
}

func TestExtractChannel(t *testing.T) {
	m := NewFilled(5, 7, 10, 20, 30)
	for c, want := range []byte{10, 20, 30} {
		got, err := ExtractChannel(m, c)
		if err != nil {
			t.Fatalf("did not expect error: %v", err)
		}
		if !Equal(got, NewFilled(5, 7, want)) {
			t.Errorf("channel %d: unexpected contents", c)
		}
	}
	if _, err := ExtractChannel(m, 3); !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape for out of range channel, got: %v", err)
	}
}

func TestCloneRegion(t *testing.T) {
	m := NewFilled(10, 10, 1)
	r := m.Region(image.Rect(2, 2, 6, 5))
	r.Fill(9)
	c := r.Clone()
	if !c.Continuous() || c.Rows != 3 || c.Cols != 4 {
		t.Fatalf("unexpected clone shape: %+v", c.Size())
	}
	if !Equal(c, NewFilled(3, 4, 9)) {
		t.Error("clone contents differ from region")
	}
	if m.At(1, 1, 0) != 1 || m.At(2, 2, 0) != 9 || m.At(6, 2, 0) != 1 {
		t.Error("region fill leaked outside region")
	}

	gray, err := Gray(c)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if gray.GrayAt(3, 2).Y != 9 {
		t.Errorf("unexpected gray value: %d", gray.GrayAt(3, 2).Y)
	}
}
