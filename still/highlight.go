/*
DESCRIPTION
  highlight.go provides Highlighter, the default frame Handler, which writes
  the luma of a frame with its sharp tiles at full brightness and the rest at
  half brightness.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package still

import (
	"context"
	"fmt"

	"github.com/ausocean/stillcam/filter"
	"github.com/ausocean/stillcam/frame"
	"github.com/ausocean/stillcam/still/config"
	"github.com/ausocean/utils/logging"
)

// Mask levels.
const (
	maskBackground = 127
	maskSharp      = 255
)

// Highlighter is a Handler that writes each frame as a JPEG still named
// <OutputPrefix><monotonic ns>.jpg.
type Highlighter struct {
	log   logging.Logger
	cfg   *config.Live
	write func(name string, m *frame.Mat) error
}

// NewHighlighter returns a Highlighter taking the output prefix from cfg.
func NewHighlighter(cfg *config.Live, l logging.Logger) *Highlighter {
	return &Highlighter{log: l, cfg: cfg, write: writeStill}
}

// Handle implements Handler. The context is checked once, after the
// highlight and before the write.
func (h *Highlighter) Handle(ctx context.Context, a *ProcessArgs, force bool) Status {
	img, err := Highlight(a.Frame, a.Tiles)
	if err != nil {
		h.log.Error(pkg+"could not highlight frame", "error", err.Error())
		return Fail
	}

	if ctx.Err() != nil {
		if force {
			h.log.Debug(pkg + "request to finish, abort processing")
			return Incomplete
		}
		h.log.Debug(pkg + "request to finish, completing anyway")
	}

	name := fmt.Sprintf("%s%d.jpg", h.cfg.Load().OutputPrefix, monotonicNow())
	err = h.write(name, img)
	if err != nil {
		h.log.Error(pkg+"could not write still", "file", name, "error", err.Error())
		return Fail
	}
	h.log.Info(pkg+"still written", "file", name, "tiles", a.Tiles.Len())
	return Exact
}

// Highlight returns the luma of the YCrCb frame m scaled by a mask that is
// 255 on the given tiles and 127 elsewhere, i.e. pixel*mask/255 rounded.
func Highlight(m *frame.Mat, tiles *filter.TileSet) (*frame.Mat, error) {
	luma, err := frame.ExtractChannel(m, frame.ChanY)
	if err != nil {
		return nil, err
	}
	mask := frame.NewFilled(luma.Rows, luma.Cols, maskBackground)
	for _, t := range tiles.Tiles() {
		mask.Region(t.Rect()).Fill(maskSharp)
	}
	for i, v := range luma.Data {
		luma.Data[i] = byte((int(v)*int(mask.Data[i]) + 127) / 255)
	}
	return luma, nil
}
