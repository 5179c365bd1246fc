/*
DESCRIPTION
  change.go provides HasChanged, a sparse sampling change detector for small
  greyscale frames.

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
	"github.com/pkg/errors"

	"github.com/ausocean/stillcam/frame"
)

// HasChanged reports whether cur differs from last. It compares
// SamplingPercent of the pixels, starting at index 0 and stepping by
// SamplingInc with wrap around, and counts a pixel as changed when the
// absolute difference exceeds NoiseThreshold. The frame has changed when
// more than DeflectionPercent of the samples changed.
//
// An empty or nil last always counts as changed. Both frames must be
// continuous single channel 8 bit Mats of the same size.
func HasChanged(cur, last *frame.Mat, p ChangeParams) (bool, error) {
	if last.Empty() {
		return true, nil
	}
	if err := cur.Require(1); err != nil {
		return false, errors.Wrap(err, "current frame")
	}
	if err := last.Require(1); err != nil {
		return false, errors.Wrap(err, "last frame")
	}
	if cur.Size() != last.Size() {
		return false, errors.Wrapf(frame.ErrShape, "frame sizes differ, current: %v, last: %v", cur.Size(), last.Size())
	}

	n := cur.Total()
	samples := n * p.SamplingPercent / 100
	c, l := cur.Data[:n], last.Data[:n]
	var rel, diffs int
	for i := samples; i > 0; i-- {
		d := int(c[rel]) - int(l[rel])
		if d < 0 {
			d = -d
		}
		if d > p.NoiseThreshold {
			diffs++
		}

		// The stride is expected to be smaller than the frame so this rarely
		// loops more than once.
		rel += p.SamplingInc
		for rel >= n {
			rel -= n
		}
	}
	return diffs*100 > samples*p.DeflectionPercent, nil
}
