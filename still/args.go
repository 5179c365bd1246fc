/*
DESCRIPTION
  args.go provides ProcessArgs, the job handed from the pipeline to the
  frame processor.

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
	"sync/atomic"

	"github.com/ausocean/stillcam/filter"
	"github.com/ausocean/stillcam/frame"
)

// Number of ProcessArgs created and not yet released.
var liveArgs atomic.Int64

// ProcessArgs is one processor job. It is owned by exactly one party at a
// time, first the pipeline and then the Processor, and must be released
// exactly once by its final owner.
type ProcessArgs struct {
	// Timestamp is taken when the job is created, i.e. before the grab.
	Timestamp Stopper

	// Frame is the full size YCrCb frame.
	Frame *frame.Mat

	// Tiles holds the sharp tiles of Frame, or nil if the sharpness check
	// was not run.
	Tiles *filter.TileSet

	released atomic.Bool
}

// NewProcessArgs returns a job with an empty frame and no tiles.
func NewProcessArgs() *ProcessArgs {
	liveArgs.Add(1)
	return &ProcessArgs{Timestamp: NewStopper(), Frame: &frame.Mat{}}
}

// Viable reports whether the job holds a frame.
func (a *ProcessArgs) Viable() bool {
	return a != nil && !a.released.Load() && !a.Frame.Empty()
}

// Release drops the frame and tiles. Releasing a job twice panics.
func (a *ProcessArgs) Release() {
	if !a.released.CompareAndSwap(false, true) {
		panic("still: ProcessArgs released twice")
	}
	a.Frame = nil
	a.Tiles = nil
	liveArgs.Add(-1)
}
