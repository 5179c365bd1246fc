/*
DESCRIPTION
  pipeline.go provides Pipeline, the capture loop that detects still scenes,
  checks their sharpness and dispatches qualifying frames to a Processor.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
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
	"time"

	"github.com/ausocean/stillcam/device"
	"github.com/ausocean/stillcam/filter"
	"github.com/ausocean/stillcam/frame"
	"github.com/ausocean/stillcam/still/config"
	"github.com/ausocean/stillcam/still/metrics"
	"github.com/ausocean/utils/logging"
)

// Preview receives every retrieved frame. Show must not retain m.
type Preview interface {
	Show(m *frame.Mat)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics sets the metrics the Pipeline records to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithPreview sets a Preview offered each retrieved frame.
func WithPreview(v Preview) Option {
	return func(p *Pipeline) { p.preview = v }
}

// Pipeline grabs frames on its own goroutine. With change detection enabled
// (StillSamplePercent > 0) each grab is first retrieved as a small grey
// frame and compared with the previous one; only when the scene has been
// unchanged for StillChangeTime is the same grab retrieved at full size. The
// full frame is checked for sharp tiles and, if it has enough, dispatched to
// the Processor, or kept in a one slot stale reservoir while the Processor
// is busy if UseStaleFrame is set.
//
// The Capture and Processor must outlive the Pipeline's goroutine.
type Pipeline struct {
	log     logging.Logger
	capture device.Capture
	proc    *Processor
	cfg     *config.Live
	metrics *metrics.Metrics
	preview Preview
	ctl     *Controller

	// Owned by the Run goroutine.
	last              *frame.Mat
	stale             *ProcessArgs
	timeInChange      Stopper
	lastSamplePercent int
	lastExponent      int
}

// NewPipeline returns a stopped Pipeline.
func NewPipeline(c device.Capture, proc *Processor, cfg *config.Live, l logging.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		log:     l,
		capture: c,
		proc:    proc,
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ctl = NewController("pipeline", p, l)
	return p
}

// Start starts the capture loop.
func (p *Pipeline) Start() { p.ctl.Start() }

// Stop stops the capture loop. A running job is asked to finish and the loop
// keeps going until it has.
func (p *Pipeline) Stop() { p.ctl.Stop() }

// Started reports whether the loop is started.
func (p *Pipeline) Started() bool { return p.ctl.Started() }

// Cleanup implements Routine. It asks a running job to finish.
func (p *Pipeline) Cleanup() {
	if p.proc.Status() == Processing {
		p.proc.Die()
	}
}

// Run implements Routine.
func (p *Pipeline) Run(running func() bool) {
	p.proc.StartMeasure()
	defer p.proc.StopMeasure()

	p.lastSamplePercent = -1 // Forces a props update on the first iteration.
	p.lastExponent = -1
	// Long enough ago that the first still frame is accepted.
	p.timeInChange = NewStopperOffset(-time.Duration(p.cfg.Load().StillChangeTime+1) * time.Millisecond)

	for keepAlive := running(); keepAlive; {
		keepAlive = p.iterate(p.cfg.Load(), running)
	}

	if p.stale != nil {
		p.stale.Release()
		p.stale = nil
	}
	p.last = nil
	p.log.Debug(pkg + "loop is over")
}

// iterate runs one pass of the loop with the configuration snapshot c and
// reports whether the loop must continue.
func (p *Pipeline) iterate(c config.Config, running func() bool) bool {
	if mean, sd, ok := p.metrics.Iteration(time.Now()); ok && mean > 0 {
		p.log.Debug(pkg+"loop rate", "fps", float64(time.Second)/float64(mean), "period", mean, "stddev", sd)
	}

	if p.lastSamplePercent != c.StillSamplePercent {
		p.updateProps(c.StillSamplePercent, c.StillDownsampleExponent)
		p.lastSamplePercent = c.StillSamplePercent
	}
	if p.lastExponent != c.StillDownsampleExponent {
		p.updateProps(c.StillSamplePercent, c.StillDownsampleExponent)
		p.lastExponent = c.StillDownsampleExponent
		p.last = nil // Different size from now on.
	}

	job := NewProcessArgs()
	started := running()
	cond := started && (!c.UseStaleFrame || p.stale == nil)
	if p.stale != nil && !c.UseStaleFrame {
		p.stale.Release()
		p.stale = nil
	}

	// When stopping we only grab.
	ok := p.capture.Grab() && cond
	var small *frame.Mat
	if ok {
		dst := job.Frame
		if c.StillSamplePercent > 0 {
			small = &frame.Mat{}
			dst = small
		}
		ok = p.capture.Retrieve(dst, 0) && !dst.Empty()
		if ok && p.preview != nil {
			p.preview.Show(dst)
		}
	}
	if !ok {
		small = nil
		if cond {
			p.metrics.GrabFailed()
		}
	}

	if ok && c.StillSamplePercent > 0 {
		ok = p.detect(c, job, small)
	}

	if ok {
		err := job.Frame.Require(3)
		if err != nil {
			p.log.Error(pkg+"unexpected full frame", "error", err.Error())
			p.metrics.ShapeError()
			ok = false
		}
	}

	if ok && c.SharpTilesReq > 0 {
		tiles, err := filter.CheckSharpness(job.Frame, c.SharpParams())
		switch {
		case err != nil:
			p.log.Error(pkg+"could not check sharpness", "error", err.Error())
			p.metrics.ShapeError()
			ok = false
		default:
			job.Tiles = tiles
			ok = tiles.Len() >= c.SharpTilesReq
			p.metrics.Tiles(tiles.Len(), !ok)
			p.log.Debug(pkg+"sharpness ready", "tiles", tiles.Len(), "required", c.SharpTilesReq)
		}
	}

	if !ok {
		job.Release()
		job = nil
	} else if started && c.UseStaleFrame && p.stale == nil {
		p.stale, job = job, nil
		p.metrics.StaleStored()
		p.log.Debug(pkg + "updated stale")
	}

	status := p.proc.Status()
	started = running()
	keepAlive := started || status == Processing
	if !started && status == Processing {
		// A job may have been dispatched after Cleanup looked.
		p.proc.Die()
	}
	if started && status != Processing {
		switch {
		case c.UseStaleFrame && p.stale != nil:
			// Nothing was observed while the processor was busy, so the dwell
			// starts again.
			p.timeInChange.Reset()
			p.dispatch(p.stale, true)
			p.stale = nil
		case !c.UseStaleFrame && job != nil:
			p.dispatch(job, false)
			job = nil
		}
	}

	if job != nil {
		job.Release()
	}
	return keepAlive
}

// detect runs the change detector on small and, if the scene has been still
// for long enough, retrieves the same grab at full size into job. It reports
// whether job now holds a full frame. small becomes the new last frame.
func (p *Pipeline) detect(c config.Config, job *ProcessArgs, small *frame.Mat) bool {
	changed, err := filter.HasChanged(small, p.last, c.ChangeParams())
	if err != nil {
		p.log.Error(pkg+"could not detect change", "error", err.Error())
		p.metrics.ShapeError()
		p.last = nil
		return false
	}

	elapsed := p.timeInChange.Elapsed()
	ok := time.Duration(c.StillChangeTime)*time.Millisecond <= elapsed
	switch {
	case changed:
		p.timeInChange.Reset()
		p.metrics.Changed()
		ok = false
	case ok:
		p.capture.SetProps(device.RetrieveProps{Sampling: device.Original, Region: device.Whole, Colorspace: device.YCrCb})
		ok = p.capture.Retrieve(job.Frame, 0) && !job.Frame.Empty()
		p.updateProps(c.StillSamplePercent, c.StillDownsampleExponent)
		if ok {
			p.metrics.Promoted()
			p.log.Debug(pkg+"frame not changed, enough time spent still", "elapsed", elapsed)
		}
	default:
		p.log.Debug(pkg+"frame not changed, more time needed", "elapsed", elapsed)
	}

	p.last = small
	return ok
}

// updateProps sets the capture props for the first retrieve of a grab.
func (p *Pipeline) updateProps(samplePercent, exponent int) {
	props := device.RetrieveProps{Region: device.Whole}
	if samplePercent == 0 {
		// No change detection; straight to the full frame.
		props.Sampling = device.Original
		props.Colorspace = device.YCrCb
	} else {
		props.Sampling = device.Sampling(exponent)
		props.Colorspace = device.Gray
	}
	p.capture.SetProps(props)
}

func (p *Pipeline) dispatch(a *ProcessArgs, stale bool) {
	age := NewStopper().Sub(a.Timestamp)
	err := p.proc.Process(a)
	if err != nil {
		p.log.Warning(pkg+"could not dispatch frame", "error", err.Error())
		return
	}
	p.metrics.Dispatched(stale)
	p.log.Debug(pkg+"frame dispatched", "stale", stale, "age", age)
}
