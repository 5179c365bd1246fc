/*
DESCRIPTION
  processor.go provides Processor, a single slot background worker that runs
  a Handler on one frame at a time.

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
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ausocean/stillcam/still/config"
	"github.com/ausocean/stillcam/still/metrics"
	"github.com/ausocean/utils/logging"
)

// Status is the state of the Processor.
type Status int32

// Processor states. Fail, Incomplete, Approximate and Exact are terminal; a
// terminal status is reported once by Status and then becomes NoImage.
const (
	NoImage Status = iota - 1
	Processing
	Fail
	Incomplete
	Approximate
	Exact
)

// Terminal reports whether s is a job outcome.
func (s Status) Terminal() bool { return s > Processing && s <= Exact }

func (s Status) String() string {
	switch s {
	case NoImage:
		return "NOIMAGE"
	case Processing:
		return "PROCESSING"
	case Fail:
		return "FAIL"
	case Incomplete:
		return "INCOMPLETE"
	case Approximate:
		return "APPROXIMATE"
	case Exact:
		return "EXACT"
	default:
		return "unknown"
	}
}

// Handler processes one job. The context is cancelled when the processor is
// asked to finish, either by Die or by the handler timeout. A handler should
// check the context at well defined points; if force is set it must then
// return Incomplete, otherwise it may complete with the best result it has.
// The handler must not retain the job.
type Handler interface {
	Handle(ctx context.Context, a *ProcessArgs, force bool) Status
}

// HandlerFunc is an adapter to allow the use of ordinary functions as
// Handlers.
type HandlerFunc func(ctx context.Context, a *ProcessArgs, force bool) Status

// Handle calls f(ctx, a, force).
func (f HandlerFunc) Handle(ctx context.Context, a *ProcessArgs, force bool) Status {
	return f(ctx, a, force)
}

// ErrBusy is returned by Process when a job is already being processed.
var ErrBusy = errors.New("processor is busy")

var errNilArgs = errors.New("nil process args")

// Processor runs at most one job at a time on its own goroutine. The status
// word is the only way a job's outcome is reported.
type Processor struct {
	log     logging.Logger
	cfg     *config.Live
	handler Handler
	metrics *metrics.Metrics
	sensors *Controller

	current atomic.Int32

	mu     sync.Mutex // Guards cancel and done.
	cancel context.CancelFunc
	done   chan struct{}
}

// NewProcessor returns a new Processor running h, which defaults to a
// Highlighter when nil. The handler timeout and force exit options are read
// from cfg when each job starts. m may be nil.
func NewProcessor(cfg *config.Live, h Handler, l logging.Logger, m *metrics.Metrics) *Processor {
	if h == nil {
		h = NewHighlighter(cfg, l)
	}
	p := &Processor{
		log:     l,
		cfg:     cfg,
		handler: h,
		metrics: m,
		sensors: NewController("sensors", NewSensors(l), l),
	}
	p.current.Store(int32(NoImage))
	return p
}

// Process starts processing a on a new goroutine and takes ownership of a;
// the caller must not use a after the call. If a job is still being
// processed, a is released and ErrBusy returned.
func (p *Processor) Process(a *ProcessArgs) error {
	if a == nil {
		return errNilArgs
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if Status(p.current.Load()) == Processing {
		a.Release()
		return ErrBusy
	}
	// An outcome that was never read; collect the old worker.
	if p.done != nil {
		<-p.done
	}

	c := p.cfg.Load()
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if c.HandlerTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), time.Duration(c.HandlerTimeout)*time.Millisecond)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	force := c.ForceHandlerExit

	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.current.Store(int32(Processing))

	p.log.Debug(pkg+"processing", "age", a.Timestamp.Elapsed(), "tiles", a.Tiles.Len(), "timeout", c.HandlerTimeout)
	go func() {
		start := time.Now()
		s := p.handler.Handle(ctx, a, force)
		if !s.Terminal() {
			p.log.Warning(pkg+"handler returned non-terminal status", "status", s.String())
			s = Fail
		}
		cancel()
		a.Release()
		took := time.Since(start)
		p.metrics.Result(s.String(), took)
		p.log.Debug(pkg+"processing ready", "status", s.String(), "took", took)
		p.current.Store(int32(s))
		close(done)
	}()
	return nil
}

// Status returns the current status. A terminal status is returned once;
// the finished worker is then collected and the status reset to NoImage.
func (p *Processor) Status() Status {
	s := Status(p.current.Load())
	if !s.Terminal() {
		return s
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another caller may have collected the outcome first.
	s = Status(p.current.Load())
	if !s.Terminal() {
		return s
	}
	if p.done != nil {
		<-p.done
		p.done = nil
	}
	p.cancel = nil
	p.current.Store(int32(NoImage))
	return s
}

// Die asks a running job to finish. It does not wait.
func (p *Processor) Die() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

// Wait blocks until any running job has finished. The outcome is left for
// Status.
func (p *Processor) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// StartMeasure starts the sensor poller.
func (p *Processor) StartMeasure() { p.sensors.Start() }

// StopMeasure stops the sensor poller.
func (p *Processor) StopMeasure() { p.sensors.Stop() }
