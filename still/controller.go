/*
DESCRIPTION
  controller.go provides Controller, which runs a Routine on its own
  goroutine with a cooperative start and stop.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package still

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ausocean/utils/logging"
)

// Routine is the work run by a Controller.
type Routine interface {
	// Run does the work until running returns false. It may keep going for
	// a while after that to finish in flight work.
	Run(running func() bool)

	// Cleanup is called by Stop after running has been cleared and before
	// waiting for Run to return, so that Run can be nudged to finish.
	Cleanup()
}

// Controller starts and stops a Routine. Start and Stop are serialised.
type Controller struct {
	name    string
	r       Routine
	log     logging.Logger
	mu      sync.Mutex
	started atomic.Bool
	done    chan struct{}
}

// NewController returns a stopped Controller for r.
func NewController(name string, r Routine, l logging.Logger) *Controller {
	return &Controller{name: name, r: r, log: l}
}

// Start runs the Routine on a new goroutine locked to its own OS thread,
// which is given real time priority where permitted. Starting a started
// Controller does nothing.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started.Load() {
		return
	}
	c.started.Store(true)
	done := make(chan struct{})
	c.done = done

	go func() {
		defer close(done)

		// The thread is not unlocked, so it exits with the goroutine and its
		// priority is not inherited by other goroutines.
		runtime.LockOSThread()
		err := setRealtime()
		if err != nil {
			c.log.Warning(pkg+"could not set real time priority", "routine", c.name, "error", err.Error())
		}

		c.log.Debug(pkg+"routine started", "routine", c.name)
		c.r.Run(c.started.Load)
		c.log.Debug(pkg+"routine finished", "routine", c.name)
	}()
}

// Stop clears the started flag, calls the Routine's Cleanup and waits for
// Run to return. Stopping a stopped Controller does nothing.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started.Load() {
		return
	}
	c.started.Store(false)
	c.r.Cleanup()
	<-c.done
	c.done = nil
}

// Started reports whether the Controller is started.
func (c *Controller) Started() bool { return c.started.Load() }
