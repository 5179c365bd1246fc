/*
DESCRIPTION
  sensors.go provides Sensors, a Routine that polls sensors while frames are
  being processed.

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
	"time"

	"github.com/ausocean/utils/logging"
)

// Sensor polling timing.
const (
	sensorPeriod = time.Second
	sensorCheck  = 50 * time.Millisecond
)

// Sensors is a Routine that takes a measurement every second. No sensors
// are attached yet, so each measurement is a heartbeat.
type Sensors struct {
	log   logging.Logger
	beats atomic.Int64
	since Stopper // Owned by Run.
}

// NewSensors returns a new Sensors.
func NewSensors(l logging.Logger) *Sensors { return &Sensors{log: l} }

// Run implements Routine.
func (s *Sensors) Run(running func() bool) {
	next := time.Now().Add(sensorPeriod)
	s.since = NewStopper()
	for running() {
		time.Sleep(sensorCheck)
		if time.Now().Before(next) {
			continue
		}
		next = next.Add(sensorPeriod)
		s.measure()
	}
}

// Cleanup implements Routine.
func (s *Sensors) Cleanup() {}

// Beats returns the number of measurements taken.
func (s *Sensors) Beats() int64 { return s.beats.Load() }

func (s *Sensors) measure() {
	n := s.beats.Add(1)
	s.log.Debug(pkg+"sensor heartbeat", "beats", n, "periodMs", s.since.LapMs())
}
