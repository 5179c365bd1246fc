/*
DESCRIPTION
  stopper.go provides Stopper, a monotonic stopwatch.

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

import "time"

// Stopper is a point on the monotonic clock from which elapsed time is
// measured. The zero Stopper is not valid; use NewStopper.
type Stopper struct {
	t time.Time
}

// NewStopper returns a Stopper started now.
func NewStopper() Stopper { return Stopper{t: time.Now()} }

// NewStopperOffset returns a Stopper started at now+d. A negative d gives a
// Stopper that appears to have been running for -d already.
func NewStopperOffset(d time.Duration) Stopper { return Stopper{t: time.Now().Add(d)} }

// Time returns the start of the Stopper.
func (s Stopper) Time() time.Time { return s.t }

// Before reports whether s started before o.
func (s Stopper) Before(o Stopper) bool { return s.t.Before(o.t) }

// Elapsed returns the time since the start.
func (s Stopper) Elapsed() time.Duration { return time.Since(s.t) }

// ElapsedMs returns the time since the start in milliseconds.
func (s Stopper) ElapsedMs() int64 { return s.Elapsed().Milliseconds() }

// ElapsedUs returns the time since the start in microseconds.
func (s Stopper) ElapsedUs() int64 { return s.Elapsed().Microseconds() }

// ElapsedSeconds returns the time since the start in seconds.
func (s Stopper) ElapsedSeconds() float64 { return s.Elapsed().Seconds() }

// Sub returns the time from o to s, negative if o started later.
func (s Stopper) Sub(o Stopper) time.Duration { return s.t.Sub(o.t) }

// Lap returns the time since the start and restarts the Stopper.
func (s *Stopper) Lap() time.Duration {
	now := time.Now()
	d := now.Sub(s.t)
	s.t = now
	return d
}

// LapMs is Lap in milliseconds.
func (s *Stopper) LapMs() int64 { return s.Lap().Milliseconds() }

// LapUs is Lap in microseconds.
func (s *Stopper) LapUs() int64 { return s.Lap().Microseconds() }

// LapSeconds is Lap in seconds.
func (s *Stopper) LapSeconds() float64 { return s.Lap().Seconds() }

// Reset restarts the Stopper now.
func (s *Stopper) Reset() { s.t = time.Now() }
