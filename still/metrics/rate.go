/*
DESCRIPTION
  rate.go provides Rate, a monitor of the period between loop iterations.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package metrics

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Rate collects the periods between successive ticks and reports their mean
// and standard deviation once per window.
type Rate struct {
	last    time.Time
	periods []float64 // Seconds.
}

// NewRate returns a Rate reporting every n periods.
func NewRate(n int) *Rate {
	if n < 2 {
		n = 2
	}
	return &Rate{periods: make([]float64, 0, n)}
}

// Tick records a tick at now. When the window is full it returns the mean
// and standard deviation of the period and starts a new window.
func (r *Rate) Tick(now time.Time) (mean, stddev time.Duration, ok bool) {
	if r.last.IsZero() {
		r.last = now
		return 0, 0, false
	}
	r.periods = append(r.periods, now.Sub(r.last).Seconds())
	r.last = now
	if len(r.periods) < cap(r.periods) {
		return 0, 0, false
	}
	m, s := stat.MeanStdDev(r.periods, nil)
	r.periods = r.periods[:0]
	return seconds(m), seconds(s), true
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
