/*
DESCRIPTION
  metrics_test.go provides testing for Metrics and Rate.

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
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRate(t *testing.T) {
	r := NewRate(4)
	start := time.Unix(0, 0)
	ticks := []time.Duration{0, 10, 20, 30, 40}
	var ok bool
	var mean, stddev time.Duration
	for i, d := range ticks {
		mean, stddev, ok = r.Tick(start.Add(d * time.Millisecond))
		if ok != (i == len(ticks)-1) {
			t.Fatalf("tick %d: unexpected ok %v", i, ok)
		}
	}
	if mean != 10*time.Millisecond {
		t.Errorf("unexpected mean, got: %v, want: 10ms", mean)
	}
	if stddev > time.Microsecond {
		t.Errorf("unexpected stddev, got: %v, want: 0", stddev)
	}

	// The next window starts afresh.
	if _, _, ok := r.Tick(start.Add(50 * time.Millisecond)); ok {
		t.Error("window reported early")
	}
}

func TestMetrics(t *testing.T) {
	m := New(nil)
	m.GrabFailed()
	m.Changed()
	m.Changed()
	m.Promoted()
	m.Tiles(3, true)
	m.Tiles(9, false)
	m.Dispatched(false)
	m.Dispatched(true)
	m.Dispatched(true)
	m.Result("EXACT", 30*time.Millisecond)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{name: "grab failures", got: testutil.ToFloat64(m.grabFailures), want: 1},
		{name: "changed", got: testutil.ToFloat64(m.changed), want: 2},
		{name: "promoted", got: testutil.ToFloat64(m.promoted), want: 1},
		{name: "rejected", got: testutil.ToFloat64(m.rejected), want: 1},
		{name: "fresh", got: testutil.ToFloat64(m.dispatched.WithLabelValues("fresh")), want: 1},
		{name: "stale", got: testutil.ToFloat64(m.dispatched.WithLabelValues("stale")), want: 2},
		{name: "exact", got: testutil.ToFloat64(m.results.WithLabelValues("EXACT")), want: 1},
	}
	for _, test := range tests {
		if test.got != test.want {
			t.Errorf("%s: got: %v, want: %v", test.name, test.got, test.want)
		}
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "still_changed_frames_total 2") {
		t.Errorf("metrics output missing counter:\n%s", body)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.Iteration(time.Now())
	m.GrabFailed()
	m.Changed()
	m.Promoted()
	m.Tiles(1, true)
	m.ShapeError()
	m.StaleStored()
	m.Dispatched(true)
	m.Result("FAIL", time.Second)
}
