/*
DESCRIPTION
  config_test.go provides testing for the Config struct methods (Validate,
  Check and Update) and for Live.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/stillcam/device"
	"github.com/ausocean/utils/logging"
)

type dumbLogger struct{ Level int8 }

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         { dl.Level = l }
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func defaults(l logging.Logger) Config {
	return Config{
		Logger:                  l,
		VideoNum:                defaultVideoNum,
		GetchDelay:              defaultGetchDelay,
		HandlerTimeout:          defaultHandlerTimeout,
		StillDownsampleExponent: defaultStillDownsampleExponent,
		StillChangeTime:         defaultStillChangeTime,
		StillNoiseLimit:         defaultStillNoiseLimit,
		StillSampleInc:          defaultStillSampleInc,
		StillSamplePercent:      defaultStillSamplePercent,
		StillDeflectionPercent:  defaultStillDeflectionPercent,
		SharpTilesPerSide:       defaultSharpTilesPerSide,
		SharpDiffLow:            defaultSharpDiffLow,
		SharpDiffHigh:           defaultSharpDiffHigh,
		SharpHighPercent:        defaultSharpHighPercent,
		SharpTilesReq:           defaultSharpTilesReq,
		OutputPrefix:            defaultOutputPrefix,
		LogLevel:                logging.Info,
	}
}

func TestNew(t *testing.T) {
	dl := &dumbLogger{}
	got := New(dl)
	want := defaults(dl)
	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\n%s", cmp.Diff(want, got))
	}
	if err := got.Check(); err != nil {
		t.Errorf("defaults out of range: %v", err)
	}
}

func TestValidate(t *testing.T) {
	dl := &dumbLogger{}

	got := Config{Logger: dl}
	err := (&got).Validate()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	// Zero is in range for these so they are kept.
	want := defaults(dl)
	want.StillDownsampleExponent = 0
	want.StillChangeTime = 0
	want.StillSamplePercent = 0
	want.StillDeflectionPercent = 0
	want.SharpHighPercent = 0
	want.SharpTilesReq = 0
	want.LogLevel = 0
	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\n%s", cmp.Diff(want, got))
	}
}

func TestCheck(t *testing.T) {
	dl := &dumbLogger{}
	c := New(dl)
	c.VideoNum = 10
	c.StillSampleInc = 1
	c.SharpDiffHigh = 101

	err := c.Check()
	var me device.MultiError
	if !errors.As(err, &me) {
		t.Fatalf("expected MultiError, got: %v", err)
	}
	var got []string
	for _, e := range me {
		var re *RangeError
		if !errors.As(e, &re) {
			t.Fatalf("expected RangeError, got: %v", e)
		}
		got = append(got, re.Name)
	}
	want := []string{KeyVideoNum, KeyStillSampleInc, KeySharpDiffHigh}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected errors\n%s", cmp.Diff(want, got))
	}

	c.Validate()
	if c.VideoNum != defaultVideoNum || c.StillSampleInc != defaultStillSampleInc || c.SharpDiffHigh != defaultSharpDiffHigh {
		t.Error("Validate did not default out of range fields")
	}
	if err := c.Check(); err != nil {
		t.Errorf("unexpected error after Validate: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	updateMap := map[string]string{
		KeyVideoNum:                "3",
		KeyGetchDelay:              "250",
		KeyHandlerTimeout:          "100",
		KeyForceHandlerExit:        "1",
		KeyUseStaleFrame:           "true",
		KeyStillDownsampleExponent: "1",
		KeyStillChangeTime:         "800",
		KeyStillNoiseLimit:         "12",
		KeyStillSampleInc:          "101",
		KeyStillSamplePercent:      "15",
		KeyStillDeflectionPercent:  "7",
		KeySharpTilesPerSide:       "20",
		KeySharpDiffLow:            "5",
		KeySharpDiffHigh:           "80",
		KeySharpHighPercent:        "40",
		KeySharpTilesReq:           "2",
		KeyOutputPrefix:            "/tmp/x-",
		KeyLogLevel:                "Debug",
		KeyLogPath:                 "/var/log/still.log",
		KeyMetricsAddr:             ":9100",
	}

	dl := &dumbLogger{}
	want := Config{
		Logger:                  dl,
		VideoNum:                3,
		GetchDelay:              250,
		HandlerTimeout:          100,
		ForceHandlerExit:        true,
		UseStaleFrame:           true,
		StillDownsampleExponent: 1,
		StillChangeTime:         800,
		StillNoiseLimit:         12,
		StillSampleInc:          101,
		StillSamplePercent:      15,
		StillDeflectionPercent:  7,
		SharpTilesPerSide:       20,
		SharpDiffLow:            5,
		SharpDiffHigh:           80,
		SharpHighPercent:        40,
		SharpTilesReq:           2,
		OutputPrefix:            "/tmp/x-",
		LogLevel:                logging.Debug,
		LogPath:                 "/var/log/still.log",
		MetricsAddr:             ":9100",
	}

	got := Config{Logger: dl}
	got.Update(updateMap)
	if !cmp.Equal(want, got) {
		t.Errorf("configs not equal\n%s", cmp.Diff(want, got))
	}

	for name, v := range updateMap {
		want := v
		switch name {
		case KeyUseStaleFrame:
			want = "1"
		case KeyLogLevel:
			want = "debug"
		}
		if got := got.Value(name); got != want {
			t.Errorf("unexpected value for %s, got: %q, want: %q", name, got, want)
		}
	}
	if got.Value("nonsense") != "" {
		t.Error("expected empty value for unknown variable")
	}

	// Bad values leave the field alone.
	got.Update(map[string]string{KeyVideoNum: "x", KeyUseStaleFrame: "maybe"})
	if got.VideoNum != 3 || !got.UseStaleFrame {
		t.Error("bad values changed config")
	}
}

func TestLive(t *testing.T) {
	dl := &dumbLogger{}
	l := NewLive(New(dl))

	snap := l.Load()
	c := l.Update(map[string]string{
		KeyStillDownsampleExponent: "1",
		KeySharpTilesPerSide:       "0", // Out of range, defaulted.
		KeyLogLevel:                "error",
		"no-such-variable":         "1",
	})
	if c.StillDownsampleExponent != 1 || l.Load().StillDownsampleExponent != 1 {
		t.Error("update not stored")
	}
	if c.SharpTilesPerSide != defaultSharpTilesPerSide {
		t.Errorf("out of range value not defaulted: %d", c.SharpTilesPerSide)
	}
	if dl.Level != logging.Error {
		t.Errorf("log level not applied, got: %d", dl.Level)
	}
	if snap.StillDownsampleExponent != defaultStillDownsampleExponent {
		t.Error("earlier snapshot changed")
	}
}

func TestParseTOML(t *testing.T) {
	const file = `
still-change-time = 800
use-stale-frame = true
output-prefix = "/var/lib/still/still-"
sharp-high-percent = 25.0
`
	got, err := parseTOML([]byte(file))
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	want := map[string]string{
		KeyStillChangeTime:  "800",
		KeyUseStaleFrame:    "true",
		KeyOutputPrefix:     "/var/lib/still/still-",
		KeySharpHighPercent: "25",
	}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected vars\n%s", cmp.Diff(want, got))
	}

	_, err = parseTOML([]byte("[table]\nx = 1\n"))
	if err == nil {
		t.Error("expected error for nested table")
	}
}
