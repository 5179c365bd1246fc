/*
DESCRIPTION
  config.go contains the still configuration struct and the methods used to
  validate and update it.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for the still frame
// extractor.
package config

import (
	"fmt"
	"strconv"

	"github.com/ausocean/stillcam/device"
	"github.com/ausocean/stillcam/filter"
	"github.com/ausocean/utils/logging"
)

// Config provides parameters relevant to a still pipeline instance. A new
// config must be passed to the constructor. Default values for these fields
// are defined as consts in variables.go. A Config is treated as a value; the
// pipeline takes one copy per loop iteration.
type Config struct {
	// VideoNum is the index of the video device, i.e. /dev/video<VideoNum>.
	VideoNum int

	// GetchDelay is the keystroke poll interval of the terminal UI in
	// milliseconds.
	GetchDelay int

	// HandlerTimeout is the time in milliseconds after which a running frame
	// handler is asked to finish. Zero disables the timeout.
	HandlerTimeout int

	// ForceHandlerExit makes a handler asked to finish return Incomplete
	// rather than completing with the best result it has.
	ForceHandlerExit bool

	// UseStaleFrame enables the one slot stale frame reservoir, which holds
	// a qualifying frame while the processor is busy.
	UseStaleFrame bool

	// StillDownsampleExponent selects the downsampling of the small frame
	// used for change detection; the frame is divided by
	// 1<<StillDownsampleExponent.
	StillDownsampleExponent int

	// StillChangeTime is the time in milliseconds without an observed change
	// required before a frame is considered still.
	StillChangeTime int

	// StillNoiseLimit is the luma difference a sampled pixel must exceed to
	// count as changed.
	StillNoiseLimit int

	// StillSampleInc is the stride between sampled pixels.
	StillSampleInc int

	// StillSamplePercent is the percentage of small frame pixels sampled.
	// Zero disables change detection.
	StillSamplePercent int

	// StillDeflectionPercent is the percentage of sampled pixels that must
	// change for the frame to count as changed.
	StillDeflectionPercent int

	// Sharpness analyser parameters. SharpTilesReq is the minimum number of
	// sharp tiles for a frame to be kept; zero disables the analyser.
	SharpTilesPerSide int
	SharpDiffLow      int
	SharpDiffHigh     int
	SharpHighPercent  int
	SharpTilesReq     int

	// OutputPrefix is prepended to the file name of every written still.
	OutputPrefix string

	// LogLevel is the logging verbosity, one of the logging package levels.
	LogLevel int8

	// LogPath is the file logs are written to. Empty logs to stderr.
	LogPath string

	// MetricsAddr is the listen address of the metrics HTTP server. Empty
	// disables the server.
	MetricsAddr string

	// Logger holds an implementation of the Logger interface.
	Logger logging.Logger
}

// New returns a Config with every variable at its default value.
func New(l logging.Logger) Config {
	c := Config{Logger: l}
	for _, v := range Variables {
		if v.Default != "" {
			v.Update(&c, v.Default)
		}
	}
	return c
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Check reports every variable outside its allowed range without changing
// the Config. The returned error is a device.MultiError of *RangeError.
func (c *Config) Check() error {
	var errs device.MultiError
	for _, v := range Variables {
		if v.Get == nil {
			continue
		}
		if n := v.Get(c); n < v.Low || n > v.High {
			errs = append(errs, &RangeError{Name: v.Name, Value: n, Low: v.Low, High: v.High})
		}
	}
	if len(errs) != 0 {
		return errs
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, v := range Variables {
		if value, ok := vars[v.Name]; ok && v.Update != nil {
			v.Update(c, value)
		}
	}
}

// Value returns the named variable in string form, as accepted by Update.
// Unknown names give the empty string.
func (c *Config) Value(name string) string {
	v, ok := Lookup(name)
	switch {
	case !ok:
		return ""
	case v.Get != nil:
		return strconv.Itoa(v.Get(c))
	}
	switch name {
	case KeyOutputPrefix:
		return c.OutputPrefix
	case KeyLogLevel:
		return levelNames[c.LogLevel]
	case KeyLogPath:
		return c.LogPath
	case KeyMetricsAddr:
		return c.MetricsAddr
	}
	return ""
}

// LogInvalidField logs that a field is bad or unset and that the default
// def is used instead.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// ChangeParams returns the change detector parameters.
func (c *Config) ChangeParams() filter.ChangeParams {
	return filter.ChangeParams{
		SamplingPercent:   c.StillSamplePercent,
		NoiseThreshold:    c.StillNoiseLimit,
		SamplingInc:       c.StillSampleInc,
		DeflectionPercent: c.StillDeflectionPercent,
	}
}

// SharpParams returns the sharpness analyser parameters.
func (c *Config) SharpParams() filter.SharpParams {
	return filter.SharpParams{
		TilesPerSide: c.SharpTilesPerSide,
		DiffLow:      c.SharpDiffLow,
		DiffHigh:     c.SharpDiffHigh,
		HighPercent:  c.SharpHighPercent,
	}
}

// RangeError is an integer variable outside its allowed range.
type RangeError struct {
	Name      string
	Value     int
	Low, High int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %d out of range [%d..%d]", e.Name, e.Value, e.Low, e.High)
}
