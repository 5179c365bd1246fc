/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, its range and default, a function for updating the
  variable in the Config struct from a string, and finally, a validation
  function to check the validity of the corresponding field value in the
  Config.

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
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
)

// Config map Keys. These are also the long command line option names and
// the keys of the configuration file.
const (
	KeyVideoNum                = "video-num"
	KeyGetchDelay              = "getch-delay"
	KeyHandlerTimeout          = "handler-timeout"
	KeyForceHandlerExit        = "force-handler-exit"
	KeyUseStaleFrame           = "use-stale-frame"
	KeyStillDownsampleExponent = "still-downsample-exponent"
	KeyStillChangeTime         = "still-change-time"
	KeyStillNoiseLimit         = "still-noise-limit"
	KeyStillSampleInc          = "still-sample-inc"
	KeyStillSamplePercent      = "still-sample-percent"
	KeyStillDeflectionPercent  = "still-deflection-percent"
	KeySharpTilesPerSide       = "sharp-tiles-per-side"
	KeySharpDiffLow            = "sharp-diff-low"
	KeySharpDiffHigh           = "sharp-diff-high"
	KeySharpHighPercent        = "sharp-high-percent"
	KeySharpTilesReq           = "sharp-tiles-req"
	KeyOutputPrefix            = "output-prefix"
	KeyLogLevel                = "log-level"
	KeyLogPath                 = "log-path"
	KeyMetricsAddr             = "metrics-addr"
)

// Config map parameter types.
const (
	typeString = "string"
	typeInt    = "int"
	typeBool   = "bool"
)

// Default variable values.
const (
	defaultVideoNum                = 0
	defaultGetchDelay              = 100 // ms
	defaultHandlerTimeout          = 0   // ms, disabled
	defaultStillDownsampleExponent = 2   // Quarter.
	defaultStillChangeTime         = 500 // ms
	defaultStillNoiseLimit         = 10
	defaultStillSampleInc          = 67
	defaultStillSamplePercent      = 10
	defaultStillDeflectionPercent  = 5
	defaultSharpTilesPerSide       = 10
	defaultSharpDiffLow            = 10
	defaultSharpDiffHigh           = 40
	defaultSharpHighPercent        = 20
	defaultSharpTilesReq           = 4
	defaultOutputPrefix            = "still-"
	defaultLogLevel                = "info"
)

// Log levels by name.
var levels = map[string]int8{
	"debug":   logging.Debug,
	"info":    logging.Info,
	"warning": logging.Warning,
	"error":   logging.Error,
	"fatal":   logging.Fatal,
}

var levelNames = func() map[int8]string {
	m := make(map[int8]string, len(levels))
	for k, v := range levels {
		m[v] = k
	}
	return m
}()

// Variable describes a configuration variable.
type Variable struct {
	Name  string
	Type  string
	Usage string

	// Default is the default value in string form.
	Default string

	// Low and High bound integer and boolean variables, which also provide
	// Get and Set. Booleans are 0 or 1.
	Low, High int
	Get       func(*Config) int
	Set       func(*Config, int)

	// Update sets the variable from its string form.
	Update func(*Config, string)

	// Validate replaces an invalid value with the default.
	Validate func(*Config)
}

// Variables describes the variables that can be used for still control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []Variable{
	intVar(KeyVideoNum, 0, 9, defaultVideoNum, "video device index",
		func(c *Config) int { return c.VideoNum }, func(c *Config, v int) { c.VideoNum = v }),
	intVar(KeyGetchDelay, 10, 5000, defaultGetchDelay, "keystroke poll interval in ms",
		func(c *Config) int { return c.GetchDelay }, func(c *Config, v int) { c.GetchDelay = v }),
	intVar(KeyHandlerTimeout, 0, 2000, defaultHandlerTimeout, "frame handler timeout in ms, 0 disables",
		func(c *Config) int { return c.HandlerTimeout }, func(c *Config, v int) { c.HandlerTimeout = v }),
	boolVar(KeyForceHandlerExit, false, "on timeout, abort the handler without result",
		func(c *Config) *bool { return &c.ForceHandlerExit }),
	boolVar(KeyUseStaleFrame, false, "keep a qualifying frame while the handler is busy",
		func(c *Config) *bool { return &c.UseStaleFrame }),
	intVar(KeyStillDownsampleExponent, 0, 3, defaultStillDownsampleExponent, "change detection downsampling, 0..3 for original, half, quarter, oct",
		func(c *Config) int { return c.StillDownsampleExponent }, func(c *Config, v int) { c.StillDownsampleExponent = v }),
	intVar(KeyStillChangeTime, 0, 10000, defaultStillChangeTime, "ms without change before a frame is still",
		func(c *Config) int { return c.StillChangeTime }, func(c *Config, v int) { c.StillChangeTime = v }),
	intVar(KeyStillNoiseLimit, 1, 100, defaultStillNoiseLimit, "per pixel noise threshold",
		func(c *Config) int { return c.StillNoiseLimit }, func(c *Config, v int) { c.StillNoiseLimit = v }),
	intVar(KeyStillSampleInc, 2, 4441, defaultStillSampleInc, "change detection sampling stride",
		func(c *Config) int { return c.StillSampleInc }, func(c *Config, v int) { c.StillSampleInc = v }),
	intVar(KeyStillSamplePercent, 0, 20, defaultStillSamplePercent, "percentage of pixels sampled, 0 disables change detection",
		func(c *Config) int { return c.StillSamplePercent }, func(c *Config, v int) { c.StillSamplePercent = v }),
	intVar(KeyStillDeflectionPercent, 0, 20, defaultStillDeflectionPercent, "percentage of sampled pixels that must change",
		func(c *Config) int { return c.StillDeflectionPercent }, func(c *Config, v int) { c.StillDeflectionPercent = v }),
	intVar(KeySharpTilesPerSide, 1, 40, defaultSharpTilesPerSide, "sharpness tiles per side",
		func(c *Config) int { return c.SharpTilesPerSide }, func(c *Config, v int) { c.SharpTilesPerSide = v }),
	intVar(KeySharpDiffLow, 1, 100, defaultSharpDiffLow, "weak edge threshold",
		func(c *Config) int { return c.SharpDiffLow }, func(c *Config, v int) { c.SharpDiffLow = v }),
	intVar(KeySharpDiffHigh, 2, 100, defaultSharpDiffHigh, "strong edge threshold",
		func(c *Config) int { return c.SharpDiffHigh }, func(c *Config, v int) { c.SharpDiffHigh = v }),
	intVar(KeySharpHighPercent, 0, 100, defaultSharpHighPercent, "strong to weak edge percentage a tile must exceed",
		func(c *Config) int { return c.SharpHighPercent }, func(c *Config, v int) { c.SharpHighPercent = v }),
	intVar(KeySharpTilesReq, 0, 100, defaultSharpTilesReq, "minimum sharp tiles, 0 disables the sharpness check",
		func(c *Config) int { return c.SharpTilesReq }, func(c *Config, v int) { c.SharpTilesReq = v }),
	{
		Name:    KeyOutputPrefix,
		Type:    typeString,
		Usage:   "file name prefix of written stills",
		Default: defaultOutputPrefix,
		Update:  func(c *Config, v string) { c.OutputPrefix = v },
		Validate: func(c *Config) {
			if c.OutputPrefix == "" {
				c.LogInvalidField(KeyOutputPrefix, defaultOutputPrefix)
				c.OutputPrefix = defaultOutputPrefix
			}
		},
	},
	{
		Name:    KeyLogLevel,
		Type:    "enum:debug,info,warning,error,fatal",
		Usage:   "logging verbosity",
		Default: defaultLogLevel,
		Update: func(c *Config, v string) {
			c.LogLevel = parseEnum(KeyLogLevel, v, levels, logging.Info, c)
		},
	},
	{
		Name:   KeyLogPath,
		Type:   typeString,
		Usage:  "log file, empty logs to stderr",
		Update: func(c *Config, v string) { c.LogPath = v },
	},
	{
		Name:   KeyMetricsAddr,
		Type:   typeString,
		Usage:  "metrics listen address, empty disables",
		Update: func(c *Config, v string) { c.MetricsAddr = v },
	},
}

// Lookup returns the variable with the given name.
func Lookup(name string) (Variable, bool) {
	for _, v := range Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

func intVar(name string, low, high, def int, usage string, get func(*Config) int, set func(*Config, int)) Variable {
	return Variable{
		Name:    name,
		Type:    typeInt,
		Usage:   usage,
		Default: strconv.Itoa(def),
		Low:     low,
		High:    high,
		Get:     get,
		Set:     set,
		Update: func(c *Config, v string) {
			n, err := parseInt(name, v, c)
			if err == nil {
				set(c, n)
			}
		},
		Validate: func(c *Config) {
			if n := get(c); n < low || n > high {
				c.LogInvalidField(name, def)
				set(c, def)
			}
		},
	}
}

func boolVar(name string, def bool, usage string, field func(*Config) *bool) Variable {
	b2i := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	return Variable{
		Name:    name,
		Type:    typeBool,
		Usage:   usage,
		Default: strconv.Itoa(b2i(def)),
		Low:     0,
		High:    1,
		Get:     func(c *Config) int { return b2i(*field(c)) },
		Set:     func(c *Config, v int) { *field(c) = v != 0 },
		Update: func(c *Config, v string) {
			b, err := parseBool(name, v, c)
			if err == nil {
				*field(c) = b
			}
		},
	}
}

func parseInt(n, v string, c *Config) (int, error) {
	_v, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected integer for param %s", n), "value", v)
	}
	return _v, err
}

func parseBool(n, v string, c *Config) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
		return false, fmt.Errorf("invalid bool %q", v)
	}
}

func parseEnum(n, v string, enums map[string]int8, def int8, c *Config) int8 {
	_v, ok := enums[strings.ToLower(strings.TrimSpace(v))]
	if !ok {
		c.Logger.Warning(fmt.Sprintf("invalid value for %s param", n), "value", v)
		return def
	}
	return _v
}
