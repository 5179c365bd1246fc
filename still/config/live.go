/*
DESCRIPTION
  live.go provides Live, a holder for the process wide configuration that is
  read once per pipeline iteration and updated rarely.

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
	"sync"
	"sync/atomic"
)

// Live holds the current Config. Readers get a copy that does not change
// under them; writers replace the whole Config.
type Live struct {
	mu sync.Mutex // Serialises writers.
	p  atomic.Pointer[Config]
}

// NewLive returns a Live holding c.
func NewLive(c Config) *Live {
	l := &Live{}
	l.p.Store(&c)
	return l
}

// Load returns a copy of the current Config.
func (l *Live) Load() Config {
	return *l.p.Load()
}

// Store replaces the current Config with c.
func (l *Live) Store(c Config) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p.Store(&c)
}

// Update applies vars to a copy of the current Config, defaults any invalid
// fields, stores the result and returns it. Unknown names are logged and
// ignored. A change of LogLevel is applied to the Logger.
func (l *Live) Update(vars map[string]string) Config {
	l.mu.Lock()
	defer l.mu.Unlock()

	old := *l.p.Load()
	c := old
	for name, v := range vars {
		if _, ok := Lookup(name); !ok {
			c.Logger.Warning("unknown config variable", "name", name, "value", v)
		}
	}
	c.Update(vars)
	c.Validate()
	if c.LogLevel != old.LogLevel && c.Logger != nil {
		c.Logger.SetLevel(c.LogLevel)
	}
	l.p.Store(&c)
	return c
}
