//go:build profile
// +build profile

/*
DESCRIPTION
  profile.go enables CPU profiling to still.prof and serves the pprof
  handlers next to the metrics when built with the profile tag.

AUTHORS
  Dan Kortschak <dan@ausocean.org>
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"net/http"
	"net/http/pprof"
)

// Path the pprof handlers are served under.
const pprofPath = "/debug/pprof/"

func init() {
	canProfile = true
	debugRoutes = func(mux *http.ServeMux) {
		mux.HandleFunc(pprofPath, pprof.Index)
		mux.HandleFunc(pprofPath+"cmdline", pprof.Cmdline)
		mux.HandleFunc(pprofPath+"profile", pprof.Profile)
		mux.HandleFunc(pprofPath+"symbol", pprof.Symbol)
		mux.HandleFunc(pprofPath+"trace", pprof.Trace)
	}
}
