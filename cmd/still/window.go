//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  window.go replaces the preview window when Open CV is not available.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import "errors"

var errNoWindow = errors.New("preview window requires Open CV, build with -tags withcv")

func newWindow(name string) (window, error) { return nil, errNoWindow }
