//go:build !linux
// +build !linux

/*
DESCRIPTION
  monotonic_other.go provides a monotonic clock reading on systems other than
  Linux.

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

var epoch = time.Now()

// monotonicNow returns the nanoseconds since the process started.
func monotonicNow() int64 { return int64(time.Since(epoch)) }
