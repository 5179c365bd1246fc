/*
DESCRIPTION
  realtime_linux.go provides setRealtime for Linux.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package still

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Highest SCHED_FIFO priority on Linux.
const fifoMaxPriority = 99

// setRealtime moves the calling thread to the SCHED_FIFO policy at maximum
// priority. This normally needs CAP_SYS_NICE.
func setRealtime() error {
	attr := &unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_FIFO,
		Priority: fifoMaxPriority,
	}
	err := unix.SchedSetAttr(0, attr, 0)
	if err != nil {
		return fmt.Errorf("sched_setattr: %w", err)
	}
	return nil
}
