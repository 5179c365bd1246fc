//go:build !linux
// +build !linux

/*
DESCRIPTION
  realtime_other.go provides setRealtime for systems other than Linux.

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

import "errors"

func setRealtime() error { return errors.New("real time priority not supported") }
