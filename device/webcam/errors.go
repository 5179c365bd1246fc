/*
DESCRIPTION
  errors.go holds the errors and constants shared by the webcam builds.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package webcam

import (
	"errors"

	"github.com/ausocean/stillcam/device"
)

// Used to indicate package in logging.
const pkg = "webcam: "

// ErrNoCV is returned by Open when built without the withcv tag.
var ErrNoCV = errors.New("webcam requires Open CV, build with -tags withcv")

var _ device.Capture = (*Webcam)(nil)
