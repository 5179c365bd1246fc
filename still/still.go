/*
DESCRIPTION
  still.go provides the package documentation and shared constants of the
  still package.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package still provides a still frame extractor for live video. A Pipeline
// grabs frames from a device.Capture, waits for the scene to stop changing,
// checks the frame is sharp enough and hands it to a Processor, which runs a
// Handler on it in the background. The default Handler writes the frame as
// a JPEG with its sharp areas highlighted.
package still

// Used to indicate package in logging.
const pkg = "still: "
