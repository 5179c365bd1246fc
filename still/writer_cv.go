//go:build withcv
// +build withcv

/*
DESCRIPTION
  writer_cv.go provides JPEG writing of stills using Open CV.

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

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ausocean/stillcam/frame"
)

// writeStill encodes the single channel m as a JPEG file called name.
func writeStill(name string, m *frame.Mat) error {
	err := m.Require(1)
	if err != nil {
		return err
	}
	mat, err := gocv.NewMatFromBytes(m.Rows, m.Cols, gocv.MatTypeCV8UC1, m.Data[:m.Total()])
	if err != nil {
		return fmt.Errorf("could not create mat: %w", err)
	}
	defer mat.Close()
	if !gocv.IMWrite(name, mat) {
		return fmt.Errorf("could not write %s", name)
	}
	return nil
}
