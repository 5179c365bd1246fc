//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  writer.go provides JPEG writing of stills without Open CV.

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
	"image/jpeg"
	"os"

	"github.com/ausocean/stillcam/frame"
)

// Same default quality as the Open CV encoder.
const jpegQuality = 95

// writeStill encodes the single channel m as a JPEG file called name.
func writeStill(name string, m *frame.Mat) error {
	img, err := frame.Gray(m)
	if err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	if err != nil {
		f.Close()
		return fmt.Errorf("could not encode jpeg: %w", err)
	}
	return f.Close()
}
