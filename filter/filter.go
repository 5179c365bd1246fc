/*
DESCRIPTION
  filter.go provides the parameters shared by the still frame filters.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package filter provides the change detector and the sharpness analyser
// used to decide whether a frame is still and sharp enough to be kept.
// Both operate on continuous 8 bit frame.Mats; anything else is rejected
// with an error wrapping frame.ErrShape.
package filter

// ChangeParams holds the change detector parameters.
type ChangeParams struct {
	// SamplingPercent is the percentage of pixels compared.
	SamplingPercent int

	// NoiseThreshold is the absolute luma difference a sampled pixel must
	// exceed to count as changed.
	NoiseThreshold int

	// SamplingInc is the stride between sampled pixels.
	SamplingInc int

	// DeflectionPercent is the percentage of sampled pixels that must change
	// for the frame to count as changed.
	DeflectionPercent int
}

// SharpParams holds the sharpness analyser parameters.
type SharpParams struct {
	TilesPerSide int // Requested tiles along each side.
	DiffLow      int // Weak edge threshold.
	DiffHigh     int // Strong edge threshold.
	HighPercent  int // Strong to weak edge ratio a tile must exceed.
}
