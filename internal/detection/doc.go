// Package detection finds long straight strokes in small image regions.
//
// The package is the low-level half of the digit reader: it answers "does this
// region contain a line of substantial length?" for one scan orientation, and
// reports where such lines are.
//
// # Pipeline
//
// Every region goes through the same preprocessing before it is scanned:
//
//  1. Inversion: dark ink becomes bright so it survives thresholding
//  2. Grayscale: ITU-R BT.601 luminance (0.299*R + 0.587*G + 0.114*B)
//  3. Threshold: values strictly above the cutoff (default 127) become on
//  4. Dilation: a square all-ones kernel (default 5x5, one pass) closes small
//     gaps and anti-aliasing holes in strokes
//
// # Scanning
//
// A vertical scan walks the columns of the mask and slides a window half the
// region's height down each column. A column is reported as soon as one window
// position is entirely on. A horizontal scan is the same walk over rows with a
// window half the region's width.
//
// Only columns 0..W-2 (rows 0..H-2) are examined and the window offset stops
// one short of the last valid position. Both bounds are kept as-is so results
// stay compatible with recorded readings.
//
// # Degenerate Regions
//
// A region too small to hold a window (fewer than two pixels across, or a window
// shorter than two pixels) produces an empty result rather than an error. Such
// regions show up legitimately at image edges.
//
// # Coordinate System
//
// Line indices are 0-based and relative to the region's own top-left corner,
// regardless of where the region's bounds start.
package detection
