package detection

import (
	"fmt"
	"image"
	"strings"
)

// Orientation selects which way a region is scanned for lines.
type Orientation int

const (
	// Vertical walks columns and looks for runs down each column.
	Vertical Orientation = iota
	// Horizontal walks rows and looks for runs across each row.
	Horizontal
)

// String returns "vertical" or "horizontal".
func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// ParseOrientation accepts "vertical"/"v" and "horizontal"/"h", case-insensitively.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertical", "v":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	default:
		return 0, fmt.Errorf("unknown orientation: %q", s)
	}
}

// LineDetector reports long foreground strokes in image regions.
//
// A LineDetector holds only its preprocessing options and is safe for
// concurrent use.
type LineDetector struct {
	opts Options
}

// NewLineDetector creates a detector with the given preprocessing options.
// A KernelSize below 1 is treated as 1 (no dilation) and negative iterations
// as zero.
func NewLineDetector(opts Options) *LineDetector {
	if opts.KernelSize < 1 {
		opts.KernelSize = 1
	}
	if opts.Iterations < 0 {
		opts.Iterations = 0
	}
	return &LineDetector{opts: opts}
}

// Options returns the detector's preprocessing options.
func (d *LineDetector) Options() Options {
	return d.opts
}

// Binarize applies the preprocessing pipeline to img and returns the mask.
func (d *LineDetector) Binarize(img image.Image) *Mask {
	return binarize(img, d.opts)
}

// DetectVerticalLine returns, in ascending order, the columns of img holding an
// unbroken foreground run at least half the region's height.
func (d *LineDetector) DetectVerticalLine(img image.Image) []int {
	return d.Detect(img, Vertical)
}

// DetectHorizontalLine returns, in ascending order, the rows of img holding an
// unbroken foreground run at least half the region's width.
func (d *LineDetector) DetectHorizontalLine(img image.Image) []int {
	return d.Detect(img, Horizontal)
}

// HasLine reports whether img contains at least one line in orientation o.
// It agrees with len(Detect(img, o)) > 0 but stops at the first line found.
func (d *LineDetector) HasLine(img image.Image, o Orientation) bool {
	bounds := img.Bounds()
	if TooSmall(bounds.Dx(), bounds.Dy(), o) {
		return false
	}
	return len(scan(d.Binarize(img), o, 1)) > 0
}

// Detect binarizes img and scans it in orientation o. Regions too small to
// hold a scan window are not preprocessed and yield an empty slice.
func (d *LineDetector) Detect(img image.Image, o Orientation) []int {
	bounds := img.Bounds()
	if TooSmall(bounds.Dx(), bounds.Dy(), o) {
		return make([]int, 0)
	}
	return ScanMask(d.Binarize(img), o)
}

// TooSmall reports whether a width x height region cannot form a single scan
// window in orientation o.
func TooSmall(width, height int, o Orientation) bool {
	across, along := scanAxes(width, height, o)
	return across < 2 || along/2 < 2
}

// ScanMask scans an already binarized mask in orientation o.
//
// For each line index i in [0, across-1) a window of length along/2 is slid to
// offsets [0, along/2-1); i is recorded on the first fully-on window.
func ScanMask(m *Mask, o Orientation) []int {
	return scan(m, o, 0)
}

// scan stops after limit lines; a limit of zero scans everything.
func scan(m *Mask, o Orientation, limit int) []int {
	across, along := scanAxes(m.Width, m.Height, o)
	window := along / 2

	lines := make([]int, 0)
	for i := 0; i < across-1; i++ {
		for j := 0; j < window-1; j++ {
			if runOn(m, o, i, j, window) {
				lines = append(lines, i)
				break
			}
		}
		if limit > 0 && len(lines) >= limit {
			break
		}
	}
	return lines
}

// scanAxes returns the number of candidate lines and the length of each line.
func scanAxes(width, height int, o Orientation) (across, along int) {
	if o == Horizontal {
		return height, width
	}
	return width, height
}

// runOn reports whether the window of length n starting at offset on line i is
// entirely foreground.
func runOn(m *Mask, o Orientation, i, offset, n int) bool {
	for k := offset; k < offset+n; k++ {
		x, y := i, k
		if o == Horizontal {
			x, y = k, i
		}
		if !m.On(x, y) {
			return false
		}
	}
	return true
}
