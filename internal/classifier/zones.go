package classifier

import (
	"image"

	"github.com/ironsheep/segment-reader/internal/detection"
)

// Zone is the slice of a digit image inspected for one segment.
type Zone struct {
	Segment     Segment
	Orientation detection.Orientation
	// Bounds is relative to the digit image's top-left corner.
	Bounds image.Rectangle
}

// Zones partitions a w x h digit image into the seven segment zones, in
// Segments order. Fractions use integer division, and the zones overlap:
//
//	top          rows [0, h/3)           horizontal
//	top_right    rows [0, h/2), right    vertical
//	bottom_right rows [h/2, h), right    vertical
//	bottom       rows [2h/3, h)          horizontal
//	bottom_left  rows [h/2, h), left     vertical
//	top_left     rows [0, h/2), left     vertical
//	middle       rows [h/3, 2h/3)        horizontal
//
// where left is cols [0, w/2) and right is cols [w/2, w).
func Zones(w, h int) []Zone {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	third, twoThirds, halfH, halfW := h/3, h*2/3, h/2, w/2

	return []Zone{
		{Top, detection.Horizontal, image.Rect(0, 0, w, third)},
		{TopRight, detection.Vertical, image.Rect(halfW, 0, w, halfH)},
		{BottomRight, detection.Vertical, image.Rect(halfW, halfH, w, h)},
		{Bottom, detection.Horizontal, image.Rect(0, twoThirds, w, h)},
		{BottomLeft, detection.Vertical, image.Rect(0, halfH, halfW, h)},
		{TopLeft, detection.Vertical, image.Rect(0, 0, halfW, halfH)},
		{Middle, detection.Horizontal, image.Rect(0, third, w, twoThirds)},
	}
}
