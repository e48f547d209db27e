package classifier

import (
	"fmt"
	"strings"
)

// Segment names one of the seven stroke positions of a seven-segment digit.
type Segment int

// The seven segments in feature-vector order.
const (
	Top         Segment = iota // horizontal bar across the top
	TopRight                   // upper right vertical
	BottomRight                // lower right vertical
	Bottom                     // horizontal bar across the bottom
	BottomLeft                 // lower left vertical
	TopLeft                    // upper left vertical
	Middle                     // horizontal bar across the centre
)

// Segments lists every segment in feature-vector order.
var Segments = [...]Segment{Top, TopRight, BottomRight, Bottom, BottomLeft, TopLeft, Middle}

var segmentNames = [...]string{"top", "top_right", "bottom_right", "bottom", "bottom_left", "top_left", "middle"}

// String returns the snake_case segment name, e.g. "top_right".
func (s Segment) String() string {
	if s < 0 || int(s) >= len(segmentNames) {
		return fmt.Sprintf("Segment(%d)", int(s))
	}
	return segmentNames[s]
}

// FeatureVector records which segments of a digit contain a detected line.
//
// Two vectors are equal exactly when all seven flags are equal, so == is the
// matching rule.
type FeatureVector struct {
	Top         bool `json:"top" yaml:"top"`
	TopRight    bool `json:"top_right" yaml:"top_right"`
	BottomRight bool `json:"bottom_right" yaml:"bottom_right"`
	Bottom      bool `json:"bottom" yaml:"bottom"`
	BottomLeft  bool `json:"bottom_left" yaml:"bottom_left"`
	TopLeft     bool `json:"top_left" yaml:"top_left"`
	Middle      bool `json:"middle" yaml:"middle"`
}

// VectorOf builds a vector with the given segments set.
func VectorOf(segments ...Segment) FeatureVector {
	var v FeatureVector
	for _, s := range segments {
		v = v.With(s, true)
	}
	return v
}

// Get returns the flag for segment s.
func (v FeatureVector) Get(s Segment) bool {
	switch s {
	case Top:
		return v.Top
	case TopRight:
		return v.TopRight
	case BottomRight:
		return v.BottomRight
	case Bottom:
		return v.Bottom
	case BottomLeft:
		return v.BottomLeft
	case TopLeft:
		return v.TopLeft
	case Middle:
		return v.Middle
	}
	return false
}

// With returns a copy of v with segment s set to on.
func (v FeatureVector) With(s Segment, on bool) FeatureVector {
	switch s {
	case Top:
		v.Top = on
	case TopRight:
		v.TopRight = on
	case BottomRight:
		v.BottomRight = on
	case Bottom:
		v.Bottom = on
	case BottomLeft:
		v.BottomLeft = on
	case TopLeft:
		v.TopLeft = on
	case Middle:
		v.Middle = on
	}
	return v
}

// Bits packs the vector into 7 bits, Top as bit 0 through Middle as bit 6.
func (v FeatureVector) Bits() uint8 {
	var b uint8
	for i, s := range Segments {
		if v.Get(s) {
			b |= 1 << uint(i)
		}
	}
	return b
}

// FromBits is the inverse of Bits. Bits above bit 6 are ignored.
func FromBits(b uint8) FeatureVector {
	var v FeatureVector
	for i, s := range Segments {
		v = v.With(s, b&(1<<uint(i)) != 0)
	}
	return v
}

// String renders all seven flags, e.g. "{top:true top_right:false ...}".
func (v FeatureVector) String() string {
	parts := make([]string, len(Segments))
	for i, s := range Segments {
		parts[i] = fmt.Sprintf("%s:%t", s, v.Get(s))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
