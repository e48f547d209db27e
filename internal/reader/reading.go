package reader

import (
	"math"
	"strconv"
	"strings"
)

// Reading is the result of reading every slot of a layout.
type Reading struct {
	// Digits holds one digit per slot, most significant first.
	Digits        []int  `json:"digits"`
	DecimalPlaces int    `json:"decimal_places"`
	Unit          string `json:"unit,omitempty"`
	Label         string `json:"label,omitempty"`
}

// String renders the digits with the decimal point inserted DecimalPlaces from
// the right, e.g. "12.3". Leading zeros are kept as displayed.
func (r *Reading) String() string {
	var b strings.Builder
	point := len(r.Digits) - r.DecimalPlaces
	for i, d := range r.Digits {
		if i == point && r.DecimalPlaces > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(d))
	}
	return b.String()
}

// Value returns the reading as a number.
func (r *Reading) Value() float64 {
	v := 0
	for _, d := range r.Digits {
		v = v*10 + d
	}
	return float64(v) / math.Pow10(r.DecimalPlaces)
}

// Format renders the reading for display, e.g. "Weight: 12.3 kg".
func (r *Reading) Format() string {
	s := r.String()
	if r.Unit != "" {
		s += " " + r.Unit
	}
	if r.Label != "" {
		s = r.Label + ": " + s
	}
	return s
}
