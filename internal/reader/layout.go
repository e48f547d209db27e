package reader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/segment-reader/internal/imaging"
)

// Slot is one digit position on the display.
type Slot struct {
	Name string                `json:"name" yaml:"name"`
	Quad imaging.Quadrilateral `json:"quad" yaml:"quad"`
}

// Layout describes where the digits of a display sit in a photograph and how
// to turn them into a number.
type Layout struct {
	// Slots lists the digit positions from most to least significant.
	Slots []Slot `json:"slots" yaml:"slots"`

	// DecimalPlaces is how many trailing digits follow the decimal point.
	DecimalPlaces int `json:"decimal_places" yaml:"decimal_places"`

	// Unit is appended when a reading is formatted, e.g. "kg".
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`

	// Label names the quantity when a reading is formatted, e.g. "Weight".
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// DefaultLayout returns the layout of the bathroom scale the reader was first
// calibrated on: three 80x220 digits side by side starting at (820,340), read
// as kilograms with one decimal place.
func DefaultLayout() Layout {
	slot := func(name string, x1, x2 int) Slot {
		return Slot{
			Name: name,
			Quad: imaging.Quadrilateral{
				TopLeft:     imaging.Pt(x1, 340),
				TopRight:    imaging.Pt(x2, 340),
				BottomRight: imaging.Pt(x2, 560),
				BottomLeft:  imaging.Pt(x1, 560),
			},
		}
	}

	return Layout{
		Slots: []Slot{
			slot("start", 820, 900),
			slot("middle", 900, 980),
			slot("end", 980, 1060),
		},
		DecimalPlaces: 1,
		Unit:          "kg",
		Label:         "Weight",
	}
}

// Validate checks that the layout can produce a reading.
func (l Layout) Validate() error {
	if len(l.Slots) == 0 {
		return fmt.Errorf("layout has no slots")
	}
	if l.DecimalPlaces < 0 || l.DecimalPlaces >= len(l.Slots) {
		return fmt.Errorf("decimal_places must be in [0, %d), got %d", len(l.Slots), l.DecimalPlaces)
	}
	for i, s := range l.Slots {
		if err := s.Quad.Validate(); err != nil {
			return fmt.Errorf("slot %d (%s): %w", i, s.Name, err)
		}
	}
	return nil
}

// LoadLayout reads and validates a YAML layout file.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read layout: %w", err)
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("failed to parse layout %s: %w", path, err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, fmt.Errorf("invalid layout %s: %w", path, err)
	}
	return l, nil
}

// Save writes the layout to path as YAML.
func (l Layout) Save(path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Outlines pairs every slot with a label for drawing. Missing labels default
// to the slot name.
func (l Layout) Outlines(labels []string) []imaging.Outline {
	outlines := make([]imaging.Outline, len(l.Slots))
	for i, s := range l.Slots {
		label := s.Name
		if i < len(labels) {
			label = labels[i]
		}
		outlines[i] = imaging.Outline{Quad: s.Quad, Label: label}
	}
	return outlines
}
