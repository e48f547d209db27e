package imaging

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorStats summarizes the lighting of an image region.
//
// When a digit fails to classify, these numbers usually tell whether the slot
// is misplaced (no ink at all), washed out by glare (high lightness, little
// ink) or too dark to threshold (low lightness, ink everywhere).
type ColorStats struct {
	// MeanHex is the average color as "#rrggbb".
	MeanHex string `json:"mean_hex"`

	// MeanHSL is the average color in HSL.
	MeanHSL HSLColor `json:"mean_hsl"`

	// Lightness is the mean CIE L* over all pixels, 0 (black) to 100 (white).
	Lightness float64 `json:"lightness"`

	// InkFraction is the share of pixels, 0 to 1, with L* below 50.
	InkFraction float64 `json:"ink_fraction"`

	// Pixels is the number of opaque pixels measured.
	Pixels int `json:"pixels"`
}

// RegionStats measures the color statistics of img. Fully transparent pixels
// are skipped; an image without opaque pixels yields zero stats.
func RegionStats(img image.Image) ColorStats {
	bounds := img.Bounds()

	var sumR, sumG, sumB, sumL float64
	ink, n := 0, 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			l, _, _ := c.Lab()
			sumR += c.R
			sumG += c.G
			sumB += c.B
			sumL += l
			if l < 0.5 {
				ink++
			}
			n++
		}
	}

	if n == 0 {
		return ColorStats{MeanHex: "#000000"}
	}

	mean := colorful.Color{R: sumR / float64(n), G: sumG / float64(n), B: sumB / float64(n)}.Clamped()
	h, s, l := mean.Hsl()
	return ColorStats{
		MeanHex: mean.Hex(),
		MeanHSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
		Lightness:   round2(sumL / float64(n) * 100),
		InkFraction: round2(float64(ink) / float64(n)),
		Pixels:      n,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
