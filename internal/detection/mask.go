package detection

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
)

// BT.601 luma weights, the same weights used for grayscale conversion elsewhere
// in the reader.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Options controls the preprocessing applied before a region is scanned.
type Options struct {
	// Cutoff is the threshold level (0-255). Intensities strictly above it are on.
	Cutoff uint8 `json:"cutoff" yaml:"cutoff"`

	// KernelSize is the side of the square dilation kernel. Odd values are
	// expected; an even value behaves like the next smaller odd size.
	KernelSize int `json:"kernel_size" yaml:"kernel_size"`

	// Iterations is the number of dilation passes. Zero disables dilation.
	Iterations int `json:"iterations" yaml:"iterations"`
}

// DefaultOptions returns the preprocessing parameters the digit patterns were
// tuned against: threshold 127, one pass of a 5x5 dilation.
func DefaultOptions() Options {
	return Options{
		Cutoff:     127,
		KernelSize: 5,
		Iterations: 1,
	}
}

// Mask is a binarized region: every pixel is either on (foreground) or off.
//
// Coordinates are 0-based from the region's top-left corner.
type Mask struct {
	Width  int
	Height int
	pix    []bool
}

// NewMask creates an all-off mask of the given size. Negative sizes are
// treated as zero.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		Width:  width,
		Height: height,
		pix:    make([]bool, width*height),
	}
}

// On reports whether the pixel at (x, y) is foreground. Out-of-range
// coordinates are off.
func (m *Mask) On(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.pix[y*m.Width+x]
}

// Set marks the pixel at (x, y). Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.pix[y*m.Width+x] = on
}

// Count returns the number of on pixels.
func (m *Mask) Count() int {
	n := 0
	for _, on := range m.pix {
		if on {
			n++
		}
	}
	return n
}

// binarize runs invert -> grayscale -> threshold -> dilate over img.
//
// Each bild stage returns a fresh *image.RGBA whose Pix starts at the region's
// Min corner, so the final mask is read relative to that corner.
func binarize(img image.Image, opts Options) *Mask {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return NewMask(0, 0)
	}

	inverted := effect.Invert(img)
	gray := effect.GrayscaleWithWeights(inverted, lumaR, lumaG, lumaB)

	cutoff := opts.Cutoff
	binary := adjust.Apply(gray, func(c color.RGBA) color.RGBA {
		if c.R > cutoff {
			return color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.RGBA{A: 255}
	})

	radius := float64(opts.KernelSize / 2)
	for i := 0; i < opts.Iterations && radius > 0; i++ {
		binary = effect.Dilate(binary, radius)
	}

	mask := NewMask(width, height)
	for y := 0; y < height; y++ {
		row := y * binary.Stride
		for x := 0; x < width; x++ {
			mask.pix[y*width+x] = binary.Pix[row+x*4] != 0
		}
	}
	return mask
}
