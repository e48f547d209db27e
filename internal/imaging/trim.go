package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Quadrilateral outlines one digit in a photograph by its four corners.
//
// Corners are pixel-corner coordinates: an axis-aligned quadrilateral with
// TopLeft (10,20) and BottomRight (30,60) covers exactly the pixels of the
// rectangle [10,30) x [20,60).
type Quadrilateral struct {
	TopLeft     Point `json:"top_left" yaml:"top_left"`
	TopRight    Point `json:"top_right" yaml:"top_right"`
	BottomRight Point `json:"bottom_right" yaml:"bottom_right"`
	BottomLeft  Point `json:"bottom_left" yaml:"bottom_left"`
}

// QuadFromRect returns the axis-aligned quadrilateral covering r.
func QuadFromRect(r image.Rectangle) Quadrilateral {
	return Quadrilateral{
		TopLeft:     Pt(r.Min.X, r.Min.Y),
		TopRight:    Pt(r.Max.X, r.Min.Y),
		BottomRight: Pt(r.Max.X, r.Max.Y),
		BottomLeft:  Pt(r.Min.X, r.Max.Y),
	}
}

// Size returns the dimensions of the trimmed output: the top edge's horizontal
// extent and the right edge's vertical extent.
func (q Quadrilateral) Size() (width, height int) {
	return q.TopRight.X - q.TopLeft.X, q.BottomRight.Y - q.TopRight.Y
}

// Validate checks that the quadrilateral produces a non-empty output.
func (q Quadrilateral) Validate() error {
	w, h := q.Size()
	if w < 1 || h < 1 {
		return fmt.Errorf("quadrilateral %v yields a %dx%d output; top-right must lie right of top-left and bottom-right below top-right", q, w, h)
	}
	return nil
}

// AxisAligned reports whether the quadrilateral is an upright rectangle.
func (q Quadrilateral) AxisAligned() bool {
	return q.TopLeft.Y == q.TopRight.Y &&
		q.BottomLeft.Y == q.BottomRight.Y &&
		q.TopLeft.X == q.BottomLeft.X &&
		q.TopRight.X == q.BottomRight.X
}

// Rect returns the rectangle for an axis-aligned quadrilateral.
func (q Quadrilateral) Rect() image.Rectangle {
	return image.Rect(q.TopLeft.X, q.TopLeft.Y, q.BottomRight.X, q.BottomRight.Y)
}

// ErrDegenerateQuad is returned when a quadrilateral's corners do not span a
// plane, e.g. three of them are collinear.
var ErrDegenerateQuad = errors.New("degenerate quadrilateral")

// Trim extracts the area outlined by q and corrects its perspective, returning
// an upright image of q.Size().
//
// Each output pixel is mapped back into img through the homography that takes
// the output rectangle onto q and sampled bilinearly. Samples falling outside
// img read as opaque black. Axis-aligned quadrilaterals are cropped directly.
func Trim(img image.Image, q Quadrilateral) (*image.NRGBA, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	w, h := q.Size()

	if q.AxisAligned() {
		return trimRect(img, q.Rect()), nil
	}

	hm, err := solveHomography(
		[4][2]float64{{0, 0}, {float64(w), 0}, {float64(w), float64(h)}, {0, float64(h)}},
		[4][2]float64{q.TopLeft.float(), q.TopRight.float(), q.BottomRight.float(), q.BottomLeft.float()},
	)
	if err != nil {
		return nil, err
	}

	src := imaging.Clone(img)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy, ok := hm.apply(float64(x)+0.5, float64(y)+0.5)
			if !ok {
				dst.SetNRGBA(x, y, color.NRGBA{A: 255})
				continue
			}
			dst.SetNRGBA(x, y, bilinear(src, sx-0.5, sy-0.5))
		}
	}
	return dst, nil
}

// trimRect crops r and pads any part lying outside img with opaque black.
func trimRect(img image.Image, r image.Rectangle) *image.NRGBA {
	bounds := img.Bounds()
	rel := r.Add(bounds.Min)
	if rel.In(bounds) {
		return imaging.Crop(img, rel)
	}

	dst := imaging.New(r.Dx(), r.Dy(), color.NRGBA{A: 255})
	inside := SubImage(img, r)
	offset := image.Pt(max(0, -r.Min.X), max(0, -r.Min.Y))
	return imaging.Paste(dst, inside, offset)
}

func (p Point) float() [2]float64 {
	return [2]float64{float64(p.X), float64(p.Y)}
}

// homography is a 3x3 projective transform with h[8] fixed at 1.
type homography [9]float64

func (hm homography) apply(x, y float64) (float64, float64, bool) {
	d := hm[6]*x + hm[7]*y + hm[8]
	if math.Abs(d) < 1e-12 {
		return 0, 0, false
	}
	return (hm[0]*x + hm[1]*y + hm[2]) / d, (hm[3]*x + hm[4]*y + hm[5]) / d, true
}

// solveHomography finds the transform taking each from[i] to to[i].
func solveHomography(from, to [4][2]float64) (homography, error) {
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		x, y := from[i][0], from[i][1]
		u, v := to[i][0], to[i][1]
		a[2*i] = [9]float64{x, y, 1, 0, 0, 0, -u * x, -u * y, u}
		a[2*i+1] = [9]float64{0, 0, 0, x, y, 1, -v * x, -v * y, v}
	}

	// Gauss-Jordan with partial pivoting on the augmented 8x9 system.
	for col := 0; col < 8; col++ {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-9 {
			return homography{}, ErrDegenerateQuad
		}
		a[col], a[pivot] = a[pivot], a[col]

		p := a[col][col]
		for k := col; k < 9; k++ {
			a[col][k] /= p
		}
		for r := 0; r < 8; r++ {
			if r == col || a[r][col] == 0 {
				continue
			}
			f := a[r][col]
			for k := col; k < 9; k++ {
				a[r][k] -= f * a[col][k]
			}
		}
	}

	var hm homography
	for i := 0; i < 8; i++ {
		hm[i] = a[i][8]
	}
	hm[8] = 1
	return hm, nil
}

// bilinear samples src at continuous pixel-center coordinates (x, y).
// Neighbours outside src contribute opaque black.
func bilinear(src *image.NRGBA, x, y float64) color.NRGBA {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)

	var acc [3]float64
	weights := [4]float64{(1 - fx) * (1 - fy), fx * (1 - fy), (1 - fx) * fy, fx * fy}
	offsets := [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for i, off := range offsets {
		if weights[i] == 0 {
			continue
		}
		c := pixelAt(src, x0+off[0], y0+off[1])
		acc[0] += weights[i] * float64(c.R)
		acc[1] += weights[i] * float64(c.G)
		acc[2] += weights[i] * float64(c.B)
	}
	return color.NRGBA{R: clamp8(acc[0]), G: clamp8(acc[1]), B: clamp8(acc[2]), A: 255}
}

func pixelAt(src *image.NRGBA, x, y int) color.NRGBA {
	if !image.Pt(x, y).In(src.Rect) {
		return color.NRGBA{A: 255}
	}
	return src.NRGBAAt(x, y)
}

func clamp8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
