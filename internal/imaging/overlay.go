package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
)

// Outline is a labelled quadrilateral drawn by DrawOutlines.
type Outline struct {
	Quad  Quadrilateral
	Label string
}

// DefaultOutlineColor is used when no outline color is given.
const DefaultOutlineColor = "#ff0000"

// DrawOutlines draws each outline's edges on a copy of img and prints its
// label just above the top-left corner. It is used to check a slot layout
// against a photograph before reading it.
//
// colorHex is "#rrggbb"; an empty string selects DefaultOutlineColor.
func DrawOutlines(img image.Image, outlines []Outline, colorHex string) (*EncodedImage, error) {
	if colorHex == "" {
		colorHex = DefaultOutlineColor
	}
	c, err := colorful.Hex(colorHex)
	if err != nil {
		return nil, fmt.Errorf("invalid outline color %q: %w", colorHex, err)
	}
	r, g, b := c.RGB255()
	lineColor := color.RGBA{R: r, G: g, B: b, A: 255}

	bounds := img.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 180}

	for _, o := range outlines {
		q := o.Quad
		corners := [4]Point{q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft}
		for i := range corners {
			drawLine(result, corners[i], corners[(i+1)%4], lineColor)
		}
		if o.Label != "" {
			drawLabel(result, q.TopLeft.X, q.TopLeft.Y-9, o.Label, labelColor, bgColor)
		}
	}

	return EncodePNG(result)
}

// drawLine draws a 1px line from a to b using Bresenham's algorithm.
func drawLine(img *image.RGBA, a, b Point, c color.RGBA) {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	x, y := a.X, a.Y
	e := dx + dy
	for {
		if image.Pt(x, y).In(img.Rect) {
			img.SetRGBA(x, y, c)
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// drawLabel draws a text label at the given position using a 3x5 pixel font.
// Characters without a glyph leave a blank cell.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		'.': {"000", "000", "000", "000", "010"},
		'-': {"000", "000", "111", "000", "000"},
		'?': {"111", "001", "011", "000", "010"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if p := image.Pt(x+dx, y+dy); p.In(bounds) {
				img.Set(p.X, p.Y, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				if p := image.Pt(cx+col, y+row); p.In(bounds) {
					img.Set(p.X, p.Y, fg)
				}
			}
		}
		cx += charWidth
	}
}
