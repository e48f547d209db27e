package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
//   - Width = X2 - X1, Height = Y2 - Y1
type Region struct {
	X1 int `json:"x1" yaml:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1" yaml:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2" yaml:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2" yaml:"y2"` // Bottom edge Y coordinate (exclusive)
}

// RegionOf converts a rectangle to a Region.
func RegionOf(r image.Rectangle) Region {
	return Region{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Validate checks that the region has positive width and height.
func (r Region) Validate() error {
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("invalid region (%d,%d)-(%d,%d): x1 must be < x2, y1 must be < y2",
			r.X1, r.Y1, r.X2, r.Y2)
	}
	return nil
}

// SubImage copies the part of img covered by r and returns it rebased to (0,0).
//
// r is relative to img's top-left corner, whatever img.Bounds().Min is. The
// result covers only the intersection of r with the image; when they do not
// overlap, the result is a zero-sized image rather than a panic.
func SubImage(img image.Image, r image.Rectangle) *image.NRGBA {
	origin := img.Bounds().Min
	return imaging.Crop(img, r.Add(origin))
}

// EncodedImage is an image serialized for transport.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
