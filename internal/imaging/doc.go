// Package imaging loads meter photographs and cuts them into digit images.
//
// This package covers everything the reader does with pixels before a digit
// is classified: decoding and caching photographs, copying rectangular
// regions, correcting the perspective of a quadrilateral digit outline,
// measuring region lighting, and drawing layout outlines for calibration.
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the top-left
// corner of the image passed in, even when its Bounds().Min is not (0,0):
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//   - Quadrilateral corners are pixel corners, so an upright quadrilateral covers
//     the same pixels as the matching region
//
// Images returned by SubImage and Trim are fresh copies whose bounds start at (0,0).
//
// # Supported Formats
//
// PNG, JPEG, GIF, BMP and TIFF are decoded through github.com/disintegration/imaging
// and WebP through golang.org/x/image/webp. JPEG EXIF orientation is applied on load.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and never modify their input, so they can be called
// concurrently on the same image.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Quadrilaterals whose output would be empty or whose corners are degenerate
//   - Invalid region specifications (x1 >= x2 or y1 >= y2)
//   - File I/O errors during image loading
//   - Encoding errors during image output
//
// Regions that reach past the image edge are not an error: SubImage clips them and
// Trim fills the missing area with black.
package imaging
