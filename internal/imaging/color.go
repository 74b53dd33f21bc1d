package imaging

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gocv.io/x/gocv"
)

// ToBGR converts a BGRA matrix to a new 3-channel BGR matrix.
func ToBGR(mat gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.CvtColor(mat, &dst, gocv.ColorBGRAToBGR)
	return dst
}

// ToRGB converts a BGRA matrix to a new 3-channel RGB matrix.
func ToRGB(mat gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.CvtColor(mat, &dst, gocv.ColorBGRAToRGB)
	return dst
}

// ToGrayscale converts a BGRA matrix to a new single channel matrix.
//
// When addContrast is set the result is stretched with gray*1.5 - 80
// (saturating), which is the form every grayscale template is captured in.
func ToGrayscale(mat gocv.Mat, addContrast bool) gocv.Mat {
	gray := gocv.NewMat()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRAToGray)
	if !addContrast {
		return gray
	}
	defer gray.Close()

	contrast := gocv.NewMat()
	gocv.AddWeighted(gray, 1.5, gray, 0, -80, &contrast)
	return contrast
}

// AllChannelsAtLeast reports whether every channel of the 8-bit pixel at
// (x, y) is >= threshold.
func AllChannelsAtLeast(mat gocv.Mat, x, y int, threshold uint8) bool {
	for _, v := range mat.GetVecbAt(y, x) {
		if v < threshold {
			return false
		}
	}
	return true
}

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor is a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a frame pixel in several representations.
//
// Alpha is reported separately because captures are BGRA and the border
// vote of the minimap locator compares all four channels.
type ColorResult struct {
	Hex   string   `json:"hex"`
	RGB   RGBColor `json:"rgb"`
	Alpha uint8    `json:"alpha"`
	HSL   HSLColor `json:"hsl"`
}

// SampleColor reads the BGRA pixel at (x, y) of a frame.
//
// Parameters:
//   - mat: A 4-channel BGRA matrix.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y).
//   - error: Non-nil if the coordinates are outside the matrix.
//
// The HSL values come from go-colorful and are rounded to whole degrees and
// percents.
func SampleColor(mat gocv.Mat, x, y int) (*ColorResult, error) {
	if x < 0 || y < 0 || x >= mat.Cols() || y >= mat.Rows() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	px := mat.GetVecbAt(y, x)
	if len(px) < 4 {
		return nil, fmt.Errorf("expected 4 channels, got %d", len(px))
	}
	b, g, r, a := px[0], px[1], px[2], px[3]

	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()

	return &ColorResult{
		Hex:   fmt.Sprintf("#%02X%02X%02X", r, g, b),
		RGB:   RGBColor{R: r, G: g, B: b},
		Alpha: a,
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}, nil
}
