package ocr

import (
	"image"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// Tesseract wants glyphs roughly 20px or taller; the bar digits are ~11px.
const (
	upscale       = 3
	binarizeLevel = 128
)

// Preprocess prepares a health bar crop for recognition: grayscale, upscale,
// invert and binarize to black digits on white.
func Preprocess(img image.Image) *image.Gray {
	b := img.Bounds()
	out := imaging.Grayscale(img)
	out = imaging.Resize(out, b.Dx()*upscale, b.Dy()*upscale, imaging.Lanczos)
	out = imaging.Invert(out)
	return segment.Threshold(out, binarizeLevel)
}
