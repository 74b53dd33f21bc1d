package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Annotation is one labelled box to draw over a frame.
type Annotation struct {
	Label string `json:"label"`
	Rect  Rect   `json:"rect"`
}

// AnnotateResult contains the annotated frame as base64 PNG.
type AnnotateResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Boxes       int    `json:"boxes"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Palette returns n well separated, fully opaque colors. Hues are evenly
// spaced so the same n always gives the same palette.
func Palette(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		h := float64(i) * 360 / float64(n)
		c := colorful.Hsv(h, 0.85, 0.95).Clamped()
		r, g, b := c.RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

// Annotate draws each box outline with its label. Boxes sharing a label share
// a color.
func Annotate(img image.Image, boxes []Annotation) *image.NRGBA {
	canvas := imaging.Clone(img)

	labels := make(map[string]int)
	for _, b := range boxes {
		if _, ok := labels[b.Label]; !ok {
			labels[b.Label] = len(labels)
		}
	}
	palette := Palette(len(labels))

	for _, b := range boxes {
		c := palette[labels[b.Label]]
		drawOutline(canvas, b.Rect, c)
		if b.Label != "" {
			drawLabel(canvas, b.Rect.X, b.Rect.Y, b.Label, c)
		}
	}
	return canvas
}

// AnnotateToPNG runs Annotate and encodes the result.
func AnnotateToPNG(img image.Image, boxes []Annotation) (*AnnotateResult, error) {
	out := Annotate(img, boxes)
	encoded, err := EncodePNGBase64(out)
	if err != nil {
		return nil, err
	}
	return &AnnotateResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		Boxes:       len(boxes),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

func drawOutline(img *image.NRGBA, r Rect, c color.RGBA) {
	b := img.Bounds()
	set := func(x, y int) {
		if image.Pt(x, y).In(b) {
			img.Set(x, y, c)
		}
	}
	x2, y2 := r.X+r.Width-1, r.Y+r.Height-1
	for x := r.X; x <= x2; x++ {
		set(x, r.Y)
		set(x, y2)
	}
	for y := r.Y; y <= y2; y++ {
		set(r.X, y)
		set(x2, y)
	}
}

// drawLabel writes text on a filled background just above (x, y), or just
// inside the box when there is no room above.
func drawLabel(img *image.NRGBA, x, y int, text string, bg color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	top := y - height
	if top < img.Bounds().Min.Y {
		top = y
	}
	box := image.Rect(x, top, x+width+2, top+height).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x+1, top+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}
