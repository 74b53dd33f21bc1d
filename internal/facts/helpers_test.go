package facts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"gocv.io/x/gocv"

	"github.com/ironsheep/game-vision/internal/detection"
	"github.com/ironsheep/game-vision/internal/imaging"
)

// background is the gray level test frames are filled with. Pattern levels
// stay inside the range the contrast stretch maps without clipping.
const background = 120

func gray(v uint8) color.RGBA {
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

type patternCell struct {
	r imaging.Rect
	c color.RGBA
}

// pattern is a small icon made of filled rectangles over a base color.
type pattern struct {
	w, h  int
	base  color.RGBA
	cells []patternCell
}

var (
	// patA: dark right half, mid band on top.
	patA = pattern{w: 12, h: 12, base: gray(180), cells: []patternCell{
		{imaging.NewRect(6, 0, 6, 12), gray(60)},
		{imaging.NewRect(0, 0, 12, 3), gray(120)},
	}}
	// patB: dark bottom half, mid band on the left.
	patB = pattern{w: 12, h: 12, base: gray(180), cells: []patternCell{
		{imaging.NewRect(0, 6, 12, 6), gray(60)},
		{imaging.NewRect(0, 0, 3, 12), gray(120)},
	}}
	// patC: two bright quadrants with a mid square across the center.
	patC = pattern{w: 12, h: 12, base: gray(60), cells: []patternCell{
		{imaging.NewRect(0, 0, 6, 6), gray(180)},
		{imaging.NewRect(6, 6, 6, 6), gray(180)},
		{imaging.NewRect(3, 3, 6, 6), gray(120)},
	}}
	// patColor: red, green and blue blocks.
	patColor = pattern{w: 12, h: 12, base: color.RGBA{R: 200, G: 60, B: 60, A: 255}, cells: []patternCell{
		{imaging.NewRect(0, 0, 6, 12), color.RGBA{R: 60, G: 200, B: 60, A: 255}},
		{imaging.NewRect(0, 8, 12, 4), color.RGBA{R: 60, G: 60, B: 200, A: 255}},
	}}
	// patColor2: patColor with the hues rotated.
	patColor2 = pattern{w: 12, h: 12, base: color.RGBA{R: 60, G: 60, B: 200, A: 255}, cells: []patternCell{
		{imaging.NewRect(6, 0, 6, 12), color.RGBA{R: 200, G: 60, B: 60, A: 255}},
		{imaging.NewRect(0, 0, 12, 4), color.RGBA{R: 60, G: 200, B: 60, A: 255}},
	}}
	fullMask = pattern{w: 12, h: 12, base: gray(255)}
)

// checker returns a checkerboard pattern unique to i, used for templates a
// test does not draw.
func checker(i int) pattern {
	size := 9 + i%5
	cell := 1 + i%3
	p := pattern{w: size, h: size, base: gray(60)}
	for y := 0; y < size; y += cell {
		for x := 0; x < size; x += cell {
			if (x/cell+y/cell)%2 == 0 {
				p.cells = append(p.cells, patternCell{imaging.NewRect(x, y, cell, cell), gray(180)})
			}
		}
	}
	return p
}

func (p pattern) image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.w, p.h))
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			img.SetRGBA(x, y, p.base)
		}
	}
	for _, c := range p.cells {
		for y := c.r.Y; y < c.r.Y+c.r.Height && y < p.h; y++ {
			for x := c.r.X; x < c.r.X+c.r.Width && x < p.w; x++ {
				img.SetRGBA(x, y, c.c)
			}
		}
	}
	return img
}

func (p pattern) png(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.image()); err != nil {
		t.Fatalf("failed to encode pattern: %v", err)
	}
	return buf.Bytes()
}

// drawOn paints p into a BGRA or BGR matrix with its top-left corner at at.
func (p pattern) drawOn(mat *gocv.Mat, at imaging.Point) {
	gocv.Rectangle(mat, imaging.NewRect(at.X, at.Y, p.w, p.h).ImageRect(), p.base, -1)
	for _, c := range p.cells {
		gocv.Rectangle(mat, c.r.Translate(at).ImageRect(), c.c, -1)
	}
}

// allTemplates lists every template asset the registry can load.
func allTemplates() []string {
	names := append([]string{}, escTemplates...)
	names = append(names,
		TemplateEliteBossBar1, TemplateEliteBossBar2, TemplatePortal, TemplateRune,
		TemplatePlayerDefaultRatio, TemplatePlayerIdealRatio, TemplateTomb,
		TemplateCashShop, TemplateErdaShower, TemplateHPStart, TemplateHPEnd,
		TemplateHPSeparator1, TemplateHPSeparator2, TemplateHPShield,
		TemplateWealthExpPotionMask,
	)
	for _, k := range BuffKinds {
		names = append(names, k.Template())
	}
	return names
}

// createAssetFS builds a bundle holding every template. Templates without
// an override get a distinct checkerboard.
func createAssetFS(t *testing.T, overrides map[string]pattern) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for i, name := range allTemplates() {
		p, ok := overrides[name]
		if !ok {
			p = checker(i)
		}
		fsys[name] = &fstest.MapFile{Data: p.png(t)}
	}
	return fsys
}

func createRegistry(t *testing.T, fsys fstest.MapFS, opts Options) *Registry {
	t.Helper()
	reg := NewRegistry(fsys, opts)
	t.Cleanup(func() { reg.Close() })
	return reg
}

// createFrame returns a uniform background frame closed at test end.
func createFrame(t *testing.T, width, height int) *imaging.Frame {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(background, background, background, 255),
		height, width, gocv.MatTypeCV8UC4)
	frame := imaging.NewFrame(mat)
	t.Cleanup(func() { frame.Close() })
	return frame
}

// createDetector wraps frame in a cached detector closed at test end.
func createDetector(t *testing.T, reg *Registry, frame *imaging.Frame) *FrameDetector {
	t.Helper()
	d := NewCachedDetector(reg, frame)
	t.Cleanup(func() { d.Close() })
	return d
}

func draw(frame *imaging.Frame, p pattern, at imaging.Point) {
	mat := frame.Mat()
	p.drawOn(&mat, at)
}

// fakeRunner answers every Run through fn, given the blob shape.
type fakeRunner struct {
	fn    func(shape []int) (detection.Tensor, error)
	calls int
}

func (f *fakeRunner) Run(blob gocv.Mat) (detection.Tensor, error) {
	f.calls++
	return f.fn(blob.Size())
}

// rowsRunner returns a runner emitting rows as a [1, N, 6] tensor.
func rowsRunner(rows ...[]float32) *fakeRunner {
	return &fakeRunner{fn: func([]int) (detection.Tensor, error) {
		t := detection.Tensor{Shape: []int{1, len(rows), 6}}
		for _, r := range rows {
			t.Data = append(t.Data, r...)
		}
		return t, nil
	}}
}

// textRunner returns a runner whose text score is score everywhere and
// whose link score is zero.
func textRunner(score float32) *fakeRunner {
	return &fakeRunner{fn: func(shape []int) (detection.Tensor, error) {
		if len(shape) != 4 {
			return detection.Tensor{}, fmt.Errorf("unexpected blob shape %v", shape)
		}
		h, w := shape[2]/2, shape[3]/2
		t := detection.Tensor{Shape: []int{1, h, w, 2}, Data: make([]float32, h*w*2)}
		for i := 0; i < h*w; i++ {
			t.Data[i*2] = score
		}
		return t, nil
	}}
}

func errRunner(err error) *fakeRunner {
	return &fakeRunner{fn: func([]int) (detection.Tensor, error) { return detection.Tensor{}, err }}
}

// fakeReader returns values in order.
type fakeReader struct {
	values []uint32
	err    error
	calls  int
}

func (f *fakeReader) ReadNumber(img image.Image) (uint32, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	v := f.values[0]
	f.values = f.values[1:]
	return v, nil
}
