package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Frame is one screen capture held as a 4-channel BGRA matrix.
//
// A Frame owns its matrix; call Close when done. Views returned by ROI share
// the frame's storage and must not outlive it.
type Frame struct {
	mat gocv.Mat
}

// NewFrame wraps an existing BGRA matrix. It panics if mat does not have
// four channels.
func NewFrame(mat gocv.Mat) *Frame {
	if mat.Channels() != 4 {
		panic(fmt.Sprintf("imaging: frame needs 4 channels, got %d", mat.Channels()))
	}
	return &Frame{mat: mat}
}

// FrameFromImage converts a decoded image into a BGRA frame.
func FrameFromImage(img image.Image) (*Frame, error) {
	rgba, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer rgba.Close()

	bgra := gocv.NewMat()
	gocv.CvtColor(rgba, &bgra, gocv.ColorRGBAToBGRA)
	return &Frame{mat: bgra}, nil
}

// Mat returns the underlying BGRA matrix.
func (f *Frame) Mat() gocv.Mat {
	return f.mat
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int {
	return f.mat.Cols()
}

// Height returns the frame height in pixels.
func (f *Frame) Height() int {
	return f.mat.Rows()
}

// Bounds returns the full frame rectangle.
func (f *Frame) Bounds() Rect {
	return Rect{Width: f.mat.Cols(), Height: f.mat.Rows()}
}

// Close releases the matrix.
func (f *Frame) Close() error {
	return f.mat.Close()
}

// MatBounds returns the rectangle covering all of mat.
func MatBounds(mat gocv.Mat) Rect {
	return Rect{Width: mat.Cols(), Height: mat.Rows()}
}

// ROI returns a view of mat restricted to r. The view shares storage with
// mat. A region that is empty or not fully inside mat is a caller bug and
// panics.
func ROI(mat gocv.Mat, r Rect) gocv.Mat {
	if r.Empty() || !MatBounds(mat).Contains(r) {
		panic(fmt.Sprintf("imaging: region %v outside %dx%d image", r, mat.Cols(), mat.Rows()))
	}
	return mat.Region(r.ImageRect())
}
