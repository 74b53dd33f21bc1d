package imaging

import (
	"fmt"
	"image"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Point2f is a floating point vector used by the screen to minimap transform.
type Point2f struct {
	X float32
	Y float32
}

// Dot returns the dot product of p and q.
func (p Point2f) Dot(q Point2f) float32 {
	return p.X*q.X + p.Y*q.Y
}

// Rect is an axis-aligned rectangle described by its top-left corner and size.
//
// Every Rect produced by this module has non-negative width and height. The
// right and bottom edges (X+Width, Y+Height) are exclusive, matching the
// convention of image.Rectangle.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRect returns a Rect with the given origin and size.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// RectFromPoints returns the rectangle spanned by two corners. The corners may
// be given in any order.
func RectFromPoints(a, b Point) Rect {
	x1, x2 := min(a.X, b.X), max(a.X, b.X)
	y1, y2 := min(a.Y, b.Y), max(a.Y, b.Y)
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// FromImageRect converts an image.Rectangle.
func FromImageRect(r image.Rectangle) Rect {
	r = r.Canon()
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// ImageRect converts r to an image.Rectangle.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// TL returns the top-left corner.
func (r Rect) TL() Point {
	return Point{X: r.X, Y: r.Y}
}

// BR returns the exclusive bottom-right corner.
func (r Rect) BR() Point {
	return Point{X: r.X + r.Width, Y: r.Y + r.Height}
}

// Area returns Width * Height.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// And returns the intersection of r and o. Disjoint rectangles yield the zero
// Rect.
func (r Rect) And(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Or returns the smallest rectangle containing both r and o. An empty operand
// is ignored.
func (r Rect) Or(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x1 := min(r.X, o.X)
	y1 := min(r.Y, o.Y)
	x2 := max(r.X+r.Width, o.X+o.Width)
	y2 := max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return r.And(o) == o
}

// Translate returns r moved by p.
func (r Rect) Translate(p Point) Rect {
	return Rect{X: r.X + p.X, Y: r.Y + p.Y, Width: r.Width, Height: r.Height}
}

// Inset shrinks r by n pixels on every side. Negative n grows it. The result
// never has a negative size.
func (r Rect) Inset(n int) Rect {
	out := Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Clamp restricts r to the bounds of a width x height image.
func (r Rect) Clamp(width, height int) Rect {
	return r.And(Rect{Width: width, Height: height})
}

// String formats r as "x,y wxh".
func (r Rect) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}
