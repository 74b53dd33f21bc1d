package imaging

import (
	"image"

	"gocv.io/x/gocv"
)

// OtsuBinarize thresholds a single channel 8-bit matrix with Otsu's method
// and returns a new 0/255 matrix.
//
// # Algorithm
//
// Otsu picks the global threshold that maximizes the between-class variance
// of the gray level histogram, so no threshold parameter is needed. The
// picked value is discarded; only the binary image is returned.
func OtsuBinarize(gray gocv.Mat) gocv.Mat {
	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	return binary
}

// LargestExternalContour finds the outer contours of a binary matrix and
// returns the bounding rectangle with the greatest area.
//
// Returns:
//   - Rect: Bounding rectangle in the coordinate space of binary.
//   - bool: False when binary contains no contour at all.
//
// Ties keep the first contour reported by OpenCV.
func LargestExternalContour(binary gocv.Mat) (Rect, bool) {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var best Rect
	found := false
	for i := 0; i < contours.Size(); i++ {
		r := FromImageRect(gocv.BoundingRect(contours.At(i)))
		if !found || r.Area() > best.Area() {
			best = r
			found = true
		}
	}
	return best, found
}

// MinAreaBounds returns the floating point axis-aligned bounds of the
// minimum-area rotated rectangle enclosing points, as its top-left and
// bottom-right corners. It returns false for an empty set.
func MinAreaBounds(points []Point) (tl, br Point2f, ok bool) {
	if len(points) == 0 {
		return Point2f{}, Point2f{}, false
	}
	pts := make([]image.Point, len(points))
	for i, p := range points {
		pts[i] = image.Pt(p.X, p.Y)
	}
	pv := gocv.NewPointVectorFromPoints(pts)
	defer pv.Close()

	rotated := gocv.MinAreaRect2f(pv)
	first := rotated.Points[0]
	tl = Point2f{X: first.X, Y: first.Y}
	br = tl
	for _, c := range rotated.Points[1:] {
		tl.X, tl.Y = min(tl.X, c.X), min(tl.Y, c.Y)
		br.X, br.Y = max(br.X, c.X), max(br.Y, c.Y)
	}
	return tl, br, true
}
