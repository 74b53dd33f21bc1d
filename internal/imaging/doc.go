// Package imaging provides the pixel-level building blocks of the detection
// pipeline.
//
// It covers integer geometry (Rect, Point), BGRA capture frames backed by
// gocv matrices, color conversion, network input preprocessing, Otsu
// binarization and contour extraction, named screen regions, lazily decoded
// template assets and box annotation for debugging.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - A Rect is (X, Y, Width, Height); its right and bottom edges are exclusive
//
// # Matrices
//
// Functions taking a gocv.Mat never modify it. Functions returning a gocv.Mat
// hand ownership to the caller, who must Close it. ROI is the exception: it
// returns a view sharing the parent's storage, and it panics when the region
// is not inside the parent, since that is always a caller bug.
//
// # Thread Safety
//
// ImageCache and TemplateCache are safe for concurrent use. Templates returned
// by TemplateCache are shared and must be treated as read-only.
package imaging
