package detection

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/ironsheep/game-vision/internal/imaging"
)

// TextParams tunes text region extraction.
type TextParams struct {
	// TextThreshold is the least peak character score a region needs.
	TextThreshold float32 `mapstructure:"text_threshold"`
	// LinkThreshold binarizes the affinity map.
	LinkThreshold float32 `mapstructure:"link_threshold"`
	// LowText binarizes the character map before labeling.
	LowText float32 `mapstructure:"low_text"`
	// MinArea drops components with fewer pixels.
	MinArea int `mapstructure:"min_area"`
}

// DefaultTextParams returns the tuned extraction constants.
func DefaultTextParams() TextParams {
	return TextParams{
		TextThreshold: 0.7,
		LinkThreshold: 0.4,
		LowText:       0.4,
		MinArea:       10,
	}
}

// ScoreMaps holds the character (text) and affinity (link) maps of the text
// detector, row-major, at half the network input resolution.
type ScoreMaps struct {
	Width  int
	Height int
	Text   []float32
	Link   []float32
}

// SplitScoreMaps de-interleaves a [1, H, W, 2] detector output.
func SplitScoreMaps(t Tensor) (ScoreMaps, error) {
	n := len(t.Shape)
	if n < 3 || t.Shape[n-1] != 2 {
		return ScoreMaps{}, fmt.Errorf("unexpected text score shape %v", t.Shape)
	}
	h, w := t.Shape[n-3], t.Shape[n-2]
	if len(t.Data) < h*w*2 {
		return ScoreMaps{}, fmt.Errorf("text score data too short: %d < %d", len(t.Data), h*w*2)
	}
	maps := ScoreMaps{
		Width:  w,
		Height: h,
		Text:   make([]float32, h*w),
		Link:   make([]float32, h*w),
	}
	for i := 0; i < h*w; i++ {
		maps.Text[i] = t.Data[2*i]
		maps.Link[i] = t.Data[2*i+1]
	}
	return maps, nil
}

// DetectTextBoxes runs the text detector over mat and returns word boxes in
// frame coordinates. offset is the position of mat inside the frame.
func DetectTextBoxes(runner Runner, mat gocv.Mat, offset imaging.Point, params TextParams) ([]imaging.Rect, error) {
	blob, ratios := imaging.PreprocessForTextBoxes(mat)
	defer blob.Close()

	out, err := runner.Run(blob)
	if err != nil {
		return nil, err
	}
	maps, err := SplitScoreMaps(out)
	if err != nil {
		return nil, err
	}
	bounds := imaging.MatBounds(mat).Translate(offset)
	return ExtractTextBoxes(maps, ratios, offset, bounds, params), nil
}

// ExtractTextBoxes turns detector score maps into axis-aligned word boxes.
//
// Parameters:
//   - maps: Character and affinity maps.
//   - ratios: Source size / network input size, as returned by
//     imaging.PreprocessForTextBoxes. Score maps are half the input size, so
//     coordinates are scaled by twice these ratios.
//   - offset: Added to every box after scaling.
//   - bounds: Boxes are clipped to this rectangle.
//   - params: Thresholds.
//
// Boxes are returned in ascending component label order.
//
// # Algorithm
//
//  1. Binarize the character map at LowText and the affinity map at
//     LinkThreshold; their sum, capped at 1, is the foreground.
//  2. Label foreground with 4-connectivity.
//  3. Drop components smaller than MinArea or whose peak character score is
//     below TextThreshold.
//  4. size = round(sqrt(area*min(w,h)/(w*h))*2).
//  5. Inside the component box grown by size+1, remove pixels that are pure
//     link (link on, character score exactly 0) and dilate the rest with a
//     (size+1) square kernel.
//  6. The minimum-area rectangle of the dilated pixels gives the box.
func ExtractTextBoxes(maps ScoreMaps, ratios imaging.Ratios, offset imaging.Point, bounds imaging.Rect, params TextParams) []imaging.Rect {
	w, h := maps.Width, maps.Height
	if w == 0 || h == 0 {
		return nil
	}

	linkOn := make([]bool, w*h)
	combined := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	defer combined.Close()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			linkOn[i] = maps.Link[i] > params.LinkThreshold
			var v uint8
			if maps.Text[i] > params.LowText || linkOn[i] {
				v = 1
			}
			combined.SetUCharAt(y, x, v)
		}
	}

	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()
	count := gocv.ConnectedComponentsWithStatsWithParams(combined, &labels, &stats, &centroids,
		4, gocv.MatTypeCV32S, gocv.CCL_DEFAULT)

	var boxes []imaging.Rect
	for label := 1; label < count; label++ {
		area := int(stats.GetIntAt(label, int(gocv.CC_STAT_AREA)))
		if area < params.MinArea {
			continue
		}
		cx := int(stats.GetIntAt(label, int(gocv.CC_STAT_LEFT)))
		cy := int(stats.GetIntAt(label, int(gocv.CC_STAT_TOP)))
		cw := int(stats.GetIntAt(label, int(gocv.CC_STAT_WIDTH)))
		ch := int(stats.GetIntAt(label, int(gocv.CC_STAT_HEIGHT)))

		peak := float32(0)
		for y := cy; y < cy+ch; y++ {
			for x := cx; x < cx+cw; x++ {
				if int(labels.GetIntAt(y, x)) == label && maps.Text[y*w+x] > peak {
					peak = maps.Text[y*w+x]
				}
			}
		}
		if peak < params.TextThreshold {
			continue
		}

		size := int(math.Round(math.Sqrt(float64(area)*float64(min(cw, ch))/float64(cw*ch)) * 2))
		roi := imaging.NewRect(cx-size-1, cy-size-1, cw+2*size+2, ch+2*size+2).Clamp(w, h)

		points := segmentComponent(maps, linkOn, labels, label, roi, size)
		ftl, fbr, ok := imaging.MinAreaBounds(points)
		if !ok {
			continue
		}

		tl := imaging.Pt(
			int(ftl.X*ratios.Width*2)+offset.X,
			int(ftl.Y*ratios.Height*2)+offset.Y,
		)
		br := imaging.Pt(
			int(fbr.X*ratios.Width*2)+offset.X,
			int(fbr.Y*ratios.Height*2)+offset.Y,
		)
		box := imaging.RectFromPoints(tl, br).And(bounds)
		if !box.Empty() {
			boxes = append(boxes, box)
		}
	}
	return boxes
}

// segmentComponent builds the dilated segmentation of one component inside
// roi and returns its foreground pixels in score map coordinates.
func segmentComponent(maps ScoreMaps, linkOn []bool, labels gocv.Mat, label int, roi imaging.Rect, size int) []imaging.Point {
	w := maps.Width
	seg := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), roi.Height, roi.Width, gocv.MatTypeCV8U)
	defer seg.Close()
	for y := roi.Y; y < roi.Y+roi.Height; y++ {
		for x := roi.X; x < roi.X+roi.Width; x++ {
			if int(labels.GetIntAt(y, x)) != label {
				continue
			}
			i := y*w + x
			if linkOn[i] && maps.Text[i] == 0 {
				continue
			}
			seg.SetUCharAt(y-roi.Y, x-roi.X, 255)
		}
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(size+1, size+1))
	defer kernel.Close()
	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.Dilate(seg, &dilated, kernel)

	var points []imaging.Point
	for y := 0; y < dilated.Rows(); y++ {
		for x := 0; x < dilated.Cols(); x++ {
			if dilated.GetUCharAt(y, x) != 0 {
				points = append(points, imaging.Pt(x+roi.X, y+roi.Y))
			}
		}
	}
	return points
}
