package imaging

import (
	"image"

	"gocv.io/x/gocv"
)

// YOLOInputSize is the square input edge of every bounding-box model.
const YOLOInputSize = 640

// Mean and standard deviation of the text detection network, in RGB order
// and already scaled to 0-255.
var (
	textMean = [3]float32{123.675, 116.28, 103.53}
	textStd  = [3]float32{58.395, 57.12, 57.375}
)

// textUpscale is how much the text detector input is enlarged before
// rounding to a multiple of 32.
const textUpscale = 5

// Ratios maps model space back to source space: source = model * ratio.
type Ratios struct {
	Width  float32
	Height float32
}

// PreprocessForYOLO turns a BGRA matrix into a 1x3x640x640 float blob in RGB
// order scaled to [0,1].
//
// The returned Ratios are original size / 640 per axis.
func PreprocessForYOLO(mat gocv.Mat) (gocv.Mat, Ratios) {
	ratios := Ratios{
		Width:  float32(mat.Cols()) / YOLOInputSize,
		Height: float32(mat.Rows()) / YOLOInputSize,
	}

	rgb := ToRGB(mat)
	defer rgb.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(rgb, &resized, image.Pt(YOLOInputSize, YOLOInputSize), 0, 0, gocv.InterpolationArea)

	blob := gocv.BlobFromImage(resized, 1.0/255.0, image.Pt(YOLOInputSize, YOLOInputSize),
		gocv.NewScalar(0, 0, 0, 0), false, false)
	return blob, ratios
}

// TextInputSize returns the text detector input size for a source of the
// given size: the source enlarged five times, each edge rounded up to a
// multiple of 32.
func TextInputSize(width, height int) (int, int) {
	w := (width*textUpscale + 31) &^ 31
	h := (height*textUpscale + 31) &^ 31
	return w, h
}

// PreprocessForTextBoxes turns a BGRA matrix into the float blob expected by
// the text detection network: RGB, upscaled with cubic interpolation to
// TextInputSize, then normalized per channel by mean and standard deviation.
//
// The returned Ratios are original size / network input size per axis.
func PreprocessForTextBoxes(mat gocv.Mat) (gocv.Mat, Ratios) {
	w, h := TextInputSize(mat.Cols(), mat.Rows())
	ratios := Ratios{
		Width:  float32(mat.Cols()) / float32(w),
		Height: float32(mat.Rows()) / float32(h),
	}

	rgb := ToRGB(mat)
	defer rgb.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(rgb, &resized, image.Pt(w, h), 0, 0, gocv.InterpolationCubic)

	channels := gocv.Split(resized)
	normalized := make([]gocv.Mat, len(channels))
	for i, ch := range channels {
		f := gocv.NewMat()
		ch.ConvertTo(&f, gocv.MatTypeCV32F)
		ch.Close()
		f.SubtractFloat(textMean[i])
		f.DivideFloat(textStd[i])
		normalized[i] = f
	}

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge(normalized, &merged)
	for _, m := range normalized {
		m.Close()
	}

	blob := gocv.BlobFromImage(merged, 1.0, image.Pt(w, h), gocv.NewScalar(0, 0, 0, 0), false, false)
	return blob, ratios
}
