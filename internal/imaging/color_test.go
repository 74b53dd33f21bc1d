package imaging

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

// createBGRAMat creates a BGRA matrix filled with c.
func createBGRAMat(width, height int, c color.RGBA) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), float64(c.A)),
		height, width, gocv.MatTypeCV8UC4)
}

// fillRect paints r on a BGRA matrix.
func fillRect(mat *gocv.Mat, r Rect, c color.RGBA) {
	gocv.Rectangle(mat, r.ImageRect(), c, -1)
}

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestToGrayscale(t *testing.T) {
	mat := createBGRAMat(10, 10, color.RGBA{100, 100, 100, 255})
	defer mat.Close()

	plain := ToGrayscale(mat, false)
	defer plain.Close()
	if plain.Channels() != 1 {
		t.Fatalf("channels: got %d, want 1", plain.Channels())
	}
	if v := plain.GetUCharAt(5, 5); v != 100 {
		t.Errorf("gray value: got %d, want 100", v)
	}

	contrast := ToGrayscale(mat, true)
	defer contrast.Close()
	// 100*1.5 - 80
	if v := contrast.GetUCharAt(5, 5); v != 70 {
		t.Errorf("contrast value: got %d, want 70", v)
	}
}

func TestToGrayscale_Saturates(t *testing.T) {
	mat := createBGRAMat(4, 4, color.RGBA{250, 250, 250, 255})
	defer mat.Close()

	gray := ToGrayscale(mat, true)
	defer gray.Close()
	if v := gray.GetUCharAt(0, 0); v != 255 {
		t.Errorf("bright pixel: got %d, want 255", v)
	}
}

func TestToBGR(t *testing.T) {
	mat := createBGRAMat(4, 4, color.RGBA{10, 20, 30, 255})
	defer mat.Close()

	bgr := ToBGR(mat)
	defer bgr.Close()
	if bgr.Channels() != 3 {
		t.Fatalf("channels: got %d, want 3", bgr.Channels())
	}
	px := bgr.GetVecbAt(1, 1)
	if px[0] != 30 || px[1] != 20 || px[2] != 10 {
		t.Errorf("BGR pixel: got %v, want [30 20 10]", px)
	}
}

func TestAllChannelsAtLeast(t *testing.T) {
	mat := createBGRAMat(10, 10, color.RGBA{0, 0, 0, 255})
	defer mat.Close()
	fillRect(&mat, NewRect(0, 0, 5, 5), color.RGBA{220, 230, 240, 255})

	tests := []struct {
		name      string
		x, y      int
		threshold uint8
		want      bool
	}{
		{"white above threshold", 1, 1, 200, true},
		{"white at threshold", 1, 1, 220, true},
		{"white below threshold", 1, 1, 221, false},
		{"black", 8, 8, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllChannelsAtLeast(mat, tt.x, tt.y, tt.threshold); got != tt.want {
				t.Errorf("AllChannelsAtLeast(%d,%d,%d) = %v, want %v", tt.x, tt.y, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestSampleColor(t *testing.T) {
	mat := createBGRAMat(20, 20, color.RGBA{255, 128, 64, 255})
	defer mat.Close()

	result, err := SampleColor(mat, 10, 10)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}
	if result.RGB.R != 255 || result.RGB.G != 128 || result.RGB.B != 64 {
		t.Errorf("RGB: got (%d,%d,%d), want (255,128,64)", result.RGB.R, result.RGB.G, result.RGB.B)
	}
	if result.Alpha != 255 {
		t.Errorf("Alpha: got %d, want 255", result.Alpha)
	}
	if result.HSL.H != 20 {
		t.Errorf("Hue: got %d, want 20", result.HSL.H)
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	mat := createBGRAMat(10, 10, color.RGBA{0, 0, 0, 255})
	defer mat.Close()

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 5},
		{"negative y", 5, -1},
		{"x too large", 10, 5},
		{"y too large", 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SampleColor(mat, tt.x, tt.y); err == nil {
				t.Error("expected error for out of bounds coordinates")
			}
		})
	}
}
