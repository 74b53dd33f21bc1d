package imaging

import (
	"image/color"
	"math"
	"testing"
)

func TestTextInputSize(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{100, 20, 512, 128},
		{64, 32, 320, 160},
		{1, 1, 32, 32},
		{250, 13, 1280, 96},
	}

	for _, tt := range tests {
		gotW, gotH := TextInputSize(tt.w, tt.h)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("TextInputSize(%d,%d) = %d,%d want %d,%d", tt.w, tt.h, gotW, gotH, tt.wantW, tt.wantH)
		}
		if gotW%32 != 0 || gotH%32 != 0 {
			t.Errorf("TextInputSize(%d,%d) not a multiple of 32", tt.w, tt.h)
		}
	}
}

func TestPreprocessForYOLO(t *testing.T) {
	mat := createBGRAMat(1280, 720, color.RGBA{255, 0, 0, 255})
	defer mat.Close()

	blob, ratios := PreprocessForYOLO(mat)
	defer blob.Close()

	if ratios.Width != 2 || ratios.Height != 1.125 {
		t.Errorf("ratios: got %+v, want {2 1.125}", ratios)
	}

	size := blob.Size()
	if len(size) != 4 || size[0] != 1 || size[1] != 3 || size[2] != 640 || size[3] != 640 {
		t.Fatalf("blob shape: got %v, want [1 3 640 640]", size)
	}

	data, err := blob.DataPtrFloat32()
	if err != nil {
		t.Fatalf("DataPtrFloat32 failed: %v", err)
	}
	plane := 640 * 640
	// RGB planes: red is first and saturated.
	if math.Abs(float64(data[0])-1) > 1e-3 {
		t.Errorf("red plane: got %v, want 1", data[0])
	}
	if data[plane] != 0 || data[2*plane] != 0 {
		t.Errorf("green/blue planes: got %v %v, want 0 0", data[plane], data[2*plane])
	}
}

func TestPreprocessForTextBoxes(t *testing.T) {
	mat := createBGRAMat(100, 20, color.RGBA{123, 116, 103, 255})
	defer mat.Close()

	blob, ratios := PreprocessForTextBoxes(mat)
	defer blob.Close()

	size := blob.Size()
	if len(size) != 4 || size[1] != 3 || size[2] != 128 || size[3] != 512 {
		t.Fatalf("blob shape: got %v, want [1 3 128 512]", size)
	}
	if math.Abs(float64(ratios.Width)-100.0/512) > 1e-6 || math.Abs(float64(ratios.Height)-20.0/128) > 1e-6 {
		t.Errorf("ratios: got %+v", ratios)
	}

	data, err := blob.DataPtrFloat32()
	if err != nil {
		t.Fatalf("DataPtrFloat32 failed: %v", err)
	}
	// Pixel values sit on the channel means, so normalized values are ~0.
	if math.Abs(float64(data[0])) > 0.05 {
		t.Errorf("normalized red: got %v, want ~0", data[0])
	}
}
