package imaging

import (
	"encoding/base64"
	"image/color"
	"testing"
)

func TestNamedRegion(t *testing.T) {
	tests := []struct {
		region string
		want   Rect
	}{
		{RegionBuffs, NewRect(1280, 0, 640, 270)},
		{RegionBossBar, NewRect(0, 0, 1920, 216)},
		{RegionSkillBar, NewRect(960, 864, 960, 216)},
		{"top-left", NewRect(0, 0, 960, 540)},
		{"bottom-right", NewRect(960, 540, 960, 540)},
		{"center", NewRect(480, 270, 960, 540)},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			got, err := NamedRegion(1920, 1080, tt.region)
			if err != nil {
				t.Fatalf("NamedRegion failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("NamedRegion(%s) = %v, want %v", tt.region, got, tt.want)
			}
		})
	}
}

func TestNamedRegion_AllNamesInsideFrame(t *testing.T) {
	frame := NewRect(0, 0, 1366, 768)
	for _, name := range RegionNames {
		r, err := NamedRegion(frame.Width, frame.Height, name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if r.Empty() || !frame.Contains(r) {
			t.Errorf("%s: region %v not inside %v", name, r, frame)
		}
	}
}

func TestNamedRegion_Unknown(t *testing.T) {
	if _, err := NamedRegion(100, 100, "sideways"); err == nil {
		t.Error("expected error for unknown region")
	}
}

func TestCrop(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	result, err := Crop(img, NewRect(0, 0, 50, 50), 1.0)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if result.Width != 50 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	if _, err := base64.StdEncoding.DecodeString(result.ImageBase64); err != nil {
		t.Errorf("failed to decode base64: %v", err)
	}
}

func TestCrop_WithScale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	result, err := Crop(img, NewRect(0, 0, 50, 50), 2.0)
	if err != nil {
		t.Fatalf("Crop with scale failed: %v", err)
	}
	if result.Width != 100 || result.Height != 100 {
		t.Errorf("scaled dimensions: got %dx%d, want 100x100", result.Width, result.Height)
	}
}

func TestCrop_InvalidRegions(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		r    Rect
	}{
		{"outside right", NewRect(60, 0, 50, 50)},
		{"negative origin", NewRect(-1, 0, 10, 10)},
		{"empty", NewRect(10, 10, 0, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.r, 1.0); err == nil {
				t.Errorf("expected error for %v", tt.r)
			}
		})
	}
}

func TestCropNamed(t *testing.T) {
	img := createInMemoryImage(300, 200, color.RGBA{0, 0, 255, 255})

	result, err := CropNamed(img, RegionBuffs, 1.0)
	if err != nil {
		t.Fatalf("CropNamed failed: %v", err)
	}
	if result.Region != NewRect(200, 0, 100, 50) {
		t.Errorf("region: got %v", result.Region)
	}
}
