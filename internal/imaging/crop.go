package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Fixed screen areas where the game draws particular UI elements.
const (
	RegionBuffs    = "buffs"     // top-right third x quarter: status effect tray
	RegionBossBar  = "boss-bar"  // top fifth, full width
	RegionSkillBar = "skill-bar" // bottom-right half x fifth: quick slots
)

// RegionNames lists every name accepted by NamedRegion.
var RegionNames = []string{
	RegionBuffs, RegionBossBar, RegionSkillBar,
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

// NamedRegion resolves a region name against a width x height frame.
func NamedRegion(width, height int, region string) (Rect, error) {
	w, h := width, height
	midX, midY := w/2, h/2

	switch region {
	case RegionBuffs:
		cx, cy := w/3, h/4
		return NewRect(w-cx, 0, cx, cy), nil
	case RegionBossBar:
		return NewRect(0, 0, w, h/5), nil
	case RegionSkillBar:
		cx, cy := w/2, h/5
		return NewRect(w-cx, h-cy, cx, cy), nil
	case "top-left":
		return NewRect(0, 0, midX, midY), nil
	case "top-right":
		return NewRect(midX, 0, w-midX, midY), nil
	case "bottom-left":
		return NewRect(0, midY, midX, h-midY), nil
	case "bottom-right":
		return NewRect(midX, midY, w-midX, h-midY), nil
	case "top-half":
		return NewRect(0, 0, w, midY), nil
	case "bottom-half":
		return NewRect(0, midY, w, h-midY), nil
	case "left-half":
		return NewRect(0, 0, midX, h), nil
	case "right-half":
		return NewRect(midX, 0, w-midX, h), nil
	case "center":
		// Center 50% of the image
		qW, qH := w/4, h/4
		return NewRect(qW, qH, w-2*qW, h-2*qH), nil
	default:
		return Rect{}, fmt.Errorf("unknown region: %s", region)
	}
}

// CropResult contains the cropped image data
type CropResult struct {
	Region      Rect   `json:"region"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts a rectangular region from an image as a base64 PNG,
// optionally scaled.
func Crop(img image.Image, r Rect, scale float64) (*CropResult, error) {
	bounds := FromImageRect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region %v", r)
	}
	if !bounds.Contains(r) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
	}

	cropped := imaging.Crop(img, r.ImageRect())

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	encoded, err := EncodePNGBase64(cropped)
	if err != nil {
		return nil, err
	}

	return &CropResult{
		Region:      r,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// CropNamed crops one of the RegionNames.
func CropNamed(img image.Image, region string, scale float64) (*CropResult, error) {
	b := img.Bounds()
	r, err := NamedRegion(b.Dx(), b.Dy(), region)
	if err != nil {
		return nil, err
	}
	return Crop(img, r.Translate(Pt(b.Min.X, b.Min.Y)), scale)
}

// EncodePNGBase64 encodes img as PNG and returns it base64 encoded.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
