package facts

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/game-vision/internal/calibration"
	"github.com/ironsheep/game-vision/internal/detection"
	"github.com/ironsheep/game-vision/internal/imaging"
	"github.com/ironsheep/game-vision/internal/ocr"
)

// HealthBar returns the area between the hp_start and hp_end caps.
func (d *FrameDetector) HealthBar() (imaging.Rect, error) {
	gray, release := d.views.grayscale()
	defer release()

	th := d.reg.thresholds.HealthBarEdge
	start, err := detection.MatchTemplate(gray, d.reg.template(TemplateHPStart, imaging.Grayscale), imaging.Point{}, th)
	if err != nil {
		return imaging.Rect{}, fmt.Errorf("health bar start: %w", err)
	}
	end, err := detection.MatchTemplate(gray, d.reg.template(TemplateHPEnd, imaging.Grayscale), imaging.Point{}, th)
	if err != nil {
		return imaging.Rect{}, fmt.Errorf("health bar end: %w", err)
	}

	left := start.X + start.Width
	bar := imaging.NewRect(left, start.Y, end.X-left, start.Height)
	if bar.Empty() {
		return imaging.Rect{}, fmt.Errorf("%w: health bar end %v precedes start %v", detection.ErrNotFound, end, start)
	}
	return bar, nil
}

// CurrentMaxHealthBars locates the "current / max" separator inside
// healthBar, then the number boxes on each side of it.
//
// The current box is the text box whose right edge is nearest the
// separator, widened to reach the separator and padded by one pixel
// vertically. When a shield icon precedes the number the box starts after
// it. The max box is the union of every text box right of the separator.
func (d *FrameDetector) CurrentMaxHealthBars(healthBar imaging.Rect) (current, max imaging.Rect, err error) {
	gray, release := d.views.grayscale()
	defer release()
	barGray := imaging.ROI(gray, healthBar)
	defer barGray.Close()

	th := d.reg.thresholds
	sep, err := calibration.Attempt(d.reg.hpSeparator, func(v calibration.Variant) (imaging.Rect, error) {
		name := TemplateHPSeparator1
		if v == calibration.VariantB {
			name = TemplateHPSeparator2
		}
		return detection.MatchTemplate(barGray, d.reg.template(name, imaging.Grayscale), healthBar.TL(), th.HealthSeparator)
	})
	if err != nil {
		return imaging.Rect{}, imaging.Rect{}, fmt.Errorf("health separator: %w", err)
	}
	shield, shieldErr := detection.MatchTemplate(barGray, d.reg.template(TemplateHPShield, imaging.Grayscale), healthBar.TL(), th.HealthShield)

	runner, err := d.reg.Runner(ModelText)
	if err != nil {
		return imaging.Rect{}, imaging.Rect{}, err
	}

	leftPart := imaging.NewRect(healthBar.X, healthBar.Y, sep.X-healthBar.X, healthBar.Height)
	leftBoxes, err := d.textBoxes(runner, leftPart)
	if err != nil {
		return imaging.Rect{}, imaging.Rect{}, err
	}
	if len(leftBoxes) == 0 {
		return imaging.Rect{}, imaging.Rect{}, fmt.Errorf("current health bar: %w", detection.ErrNoTextRegion)
	}
	nearest := leftBoxes[0]
	for _, b := range leftBoxes[1:] {
		if absInt(b.X+b.Width-sep.X) < absInt(nearest.X+nearest.Width-sep.X) {
			nearest = b
		}
	}
	x := nearest.X
	if shieldErr == nil {
		x = shield.X + shield.Width
	}
	current = imaging.NewRect(x, nearest.Y-1, sep.X-x+1, nearest.Height+2).
		Clamp(d.frame.Width(), d.frame.Height())

	sepRight := sep.X + sep.Width
	rightPart := imaging.NewRect(sepRight, healthBar.Y, healthBar.X+healthBar.Width-sepRight, healthBar.Height)
	rightBoxes, err := d.textBoxes(runner, rightPart)
	if err != nil {
		return imaging.Rect{}, imaging.Rect{}, err
	}
	if len(rightBoxes) == 0 {
		return imaging.Rect{}, imaging.Rect{}, fmt.Errorf("max health bar: %w", detection.ErrNoTextRegion)
	}
	for _, b := range rightBoxes {
		max = max.Or(b)
	}
	return current, max, nil
}

// textBoxes runs the text detector over part of the colour frame. An empty
// part has no boxes.
func (d *FrameDetector) textBoxes(runner detection.Runner, part imaging.Rect) ([]imaging.Rect, error) {
	if part.Empty() {
		return nil, nil
	}
	roi := imaging.ROI(d.mat(), part)
	defer roi.Close()
	return detection.DetectTextBoxes(runner, roi, part.TL(), d.reg.text)
}

// Health reads both numbers and clamps current to max.
func (d *FrameDetector) Health(current, max imaging.Rect) (ocr.Health, error) {
	reader, err := d.reg.Reader()
	if err != nil {
		return ocr.Health{}, err
	}
	c, err := d.readNumber(reader, current)
	if err != nil {
		return ocr.Health{}, fmt.Errorf("current health: %w", err)
	}
	m, err := d.readNumber(reader, max)
	if err != nil {
		return ocr.Health{}, fmt.Errorf("max health: %w", err)
	}
	return ocr.NewHealth(c, m), nil
}

func (d *FrameDetector) readNumber(reader NumberReader, r imaging.Rect) (uint32, error) {
	img, err := cropImage(d.mat(), r)
	if err != nil {
		return 0, err
	}
	return reader.ReadNumber(img)
}

// cropImage copies r out of a BGRA matrix as an image.Image.
func cropImage(mat gocv.Mat, r imaging.Rect) (image.Image, error) {
	roi := imaging.ROI(mat, r)
	defer roi.Close()
	owned := roi.Clone()
	defer owned.Close()
	return owned.ToImage()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
