package facts

import (
	"github.com/ironsheep/game-vision/internal/calibration"
	"github.com/ironsheep/game-vision/internal/detection"
	"github.com/ironsheep/game-vision/internal/imaging"
)

// portalMargin pads each portal hit so neighbouring hits overlap.
const portalMargin = 5

// Minimap runs the minimap locator with the given border threshold.
func (d *FrameDetector) Minimap(borderThreshold uint8) (imaging.Rect, error) {
	runner, err := d.reg.Runner(ModelMinimap)
	if err != nil {
		return imaging.Rect{}, err
	}
	params := d.reg.minimap
	params.BorderThreshold = borderThreshold
	return detection.LocateMinimap(runner, d.mat(), params)
}

// MinimapPortals returns one padded box per score map location above the
// portal threshold. Locations are not merged: a single portal usually
// produces several overlapping boxes.
func (d *FrameDetector) MinimapPortals(minimap imaging.Rect) []imaging.Rect {
	roi := imaging.ROI(d.mat(), minimap)
	defer roi.Close()
	bgr := imaging.ToBGR(roi)
	defer bgr.Close()

	tmpl := d.reg.template(TemplatePortal, imaging.Color)
	points := detection.MatchLocations(bgr, tmpl, d.reg.thresholds.Portal)

	portals := make([]imaging.Rect, 0, len(points))
	for _, p := range points {
		portals = append(portals, padPortal(p, tmpl.Cols(), tmpl.Rows()).Clamp(minimap.Width, minimap.Height))
	}
	return portals
}

// padPortal grows the template-sized box at p by portalMargin, shrinking the
// left and top padding where p is near the origin.
func padPortal(p imaging.Point, width, height int) imaging.Rect {
	x := max(p.X-portalMargin, 0)
	xd := p.X - x
	y := max(p.Y-portalMargin, 0)
	yd := p.Y - y
	return imaging.Rect{
		X:      x,
		Y:      y,
		Width:  width + xd*2 + (portalMargin - xd),
		Height: height + yd*2 + (portalMargin - yd),
	}
}

// MinimapRune matches the rune icon on the grayscale minimap.
func (d *FrameDetector) MinimapRune(minimap imaging.Rect) (imaging.Rect, error) {
	gray, release := d.views.grayscale()
	defer release()
	roi := imaging.ROI(gray, minimap)
	defer roi.Close()

	return detection.MatchTemplate(roi, d.reg.template(TemplateRune, imaging.Grayscale),
		imaging.Point{}, d.reg.thresholds.Rune)
}

// Player matches the player marker on the grayscale minimap. The marker is
// drawn differently depending on the client's UI ratio; the calibration flag
// remembers which template matched last.
func (d *FrameDetector) Player(minimap imaging.Rect) (imaging.Rect, error) {
	gray, release := d.views.grayscale()
	defer release()
	roi := imaging.ROI(gray, minimap)
	defer roi.Close()

	return calibration.Attempt(d.reg.playerRatio, func(v calibration.Variant) (imaging.Rect, error) {
		name, th := TemplatePlayerDefaultRatio, d.reg.thresholds.PlayerDefault
		if v == calibration.VariantB {
			name, th = TemplatePlayerIdealRatio, d.reg.thresholds.PlayerIdeal
		}
		return detection.MatchTemplate(roi, d.reg.template(name, imaging.Grayscale), imaging.Point{}, th)
	})
}
