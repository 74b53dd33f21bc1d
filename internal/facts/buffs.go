package facts

import (
	"gocv.io/x/gocv"

	"github.com/ironsheep/game-vision/internal/detection"
	"github.com/ironsheep/game-vision/internal/imaging"
)

// Buff matches kind's icon in the top-right buff tray.
//
// The wealth acquisition and EXP accumulation potions look alike, so both
// are matched through a shared mask and compared; see potionActive.
func (d *FrameDetector) Buff(kind BuffKind) bool {
	tray, release := d.buffTray(kind)
	defer release()

	tmpl := d.reg.template(kind.Template(), buffMode(kind))
	th := d.reg.thresholds.ForBuff(kind)
	if !kind.isExpWealthPotion() {
		_, err := detection.MatchTemplate(tray, tmpl, imaging.Point{}, th)
		return err == nil
	}

	other := BuffExpAccumulationPotion
	if kind == BuffExpAccumulationPotion {
		other = BuffWealthAcquisitionPotion
	}
	mask := d.reg.template(TemplateWealthExpPotionMask, imaging.Grayscale)
	return potionActive(tray, tmpl, d.reg.template(other.Template(), buffMode(other)), mask, th)
}

// buffTray returns the buff tray in the color mode kind is matched in.
func (d *FrameDetector) buffTray(kind BuffKind) (gocv.Mat, func()) {
	if !kind.UsesColor() {
		return d.views.buffsGrayscale()
	}
	roi := imaging.ROI(d.mat(), d.region(imaging.RegionBuffs))
	defer roi.Close()
	bgr := imaging.ToBGR(roi)
	return bgr, func() { bgr.Close() }
}

// potionActive decides whether the potion drawn by tmpl is active when
// another potion, drawn by other, may match it too.
//
//   - Two masked matches of tmpl: both potions are shown, so tmpl is active.
//   - No match: inactive.
//   - One match: tmpl is active unless other also matches with a score at
//     least as high.
func potionActive(tray, tmpl, other, mask gocv.Mat, threshold float32) bool {
	var matches []detection.Match
	for _, a := range detection.MatchTemplateMultiple(tray, tmpl, &mask, imaging.Point{}, 2, threshold) {
		if a.Err == nil {
			matches = append(matches, a.Match)
		}
	}
	switch len(matches) {
	case 0:
		return false
	case 2:
		return true
	}

	o, err := detection.MatchTemplateSingle(tray, other, &mask, imaging.Point{}, threshold)
	return err != nil || o.Score < matches[0].Score
}
