package facts

import (
	"github.com/ironsheep/game-vision/internal/detection"
	"github.com/ironsheep/game-vision/internal/imaging"
)

// EscSettings matches each ESC menu template against the whole frame and
// stops at the first hit.
func (d *FrameDetector) EscSettings() bool {
	gray, release := d.views.grayscale()
	defer release()

	th := d.reg.thresholds.EscSettings
	for _, name := range escTemplates {
		if _, err := detection.MatchTemplate(gray, d.reg.template(name, imaging.Grayscale), imaging.Point{}, th); err == nil {
			return true
		}
	}
	return false
}

// EliteBossBar searches the top fifth of the frame for either boss bar
// template.
func (d *FrameDetector) EliteBossBar() bool {
	gray, release := d.views.grayscale()
	defer release()

	bar := imaging.ROI(gray, d.region(imaging.RegionBossBar))
	defer bar.Close()

	th := d.reg.thresholds.EliteBossBar
	for _, name := range []string{TemplateEliteBossBar1, TemplateEliteBossBar2} {
		if _, err := detection.MatchTemplate(bar, d.reg.template(name, imaging.Grayscale), imaging.Point{}, th); err == nil {
			return true
		}
	}
	return false
}

// PlayerIsDead looks for the tombstone dialog.
func (d *FrameDetector) PlayerIsDead() bool {
	return d.grayscaleMatches(TemplateTomb, d.reg.thresholds.Tomb)
}

// PlayerInCashShop looks for the cash shop header.
func (d *FrameDetector) PlayerInCashShop() bool {
	return d.grayscaleMatches(TemplateCashShop, d.reg.thresholds.CashShop)
}

// ErdaShower searches the bottom-right skill bar.
func (d *FrameDetector) ErdaShower() (imaging.Rect, error) {
	gray, release := d.views.grayscale()
	defer release()

	crop := d.region(imaging.RegionSkillBar)
	bar := imaging.ROI(gray, crop)
	defer bar.Close()

	return detection.MatchTemplate(bar, d.reg.template(TemplateErdaShower, imaging.Grayscale),
		crop.TL(), d.reg.thresholds.ErdaShower)
}

func (d *FrameDetector) grayscaleMatches(name string, threshold float32) bool {
	gray, release := d.views.grayscale()
	defer release()

	_, err := detection.MatchTemplate(gray, d.reg.template(name, imaging.Grayscale), imaging.Point{}, threshold)
	return err == nil
}
