package facts

import (
	"github.com/ironsheep/game-vision/internal/detection"
	"github.com/ironsheep/game-vision/internal/imaging"
)

// Mobs detects mobs on screen and projects each one onto the minimap
// relative to player. Mobs that land outside bound are dropped.
func (d *FrameDetector) Mobs(minimap, bound imaging.Rect, player imaging.Point) ([]imaging.Point, error) {
	runner, err := d.reg.Runner(ModelMob)
	if err != nil {
		return nil, err
	}
	boxes, err := detection.DetectObjects(runner, d.mat(), d.reg.thresholds.Mob)
	if err != nil {
		return nil, err
	}

	w, h := d.frame.Width(), d.frame.Height()
	var points []imaging.Point
	for _, box := range boxes {
		pt, ok := detection.ToMinimapCoordinate(box, w, h, minimap, bound, player, d.reg.transform)
		if !ok {
			continue
		}
		factsLog().Debug().Int("x", pt.X).Int("y", pt.Y).Stringer("bound", bound).Msg("found mob in bound")
		points = append(points, pt)
	}
	return points, nil
}
