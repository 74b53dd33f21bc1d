package facts

import (
	"github.com/ironsheep/game-vision/internal/detection"
)

// RuneArrows runs the rune model over the frame and reads the four arrows
// left to right. Exactly four rows must clear the rune arrow threshold.
func (d *FrameDetector) RuneArrows(preds *RuneArrowPredictions) ([RuneArrowCount]Arrow, error) {
	var arrows [RuneArrowCount]Arrow

	runner, err := d.reg.Runner(ModelRune)
	if err != nil {
		return arrows, err
	}
	rows, ratios, err := detection.RunYOLO(runner, d.mat())
	if err != nil {
		return arrows, err
	}
	cands := detection.DecodeCandidates(rows, d.reg.thresholds.RuneArrow)
	ordered, err := detection.OrderLeftToRight(cands, RuneArrowCount)
	if err != nil {
		factsLog().Info().Int("candidates", len(cands)).Msg("failed to detect rune arrows")
		return arrows, err
	}

	if preds != nil {
		for _, c := range ordered {
			preds.Rows = append(preds.Rows, c.Raw())
		}
		preds.Ratios = ratios
	}

	confidences := make([]float32, len(ordered))
	for i, c := range ordered {
		a, err := arrowFromClass(c.ClassID())
		if err != nil {
			return arrows, err
		}
		arrows[i] = a
		confidences[i] = c.Confidence
	}
	factsLog().Info().
		Stringer("first", arrows[0]).
		Stringer("second", arrows[1]).
		Stringer("third", arrows[2]).
		Stringer("fourth", arrows[3]).
		Floats32("confidence", confidences).
		Msg("solving rune result")
	return arrows, nil
}
