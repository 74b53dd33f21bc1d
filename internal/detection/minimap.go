package detection

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/ironsheep/game-vision/internal/imaging"
)

func minimapLog() *zerolog.Logger {
	l := log.With().Str("module", "minimap").Logger()
	return &l
}

// MinimapParams tunes the minimap locator.
type MinimapParams struct {
	// Confidence is the floor for the best model candidate.
	Confidence float32 `mapstructure:"confidence"`
	// ExpandFactor grows the candidate by ceil(max(w,h)*ExpandFactor) per side.
	ExpandFactor float64 `mapstructure:"expand_factor"`
	// MinAreaDelta is the least area the expanded candidate must exceed the
	// contour by, which keeps contours that hug the white border.
	MinAreaDelta int `mapstructure:"min_area_delta"`
	// BorderThreshold is the per-channel value a border pixel reaches.
	BorderThreshold uint8 `mapstructure:"border_threshold"`
}

// DefaultMinimapParams returns the tuned locator constants.
func DefaultMinimapParams() MinimapParams {
	return MinimapParams{
		Confidence:      ObjectConfidence,
		ExpandFactor:    0.008,
		MinAreaDelta:    1100,
		BorderThreshold: 170,
	}
}

// MinimapResult records every intermediate rectangle of one locate call.
type MinimapResult struct {
	Candidate imaging.Rect `json:"candidate"`
	Expanded  imaging.Rect `json:"expanded"`
	Contour   imaging.Rect `json:"contour"`
	Border    int          `json:"border"`
	Minimap   imaging.Rect `json:"minimap"`
}

// LocateMinimap finds the inner minimap rectangle of a BGRA frame.
func LocateMinimap(runner Runner, frame gocv.Mat, params MinimapParams) (imaging.Rect, error) {
	res, err := LocateMinimapDetailed(runner, frame, params)
	if err != nil {
		return imaging.Rect{}, err
	}
	return res.Minimap, nil
}

// LocateMinimapDetailed is LocateMinimap returning the intermediate stages.
//
// # Algorithm
//
//  1. Run the minimap model and keep the best candidate if it clears
//     params.Confidence.
//  2. Expand the candidate so the white border is fully inside it.
//  3. Crop, convert to high-contrast grayscale and binarize with Otsu.
//  4. Take the external contour with the largest bounding box.
//  5. Require the contour to sit inside the expanded box with at least
//     params.MinAreaDelta of slack.
//  6. Vote the border thickness along the top edge and inset by it.
//
// Any rejected stage returns ErrMinimapNotFound.
func LocateMinimapDetailed(runner Runner, frame gocv.Mat, params MinimapParams) (*MinimapResult, error) {
	rows, ratios, err := RunYOLO(runner, frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMinimapNotFound, err)
	}
	best, ok := BestCandidate(rows)
	if !ok {
		return nil, fmt.Errorf("%w: no candidate", ErrMinimapNotFound)
	}
	minimapLog().Debug().Floats32("prediction", best.Raw()).Msg("yolo detection")
	if best.Confidence < params.Confidence {
		return nil, fmt.Errorf("%w: confidence %.3f", ErrMinimapNotFound, best.Confidence)
	}
	candidate := Remap(best, ratios, frame.Cols(), frame.Rows())
	return RefineMinimap(frame, candidate, params)
}

// RefineMinimap runs stages 2 to 6 of the locator on a candidate rectangle
// already in frame coordinates.
func RefineMinimap(frame gocv.Mat, candidate imaging.Rect, params MinimapParams) (*MinimapResult, error) {
	if candidate.Empty() {
		return nil, fmt.Errorf("%w: empty candidate", ErrMinimapNotFound)
	}
	expanded := ExpandRect(candidate, params.ExpandFactor).Clamp(frame.Cols(), frame.Rows())

	roi := imaging.ROI(frame, expanded)
	gray := imaging.ToGrayscale(roi, true)
	roi.Close()
	binary := imaging.OtsuBinarize(gray)
	gray.Close()
	local, ok := imaging.LargestExternalContour(binary)
	binary.Close()
	if !ok {
		return nil, fmt.Errorf("%w: no contour", ErrMinimapNotFound)
	}

	contour := local.Translate(expanded.TL())
	minimapLog().Debug().
		Int("expanded_area", expanded.Area()).
		Int("contour_area", contour.Area()).
		Msg("yolo bbox and contour bbox areas")
	if !expanded.Contains(contour) || expanded.Area()-contour.Area() < params.MinAreaDelta {
		return nil, fmt.Errorf("%w: contour %v does not fit %v", ErrMinimapNotFound, contour, expanded)
	}

	border, ok := VoteBorder(frame, contour, params.BorderThreshold)
	if !ok {
		return nil, fmt.Errorf("%w: no border columns", ErrMinimapNotFound)
	}
	minimap := contour.Inset(border)
	if minimap.Empty() {
		return nil, fmt.Errorf("%w: border %d consumes contour %v", ErrMinimapNotFound, border, contour)
	}

	return &MinimapResult{
		Candidate: candidate,
		Expanded:  expanded,
		Contour:   contour,
		Border:    border,
		Minimap:   minimap,
	}, nil
}

// ExpandRect grows r by ceil(max(w,h)*factor) pixels on each side. The
// top-left corner is clamped at 0 and the growth applied there is mirrored
// on the opposite side.
func ExpandRect(r imaging.Rect, factor float64) imaging.Rect {
	n := int(math.Ceil(float64(max(r.Width, r.Height)) * factor))
	x := max(r.X-n, 0)
	y := max(r.Y-n, 0)
	return imaging.Rect{
		X:      x,
		Y:      y,
		Width:  r.Width + (r.X-x)*2,
		Height: r.Height + (r.Y-y)*2,
	}
}

// VoteBorder estimates the thickness of the white minimap border.
//
// Columns in the middle 80% of bound are scanned downward from its top
// edge; each column counts the contiguous pixels whose four channels all
// reach threshold. The most common count wins, ties going to the thinner
// border. It returns false when no column could be scanned.
func VoteBorder(frame gocv.Mat, bound imaging.Rect, threshold uint8) (int, bool) {
	margin := int(float64(bound.Width) * 0.1)
	start := bound.X + margin
	end := min(bound.X+bound.Width-margin+1, bound.X+bound.Width, frame.Cols())
	bottom := min(bound.Y+bound.Height, frame.Rows())

	votes := make(map[int]int)
	for col := max(start, 0); col < end; col++ {
		count := 0
		for row := bound.Y; row < bottom; row++ {
			if !imaging.AllChannelsAtLeast(frame, col, row, threshold) {
				break
			}
			count++
		}
		votes[count]++
	}
	if len(votes) == 0 {
		return 0, false
	}

	best, bestVotes := 0, -1
	for count, n := range votes {
		if n > bestVotes || (n == bestVotes && count < best) {
			best, bestVotes = count, n
		}
	}
	minimapLog().Debug().Interface("counts", votes).Int("border", best).Msg("border pixel count")
	return best, true
}
