package detection

import (
	"math"

	"gocv.io/x/gocv"

	"github.com/ironsheep/game-vision/internal/imaging"
)

// Match is one accepted template location.
type Match struct {
	Rect  imaging.Rect `json:"rect"`
	Score float32      `json:"score"`
}

// MatchAttempt is the outcome of one search over a score map: either a Match
// or a *NotFoundError carrying the best score seen.
type MatchAttempt struct {
	Match
	Err error
}

// MatchTemplate finds the single best location of tmpl in src.
//
// The returned rectangle is translated by offset, which lets callers search a
// cropped region and still get full-frame coordinates. A best score below
// threshold yields a *NotFoundError.
func MatchTemplate(src, tmpl gocv.Mat, offset imaging.Point, threshold float32) (imaging.Rect, error) {
	m, err := MatchTemplateSingle(src, tmpl, nil, offset, threshold)
	return m.Rect, err
}

// MatchTemplateSingle is MatchTemplate with an optional mask that excludes
// template pixels from the correlation, also returning the score.
func MatchTemplateSingle(src, tmpl gocv.Mat, mask *gocv.Mat, offset imaging.Point, threshold float32) (Match, error) {
	attempt := MatchTemplateMultiple(src, tmpl, mask, offset, 1, threshold)[0]
	return attempt.Match, attempt.Err
}

// MatchTemplateMultiple searches for up to maxMatches non-overlapping
// locations of tmpl in src.
//
// Parameters:
//   - src: Image to search; same type and channel count as tmpl.
//   - tmpl: Template to look for.
//   - mask: Optional mask the size of tmpl. Nil disables masking.
//   - offset: Added to every returned rectangle.
//   - maxMatches: Values of 0 and 1 both mean a single search.
//   - threshold: Minimum normalized correlation score in [0,1].
//
// Returns one MatchAttempt per search in attempt order. The search stops at
// the first attempt that falls below threshold; that failed attempt is the
// last element.
//
// # Algorithm
//
// A TM_CCOEFF_NORMED score map is computed once. Each search takes the global
// maximum of the map. After a match is accepted, the part of the score map
// covering the matched rectangle is zeroed so the next maximum must come from
// elsewhere.
func MatchTemplateMultiple(src, tmpl gocv.Mat, mask *gocv.Mat, offset imaging.Point, maxMatches int, threshold float32) []MatchAttempt {
	if !fits(src, tmpl) {
		return []MatchAttempt{{Err: &NotFoundError{Threshold: threshold}}}
	}
	scores := scoreMap(src, tmpl, mask)
	defer scores.Close()

	if maxMatches < 1 {
		maxMatches = 1
	}
	size := imaging.Pt(tmpl.Cols(), tmpl.Rows())
	bounds := imaging.MatBounds(scores)

	attempts := make([]MatchAttempt, 0, maxMatches)
	for i := 0; i < maxMatches; i++ {
		_, score, _, loc := gocv.MinMaxLoc(scores)
		if score < threshold {
			attempts = append(attempts, MatchAttempt{
				Match: Match{Score: score},
				Err:   &NotFoundError{Score: score, Threshold: threshold},
			})
			break
		}

		local := imaging.NewRect(loc.X, loc.Y, size.X, size.Y)
		attempts = append(attempts, MatchAttempt{
			Match: Match{Rect: local.Translate(offset), Score: score},
		})

		if i+1 < maxMatches {
			erase := local.And(bounds)
			if !erase.Empty() {
				region := scores.Region(erase.ImageRect())
				region.SetTo(gocv.NewScalar(0, 0, 0, 0))
				region.Close()
			}
		}
	}
	return attempts
}

// MatchScoreMap returns the raw TM_CCOEFF_NORMED score map of tmpl over src.
// The caller owns the result.
func MatchScoreMap(src, tmpl gocv.Mat) gocv.Mat {
	return scoreMap(src, tmpl, nil)
}

func scoreMap(src, tmpl gocv.Mat, mask *gocv.Mat) gocv.Mat {
	scores := gocv.NewMat()
	if mask != nil {
		gocv.MatchTemplate(src, tmpl, &scores, gocv.TmCcoeffNormed, *mask)
		// A masked template with flat visible pixels divides by zero.
		sanitizeScores(scores)
		return scores
	}

	noMask := gocv.NewMat()
	defer noMask.Close()
	gocv.MatchTemplate(src, tmpl, &scores, gocv.TmCcoeffNormed, noMask)
	return scores
}

func sanitizeScores(scores gocv.Mat) {
	data, err := scores.DataPtrFloat32()
	if err != nil {
		return
	}
	for i, v := range data {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			data[i] = 0
		}
	}
}

// MatchLocations returns every top-left location whose TM_CCOEFF_NORMED
// score is strictly above threshold, in row-major order. No suppression is
// applied, so one on-screen instance usually yields a small cluster.
func MatchLocations(src, tmpl gocv.Mat, threshold float32) []imaging.Point {
	if !fits(src, tmpl) {
		return nil
	}
	scores := scoreMap(src, tmpl, nil)
	defer scores.Close()

	var points []imaging.Point
	for y := 0; y < scores.Rows(); y++ {
		for x := 0; x < scores.Cols(); x++ {
			if scores.GetFloatAt(y, x) > threshold {
				points = append(points, imaging.Pt(x, y))
			}
		}
	}
	return points
}

// fits reports whether tmpl can slide over src at least once.
func fits(src, tmpl gocv.Mat) bool {
	return !tmpl.Empty() && tmpl.Cols() <= src.Cols() && tmpl.Rows() <= src.Rows()
}
