package detection

import (
	"github.com/ironsheep/game-vision/internal/imaging"
)

// TransformParams is the 2x2 screen-to-minimap matrix plus a vertical bias.
//
//	[ A1 A2 ]   applied to (|dx|, 0)
//	[ B1 B2 ]   applied to (0, dy)
type TransformParams struct {
	A1   float32 `mapstructure:"a1"`
	A2   float32 `mapstructure:"a2"`
	B1   float32 `mapstructure:"b1"`
	B2   float32 `mapstructure:"b2"`
	Bias float32 `mapstructure:"bias"`
}

// DefaultTransformParams returns the empirically fitted transform.
func DefaultTransformParams() TransformParams {
	return TransformParams{
		A1:   0.065789476,
		A2:   0.12062144,
		B1:   0,
		B2:   0.07263514,
		Bias: -20,
	}
}

// ToMinimapCoordinate maps an on-screen box to a minimap position relative
// to the player.
//
// Parameters:
//   - box: Detected box in screen coordinates.
//   - screenWidth, screenHeight: Size of the capture box was found in.
//   - minimap: The minimap rectangle; only its height is used.
//   - bound: Playable area in minimap coordinates. Edges are inclusive.
//   - player: Player position in minimap coordinates.
//
// Returns false when the position falls outside bound or has a negative
// coordinate.
//
// # Algorithm
//
// The horizontal offset is the box center's distance from the middle of the
// screen, the vertical offset is the box bottom's distance from the bottom of
// the screen. Both are projected through the matrix, the vertical one
// shifted by Bias, truncated to integers and added to the player position
// (subtracted horizontally when the box is on the left half). The result is
// then flipped against the minimap height.
func ToMinimapCoordinate(box imaging.Rect, screenWidth, screenHeight int, minimap, bound imaging.Rect, player imaging.Point, p TransformParams) (imaging.Point, bool) {
	a := imaging.Point2f{X: p.A1, Y: p.A2}
	b := imaging.Point2f{X: p.B1, Y: p.B2}

	px := float32(screenWidth)/2 - float32(box.X+box.Width/2)
	isLeft := px > 0
	if px < 0 {
		px = -px
	}
	py := float32(screenHeight) - float32(box.Y+box.Height)

	dx := int(imaging.Point2f{X: px}.Dot(a))
	dy := int(imaging.Point2f{Y: py}.Dot(b) + p.Bias)

	var pt imaging.Point
	if isLeft {
		pt = imaging.Pt(player.X-dx, player.Y+dy)
	} else {
		pt = imaging.Pt(player.X+dx, player.Y+dy)
	}
	pt.Y = minimap.Height - pt.Y

	if pt.X < 0 || pt.Y < 0 ||
		pt.X < bound.X || pt.X > bound.X+bound.Width ||
		pt.Y < bound.Y || pt.Y > bound.Y+bound.Height {
		return imaging.Point{}, false
	}
	return pt, true
}
