package detection

import (
	"testing"

	"github.com/ironsheep/game-vision/internal/imaging"
)

func TestToMinimapCoordinate(t *testing.T) {
	minimap := imaging.NewRect(0, 0, 150, 100)
	player := imaging.Pt(50, 50)
	params := DefaultTransformParams()

	// Both boxes sit on the bottom edge of a 1000x800 screen, so dy is the
	// bias alone: 50 + (-20) = 30, flipped to 100 - 30 = 70.
	right := imaging.NewRect(600, 700, 20, 100) // center 610, 110 right of middle -> dx 7
	left := imaging.NewRect(300, 700, 20, 100)  // center 310, 190 left of middle -> dx 12

	tests := []struct {
		name   string
		box    imaging.Rect
		bound  imaging.Rect
		player imaging.Point
		want   imaging.Point
		ok     bool
	}{
		{"right of center", right, imaging.NewRect(10, 10, 80, 80), player, imaging.Pt(57, 70), true},
		{"left of center", left, imaging.NewRect(10, 10, 80, 80), player, imaging.Pt(38, 70), true},
		{"right edge inclusive", right, imaging.NewRect(10, 10, 47, 80), player, imaging.Pt(57, 70), true},
		{"one past right edge", right, imaging.NewRect(10, 10, 46, 80), player, imaging.Point{}, false},
		{"bottom edge inclusive", right, imaging.NewRect(10, 10, 80, 60), player, imaging.Pt(57, 70), true},
		{"one past bottom edge", right, imaging.NewRect(10, 10, 80, 59), player, imaging.Point{}, false},
		{"left of bound", left, imaging.NewRect(39, 10, 40, 80), player, imaging.Point{}, false},
		{"negative x", left, imaging.NewRect(-20, 0, 200, 200), imaging.Pt(3, 50), imaging.Point{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToMinimapCoordinate(tt.box, 1000, 800, minimap, tt.bound, tt.player, params)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v (point %v)", ok, tt.ok, got)
			}
			if got != tt.want {
				t.Errorf("point: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToMinimapCoordinate_VerticalOffset(t *testing.T) {
	// 200 pixels above the bottom: dy = int(200*0.07263514 - 20) = -5.
	box := imaging.NewRect(490, 500, 20, 100)
	got, ok := ToMinimapCoordinate(box, 1000, 800, imaging.NewRect(0, 0, 150, 100),
		imaging.NewRect(0, 0, 150, 100), imaging.Pt(50, 50), DefaultTransformParams())
	if !ok {
		t.Fatal("expected an in-bound point")
	}
	if want := imaging.Pt(50, 55); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
