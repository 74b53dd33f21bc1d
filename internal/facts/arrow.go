package facts

import (
	"fmt"

	"github.com/ironsheep/game-vision/internal/imaging"
)

// Arrow is one direction of the rune puzzle.
type Arrow int

const (
	ArrowUp Arrow = iota
	ArrowDown
	ArrowLeft
	ArrowRight
)

// RuneArrowCount is the number of arrows a rune puzzle shows.
const RuneArrowCount = 4

func (a Arrow) String() string {
	switch a {
	case ArrowUp:
		return "up"
	case ArrowDown:
		return "down"
	case ArrowLeft:
		return "left"
	case ArrowRight:
		return "right"
	default:
		return fmt.Sprintf("Arrow(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Arrow) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// arrowFromClass maps the rune model's class id.
func arrowFromClass(id int) (Arrow, error) {
	if id < int(ArrowUp) || id > int(ArrowRight) {
		return 0, fmt.Errorf("unknown rune arrow class %d", id)
	}
	return Arrow(id), nil
}

// RuneArrowPredictions receives the raw accepted rows of a rune arrow
// detection, left to right, with the ratios that map them to the frame.
type RuneArrowPredictions struct {
	Rows   [][]float32    `json:"rows"`
	Ratios imaging.Ratios `json:"ratios"`
}
