package detection

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("template not found")

	// ErrDetectionCountMismatch is returned when a fixed-arity detector
	// (rune arrows) decodes a different number of candidates.
	ErrDetectionCountMismatch = errors.New("detection count mismatch")

	// ErrMinimapNotFound is returned when any stage of the minimap locator
	// rejects the frame.
	ErrMinimapNotFound = errors.New("minimap not found")

	// ErrNoTextRegion is returned when a text box was required but none
	// survived filtering.
	ErrNoTextRegion = errors.New("no text region")
)

// NotFoundError reports a template match whose best score stayed below the
// threshold.
type NotFoundError struct {
	Score     float32
	Threshold float32
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template not found: best score %.3f below %.3f", e.Score, e.Threshold)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
