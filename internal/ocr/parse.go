package ocr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrParse is returned when recognized text is not a number.
var ErrParse = errors.New("failed to parse recognized text")

// Health is a current/max pair read from the health bar.
type Health struct {
	Current uint32 `json:"current"`
	Max     uint32 `json:"max"`
}

// ParseUint parses s as a base-10 uint32.
func ParseUint(s string) (uint32, error) {
	s = trimLine(s)
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, s)
	}
	return uint32(n), nil
}

// NewHealth clamps current to max.
func NewHealth(current, max uint32) Health {
	if current > max {
		current = max
	}
	return Health{Current: current, Max: max}
}

// ParseHealth parses both numbers and clamps the current value.
func ParseHealth(current, max string) (Health, error) {
	c, err := ParseUint(current)
	if err != nil {
		return Health{}, fmt.Errorf("current health: %w", err)
	}
	m, err := ParseUint(max)
	if err != nil {
		return Health{}, fmt.Errorf("max health: %w", err)
	}
	return NewHealth(c, m), nil
}

func trimLine(s string) string {
	return strings.Join(strings.Fields(s), "")
}
