// Package calibration holds the self-correcting variant selectors used by
// detectors that have two plausible reference templates.
//
// A Flag is shared by every caller of its detector. Reads and writes are
// atomic but unsynchronized with each other: two goroutines failing at the
// same time may both flip, leaving the flag where it started. The cost is one
// more failed attempt, never invalid geometry.
package calibration

import (
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func calibrationLog() *zerolog.Logger {
	l := log.With().Str("module", "calibration").Logger()
	return &l
}

// Variant selects one of a detector's two reference templates.
type Variant uint32

const (
	VariantA Variant = iota
	VariantB
)

func (v Variant) String() string {
	if v == VariantB {
		return "B"
	}
	return "A"
}

// Other returns the opposite variant.
func (v Variant) Other() Variant {
	if v == VariantB {
		return VariantA
	}
	return VariantB
}

// Flag is a named two-state selector. The zero value selects VariantA.
type Flag struct {
	name string
	v    atomic.Uint32
}

// NewFlag returns a flag named name starting at initial.
func NewFlag(name string, initial Variant) *Flag {
	f := &Flag{name: name}
	f.v.Store(uint32(initial))
	return f
}

// Name returns the flag's name.
func (f *Flag) Name() string {
	return f.name
}

// Load returns the currently selected variant.
func (f *Flag) Load() Variant {
	return Variant(f.v.Load())
}

// Store selects v.
func (f *Flag) Store(v Variant) {
	f.v.Store(uint32(v))
}

// Flip switches to the variant other than used. It does nothing when the
// flag no longer holds used.
func (f *Flag) Flip(used Variant) {
	next := used.Other()
	if f.v.CompareAndSwap(uint32(used), uint32(next)) {
		calibrationLog().Info().Str("flag", f.name).Stringer("variant", next).Msg("calibration flipped")
	}
}

// Attempt runs fn with the current variant and flips the flag when fn
// fails. The error is returned unchanged.
func Attempt[T any](f *Flag, fn func(Variant) (T, error)) (T, error) {
	used := f.Load()
	out, err := fn(used)
	if err != nil {
		f.Flip(used)
	}
	return out, err
}
