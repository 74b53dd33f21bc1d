// Package history provides a fixed-capacity sequence for keeping the most
// recent detection results.
package history

import (
	"errors"
	"fmt"
)

var (
	// ErrFull is returned by Push when the sequence holds Cap items.
	ErrFull = errors.New("history is full")
	// ErrIndexOutOfRange is returned for an index outside [0, Len).
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Bounded is an ordered sequence that never grows past the capacity given
// to NewBounded. It is not safe for concurrent use.
type Bounded[T any] struct {
	items []T
}

// NewBounded returns an empty sequence holding at most capacity items.
// It panics if capacity is not positive.
func NewBounded[T any](capacity int) *Bounded[T] {
	if capacity <= 0 {
		panic(fmt.Sprintf("history: capacity must be positive, got %d", capacity))
	}
	return &Bounded[T]{items: make([]T, 0, capacity)}
}

// Cap returns the fixed capacity.
func (b *Bounded[T]) Cap() int {
	return cap(b.items)
}

// Len returns the number of items held.
func (b *Bounded[T]) Len() int {
	return len(b.items)
}

// Full reports whether Push would fail.
func (b *Bounded[T]) Full() bool {
	return len(b.items) == cap(b.items)
}

// Push appends v. The sequence is left unchanged when it is full.
func (b *Bounded[T]) Push(v T) error {
	if b.Full() {
		return ErrFull
	}
	b.items = append(b.items, v)
	return nil
}

// At returns the item at i, oldest first.
func (b *Bounded[T]) At(i int) (T, error) {
	if i < 0 || i >= len(b.items) {
		var zero T
		return zero, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(b.items))
	}
	return b.items[i], nil
}

// Remove deletes the item at i and shifts later items left.
func (b *Bounded[T]) Remove(i int) (T, error) {
	v, err := b.At(i)
	if err != nil {
		return v, err
	}
	copy(b.items[i:], b.items[i+1:])
	var zero T
	b.items[len(b.items)-1] = zero
	b.items = b.items[:len(b.items)-1]
	return v, nil
}

// Each calls fn for every item in order until fn returns false.
func (b *Bounded[T]) Each(fn func(i int, v T) bool) {
	for i, v := range b.items {
		if !fn(i, v) {
			return
		}
	}
}

// Items returns a copy of the held items, oldest first.
func (b *Bounded[T]) Items() []T {
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}

// Clear removes every item.
func (b *Bounded[T]) Clear() {
	clear(b.items)
	b.items = b.items[:0]
}
