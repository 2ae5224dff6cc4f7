package line

import (
	"fmt"

	"github.com/matzehuels/sisi/pkg/errors"
)

// CellState classifies one cell of a solved line.
type CellState int

const (
	// Unknown cells are covered by some placements but not all.
	Unknown CellState = iota + 1
	// Empty cells are covered by no placement.
	Empty
	// Filled cells are covered by every placement.
	Filled
)

// String returns the lowercase state name.
func (s CellState) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Empty:
		return "empty"
	case Filled:
		return "filled"
	}
	return fmt.Sprintf("CellState(%d)", int(s))
}

// Known reports whether the state is Filled or Empty.
func (s CellState) Known() bool {
	return s == Filled || s == Empty
}

// MarshalText encodes the state as its name.
func (s CellState) MarshalText() ([]byte, error) {
	switch s {
	case Unknown, Empty, Filled:
		return []byte(s.String()), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "invalid cell state %d", int(s))
}

// UnmarshalText decodes a state name produced by MarshalText.
func (s *CellState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "unknown":
		*s = Unknown
	case "empty":
		*s = Empty
	case "filled":
		*s = Filled
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid cell state %q", text)
	}
	return nil
}

// Uniform returns a line of size cells all in state s.
func Uniform(size int, s CellState) []CellState {
	out := make([]CellState, size)
	for i := range out {
		out[i] = s
	}
	return out
}
