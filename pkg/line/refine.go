package line

import (
	"context"

	"github.com/matzehuels/sisi/pkg/errors"
)

// RefineTally is Tally restricted to placements that agree with known:
// every Filled cell in known must be covered and every Empty cell must not.
// Unknown entries impose nothing. len(known) must equal size.
//
// A Total of zero with a non-empty clue means known contradicts the clue.
func RefineTally(size int, blocks []int, known []CellState) (Coverage, error) {
	return RefineTallyContext(context.Background(), size, blocks, known)
}

// RefineTallyContext is RefineTally with cancellation, like TallyContext.
func RefineTallyContext(ctx context.Context, size int, blocks []int, known []CellState) (Coverage, error) {
	if err := errors.ValidateLine(size, blocks); err != nil {
		return Coverage{}, err
	}
	if len(known) != size {
		return Coverage{}, errors.New(errors.ErrCodeInvalidKnown,
			"known states cover %d cells, line has %d", len(known), size)
	}
	s := newSearch(size, blocks, known)
	s.ctx = ctx
	return tally(s)
}

// Refine returns the cell states implied by the clue together with the
// already known cells. An all-Unknown known slice gives the same result as
// DetermineCellStates.
func Refine(size int, blocks []int, known []CellState) ([]CellState, error) {
	cov, err := RefineTally(size, blocks, known)
	if err != nil {
		return nil, err
	}
	return cov.States(), nil
}

// Consistent reports whether placement p agrees with known.
func Consistent(p Placement, size int, blocks []int, known []CellState) bool {
	for c, s := range p.Line(size, blocks) {
		if c < len(known) && known[c].Known() && known[c] != s {
			return false
		}
	}
	return true
}
