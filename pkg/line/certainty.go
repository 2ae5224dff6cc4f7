package line

import (
	"context"

	"github.com/matzehuels/sisi/pkg/errors"
)

// Coverage is the per-cell tally behind a solved line.
type Coverage struct {
	// Counts[c] is the number of placements covering cell c.
	Counts []int
	// Total is the number of placements counted.
	Total int
}

// States classifies every cell: a count of 0 is Empty, a count equal to
// Total is Filled, anything else is Unknown. With Total == 0 every cell is
// Empty.
func (c Coverage) States() []CellState {
	out := make([]CellState, len(c.Counts))
	for i, n := range c.Counts {
		switch {
		case n == 0:
			out[i] = Empty
		case n == c.Total:
			out[i] = Filled
		default:
			out[i] = Unknown
		}
	}
	return out
}

// Tally enumerates the placements of blocks and counts how often each cell
// is covered.
func Tally(size int, blocks []int) (Coverage, error) {
	if err := errors.ValidateLine(size, blocks); err != nil {
		return Coverage{}, err
	}
	return tally(newSearch(size, blocks, nil))
}

// TallyContext is Tally with cancellation. The cost of a tally grows with
// the number of placements, which is exponential in the slack, so callers
// serving untrusted input should pass a context with a deadline. On
// cancellation it returns ctx.Err() and no partial coverage.
func TallyContext(ctx context.Context, size int, blocks []int) (Coverage, error) {
	if err := errors.ValidateLine(size, blocks); err != nil {
		return Coverage{}, err
	}
	s := newSearch(size, blocks, nil)
	s.ctx = ctx
	return tally(s)
}

// DetermineCellStates returns the state of each of the size cells given only
// the clue. The result always has length size.
func DetermineCellStates(size int, blocks []int) ([]CellState, error) {
	cov, err := Tally(size, blocks)
	if err != nil {
		return nil, err
	}
	return cov.States(), nil
}

func tally(s *search) (Coverage, error) {
	cov := Coverage{Counts: make([]int, s.size)}
	err := s.run(func(offsets []int) bool {
		cov.Total++
		for i, off := range offsets {
			for c := off; c < off+s.blocks[i]; c++ {
				cov.Counts[c]++
			}
		}
		return true
	})
	if err != nil {
		return Coverage{}, err
	}
	return cov, nil
}
