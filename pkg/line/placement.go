package line

import (
	"context"
	"iter"
	"slices"

	"github.com/matzehuels/sisi/pkg/errors"
)

// Placement holds the start offset of every block of a clue, in clue order.
// Offset i belongs to block i.
type Placement []int

// Line renders the placement as cell states: cells covered by a block are
// Filled, all others Empty.
func (p Placement) Line(size int, blocks []int) []CellState {
	out := Uniform(size, Empty)
	for i, off := range p {
		for c := off; c < off+blocks[i] && c < size; c++ {
			out[c] = Filled
		}
	}
	return out
}

// MinLength returns the smallest line that fits blocks: their total length
// plus one separator between each adjacent pair. MinLength(nil) is 0.
func MinLength(blocks []int) int {
	if len(blocks) == 0 {
		return 0
	}
	n := len(blocks) - 1
	for _, b := range blocks {
		n += b
	}
	return n
}

// Slack returns size - MinLength(blocks). A negative slack means the clue
// does not fit and there are no placements.
func Slack(size int, blocks []int) int {
	return size - MinLength(blocks)
}

// Enumerate returns every valid placement of blocks on a line of size cells,
// in increasing lexicographic order of offsets.
//
// An empty clue yields no placements. A clue that does not fit yields no
// placements and no error.
func Enumerate(size int, blocks []int) ([]Placement, error) {
	if err := errors.ValidateLine(size, blocks); err != nil {
		return nil, err
	}
	var out []Placement
	newSearch(size, blocks, nil).run(func(offsets []int) bool {
		out = append(out, slices.Clone(offsets))
		return true
	})
	return out, nil
}

// Placements returns an iterator over the placements Enumerate would return,
// in the same order. Each yielded Placement is a fresh slice.
func Placements(size int, blocks []int) (iter.Seq[Placement], error) {
	if err := errors.ValidateLine(size, blocks); err != nil {
		return nil, err
	}
	blocks = slices.Clone(blocks)
	return func(yield func(Placement) bool) {
		newSearch(size, blocks, nil).run(func(offsets []int) bool {
			return yield(slices.Clone(offsets))
		})
	}, nil
}

// Count returns the number of placements without storing them.
func Count(size int, blocks []int) (int, error) {
	if err := errors.ValidateLine(size, blocks); err != nil {
		return 0, err
	}
	n := 0
	newSearch(size, blocks, nil).run(func([]int) bool {
		n++
		return true
	})
	return n, nil
}

// search is one backtracking run over block offsets. Inputs are validated by
// the caller.
type search struct {
	size   int
	blocks []int

	// reserve[i] is the room blocks[i:] need including inner separators.
	reserve []int

	// known restricts placements to ones agreeing with it; nil means no
	// restriction.
	known []CellState

	offsets []int

	// ctx, when set, is polled every checkEvery visited nodes.
	ctx   context.Context
	nodes int
	err   error
}

// checkEvery is how many search nodes are visited between context checks.
const checkEvery = 1 << 12

func newSearch(size int, blocks []int, known []CellState) *search {
	reserve := make([]int, len(blocks))
	for i := len(blocks) - 1; i >= 0; i-- {
		reserve[i] = blocks[i]
		if i < len(blocks)-1 {
			reserve[i] += reserve[i+1] + 1
		}
	}
	return &search{
		size:    size,
		blocks:  blocks,
		reserve: reserve,
		known:   known,
		offsets: make([]int, 0, len(blocks)),
	}
}

// bounds returns the inclusive offset range of block i given offsets[:i].
// An empty range (lo > hi) prunes the branch.
func (s *search) bounds(i int) (lo, hi int) {
	if i > 0 {
		lo = s.offsets[i-1] + s.blocks[i-1] + 1
	}
	return lo, s.size - s.reserve[i]
}

// gapStart is the first cell after block i-1, or 0 for the first block.
func (s *search) gapStart(i int) int {
	if i == 0 {
		return 0
	}
	return s.offsets[i-1] + s.blocks[i-1]
}

// run calls emit for every placement. emit must not retain its argument and
// returns false to stop the search. run returns the context error if the
// search was cut short by cancellation.
func (s *search) run(emit func([]int) bool) error {
	if len(s.blocks) == 0 {
		return nil
	}
	s.place(0, emit)
	return s.err
}

// cancelled polls the context every checkEvery calls.
func (s *search) cancelled() bool {
	if s.ctx == nil {
		return false
	}
	s.nodes++
	if s.nodes%checkEvery != 0 {
		return false
	}
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return true
	}
	return false
}

func (s *search) place(i int, emit func([]int) bool) bool {
	if s.cancelled() {
		return false
	}
	if i == len(s.blocks) {
		if s.known != nil && s.filledIn(s.gapStart(i), s.size) {
			return true
		}
		return emit(s.offsets)
	}

	lo, hi := s.bounds(i)
	gap := s.gapStart(i)
	for off := lo; off <= hi; off++ {
		if s.known != nil {
			// The gap before the block only grows with off.
			if s.filledIn(gap, off) {
				break
			}
			if s.emptyIn(off, off+s.blocks[i]) {
				continue
			}
		}
		s.offsets = append(s.offsets[:i], off)
		if !s.place(i+1, emit) {
			return false
		}
	}
	s.offsets = s.offsets[:i]
	return true
}

func (s *search) filledIn(from, to int) bool {
	return slices.Contains(s.known[from:to], Filled)
}

func (s *search) emptyIn(from, to int) bool {
	return slices.Contains(s.known[from:to], Empty)
}
