// Package line solves a single row or column of a nonogram puzzle.
//
// # Overview
//
// A nonogram line is a sequence of cells plus a clue: the ordered lengths of
// the filled blocks that must appear on it, separated by at least one empty
// cell. Given only the line length and the clue, this package determines
// which cells are filled in every valid arrangement, which are empty in every
// valid arrangement, and which depend on the arrangement.
//
// This is the classical line solver that puzzle-level solvers call once per
// row and column until nothing changes. Driving that loop is left to the
// caller; every function here is a pure function of its arguments.
//
// # Placements
//
// A [Placement] assigns a start offset to every block. Blocks are placed left
// to right. Block i may start no earlier than one cell after block i-1 ends
// and no later than the last offset that still leaves room for itself, the
// remaining blocks and one separator between each pair of them:
//
//	size = 10, blocks = [2 7]
//
//	block 0: offsets 0..0   (2 + 1 + 7 = 10 leaves no slack)
//	block 1: offsets 3..3
//
//	XX.XXXXXXX   the only placement, [0 3]
//
// [Enumerate] returns every placement in lexicographic order of offsets.
// [Placements] streams them without materializing the set and [Count]
// returns only their number.
//
// # Cell States
//
// [DetermineCellStates] counts, for each cell, how many placements cover it.
// A count of zero means [Empty], a count equal to the number of placements
// means [Filled], anything in between means [Unknown]. When no placement
// exists (the clue does not fit, or the clue is empty) every count is zero
// and the whole line resolves to [Empty]; this falls out of the same rule.
//
// Counting happens while enumerating, so memory stays proportional to the
// line length even when the number of placements is large.
//
// # Refinement
//
// Inside a puzzle solver some cells of a line are already known from the
// crossing lines. [Refine] takes those states into account: only placements
// that cover every known filled cell and avoid every known empty cell are
// counted. Inconsistent branches are pruned during the search.
//
// # Debugging
//
// [ToDOT] and [RenderSVG] draw the backtracking tree, one node per block
// offset choice, which helps when reasoning about why a cell stays unknown.
//
// # Errors
//
// A negative size or a block length below one is rejected with an error
// carrying [errors.ErrCodeInvalidSize] or [errors.ErrCodeInvalidBlock].
// A clue that cannot fit on the line is not an error.
//
// [errors.ErrCodeInvalidSize]: github.com/matzehuels/sisi/pkg/errors
// [errors.ErrCodeInvalidBlock]: github.com/matzehuels/sisi/pkg/errors
package line
