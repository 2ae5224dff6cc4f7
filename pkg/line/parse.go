package line

import (
	"strconv"
	"strings"

	"github.com/matzehuels/sisi/pkg/errors"
)

// ParseBlocks parses a clue such as "2 7", "2,7" or "2, 7". An empty or blank
// string is the empty clue. Lengths must be positive.
func ParseBlocks(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	blocks := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid block length %q", f)
		}
		blocks = append(blocks, n)
	}
	if err := errors.ValidateBlocks(blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// FormatBlocks is the inverse of ParseBlocks, using single spaces.
func FormatBlocks(blocks []int) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = strconv.Itoa(b)
	}
	return strings.Join(parts, " ")
}

// ParseKnown parses a row of known cells, one character per cell:
//
//	X # 1   filled
//	O . - 0 empty
//	_ ? space unknown
//
// Both the "X O _" and "# - ?" conventions are accepted.
func ParseKnown(s string) ([]CellState, error) {
	out := make([]CellState, 0, len(s))
	for i, r := range s {
		switch r {
		case 'X', 'x', '#', '1':
			out = append(out, Filled)
		case 'O', 'o', '.', '-', '0':
			out = append(out, Empty)
		case '_', '?', ' ':
			out = append(out, Unknown)
		default:
			return nil, errors.New(errors.ErrCodeInvalidKnown, "invalid cell %q at position %d", r, i)
		}
	}
	return out, nil
}
