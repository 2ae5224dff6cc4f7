// Package pkg provides the libraries behind the sisi nonogram line solver.
//
// # Overview
//
// A nonogram line is a row or column of cells with a clue: the lengths of
// the filled blocks in order. Sisi enumerates every way the blocks can be
// placed and reports which cells are filled in all of them, empty in all of
// them, or still undecided.
//
//  1. [line] - the pure solver: placements, cell states, refinement
//  2. [solve] - a caching runner with batch fan-out
//  3. [cache] - file, Redis and MongoDB cache backends
//  4. [render] - glyph rendering of solved lines
//  5. [io] - batch file import and result export
//  6. [server] - the HTTP API
//  7. [config] - the TOML configuration file
//
// # Quick Start
//
//	states, err := line.DetermineCellStates(10, []int{2, 7})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(render.Spaced(states, render.DefaultGlyphs()))
//	// X X O X X X X X X X
//
// With cells already decided by crossing lines:
//
//	known, _ := line.ParseKnown("????X?????")
//	states, err := line.Refine(10, []int{3}, known)
//
// [line]: github.com/matzehuels/sisi/pkg/line
// [solve]: github.com/matzehuels/sisi/pkg/solve
// [cache]: github.com/matzehuels/sisi/pkg/cache
// [render]: github.com/matzehuels/sisi/pkg/render
// [io]: github.com/matzehuels/sisi/pkg/io
// [server]: github.com/matzehuels/sisi/pkg/server
// [config]: github.com/matzehuels/sisi/pkg/config
package pkg
