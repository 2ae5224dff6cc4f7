package line

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sisi/pkg/errors"
)

// DefaultTreeLimit caps the number of search nodes drawn by ToDOT.
const DefaultTreeLimit = 500

// ToDOT returns a Graphviz DOT drawing of the backtracking search over block
// offsets.
//
// Node representation:
//   - Root: the line size and clue, ellipse shape
//   - Choice: "len@offset" for one block placed at one offset, box shape
//   - Placement: the finished line as "X" and "." glyphs, rounded box shape
//   - Dead end: a block with no legal offset, dashed "none" node
//
// At most limit choice nodes are drawn (DefaultTreeLimit if limit <= 0); the
// rest of the tree is replaced by a single "..." node.
func ToDOT(size int, blocks []int, limit int) (string, error) {
	if err := errors.ValidateLine(size, blocks); err != nil {
		return "", err
	}
	if limit <= 0 {
		limit = DefaultTreeLimit
	}

	w := &dotWriter{s: newSearch(size, blocks, nil), limit: limit}
	w.buf.WriteString("digraph Placements {\n")
	w.buf.WriteString("  rankdir=TB;\n")
	w.buf.WriteString("  bgcolor=\"transparent\";\n")
	w.buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, style=filled, fillcolor=white];\n")
	w.buf.WriteString("  edge [arrowhead=none];\n\n")

	root := w.node(fmt.Sprintf("size=%d [%s]", size, FormatBlocks(blocks)), "shape=ellipse")
	if len(blocks) > 0 {
		w.walk(root, 0)
	}
	if w.truncated {
		id := w.node("...", "shape=plaintext")
		fmt.Fprintf(&w.buf, "  %s -> %s [style=dotted];\n", root, id)
	}

	w.buf.WriteString("}\n")
	return w.buf.String(), nil
}

type dotWriter struct {
	buf       bytes.Buffer
	s         *search
	next      int
	choices   int
	limit     int
	truncated bool
}

func (w *dotWriter) node(label, attrs string) string {
	id := fmt.Sprintf("n%d", w.next)
	w.next++
	fmt.Fprintf(&w.buf, "  %s [label=%q, %s];\n", id, label, attrs)
	return id
}

func (w *dotWriter) edge(from, to string) {
	fmt.Fprintf(&w.buf, "  %s -> %s;\n", from, to)
}

func (w *dotWriter) walk(parent string, i int) {
	s := w.s
	if i == len(s.blocks) {
		leaf := w.node(placementString(Placement(s.offsets).Line(s.size, s.blocks)), "shape=box, style=\"filled,rounded\"")
		w.edge(parent, leaf)
		return
	}

	lo, hi := s.bounds(i)
	if lo > hi {
		dead := w.node("none", "shape=box, style=dashed")
		w.edge(parent, dead)
		return
	}
	for off := lo; off <= hi; off++ {
		if w.choices >= w.limit {
			w.truncated = true
			return
		}
		w.choices++
		s.offsets = append(s.offsets[:i], off)
		id := w.node(fmt.Sprintf("%d@%d", s.blocks[i], off), "shape=box")
		w.edge(parent, id)
		w.walk(id, i+1)
	}
	s.offsets = s.offsets[:i]
}

func placementString(states []CellState) string {
	var b strings.Builder
	for _, st := range states {
		if st == Filled {
			b.WriteByte('X')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// RenderSVG renders the ToDOT drawing of the search as an SVG document.
//
// All errors are wrapped with context using fmt.Errorf with %w.
func RenderSVG(ctx context.Context, size int, blocks []int, limit int) ([]byte, error) {
	dot, err := ToDOT(size, blocks, limit)
	if err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
