package render

import (
	"strings"

	"github.com/matzehuels/sisi/pkg/errors"
	"github.com/matzehuels/sisi/pkg/line"
)

// Glyphs maps each cell state to a single display character.
type Glyphs struct {
	Filled  string `toml:"filled" json:"filled"`
	Empty   string `toml:"empty" json:"empty"`
	Unknown string `toml:"unknown" json:"unknown"`
}

// DefaultGlyphs returns the X / O / _ glyph set.
func DefaultGlyphs() Glyphs {
	return Glyphs{Filled: "X", Empty: "O", Unknown: "_"}
}

// Validate checks that every glyph is one printable character and that the
// three glyphs are distinct.
func (g Glyphs) Validate() error {
	for _, s := range []string{g.Filled, g.Empty, g.Unknown} {
		if err := errors.ValidateGlyph(s); err != nil {
			return err
		}
	}
	if g.Filled == g.Empty || g.Filled == g.Unknown || g.Empty == g.Unknown {
		return errors.New(errors.ErrCodeInvalidConfig, "glyphs must be distinct, got %q %q %q", g.Filled, g.Empty, g.Unknown)
	}
	return nil
}

// WithDefaults fills empty glyphs from DefaultGlyphs.
func (g Glyphs) WithDefaults() Glyphs {
	d := DefaultGlyphs()
	if g.Filled == "" {
		g.Filled = d.Filled
	}
	if g.Empty == "" {
		g.Empty = d.Empty
	}
	if g.Unknown == "" {
		g.Unknown = d.Unknown
	}
	return g
}

// Glyph returns the glyph for s. Out-of-range states render as "?".
func (g Glyphs) Glyph(s line.CellState) string {
	switch s {
	case line.Filled:
		return g.Filled
	case line.Empty:
		return g.Empty
	case line.Unknown:
		return g.Unknown
	}
	return "?"
}

// Text renders states as one glyph per cell with no separators.
func Text(states []line.CellState, g Glyphs) string {
	var b strings.Builder
	for _, s := range states {
		b.WriteString(g.Glyph(s))
	}
	return b.String()
}

// Spaced renders states as glyphs separated by single spaces.
func Spaced(states []line.CellState, g Glyphs) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = g.Glyph(s)
	}
	return strings.Join(parts, " ")
}

// Summary counts the cells in each state.
type Summary struct {
	Filled  int `json:"filled"`
	Empty   int `json:"empty"`
	Unknown int `json:"unknown"`
}

// Summarize counts the states of a solved line.
func Summarize(states []line.CellState) Summary {
	var s Summary
	for _, st := range states {
		switch st {
		case line.Filled:
			s.Filled++
		case line.Empty:
			s.Empty++
		default:
			s.Unknown++
		}
	}
	return s
}

// Solved reports whether no cell is left unknown.
func (s Summary) Solved() bool {
	return s.Unknown == 0
}
