package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/sisi/pkg/errors"
	"github.com/matzehuels/sisi/pkg/render"
	"github.com/matzehuels/sisi/pkg/solve"
)

// Record is one solved line as written by WriteResults.
type Record struct {
	solve.Result
	Glyphs string `json:"glyphs,omitempty"`
}

// NewRecord renders res with g. Failed lines carry no glyphs.
func NewRecord(res solve.Result, g render.Glyphs) Record {
	rec := Record{Result: res}
	if !res.Failed() {
		rec.Glyphs = render.Text(res.States, g)
	}
	return rec
}

// WriteResults encodes results as an indented JSON array.
func WriteResults(w io.Writer, results []solve.Result, g render.Glyphs) error {
	out := make([]Record, len(results))
	for i, res := range results {
		out[i] = NewRecord(res, g)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode results")
	}
	return nil
}

// ExportResults writes results to path as JSON.
func ExportResults(path string, results []solve.Result, g render.Glyphs) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := WriteResults(f, results, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
