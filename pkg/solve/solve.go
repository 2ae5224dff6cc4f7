// Package solve runs the line solver behind a cache.
//
// The [line] package is pure and keeps no state. A [Runner] adds what the
// CLI and HTTP server need around it: memoization through a [cache.Cache],
// observability hooks, optional size limits for untrusted input, and a
// bounded worker pool for batches.
//
//	r := solve.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := r.Solve(ctx, solve.Request{Size: 10, Blocks: []int{2, 7}})
//	// res.States: filled filled empty filled ... filled
//
// Batches keep input order and report per-line failures in the result
// rather than aborting:
//
//	results, err := r.SolveBatch(ctx, reqs, 8)
package solve

import (
	"slices"
	"time"

	"github.com/matzehuels/sisi/pkg/errors"
	"github.com/matzehuels/sisi/pkg/line"
)

// Request is one line to solve.
type Request struct {
	Name   string `json:"name,omitempty" toml:"name"`
	Size   int    `json:"size" toml:"size"`
	Blocks []int  `json:"blocks" toml:"blocks"`

	// Known optionally lists already decided cells in the notation accepted
	// by line.ParseKnown, e.g. "??X.??". Empty means nothing is known.
	Known string `json:"known,omitempty" toml:"known"`
}

// Result is the outcome of solving one Request.
type Result struct {
	Name   string           `json:"name,omitempty"`
	Size   int              `json:"size"`
	Blocks []int            `json:"blocks"`
	States []line.CellState `json:"states"`

	// Placements is the number of placements the states were derived from.
	Placements int `json:"placements"`

	// Contradiction is set when a non-empty clue has no placement, either
	// because it does not fit or because it conflicts with Known.
	Contradiction bool `json:"contradiction,omitempty"`

	Cached   bool          `json:"cached"`
	Duration time.Duration `json:"-"`

	// Code and Error describe a per-line failure inside a batch.
	Code  errors.Code `json:"code,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Failed reports whether the line could not be solved.
func (r Result) Failed() bool {
	return r.Error != ""
}

// known parses the request's known cells. An all-unknown vector is reported
// as nil so it shares cache entries and code paths with a plain solve.
func (req Request) known() ([]line.CellState, error) {
	if req.Known == "" {
		return nil, nil
	}
	k, err := line.ParseKnown(req.Known)
	if err != nil {
		return nil, err
	}
	if len(k) != req.Size {
		return nil, errors.New(errors.ErrCodeInvalidKnown,
			"known states cover %d cells, line has %d", len(k), req.Size)
	}
	if !slices.ContainsFunc(k, line.CellState.Known) {
		return nil, nil
	}
	return k, nil
}

// validate checks the request against an optional size cap.
func (req Request) validate(maxSize int) error {
	if err := errors.ValidateLineName(req.Name); err != nil {
		return err
	}
	if maxSize > 0 && req.Size > maxSize {
		return errors.New(errors.ErrCodeInvalidSize, "line size too large (max %d), got %d", maxSize, req.Size)
	}
	return errors.ValidateLine(req.Size, req.Blocks)
}
