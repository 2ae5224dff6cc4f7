package solve

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sisi/pkg/cache"
	"github.com/matzehuels/sisi/pkg/errors"
	"github.com/matzehuels/sisi/pkg/line"
	"github.com/matzehuels/sisi/pkg/observability"
	"github.com/matzehuels/sisi/pkg/render"
)

// DefaultTTL is how long solved lines stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Runner solves lines with caching.
//
// The Runner holds no per-solve state. Multiple goroutines can safely use
// the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL applies to cache writes. Zero means DefaultTTL.
	TTL time.Duration

	// MaxSize rejects longer lines when positive.
	MaxSize int

	// Progress, if set, is called by SolveBatch after each line with the
	// number of lines finished so far. It may be called from several
	// goroutines at once.
	Progress func(done, total int)
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// entry is the cached form of a solved line.
type entry struct {
	States     []line.CellState `json:"states"`
	Placements int              `json:"placements"`
}

// Solve solves one line, consulting the cache first.
func (r *Runner) Solve(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.validate(r.MaxSize); err != nil {
		return nil, err
	}
	known, err := req.known()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := &Result{
		Name:   req.Name,
		Size:   req.Size,
		Blocks: req.Blocks,
	}
	if res.Blocks == nil {
		res.Blocks = []int{}
	}

	key := r.Keyer.LineKey(req.Size, req.Blocks, canonicalKnown(known))
	if e, ok := r.lookup(ctx, key, req.Size); ok {
		res.States = e.States
		res.Placements = e.Placements
		res.Cached = true
	} else {
		observability.Solve().OnSolveStart(ctx, req.Size, len(req.Blocks))
		var cov line.Coverage
		if known == nil {
			cov, err = line.TallyContext(ctx, req.Size, req.Blocks)
		} else {
			cov, err = line.RefineTallyContext(ctx, req.Size, req.Blocks, known)
		}
		observability.Solve().OnSolveComplete(ctx, req.Size, cov.Total, time.Since(start), err)
		if err != nil {
			return nil, err
		}
		res.States = cov.States()
		res.Placements = cov.Total
		r.store(ctx, key, entry{States: res.States, Placements: res.Placements})
	}

	res.Contradiction = res.Placements == 0 && len(req.Blocks) > 0
	res.Duration = time.Since(start)
	return res, nil
}

// SolveBatch solves reqs on up to workers goroutines and returns results in
// input order. Invalid lines are reported through Result.Code and
// Result.Error; only context cancellation fails the whole batch.
func (r *Runner) SolveBatch(ctx context.Context, reqs []Request, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}
	start := time.Now()
	observability.Solve().OnBatchStart(ctx, len(reqs), workers)

	results := make([]Result, len(reqs))
	var finished atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, req := range reqs {
		g.Go(func() error {
			res, err := r.Solve(gctx, req)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				results[i] = Result{
					Name:   req.Name,
					Size:   req.Size,
					Blocks: req.Blocks,
					Code:   errors.GetCode(err),
					Error:  errors.UserMessage(err),
				}
				r.Logger.Warn("line failed", "index", i, "name", req.Name, "err", err)
			} else {
				results[i] = *res
			}
			if r.Progress != nil {
				r.Progress(int(finished.Add(1)), len(reqs))
			}
			return nil
		})
	}
	err := g.Wait()

	observability.Solve().OnBatchComplete(ctx, len(reqs), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup returns the cached entry for key. Entries that do not decode or do
// not cover size cells are misses.
func (r *Runner) lookup(ctx context.Context, key string, size int) (entry, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return entry{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "line")
		return entry{}, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		r.Logger.Debug("discarding cache entry", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, "line")
		return entry{}, false
	}
	if len(e.States) != size {
		r.Logger.Debug("discarding cache entry", "key", key, "states", len(e.States), "size", size)
		observability.Cache().OnCacheMiss(ctx, "line")
		return entry{}, false
	}
	observability.Cache().OnCacheHit(ctx, "line")
	return e, true
}

func (r *Runner) store(ctx context.Context, key string, e entry) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "line", len(data))
}

// canonicalKnown renders known cells in a fixed alphabet for cache keys.
func canonicalKnown(known []line.CellState) string {
	if known == nil {
		return ""
	}
	return render.Text(known, render.DefaultGlyphs())
}
