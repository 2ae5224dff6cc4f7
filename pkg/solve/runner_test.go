package solve

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/sisi/pkg/cache"
	"github.com/matzehuels/sisi/pkg/errors"
	"github.com/matzehuels/sisi/pkg/line"
	"github.com/matzehuels/sisi/pkg/observability"
)

const (
	f = line.Filled
	e = line.Empty
	u = line.Unknown
)

// memCache is an in-memory Cache that counts operations.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	failGet bool
	failSet bool
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failGet {
		return nil, false, cache.ErrBackend
	}
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.failSet {
		return cache.ErrBackend
	}
	m.data[key] = data
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{Level: log.ErrorLevel})
}

func TestSolve(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	tests := []struct {
		name          string
		req           Request
		want          []line.CellState
		placements    int
		contradiction bool
	}{
		{"two blocks", Request{Size: 10, Blocks: []int{2, 7}}, []line.CellState{f, f, e, f, f, f, f, f, f, f}, 1, false},
		{"overlap", Request{Size: 10, Blocks: []int{8}}, []line.CellState{u, u, f, f, f, f, f, f, u, u}, 3, false},
		{"empty clue", Request{Size: 3}, []line.CellState{e, e, e}, 0, false},
		{"too long", Request{Size: 3, Blocks: []int{2, 2}}, []line.CellState{e, e, e}, 0, true},
		{"known", Request{Size: 5, Blocks: []int{1}, Known: "??X??"}, []line.CellState{e, e, f, e, e}, 1, false},
		{"all unknown known", Request{Size: 5, Blocks: []int{4}, Known: "?????"}, []line.CellState{u, f, f, f, u}, 2, false},
		{"conflicting known", Request{Size: 3, Blocks: []int{3}, Known: "?.?"}, []line.CellState{e, e, e}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Solve(ctx, tt.req)
			if err != nil {
				t.Fatalf("Solve error: %v", err)
			}
			if diff := cmp.Diff(tt.want, res.States); diff != "" {
				t.Errorf("states mismatch (-want +got):\n%s", diff)
			}
			if res.Placements != tt.placements {
				t.Errorf("Placements = %d, want %d", res.Placements, tt.placements)
			}
			if res.Contradiction != tt.contradiction {
				t.Errorf("Contradiction = %v, want %v", res.Contradiction, tt.contradiction)
			}
			if res.Blocks == nil {
				t.Error("Blocks should never be nil")
			}
		})
	}
}

func TestSolveInvalid(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	r.MaxSize = 20
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
		code errors.Code
	}{
		{"negative size", Request{Size: -1}, errors.ErrCodeInvalidSize},
		{"over limit", Request{Size: 21, Blocks: []int{1}}, errors.ErrCodeInvalidSize},
		{"zero block", Request{Size: 5, Blocks: []int{2, 0}}, errors.ErrCodeInvalidBlock},
		{"known length", Request{Size: 5, Blocks: []int{1}, Known: "???"}, errors.ErrCodeInvalidKnown},
		{"unknown-only known length", Request{Size: 5, Blocks: []int{1}, Known: "?"}, errors.ErrCodeInvalidKnown},
		{"known glyph", Request{Size: 3, Blocks: []int{1}, Known: "?Z?"}, errors.ErrCodeInvalidKnown},
		{"name", Request{Name: "a/b", Size: 3}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Solve(ctx, tt.req)
			if !errors.Is(err, tt.code) {
				t.Errorf("Solve error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, quietLogger())
	if _, err := r.Solve(ctx, Request{Size: 3, Blocks: []int{1}}); err != context.Canceled {
		t.Errorf("Solve error = %v, want context.Canceled", err)
	}
}

func TestSolveCaches(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	ctx := context.Background()
	req := Request{Size: 10, Blocks: []int{3, 4}}

	first, err := r.Solve(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Error("first solve should not be cached")
	}

	second, err := r.Solve(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Error("second solve should be a cache hit")
	}
	if diff := cmp.Diff(first.States, second.States); diff != "" {
		t.Errorf("cached states differ (-first +second):\n%s", diff)
	}
	if first.Placements != second.Placements {
		t.Errorf("cached placements = %d, want %d", second.Placements, first.Placements)
	}
	if mc.sets != 1 {
		t.Errorf("cache sets = %d, want 1", mc.sets)
	}

	// An all-unknown known vector shares the plain entry.
	third, err := r.Solve(ctx, Request{Size: 10, Blocks: []int{3, 4}, Known: "??????????"})
	if err != nil {
		t.Fatal(err)
	}
	if !third.Cached {
		t.Error("all-unknown known should reuse the plain cache entry")
	}
}

func TestSolveCacheFailuresAreMisses(t *testing.T) {
	mc := newMemCache()
	mc.failGet = true
	mc.failSet = true
	r := NewRunner(mc, nil, quietLogger())

	res, err := r.Solve(context.Background(), Request{Size: 4, Blocks: []int{4}})
	if err != nil {
		t.Fatalf("cache failure should not fail the solve: %v", err)
	}
	if res.Cached {
		t.Error("result should not be marked cached")
	}
}

func TestSolveCorruptCacheEntry(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	req := Request{Size: 4, Blocks: []int{2}}
	mc.data[r.Keyer.LineKey(req.Size, req.Blocks, "")] = []byte("not json")

	res, err := r.Solve(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Error("corrupt entry should be recomputed")
	}
	if res.Placements != 3 {
		t.Errorf("Placements = %d, want 3", res.Placements)
	}
}

func TestSolveWrongLengthCacheEntry(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	req := Request{Size: 4, Blocks: []int{2}}
	mc.data[r.Keyer.LineKey(req.Size, req.Blocks, "")] = []byte(`{"states":["filled","filled"],"placements":1}`)

	res, err := r.Solve(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Error("entry with the wrong number of cells should be recomputed")
	}
	if diff := cmp.Diff([]line.CellState{u, u, u, u}, res.States); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
	if res.Placements != 3 {
		t.Errorf("Placements = %d, want 3", res.Placements)
	}
}

func TestSolveStopsAtDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())

	start := time.Now()
	_, err := r.Solve(ctx, Request{Size: 200, Blocks: slices.Repeat([]int{1}, 30)})
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Solve error = %v, want context.DeadlineExceeded", err)
	}
	if d := time.Since(start); d > 2*time.Second {
		t.Errorf("Solve returned after %v, want prompt return after the deadline", d)
	}
	if mc.sets != 0 {
		t.Errorf("an interrupted solve should not be cached, sets = %d", mc.sets)
	}
}

func TestSolveBatchStopsAtDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	r := NewRunner(nil, nil, quietLogger())

	reqs := []Request{
		{Size: 5, Blocks: []int{2}},
		{Size: 200, Blocks: slices.Repeat([]int{1}, 30)},
	}
	start := time.Now()
	if _, err := r.SolveBatch(ctx, reqs, 2); !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("SolveBatch error = %v, want context.DeadlineExceeded", err)
	}
	if d := time.Since(start); d > 2*time.Second {
		t.Errorf("SolveBatch returned after %v, want prompt return after the deadline", d)
	}
}

func TestSolveBatch(t *testing.T) {
	r := NewRunner(newMemCache(), nil, quietLogger())

	var reqs []Request
	for size := 0; size < 40; size++ {
		reqs = append(reqs, Request{Name: fmt.Sprintf("line-%d", size), Size: size, Blocks: []int{1, 2}})
	}
	reqs = append(reqs, Request{Name: "bad", Size: 3, Blocks: []int{0}})

	results, err := r.SolveBatch(context.Background(), reqs, 4)
	if err != nil {
		t.Fatalf("SolveBatch error: %v", err)
	}
	if len(results) != len(reqs) {
		t.Fatalf("got %d results, want %d", len(results), len(reqs))
	}

	for i, req := range reqs[:len(reqs)-1] {
		res := results[i]
		if res.Name != req.Name {
			t.Errorf("results[%d].Name = %q, want %q", i, res.Name, req.Name)
		}
		want, _ := line.DetermineCellStates(req.Size, req.Blocks)
		if diff := cmp.Diff(want, res.States); diff != "" {
			t.Errorf("results[%d] states mismatch (-want +got):\n%s", i, diff)
		}
	}

	bad := results[len(results)-1]
	if !bad.Failed() || bad.Code != errors.ErrCodeInvalidBlock {
		t.Errorf("invalid line result = %+v, want INVALID_BLOCK failure", bad)
	}
}

func TestSolveBatchProgress(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())

	var (
		mu    sync.Mutex
		seen  []int
		total int
	)
	r.Progress = func(done, n int) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, done)
		total = n
	}

	reqs := []Request{
		{Size: 5, Blocks: []int{2}},
		{Size: 3, Blocks: []int{0}},
		{Size: 8, Blocks: []int{1, 1}},
	}
	if _, err := r.SolveBatch(context.Background(), reqs, 2); err != nil {
		t.Fatal(err)
	}

	slices.Sort(seen)
	if diff := cmp.Diff([]int{1, 2, 3}, seen); diff != "" {
		t.Errorf("progress counts mismatch (-want +got):\n%s", diff)
	}
	if total != len(reqs) {
		t.Errorf("progress total = %d, want %d", total, len(reqs))
	}
}

func TestSolveBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, quietLogger())

	_, err := r.SolveBatch(ctx, []Request{{Size: 3, Blocks: []int{1}}}, 0)
	if err == nil {
		t.Error("SolveBatch should fail on a cancelled context")
	}
}

type recordingHooks struct {
	observability.NoopSolveHooks
	observability.NoopCacheHooks
	mu      sync.Mutex
	solves  int
	hits    int
	misses  int
	batches int
}

func (h *recordingHooks) OnSolveComplete(context.Context, int, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.solves++
}

func (h *recordingHooks) OnBatchComplete(context.Context, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.batches++
}

func (h *recordingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *recordingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func TestSolveHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetSolveHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	r := NewRunner(newMemCache(), nil, quietLogger())
	reqs := []Request{{Size: 5, Blocks: []int{2}}, {Size: 5, Blocks: []int{2}}}
	for _, req := range reqs {
		if _, err := r.Solve(context.Background(), req); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := r.SolveBatch(context.Background(), reqs[:1], 1); err != nil {
		t.Fatal(err)
	}

	if h.solves != 1 || h.misses != 1 || h.hits != 2 || h.batches != 1 {
		t.Errorf("hooks = solves %d, misses %d, hits %d, batches %d; want 1, 1, 2, 1",
			h.solves, h.misses, h.hits, h.batches)
	}
}
