package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// blockFrames slide a single block along a four-cell line.
var blockFrames = []string{"■□□□", "□■□□", "□□■□", "□□□■", "□□■□", "□■□□"}

// lineSpinner shows progress through a batch of lines until stopped or
// until its context is cancelled.
type lineSpinner struct {
	w        io.Writer
	label    string
	total    int
	solved   atomic.Int64
	interval time.Duration

	ctx     context.Context
	done    chan struct{}
	stopped chan struct{}
	started atomic.Bool
	once    sync.Once

	mu    sync.Mutex
	width int // widest line written, for clearing
}

// newLineSpinner creates a spinner for total lines. With total 0 only the
// label is shown.
func newLineSpinner(ctx context.Context, w io.Writer, label string, total int) *lineSpinner {
	return &lineSpinner{
		w:        w,
		label:    label,
		total:    total,
		interval: 80 * time.Millisecond,
		ctx:      ctx,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Advance records that solved lines are finished. Safe for concurrent use.
func (s *lineSpinner) Advance(solved int) {
	s.solved.Store(int64(solved))
}

func (s *lineSpinner) message() string {
	if s.total == 0 {
		return s.label
	}
	return fmt.Sprintf("%s %d/%d", s.label, s.solved.Load(), s.total)
}

// Start begins the animation.
func (s *lineSpinner) Start() {
	s.started.Store(true)
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-s.done:
				return
			case <-ticker.C:
				frame := blockFrames[i%len(blockFrames)]
				s.write(fmt.Sprintf("\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message())))
			}
		}
	}()
}

// Stop ends the animation and clears the line. Calling it again is a no-op.
func (s *lineSpinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		if s.started.Load() {
			<-s.stopped
		}
		s.clearLine()
	})
}

// Cancelled reports whether the spinner's context has ended.
func (s *lineSpinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

func (s *lineSpinner) write(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, len(line))
	fmt.Fprint(s.w, line)
}

func (s *lineSpinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
}
