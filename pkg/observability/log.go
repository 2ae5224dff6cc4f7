package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by logging at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to l, or to log.Default() if l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

func (h *LogHooks) OnSolveStart(_ context.Context, size, blockCount int) {
	h.Logger.Debug("solve start", "size", size, "blocks", blockCount)
}

func (h *LogHooks) OnSolveComplete(_ context.Context, size, placements int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("solve failed", "size", size, "err", err)
		return
	}
	h.Logger.Debug("solve done", "size", size, "placements", placements, "duration", d)
}

func (h *LogHooks) OnBatchStart(_ context.Context, lines, workers int) {
	h.Logger.Debug("batch start", "lines", lines, "workers", workers)
}

func (h *LogHooks) OnBatchComplete(_ context.Context, lines int, d time.Duration, err error) {
	h.Logger.Debug("batch done", "lines", lines, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path, requestID string) {
	h.Logger.Debug("request", "method", method, "path", path, "request_id", requestID)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ SolveHooks = (*LogHooks)(nil)
	_ CacheHooks = (*LogHooks)(nil)
	_ HTTPHooks  = (*LogHooks)(nil)
)
