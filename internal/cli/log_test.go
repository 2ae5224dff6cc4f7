package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "solve summary at info",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("solved line", "size", 10) },
			wantLog: true,
		},
		{
			name:    "cache detail hidden at info",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("cache miss", "type", "line") },
			wantLog: false,
		},
		{
			name:    "cache detail shown with -v",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("cache miss", "type", "line") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("solved batch", "lines", 40, "workers", 8)

	out := buf.String()
	for _, want := range []string{"solved batch", "lines=40", "workers=8", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	got.Info("solved line")
	if !strings.Contains(buf.String(), "solved line") {
		t.Error("attached logger should write to its buffer")
	}

	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}
}
