package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/sisi/pkg/errors"
	"github.com/matzehuels/sisi/pkg/render"
)

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	cfg := Default()

	if diff := cmp.Diff(render.DefaultGlyphs(), cfg.Glyphs); diff != "" {
		t.Errorf("default glyphs mismatch (-want +got):\n%s", diff)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, BackendFile)
	}
	if cfg.Cache.Dir != filepath.Join("/tmp/xdg-cache", "sisi") {
		t.Errorf("Cache.Dir = %q", cfg.Cache.Dir)
	}
	if cfg.Cache.TTL.Duration != DefaultCacheTTL {
		t.Errorf("Cache.TTL = %s, want %s", cfg.Cache.TTL, DefaultCacheTTL)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.Timeout.Duration != DefaultServerTimeout {
		t.Errorf("Server.Timeout = %s, want %s", cfg.Server.Timeout, DefaultServerTimeout)
	}
	if cfg.Solve.Workers <= 0 {
		t.Errorf("Solve.Workers = %d, want positive", cfg.Solve.Workers)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[glyphs]
filled = "#"
empty = "."

[cache]
backend = "redis"
ttl = "90m"
redis_addr = "localhost:6379"

[server]
addr = "127.0.0.1:9000"
timeout = "3s"

[solve]
workers = 3
`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	want := render.Glyphs{Filled: "#", Empty: ".", Unknown: "_"}
	if diff := cmp.Diff(want, cfg.Glyphs); diff != "" {
		t.Errorf("glyphs mismatch (-want +got):\n%s", diff)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("Cache.TTL = %s, want 1h30m", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.Timeout.Duration != 3*time.Second {
		t.Errorf("Server.Timeout = %s, want 3s", cfg.Server.Timeout)
	}
	if cfg.Solve.Workers != 3 {
		t.Errorf("Solve.Workers = %d, want 3", cfg.Solve.Workers)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `[glyphs`},
		{"unknown key", "[cache]\nbackend = \"file\"\ncolour = 1\n"},
		{"bad duration", "[cache]\nttl = \"soon\"\n"},
		{"negative ttl", "[cache]\nttl = \"-1h\"\n"},
		{"unknown backend", "[cache]\nbackend = \"memcached\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
		{"mongo without uri", "[cache]\nbackend = \"mongo\"\n"},
		{"long glyph", "[glyphs]\nfilled = \"##\"\n"},
		{"duplicate glyphs", "[glyphs]\nfilled = \"O\"\n"},
		{"negative workers", "[solve]\nworkers = -2\n"},
		{"negative server timeout", "[server]\ntimeout = \"-5s\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestParseMongoDefaultsDatabase(t *testing.T) {
	cfg, err := Parse([]byte("[cache]\nbackend = \"mongo\"\nmongo_uri = \"mongodb://localhost\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.MongoDB != DefaultMongoDB {
		t.Errorf("MongoDB = %q, want %q", cfg.Cache.MongoDB, DefaultMongoDB)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9999\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default config should not fail: %v", err)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}

	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing path error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg-config", "sisi", "config.toml"); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	path, err = DefaultPath()
	if err != nil {
		t.Skip("no home directory")
	}
	if filepath.Base(filepath.Dir(path)) != "sisi" {
		t.Errorf("DefaultPath() = %q, want .../sisi/config.toml", path)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1h30m")); err != nil {
		t.Fatal(err)
	}
	text, err := d.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "1h30m0s" {
		t.Errorf("MarshalText() = %q", text)
	}
}
