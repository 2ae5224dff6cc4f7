// Package config loads sisi's TOML configuration file.
//
// Lookup order for the file is the --config flag, then
// $XDG_CONFIG_HOME/sisi/config.toml, then ~/.config/sisi/config.toml. A
// missing file is not an error; every field has a default.
//
//	[glyphs]
//	filled = "#"
//	empty = "."
//	unknown = "?"
//
//	[cache]
//	backend = "redis"       # none | file | redis | mongo
//	ttl = "24h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[solve]
//	workers = 8
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sisi/pkg/errors"
	"github.com/matzehuels/sisi/pkg/render"
)

const appName = "sisi"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Defaults applied by ValidateAndSetDefaults.
const (
	DefaultCacheTTL      = 7 * 24 * time.Hour
	DefaultServerAddr    = ":8080"
	DefaultServerTimeout = 10 * time.Second
	DefaultMongoDB       = "sisi"
)

// Config is the full configuration file.
type Config struct {
	Glyphs render.Glyphs `toml:"glyphs"`
	Cache  CacheConfig   `toml:"cache"`
	Server ServerConfig  `toml:"server"`
	Solve  SolveConfig   `toml:"solve"`
}

// CacheConfig selects and configures the solve cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	TTL       Duration `toml:"ttl"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	MongoURI  string   `toml:"mongo_uri"`
	MongoDB   string   `toml:"mongo_db"`
}

// ServerConfig configures "sisi serve".
type ServerConfig struct {
	Addr string `toml:"addr"`

	// Timeout bounds the solving done for one request.
	Timeout Duration `toml:"timeout"`
}

// SolveConfig configures batch solving.
type SolveConfig struct {
	Workers int `toml:"workers"`
}

// Duration is a time.Duration that decodes from strings like "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.ValidateAndSetDefaults()
	return cfg
}

// Load reads the file at path. An empty path resolves to DefaultPath; a
// missing default file yields Default(). A missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML configuration and applies defaults. Unknown keys are
// rejected so typos surface instead of being silently ignored.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateAndSetDefaults fills zero values and checks the result.
func (c *Config) ValidateAndSetDefaults() error {
	c.Glyphs = c.Glyphs.WithDefaults()
	if err := c.Glyphs.Validate(); err != nil {
		return err
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = DefaultCacheTTL
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must be positive, got %s", c.Cache.TTL)
	}
	switch c.Cache.Backend {
	case BackendNone:
	case BackendFile:
		if c.Cache.Dir == "" {
			if dir, err := CacheDir(); err == nil {
				c.Cache.Dir = dir
			}
		}
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_addr")
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend mongo requires mongo_uri")
		}
		if c.Cache.MongoDB == "" {
			c.Cache.MongoDB = DefaultMongoDB
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.Timeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.Timeout.Duration == 0 {
		c.Server.Timeout.Duration = DefaultServerTimeout
	}

	if c.Solve.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "solve workers must be non-negative, got %d", c.Solve.Workers)
	}
	if c.Solve.Workers == 0 {
		c.Solve.Workers = runtime.GOMAXPROCS(0)
	}
	return nil
}

// DefaultPath returns the XDG location of config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the XDG cache directory (~/.cache/sisi/).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
