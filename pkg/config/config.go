// Package config loads issuegraph settings from a TOML file.
//
// A missing file is not an error: [Load] then returns [Default]. Command
// line flags are applied on top of the loaded values by the CLI.
//
// Example file:
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[layout]
//	edge_length = 140
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/issuegraph/pkg/errors"
	"github.com/matzehuels/issuegraph/pkg/layout"
	"github.com/matzehuels/issuegraph/pkg/positions"
)

// Config is the complete settings tree.
type Config struct {
	Store  Store  `toml:"store"`
	Layout Layout `toml:"layout"`
	Server Server `toml:"server"`
	Client Client `toml:"client"`
}

// Store selects and configures the position store backend.
type Store struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	BadgerPath    string `toml:"badger_path"`
}

// Layout tunes the one-shot layout seed.
type Layout struct {
	EdgeLength float64 `toml:"edge_length"`
	Iterations int     `toml:"iterations"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Client describes the device the diagram is shown on.
type Client struct {
	// Handset makes a plain click on a component or interface navigate.
	Handset bool `toml:"handset"`
}

// Duration is a time.Duration written as a string such as "15s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		Store: Store{Backend: positions.BackendFile},
		Layout: Layout{
			EdgeLength: layout.DefaultEdgeLength,
			Iterations: layout.DefaultIterations,
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/issuegraph/config.toml, falling back
// to the user config directory.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "issuegraph", "config.toml")
}

// Load reads path over the defaults. An empty path means [DefaultPath].
// A missing file yields the defaults; a malformed one is INVALID_CONFIG.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and backend-specific requirements.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case positions.BackendMemory, positions.BackendFile, positions.BackendBadger:
	case positions.BackendRedis:
		if c.Store.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.redis_addr is required for the redis backend")
		}
		if c.Store.RedisDB < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "store.redis_db must not be negative")
		}
	case positions.BackendMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (want one of %v)", c.Store.Backend, positions.Backends())
	}
	if c.Layout.EdgeLength < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.edge_length must not be negative")
	}
	if c.Layout.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.iterations must not be negative")
	}
	if c.Server.ReadTimeout.Duration < 0 || c.Server.WriteTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server timeouts must not be negative")
	}
	return nil
}

// StoreOptions converts the store section into [positions.Options].
func (c Config) StoreOptions() positions.Options {
	return positions.Options{
		Backend:       c.Store.Backend,
		Dir:           c.Store.Dir,
		RedisAddr:     c.Store.RedisAddr,
		RedisDB:       c.Store.RedisDB,
		MongoURI:      c.Store.MongoURI,
		MongoDatabase: c.Store.MongoDatabase,
		BadgerPath:    c.Store.BadgerPath,
	}
}

// LayoutConfig converts the layout section into [layout.Config].
func (c Config) LayoutConfig() layout.Config {
	return layout.Config{EdgeLength: c.Layout.EdgeLength, Iterations: c.Layout.Iterations}
}
