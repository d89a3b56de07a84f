// Package config loads the floorplan configuration file.
//
// The file is TOML and every section is optional:
//
//	[anneal]
//	seed = 42
//	cooling_ratio = 0.9
//
//	[cache]
//	backend = "redis"          # file | redis | none
//	scope = "staging:"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"          # file | mongo | none
//	[store.mongo]
//	uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
// Flags given on the command line override values from the file.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/floorplan/pkg/cache"
	errs "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/floorplan"
	"github.com/matzehuels/floorplan/pkg/store"
)

// AppName names the XDG subdirectories used for config, cache and data.
const AppName = "floorplan"

// DefaultAddr is the listen address of the HTTP server.
const DefaultAddr = ":8080"

// Backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config is the decoded configuration file.
type Config struct {
	Anneal floorplan.Schedule `toml:"anneal"`
	Cache  CacheConfig        `toml:"cache"`
	Store  StoreConfig        `toml:"store"`
	Server ServerConfig       `toml:"server"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend string             `toml:"backend"`
	Dir     string             `toml:"dir"`
	Scope   string             `toml:"scope"` // prefix for every cache key
	Redis   cache.RedisOptions `toml:"redis"`
}

// StoreConfig selects where saved runs are kept.
type StoreConfig struct {
	Backend string             `toml:"backend"`
	Dir     string             `toml:"dir"`
	Mongo   store.MongoOptions `toml:"mongo"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	c.Anneal = c.Anneal.WithDefaults()
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = AppName + ":"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendFile
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
}

// Validate checks backend names and the annealing schedule.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend: unknown backend %q (want file, redis or none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case BackendFile, BackendMongo, BackendNone:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "store.backend: unknown backend %q (want file, mongo or none)", c.Store.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
	}
	if c.Store.Backend == BackendMongo && c.Store.Mongo.URI == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "store.mongo.uri is required for the mongo backend")
	}
	return c.Anneal.Validate()
}

// Parse decodes TOML data, applies defaults and validates the result.
// Unknown keys are rejected so that typos do not pass silently.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the config file at path. An empty path selects [DefaultPath];
// a missing default file yields [Default], while a missing explicit path is
// an error.
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
			return nil, errs.New(errs.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/floorplan/config.toml, falling back
// to ~/.config/floorplan/config.toml.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the file cache directory: the configured dir, else
// $XDG_CACHE_HOME/floorplan, else ~/.cache/floorplan.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// OpenCache builds the configured cache backend. noCache forces the null
// cache regardless of configuration.
func (c *Config) OpenCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Cache.Redis)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir, err := c.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// Keyer returns the cache keyer, scoped by cache.scope when set.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Scope)
}

// OpenStore builds the configured run store.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case BackendNone:
		return store.NewNullStore(), nil
	case BackendMongo:
		ms, err := store.NewMongoStore(ctx, c.Store.Mongo)
		if err != nil {
			return nil, err
		}
		return ms, nil
	default:
		dir := c.Store.Dir
		if dir == "" {
			d, err := store.DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fs, err := store.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
}
