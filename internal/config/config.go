// Package config loads canopy settings from a TOML file and CANOPY_*
// environment variables.
//
// Precedence, lowest first: built-in defaults, the config file, the
// environment, then command-line flags (applied by the CLI).
//
// The file lives at $XDG_CONFIG_HOME/canopy/config.toml (or
// ~/.config/canopy/config.toml) unless CANOPY_CONFIG names another path.
// A missing file is not an error.
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[catalog]
//	dsn = "sqlite:/var/lib/canopy/plants.db"
//
//	[render]
//	scale = "1:100"
//	raster_backend = "rsvg"
//
//	[server]
//	addr = ":8080"
//	timeout = "90s"
package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/catalog"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/render/raster"
	"github.com/matzehuels/canopy/pkg/scale"
)

const appName = "canopy"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheMongo = "mongo"
	CacheNone  = "none"
)

// Config is the full settings tree.
type Config struct {
	Cache   CacheConfig   `toml:"cache"`
	Catalog CatalogConfig `toml:"catalog"`
	Render  RenderConfig  `toml:"render"`
	Server  ServerConfig  `toml:"server"`
}

type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	// Prefix scopes every key, for deployments sharing one backend.
	Prefix string `toml:"prefix"`
}

type CatalogConfig struct {
	// DSN is a directory, a sqlite: path or a postgres:// URL.
	DSN string `toml:"dsn"`
}

type RenderConfig struct {
	Scale         string `toml:"scale"`
	Seed          uint64 `toml:"seed"`
	RasterBackend string `toml:"raster_backend"`
	RSVGBinary    string `toml:"rsvg_binary"`
}

type ServerConfig struct {
	Addr    string `toml:"addr"`
	Timeout string `toml:"timeout"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend:       CacheFile,
			MongoDatabase: appName,
		},
		Render: RenderConfig{
			Scale:         scale.Default.String(),
			Seed:          42,
			RasterBackend: "native",
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Timeout: "60s",
		},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if p := os.Getenv("CANOPY_CONFIG"); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the default file cache directory (~/.cache/canopy).
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

// Load reads the config file at path (or [Path] when empty), then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "locate config file")
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path).WithField("config")
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"unknown keys in %s: %s", path, strings.Join(keys, ", ")).WithField("config")
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for name, dst := range map[string]*string{
		"CANOPY_CACHE_BACKEND":  &c.Cache.Backend,
		"CANOPY_CACHE_DIR":      &c.Cache.Dir,
		"CANOPY_CACHE_PREFIX":   &c.Cache.Prefix,
		"CANOPY_REDIS_URL":      &c.Cache.RedisURL,
		"CANOPY_MONGO_URI":      &c.Cache.MongoURI,
		"CANOPY_CATALOG":        &c.Catalog.DSN,
		"CANOPY_SCALE":          &c.Render.Scale,
		"CANOPY_RASTER_BACKEND": &c.Render.RasterBackend,
		"CANOPY_LISTEN_ADDR":    &c.Server.Addr,
	} {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup("CANOPY_SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "CANOPY_SEED must be an unsigned integer, got %q", v).
				WithField("seed")
		}
		c.Render.Seed = seed
	}
	return nil
}

// Validate checks enumerations and durations.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis needs redis_url").WithField("cache.redis_url")
		}
	case CacheMongo:
		if c.Cache.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend mongo needs mongo_uri").WithField("cache.mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid cache backend %q (allowed: file, redis, mongo, none)", c.Cache.Backend).WithField("cache.backend")
	}
	if _, err := scale.Parse(c.Render.Scale); err != nil {
		return err
	}
	if _, err := raster.New(c.Render.RasterBackend); err != nil {
		return err
	}
	if _, err := c.ServerTimeout(); err != nil {
		return err
	}
	return nil
}

// ServerTimeout parses Server.Timeout.
func (c *Config) ServerTimeout() (time.Duration, error) {
	if c.Server.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid server timeout %q", c.Server.Timeout).
			WithField("server.timeout")
	}
	return d, nil
}

// OpenCache connects the configured backend. noCache forces [cache.NullCache].
func (c *Config) OpenCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Cache.Backend {
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, c.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case CacheMongo:
		mc, err := cache.NewMongoCache(ctx, c.Cache.MongoURI, c.Cache.MongoDatabase, cache.DefaultMongoCollection)
		if err != nil {
			return nil, err
		}
		return mc, nil
	case CacheNone:
		return cache.NewNullCache(), nil
	}
	dir := c.Cache.Dir
	if dir == "" {
		d, err := CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// Keyer returns the cache keyer, scoped when a prefix is configured.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

// Rasterizer returns the configured raster backend.
func (c *Config) Rasterizer() (raster.Rasterizer, error) {
	if c.Render.RasterBackend == "rsvg" && c.Render.RSVGBinary != "" {
		return raster.RSVG{Binary: c.Render.RSVGBinary}, nil
	}
	return raster.New(c.Render.RasterBackend)
}

// OpenCatalog opens the configured plant catalog. It returns nil without
// error when no catalog is configured.
func (c *Config) OpenCatalog(ctx context.Context) (catalog.Source, error) {
	if c.Catalog.DSN == "" {
		return nil, nil
	}
	return catalog.Open(ctx, c.Catalog.DSN)
}
