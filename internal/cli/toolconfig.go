package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mattlianje/pipeviz-sub000/pkg/cache"
)

// serveConfig is the TOML configuration of the serve command. Everything has
// a default, so serving works with no config file at all.
type serveConfig struct {
	Listen string         `toml:"listen"`
	Cache  cacheTOMLBlock `toml:"cache"`
}

type cacheTOMLBlock struct {
	Backend    string   `toml:"backend"` // memory | file | redis | none
	MaxEntries int      `toml:"max_entries"`
	TTL        duration `toml:"ttl"`
	Dir        string   `toml:"dir"`        // file backend
	RedisAddr  string   `toml:"redis_addr"` // redis backend
}

// duration wraps time.Duration so TOML can express it as "10m".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

func defaultServeConfig() serveConfig {
	return serveConfig{
		Listen: ":8080",
		Cache: cacheTOMLBlock{
			Backend:    "memory",
			MaxEntries: cache.DefaultMaxEntries,
			TTL:        duration(10 * time.Minute),
		},
	}
}

// loadServeConfig reads the TOML config at path, layered over defaults.
// An empty path returns the defaults unchanged.
func loadServeConfig(path string) (serveConfig, error) {
	cfg := defaultServeConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// buildCache constructs the response-cache backend the config names.
func buildCache(ctx context.Context, cfg cacheTOMLBlock) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return cache.NewMemoryCache(cfg.MaxEntries), nil
	case "file":
		dir := cfg.Dir
		if dir == "" {
			userCache, err := os.UserCacheDir()
			if err != nil {
				return nil, err
			}
			dir = userCache + "/pipeviz"
		}
		return cache.NewFileCache(dir)
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("cache backend %q requires redis_addr", cfg.Backend)
		}
		return cache.NewRedisCache(ctx, cfg.RedisAddr)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (must be 'memory', 'file', 'redis', or 'none')", cfg.Backend)
	}
}
