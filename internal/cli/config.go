package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/hweiss/calcgraph/pkg/cache"
	"github.com/hweiss/calcgraph/pkg/store"
)

// Config holds server settings loaded from the config file.
// Zero values fall back to the defaults in defaultConfig.
type Config struct {
	// Addr is the listen address for the serve command.
	Addr string `toml:"addr"`

	// CacheBackend selects the result cache: "file", "redis", or "none".
	CacheBackend string `toml:"cache_backend"`

	// StoreBackend selects the graph store: "memory" or "mongo".
	StoreBackend string `toml:"store_backend"`

	Redis cache.RedisConfig `toml:"redis"`
	Mongo store.MongoConfig `toml:"mongo"`
}

func defaultConfig() Config {
	return Config{
		Addr:         ":8080",
		CacheBackend: "file",
		StoreBackend: "memory",
		Redis:        cache.RedisConfig{Addr: "localhost:6379"},
		Mongo:        store.MongoConfig{URI: "mongodb://localhost:27017"},
	}
}

// configPath returns the config file location (~/.config/calcgraph/config.toml).
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// loadConfig reads the config file if present and merges it over defaults.
// A missing file is not an error; the defaults are returned.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
