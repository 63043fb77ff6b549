// Package config loads the budgetflow configuration file.
//
// Configuration is TOML. Every field has a working default; a missing file
// is not an error, so the binary runs usefully with no setup at all.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mfujita/budgetflow/pkg/errors"
	"github.com/mfujita/budgetflow/pkg/flow"
)

// Dataset driver names.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Cache backend names.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config is the root configuration.
type Config struct {
	Dataset DatasetConfig `toml:"dataset"`
	Cache   CacheConfig   `toml:"cache"`
	Limits  LimitsConfig  `toml:"limits"`
	Server  ServerConfig  `toml:"server"`
}

// DatasetConfig selects the snapshot source.
type DatasetConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

// CacheConfig selects the result-cache backend.
type CacheConfig struct {
	Backend  string      `toml:"backend"`
	Capacity int         `toml:"capacity"`
	TTL      Duration    `toml:"ttl"`
	Redis    RedisConfig `toml:"redis"`
}

// RedisConfig holds redis backend settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// LimitsConfig overrides the default Top-N page sizes.
type LimitsConfig struct {
	Ministry     int `toml:"ministry"`
	Project      int `toml:"project"`
	Recipient    int `toml:"recipient"`
	SubRecipient int `toml:"sub_recipient"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration wraps time.Duration for TOML string values like "15m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Dataset: DatasetConfig{
			Driver: DriverJSON,
			Path:   "data/budget.json",
		},
		Cache: CacheConfig{
			Backend:  CacheMemory,
			Capacity: 128,
			TTL:      Duration(flow.DefaultCacheTTL),
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "budgetflow",
			},
		},
		Limits: LimitsConfig{
			Ministry:     flow.DefaultMinistryLimit,
			Project:      flow.DefaultProjectLimit,
			Recipient:    flow.DefaultRecipientLimit,
			SubRecipient: flow.DefaultSubRecipientLimit,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads the configuration at path, layered over the defaults. A
// missing file returns the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidParams, err, "parse config %s", path)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Dataset.Driver {
	case DriverJSON, DriverSQLite:
	default:
		return errors.New(errors.ErrCodeInvalidParams, "unknown dataset driver %q", c.Dataset.Driver)
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidParams, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}
