// Package config loads CLI and server settings from defaults, an optional
// YAML file, a .env file and RECIPES_* environment variables, in increasing
// order of precedence.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ramkansal/recipe-scrapers/internal/logging"
)

// EnvPrefix is prepended to every environment key, e.g. RECIPES_LOG_LEVEL.
const EnvPrefix = "RECIPES"

// Config holds every setting of a scraper session.
type Config struct {
	LogLevel       string `mapstructure:"log_level"`
	LinksEnabled   bool   `mapstructure:"links_enabled"`
	ParallelFields bool   `mapstructure:"parallel_fields"`
	RequireSite    bool   `mapstructure:"require_site"`
	SitesFile      string `mapstructure:"sites_file"`

	Batch  BatchConfig  `mapstructure:"batch"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Server ServerConfig `mapstructure:"server"`
}

// BatchConfig controls multi-document runs.
type BatchConfig struct {
	Parallelism int    `mapstructure:"parallelism"`
	Glob        string `mapstructure:"glob"`
}

// CacheConfig selects a record store. An empty Dir and RedisAddr disable caching.
type CacheConfig struct {
	Dir       string        `mapstructure:"dir"`
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	Debug        bool   `mapstructure:"debug"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "WARN",
		Batch: BatchConfig{
			Parallelism: 5,
			Glob:        "*.html",
		},
		Cache: CacheConfig{
			TTL: 24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 4 << 20,
		},
	}
}

// SetDefaults registers Default() on v so that unset keys still unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("links_enabled", d.LinksEnabled)
	v.SetDefault("parallel_fields", d.ParallelFields)
	v.SetDefault("require_site", d.RequireSite)
	v.SetDefault("sites_file", d.SitesFile)
	v.SetDefault("batch.parallelism", d.Batch.Parallelism)
	v.SetDefault("batch.glob", d.Batch.Glob)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.debug", d.Server.Debug)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
}

// New returns a viper instance with defaults and environment binding. When
// path is set the YAML file is read as well.
func New(path string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}
	return v, nil
}

// Load builds a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Batch.Parallelism <= 0 {
		return errors.Newf("batch.parallelism must be positive, got %d", c.Batch.Parallelism)
	}
	if c.Batch.Glob == "" {
		return errors.New("batch.glob is required")
	}
	if c.Cache.TTL < 0 {
		return errors.Newf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be positive")
	}
	return nil
}

// Level returns the parsed log level. Validate has already checked it.
func (c *Config) Level() logging.Level {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return logging.LevelWarn
	}
	return level
}
