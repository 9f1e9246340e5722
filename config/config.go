// Package config loads the application configuration from YAML with
// MIRA_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

type EngineConfig struct {
	Accelerated       bool    `yaml:"accelerated"`
	FlushEvery        int     `yaml:"flush_every"`
	FillerProbability float64 `yaml:"filler_probability"`
}

type StoreConfig struct {
	Driver     string `yaml:"driver"` // memory|redis|sqlite|file
	RedisAddr  string `yaml:"redis_addr"`
	SQLitePath string `yaml:"sqlite_path"`
	FileDir    string `yaml:"file_dir"`
	Namespace  string `yaml:"namespace"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the application configuration.
type Config struct {
	Engine      EngineConfig `yaml:"engine"`
	LexiconPath string       `yaml:"lexicon_path"`
	Store       StoreConfig  `yaml:"store"`
	Server      ServerConfig `yaml:"server"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Accelerated:       true,
			FlushEvery:        10,
			FillerProbability: 0.1,
		},
		Store: StoreConfig{
			Driver:     DriverMemory,
			RedisAddr:  "localhost:6379",
			SQLitePath: "mira.db",
			FileDir:    "mira-data",
			Namespace:  "default",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads path (optional), applies environment overrides and validates.
// Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Engine.Accelerated = envBool("MIRA_ACCELERATED", c.Engine.Accelerated)
	c.Engine.FlushEvery = envInt("MIRA_FLUSH_EVERY", c.Engine.FlushEvery)
	c.Engine.FillerProbability = envFloat("MIRA_FILLER_PROBABILITY", c.Engine.FillerProbability)
	c.LexiconPath = envStr("MIRA_LEXICON_PATH", c.LexiconPath)
	c.Store.Driver = strings.ToLower(envStr("MIRA_STORE_DRIVER", c.Store.Driver))
	c.Store.RedisAddr = envStr("MIRA_REDIS_ADDR", c.Store.RedisAddr)
	c.Store.SQLitePath = envStr("MIRA_SQLITE_PATH", c.Store.SQLitePath)
	c.Store.FileDir = envStr("MIRA_FILE_DIR", c.Store.FileDir)
	c.Store.Namespace = envStr("MIRA_NAMESPACE", c.Store.Namespace)
	c.Server.Addr = envStr("MIRA_ADDR", c.Server.Addr)
}

// Validate checks value ranges and driver-specific settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.FlushEvery < 1 {
		errs = append(errs, fmt.Errorf("engine.flush_every must be positive, got %d", c.Engine.FlushEvery))
	}
	if c.Engine.FillerProbability < 0 || c.Engine.FillerProbability > 1 {
		errs = append(errs, fmt.Errorf("engine.filler_probability must be within [0,1], got %v", c.Engine.FillerProbability))
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("store.redis_addr must not be empty"))
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path must not be empty"))
		}
	case DriverFile:
		if c.Store.FileDir == "" {
			errs = append(errs, errors.New("store.file_dir must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}
	if c.Store.Namespace == "" {
		errs = append(errs, errors.New("store.namespace must not be empty"))
	}
	return errors.Join(errs...)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
