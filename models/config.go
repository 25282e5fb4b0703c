// Package models defines data structures for configuration and the HTTP API.
package models

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr      = ":8000"
	DefaultBatchSize = 800
	DefaultMySQLPort = 3306

	// MaxBatchSize bounds the distinct words of one map chunk, and with it
	// the rows sent per map phase round trip.
	MaxBatchSize = 20000
)

// Config holds runtime configuration for the service and the CLI.
// Values come from an optional YAML file, then environment variables.
type Config struct {
	Addr      string      `yaml:"addr"`
	BatchSize int         `yaml:"batch_size"`
	Atomic    bool        `yaml:"atomic"`
	LogLevel  string      `yaml:"log_level"`
	Store     StoreConfig `yaml:"store"`
}

// StoreConfig describes how to reach the relational store.
type StoreConfig struct {
	Driver   string `yaml:"driver"` // mysql | sqlite
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Port     int    `yaml:"port"`

	// Path is the SQLite file (or ":memory:"); ignored for mysql.
	Path string `yaml:"path"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Addr:      DefaultAddr,
		BatchSize: DefaultBatchSize,
		LogLevel:  "info",
		Store: StoreConfig{
			Driver:          "mysql",
			Host:            "localhost",
			Port:            DefaultMySQLPort,
			Path:            "mr-wordcount.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
	}
}

// LoadConfig reads the YAML file at path (a missing file is not an error)
// and applies environment overrides on top.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// defaults + env only
		default:
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}

	str("WC_ADDR", &c.Addr)
	str("WC_LOG_LEVEL", &c.LogLevel)
	str("WC_DB_DRIVER", &c.Store.Driver)
	str("WC_DB_PATH", &c.Store.Path)
	str("DB_HOST", &c.Store.Host)
	str("DB_USER", &c.Store.User)
	str("DB_PASSWORD", &c.Store.Password)
	str("DB_NAME", &c.Store.Database)

	if err := num("DB_PORT", &c.Store.Port); err != nil {
		return err
	}
	if err := num("WC_BATCH_SIZE", &c.BatchSize); err != nil {
		return err
	}
	if v, ok := lookup("WC_ATOMIC"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid WC_ATOMIC %q: %w", v, err)
		}
		c.Atomic = b
	}

	if c.Store.Port == 0 {
		c.Store.Port = DefaultMySQLPort
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch_size %d exceeds the maximum of %d", c.BatchSize, MaxBatchSize)
	}
	return nil
}
