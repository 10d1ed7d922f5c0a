// Package config loads node configuration from defaults, an optional
// TOML file, and LUMEND_-prefixed environment variables, in that
// priority order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lumenforge/lumend/internal/core/amount"
)

// Config is the full node configuration.
type Config struct {
	// Genesis
	RootAddress string `mapstructure:"root_address"`
	RootBalance string `mapstructure:"root_balance"`

	// Server
	ListenAddr    string        `mapstructure:"listen_addr"`
	CloseInterval time.Duration `mapstructure:"close_interval"`

	Checkpoint CheckpointConfig `mapstructure:"checkpoint"`
	History    HistoryConfig    `mapstructure:"history"`
}

// CheckpointConfig selects the snapshot store backend.
type CheckpointConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// HistoryConfig selects the history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Driver  string `mapstructure:"driver"`
	DSN     string `mapstructure:"dsn"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("root_address", "root")
	v.SetDefault("root_balance", "100000000000")
	v.SetDefault("listen_addr", "127.0.0.1:5005")
	v.SetDefault("close_interval", 5*time.Second)

	v.SetDefault("checkpoint.enabled", true)
	v.SetDefault("checkpoint.backend", "leveldb")
	v.SetDefault("checkpoint.path", "data/checkpoints")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.driver", "sqlite")
	v.SetDefault("history.dsn", "data/history.db")
}

// Load reads the configuration. An empty path means "lumend.toml if it
// exists, defaults otherwise"; a non-empty path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	switch {
	case path != "":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	default:
		v.SetConfigFile("lumend.toml")
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat("lumend.toml"); statErr == nil {
				return nil, fmt.Errorf("read config lumend.toml: %w", err)
			}
		}
	}

	v.SetEnvPrefix("LUMEND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the node cannot start
// with.
func (c *Config) Validate() error {
	if c.RootAddress == "" {
		return errors.New("config: root_address must not be empty")
	}
	if _, err := amount.Parse(c.RootBalance); err != nil {
		return fmt.Errorf("config: root_balance: %w", err)
	}
	if c.ListenAddr == "" {
		return errors.New("config: listen_addr must not be empty")
	}
	if c.CloseInterval <= 0 {
		return errors.New("config: close_interval must be positive")
	}
	if c.Checkpoint.Enabled && c.Checkpoint.Path == "" {
		return errors.New("config: checkpoint.path must not be empty")
	}
	if c.History.Enabled && c.History.DSN == "" {
		return errors.New("config: history.dsn must not be empty")
	}
	return nil
}

// RootBalanceAmount returns the parsed genesis balance.
func (c *Config) RootBalanceAmount() amount.Amount {
	a, _ := amount.Parse(c.RootBalance)
	return a
}
