// Package config loads ambient pipeline engine settings (logging,
// default executor mode, cache backend selection) the way the teacher
// codebase loads service config: a YAML file read through
// github.com/spf13/viper, overlaid with a .env file read through
// github.com/joho/godotenv, then validated with
// github.com/go-playground/validator/v10.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/stevelan1995/stepflow/pkg/validation"
)

// Logging holds the subset of logger settings the engine understands.
type Logging struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=console json"`
}

// Cache holds default result-cache backend settings.
type Cache struct {
	// Backend selects the Base implementation: "memory", "file", "sqlite", "mysql", "postgres".
	Backend string `yaml:"backend" mapstructure:"backend" validate:"omitempty,oneof=memory file sqlite mysql postgres"`
	// DSN is the filesystem directory (for file), the database file path or DSN (for sqlite), or connection string (for mysql/postgres).
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// Executor holds default execution settings.
type Executor struct {
	// Mode is "sequential" or "parallel".
	Mode       string `yaml:"mode" mapstructure:"mode" validate:"omitempty,oneof=sequential parallel"`
	MaxThreads int    `yaml:"max_threads" mapstructure:"max_threads" validate:"gte=0"`
}

// Config is the top-level ambient configuration for a pipeline run.
type Config struct {
	Logging  Logging  `yaml:"logging" mapstructure:"logging"`
	Cache    Cache    `yaml:"cache" mapstructure:"cache"`
	Executor Executor `yaml:"executor" mapstructure:"executor"`
}

// ApplyDefaults fills unset fields with the engine's defaults.
func (c *Config) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Executor.Mode == "" {
		c.Executor.Mode = "sequential"
	}
}

// Load reads configFile (if it exists) and envFile (if it exists),
// applies defaults, validates the result, and returns it.
func Load(configFile, envFile string) (*Config, error) {
	cfg := &Config{}

	v := viper.New()
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			v.SetConfigFile(configFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: reading %s: %w", configFile, err)
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper already knows, so bind each one
	// explicitly to let LOGGING_LEVEL etc. override the file.
	for _, key := range []string{"logging.level", "logging.format", "cache.backend", "cache.dsn", "executor.mode", "executor.max_threads"} {
		_ = v.BindEnv(key)
	}

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("config: loading env file %s: %w", envFile, err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.ApplyDefaults()

	if err := validation.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}

	return cfg, nil
}
