// Package config loads tool configuration from file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all tool configuration.
type Config struct {
	Schema SchemaConfig `mapstructure:"schema"`
	Log    LogConfig    `mapstructure:"log"`
}

// SchemaConfig selects where plugin schemas come from and which version
// is active at startup.
type SchemaConfig struct {
	// Version pins the active schema version. Empty means highest available.
	Version string `mapstructure:"version"`
	// Dir is an optional directory of extra schema snapshot files.
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks the configuration and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown log level %q, using info", c.Log.Level))
	}

	return warnings
}

// Load reads configuration from path and the environment. An empty path
// returns defaults with environment overrides applied. Environment
// variables use the STASHLIGHT_ prefix, e.g. STASHLIGHT_SCHEMA_VERSION.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STASHLIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("schema.version", "")
	v.SetDefault("schema.dir", "")
	v.SetDefault("log.level", "info")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}
