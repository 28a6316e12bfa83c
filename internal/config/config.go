// Package config loads sqlcomplete settings from an optional file and
// SQLCOMPLETE_* environment variables.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tentacle-scylla/sqlcomplete/pkg/introspect"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SQLCOMPLETE"

type Config struct {
	LogLevel       string       `mapstructure:"log_level"`
	JupyterLabMode bool         `mapstructure:"jupyter_lab_mode"`
	Schema         SchemaConfig `mapstructure:"schema"`
}

// SchemaConfig tells where the schema snapshot comes from. File wins over
// a database connection when both are set.
type SchemaConfig struct {
	// Path to a .json, .yaml, .yml, .sql or .ddl snapshot.
	File string `mapstructure:"file"`
	// Database driver for introspection ("sqlite" or "postgres").
	Driver string `mapstructure:"driver"`
	// Connection string passed to the driver.
	DSN string `mapstructure:"dsn"`
}

// ValidationError reports an invalid setting.
type ValidationError struct {
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Message)
}

// Load reads the configuration. An empty configPath uses defaults and
// environment variables only.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("jupyter_lab_mode", false)
	v.SetDefault("schema.file", "")
	v.SetDefault("schema.driver", "")
	v.SetDefault("schema.dsn", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that cannot be checked by decoding.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Key: "log_level", Message: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	if c.Schema.Driver != "" && !introspect.Supported(c.Schema.Driver) {
		return &ValidationError{
			Key:     "schema.driver",
			Message: fmt.Sprintf("unsupported driver %q (want one of %s)", c.Schema.Driver, strings.Join(introspect.Drivers, ", ")),
		}
	}
	if c.Schema.Driver != "" && c.Schema.DSN == "" {
		return &ValidationError{Key: "schema.dsn", Message: "required when schema.driver is set"}
	}
	return nil
}

// LoadSchema builds the schema snapshot the settings point to. With no
// source configured it returns an empty schema.
func (c *Config) LoadSchema(ctx context.Context) (*schema.Schema, error) {
	switch {
	case c.Schema.File != "":
		return schema.Load(c.Schema.File)
	case c.Schema.Driver != "":
		return introspect.Load(ctx, c.Schema.Driver, c.Schema.DSN)
	default:
		return schema.NewSchema(), nil
	}
}
