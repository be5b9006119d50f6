// Package config provides configuration loading, defaults, and validation for
// the compound availability service.
package config

import (
	"fmt"

	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/database/postgres"
	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/database/redis"
	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/monitoring/logging"
)

// Config is the root configuration.
type Config struct {
	Logging      logging.Config            `mapstructure:"logging"`
	Availability AvailabilityConfig        `mapstructure:"availability"`
	Databases    map[string]DatabaseConfig `mapstructure:"databases"`
	Metrics      MetricsConfig             `mapstructure:"metrics"`
}

// AvailabilityConfig configures the availability checker itself.
type AvailabilityConfig struct {
	// PricingThreshold is the catalog pricing threshold in USD per g/L.
	// 0 or 1000 disables the price check.
	PricingThreshold float64 `mapstructure:"pricing_threshold"`

	// MaterialsExclusive makes user compounds replace the model list and
	// the catalog databases instead of complementing them.
	MaterialsExclusive bool `mapstructure:"materials_exclusive"`

	AlwaysAvailable   []string `mapstructure:"always_available"`
	ModelAvailable    []string `mapstructure:"model_available"`
	Excluded          []string `mapstructure:"excluded"`
	AvoidSubstructure []string `mapstructure:"avoid_substructure"`

	// AdditionalCompoundsFile points to a newline-delimited compound list
	// merged into the default compounds.
	AdditionalCompoundsFile string `mapstructure:"additional_compounds_file"`
}

// DatabaseConfig configures one named catalog database.
type DatabaseConfig struct {
	// Driver selects the catalog backend: "redis" or "postgres".
	Driver   string          `mapstructure:"driver"`
	Redis    redis.Config    `mapstructure:"redis"`
	Postgres postgres.Config `mapstructure:"postgres"`
}

// MetricsConfig configures the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Validate checks the configuration for inconsistencies that would only
// surface later at query time.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format %q", c.Logging.Format)
	}

	if c.Availability.PricingThreshold < 0 {
		return fmt.Errorf("pricing threshold must not be negative, got %g",
			c.Availability.PricingThreshold)
	}

	for name, db := range c.Databases {
		switch db.Driver {
		case "redis":
			if db.Redis.Addr == "" {
				return fmt.Errorf("database %q: redis addr is required", name)
			}
		case "postgres":
			if db.Postgres.Host == "" {
				return fmt.Errorf("database %q: postgres host is required", name)
			}
			if db.Postgres.Database == "" {
				return fmt.Errorf("database %q: postgres database is required", name)
			}
		default:
			return fmt.Errorf("database %q: unknown driver %q", name, db.Driver)
		}
	}

	return nil
}
