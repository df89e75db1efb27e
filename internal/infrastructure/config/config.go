package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/iho/bookkeeper/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Ledger
	DefaultCurrency string `env:"LEDGER_DEFAULT_CURRENCY" envDefault:"USD"`
	DefaultSide     string `env:"LEDGER_DEFAULT_SIDE"     envDefault:"DEBIT"`
	PageSize        int    `env:"LEDGER_PAGE_SIZE"        envDefault:"20"`
	MaxPageSize     int    `env:"LEDGER_MAX_PAGE_SIZE"    envDefault:"100"`

	// Metrics
	MetricsEnabled   bool   `env:"METRICS_ENABLED"   envDefault:"true"`
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"bookkeeper"`
}

// Load loads configuration from environment variables. Variables in the given
// dotenv files, or in .env when none are given, fill in anything the
// environment does not already set. Missing files are ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the ledger settings.
func (c *Config) Validate() error {
	if _, err := domain.ZeroCash(c.DefaultCurrency); err != nil {
		return fmt.Errorf("LEDGER_DEFAULT_CURRENCY: %w", err)
	}
	if _, err := c.Side(); err != nil {
		return fmt.Errorf("LEDGER_DEFAULT_SIDE: %w", err)
	}
	if c.PageSize <= 0 || c.MaxPageSize < c.PageSize {
		return fmt.Errorf("page sizes must satisfy 0 < LEDGER_PAGE_SIZE <= LEDGER_MAX_PAGE_SIZE, got %d and %d",
			c.PageSize, c.MaxPageSize)
	}
	return nil
}

// Side is the parsed default account side.
func (c *Config) Side() (domain.Side, error) {
	return domain.ParseSide(c.DefaultSide)
}
