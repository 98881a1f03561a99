// Package config loads and validates the YAML runtime configuration.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/quantpulse-lab/quantpulse/internal/types"
	"github.com/quantpulse-lab/quantpulse/pkg/errors"
)

// Config is the full runtime configuration.
type Config struct {
	Portfolio PortfolioConfig  `yaml:"portfolio" validate:"required"`
	Risk      types.RiskLimits `yaml:"risk" validate:"required"`
	Universe  []UniverseEntry  `yaml:"universe" validate:"min=1,dive"`
	Scheduler SchedulerConfig  `yaml:"scheduler"`
	AutoTrade AutoTradeConfig  `yaml:"auto_trade"`
	Journal   JournalConfig    `yaml:"journal"`
	// HistoryCapacity bounds each instrument's rolling price window.
	HistoryCapacity int `yaml:"history_capacity" validate:"gt=0"`
}

// PortfolioConfig names the portfolio and its starting cash.
type PortfolioConfig struct {
	ID          string  `yaml:"id" validate:"required"`
	InitialCash float64 `yaml:"initial_cash" validate:"gt=0"`
}

// UniverseEntry maps a tradable symbol to its asset class.
type UniverseEntry struct {
	Symbol     string           `yaml:"symbol" validate:"required"`
	AssetClass types.AssetClass `yaml:"asset_class" validate:"required,oneof=stock crypto meme_coin"`
}

// SchedulerConfig holds the cron expressions for the periodic jobs.
type SchedulerConfig struct {
	// RevalueCron refreshes portfolio valuations from current prices.
	RevalueCron string `yaml:"revalue_cron"`
	// SignalCron regenerates signals for the whole universe.
	SignalCron string `yaml:"signal_cron"`
	// TradeCron runs the automated trading sweep.
	TradeCron string `yaml:"trade_cron"`
}

// AutoTradeConfig controls the automated trading sweep.
type AutoTradeConfig struct {
	Enabled bool `yaml:"enabled"`
	// AssetClasses restricts the sweep; empty means all classes.
	AssetClasses []types.AssetClass `yaml:"asset_classes" validate:"dive,oneof=stock crypto meme_coin"`
	// MaxNotional caps the cash value of a single automated entry.
	// Zero means no cap beyond the risk limits.
	MaxNotional float64 `yaml:"max_notional" validate:"gte=0"`
}

// JournalConfig locates the trade journal database.
type JournalConfig struct {
	// Path is a DuckDB database path; ":memory:" keeps the journal ephemeral.
	Path string `yaml:"path"`
}

// DefaultConfig returns the built-in defaults. Universe and portfolio must
// still be supplied.
func DefaultConfig() Config {
	return Config{
		Risk: types.RiskLimits{
			MaxPositionFraction:    0.10,
			MaxOpenPositions:       10,
			MinConfidenceThreshold: 0.65,
			DailyLossFraction:      0.05,
		},
		Scheduler: SchedulerConfig{
			RevalueCron: "@every 30s",
			SignalCron:  "@every 1m",
			TradeCron:   "@every 5m",
		},
		Journal:         JournalConfig{Path: ":memory:"},
		HistoryCapacity: 200,
	}
}

// Parse unmarshals YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read config file", err)
	}

	return Parse(data)
}

// Validate checks the configuration for structural problems.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	seen := make(map[string]bool, len(c.Universe))
	for _, entry := range c.Universe {
		if seen[entry.Symbol] {
			return errors.Newf(errors.ErrCodeInvalidConfiguration, "duplicate universe symbol %q", entry.Symbol)
		}

		seen[entry.Symbol] = true
	}

	return nil
}

// AssetClassFor returns the configured asset class for a symbol.
func (c Config) AssetClassFor(symbol string) (types.AssetClass, bool) {
	for _, entry := range c.Universe {
		if entry.Symbol == symbol {
			return entry.AssetClass, true
		}
	}

	return "", false
}
