// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	apperrors "equity-trader/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Constraints ConstraintsConfig      `mapstructure:"constraints"`
	Gates       GatesConfig            `mapstructure:"gates"`
	Data        DataConfig             `mapstructure:"data"`
	Logging     LoggingConfig          `mapstructure:"logging"`
	Flags       map[string]TickerFlags `mapstructure:"flags"`
}

// ConstraintsConfig holds portfolio sizing limits.
type ConstraintsConfig struct {
	MaxPositionPct   float64 `mapstructure:"max_position_pct"`
	TrancheCount     int     `mapstructure:"tranche_count"`
	MaxRiskPct       float64 `mapstructure:"max_risk_pct"`
	TargetVolatility float64 `mapstructure:"target_volatility"`
}

// GatesConfig holds eligibility gate thresholds.
type GatesConfig struct {
	MinAvgVolume  float64 `mapstructure:"min_avg_volume"`
	MaxVolatility float64 `mapstructure:"max_volatility"`
}

// DataConfig holds market data source options.
type DataConfig struct {
	Years            int    `mapstructure:"years"`
	UseAdjustedClose bool   `mapstructure:"use_adjusted_close"`
	IndexTicker      string `mapstructure:"index_ticker"`
	VIXTicker        string `mapstructure:"vix_ticker"`
}

// LoggingConfig holds logging options.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// TickerFlags holds per-ticker qualitative flags that cannot be derived
// from price history.
type TickerFlags struct {
	EarningsRisk    bool `mapstructure:"earnings_risk"`
	RegulatoryRisk  bool `mapstructure:"regulatory_risk"`
	BusinessClarity bool `mapstructure:"business_clarity"`
	SectorDefensive bool `mapstructure:"sector_defensive"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/equity-trader"
	}
	return filepath.Join(home, ".config", "equity-trader")
}

// Default returns the configuration defaults applied before any file or
// environment overrides.
func Default() *Config {
	return &Config{
		Constraints: ConstraintsConfig{
			MaxPositionPct:   0.08,
			TrancheCount:     3,
			MaxRiskPct:       0.02,
			TargetVolatility: 0.20,
		},
		Gates: GatesConfig{
			MinAvgVolume:  200000,
			MaxVolatility: 0.45,
		},
		Data: DataConfig{
			Years:            5,
			UseAdjustedClose: false,
			IndexTicker:      "^GSPC",
			VIXTicker:        "^VIX",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    true,
		},
		Flags: map[string]TickerFlags{},
	}
}

// Load loads configuration from the specified directory. A missing config
// file is not an error; defaults apply. If configDir is empty, the default
// config directory is used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("EQUITY_TRADER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Constraints.MaxPositionPct <= 0 || c.Constraints.MaxPositionPct > 1 {
		return apperrors.NewValidationError("constraints.max_position_pct", c.Constraints.MaxPositionPct, "must be in (0, 1]")
	}
	if c.Constraints.TrancheCount < 1 {
		return apperrors.NewValidationError("constraints.tranche_count", c.Constraints.TrancheCount, "must be at least 1")
	}
	if c.Constraints.MaxRiskPct <= 0 || c.Constraints.MaxRiskPct > 1 {
		return apperrors.NewValidationError("constraints.max_risk_pct", c.Constraints.MaxRiskPct, "must be in (0, 1]")
	}
	if c.Constraints.TargetVolatility <= 0 {
		return apperrors.NewValidationError("constraints.target_volatility", c.Constraints.TargetVolatility, "must be positive")
	}
	if c.Gates.MinAvgVolume < 0 {
		return apperrors.NewValidationError("gates.min_avg_volume", c.Gates.MinAvgVolume, "must not be negative")
	}
	if c.Gates.MaxVolatility <= 0 {
		return apperrors.NewValidationError("gates.max_volatility", c.Gates.MaxVolatility, "must be positive")
	}
	if c.Data.Years < 1 {
		return apperrors.NewValidationError("data.years", c.Data.Years, "must be at least 1")
	}
	return nil
}

// FlagsFor returns the qualitative flags for a ticker, falling back to
// conservative defaults when the ticker has no override.
func (c *Config) FlagsFor(ticker string) TickerFlags {
	if flags, ok := c.Flags[ticker]; ok {
		return flags
	}
	return TickerFlags{BusinessClarity: true}
}
