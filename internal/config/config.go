// Package config loads the simulation's tuning constants from YAML with
// defaults for every knob, so a bare binary runs a sensible economy.
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config holds every tuning constant of the simulation.
type Config struct {
	Seed        int64   `mapstructure:"seed"`
	TickSeconds float64 `mapstructure:"tick_seconds"` // sim-seconds advanced per tick

	// World.
	FieldRadius  float64 `mapstructure:"field_radius"`
	CitizenCount int     `mapstructure:"citizen_count"`
	BoxCount     int     `mapstructure:"box_count"`

	// Citizen starting state.
	StartingCapitalMin float64 `mapstructure:"starting_capital_min"`
	StartingCapitalMax float64 `mapstructure:"starting_capital_max"`
	StartingBoxes      int     `mapstructure:"starting_boxes"`

	// Pricing and strategy.
	PriceMagnifier            float64 `mapstructure:"price_magnifier"`
	TravelCostPerUnit         float64 `mapstructure:"travel_cost_per_unit"`
	Speed                     float64 `mapstructure:"speed"` // field units per sim-second
	CostOfLivingPerSecond     float64 `mapstructure:"cost_of_living_per_second"`
	MinimumProfitExpectation  float64 `mapstructure:"minimum_profit_expectation"`
	StartingProfitExpectation float64 `mapstructure:"starting_profit_expectation"`
	InvestmentFraction        float64 `mapstructure:"investment_fraction"`
	ValuationSensitivity      float64 `mapstructure:"valuation_sensitivity"`

	// Timing.
	OpportunityWaitSeconds     float64 `mapstructure:"opportunity_wait_seconds"`
	NegotiationCooldownSeconds float64 `mapstructure:"negotiation_cooldown_seconds"`
	FinancialPeriodSeconds     float64 `mapstructure:"financial_period_seconds"`
	GDPPeriodSeconds           float64 `mapstructure:"gdp_period_seconds"`

	// Infrastructure.
	APIPort  int    `mapstructure:"api_port"`
	AdminKey string `mapstructure:"admin_key"`
	DBPath   string `mapstructure:"db_path"`
	LogLevel string `mapstructure:"log_level"`
}

// Load reads the config file at path, merging it over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	applyDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// Defaults are static; a failure here is a programming error.
		panic(err)
	}
	return cfg
}

func validate(cfg *Config) error {
	switch {
	case cfg.TickSeconds <= 0:
		return fmt.Errorf("tick_seconds must be positive, got %v", cfg.TickSeconds)
	case cfg.Speed <= 0:
		return fmt.Errorf("speed must be positive, got %v", cfg.Speed)
	case cfg.FieldRadius <= 0:
		return fmt.Errorf("field_radius must be positive, got %v", cfg.FieldRadius)
	case cfg.FinancialPeriodSeconds <= 0:
		return fmt.Errorf("financial_period_seconds must be positive, got %v", cfg.FinancialPeriodSeconds)
	case cfg.GDPPeriodSeconds <= 0:
		return fmt.Errorf("gdp_period_seconds must be positive, got %v", cfg.GDPPeriodSeconds)
	case cfg.StartingCapitalMax < cfg.StartingCapitalMin:
		return fmt.Errorf("starting_capital_max (%v) below starting_capital_min (%v)",
			cfg.StartingCapitalMax, cfg.StartingCapitalMin)
	case cfg.InvestmentFraction < 0 || cfg.InvestmentFraction > 1:
		return fmt.Errorf("investment_fraction must be in [0,1], got %v", cfg.InvestmentFraction)
	case cfg.MinimumProfitExpectation < 0 || cfg.MinimumProfitExpectation > 1:
		return fmt.Errorf("minimum_profit_expectation must be in [0,1], got %v", cfg.MinimumProfitExpectation)
	case cfg.StartingProfitExpectation < 0 || cfg.StartingProfitExpectation > 1:
		return fmt.Errorf("starting_profit_expectation must be in [0,1], got %v", cfg.StartingProfitExpectation)
	}
	return nil
}
