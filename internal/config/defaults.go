package config

import "github.com/spf13/viper"

// applyDefaults registers the built-in value for every knob. The economy
// defaults mirror the field-tested balance: starting capital 10–100
// against a cost of living of 10/s makes idling fatal within seconds,
// which is what forces citizens to strategize.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("seed", 42)
	v.SetDefault("tick_seconds", 1.0)

	v.SetDefault("field_radius", 25.0)
	v.SetDefault("citizen_count", 12)
	v.SetDefault("box_count", 80)

	v.SetDefault("starting_capital_min", 10.0)
	v.SetDefault("starting_capital_max", 100.0)
	v.SetDefault("starting_boxes", 0)

	v.SetDefault("price_magnifier", 100.0)
	v.SetDefault("travel_cost_per_unit", 1.0)
	v.SetDefault("speed", 5.0)
	v.SetDefault("cost_of_living_per_second", 10.0)
	v.SetDefault("minimum_profit_expectation", 0.01)
	v.SetDefault("starting_profit_expectation", 0.1)
	v.SetDefault("investment_fraction", 0.2)
	v.SetDefault("valuation_sensitivity", 0.1)

	v.SetDefault("opportunity_wait_seconds", 1.0)
	v.SetDefault("negotiation_cooldown_seconds", 3.0)
	v.SetDefault("financial_period_seconds", 10.0)
	v.SetDefault("gdp_period_seconds", 10.0)

	v.SetDefault("api_port", 8080)
	v.SetDefault("admin_key", "")
	v.SetDefault("db_path", "data/boxlands.db")
	v.SetDefault("log_level", "info")
}
