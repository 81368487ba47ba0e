// Package agents provides the citizen data model, the pricing model that
// derives acceptable price bounds from citizen state, and the bookkeeping
// ledger that feeds trade outcomes back into valuation.
package agents

import (
	"boxlands/internal/world"
)

// CitizenID is a unique identifier for a citizen. Zero means "none".
type CitizenID uint64

// Strategy is a citizen's current in-flight business strategy.
type Strategy uint8

const (
	StrategyIdle        Strategy = iota // between decisions; initial state
	StrategyGathering                   // traveling to pick up a box
	StrategyBuying                      // traveling to buy from a counterparty
	StrategySelling                     // traveling to sell to a counterparty
	StrategyLiquidating                 // traveling to the market maker
)

func (s Strategy) String() string {
	switch s {
	case StrategyGathering:
		return "gathering"
	case StrategyBuying:
		return "buying"
	case StrategySelling:
		return "selling"
	case StrategyLiquidating:
		return "liquidating"
	default:
		return "idle"
	}
}

// PricingParams are the global tuning constants the pricing model needs.
// They are injected at spawn time so pricing stays a pure function of the
// citizen, with no singleton lookups.
type PricingParams struct {
	// PriceMagnifier amplifies the diminishing-marginal-value term of the
	// selling price floor.
	PriceMagnifier float64
	// MinimumProfitExpectation is the lowest margin a citizen will accept,
	// as a decimal fraction.
	MinimumProfitExpectation float64
}

// Intent is a pending strategy awaiting arrival. It replaces per-trip
// arrival callbacks: the simulation checks it once per tick.
type Intent struct {
	Strategy     Strategy       `json:"strategy"`
	Target       world.Position `json:"target"`
	TargetBox    world.BoxID    `json:"target_box,omitempty"`
	Counterparty CitizenID      `json:"counterparty,omitempty"`
	ArriveAt     float64        `json:"arrive_at"` // sim-seconds
}

// Citizen is an autonomous economic actor with a wallet and a box
// inventory. All mutation goes through the simulation's tick loop; the
// struct itself carries no locks.
type Citizen struct {
	ID       CitizenID      `json:"id"`
	Name     string         `json:"name"`
	Position world.Position `json:"position"`

	// Liquid state. Wallet never goes negative: a spend that would
	// overdraw is rejected, not clamped.
	Wallet         float64 `json:"wallet"`
	StartingWallet float64 `json:"starting_wallet"`
	Boxes          int     `json:"boxes"`

	// Pricing state.
	Pricing           PricingParams `json:"-"`
	BaseValuation     float64       `json:"base_valuation"`     // intrinsic per-unit value belief, starts in [0,1)
	ProfitExpectation float64       `json:"profit_expectation"` // desired margin, decimal fraction
	// InvestmentFraction is the share of wallet/inventory risked per trade
	// attempt. A slow self-tuning governor nudges it ±10%.
	InvestmentFraction float64 `json:"investment_fraction"`

	// Acquisition cost trail.
	GatheringCosts float64 `json:"gathering_costs"`
	BoxesGathered  int     `json:"boxes_gathered"`

	// Bookkeeping trail.
	LatestProfit       float64   `json:"latest_profit"`
	LatestProfitMargin float64   `json:"latest_profit_margin"`
	ProfitGrowth       float64   `json:"profit_growth"`
	PeriodProfit       float64   `json:"period_profit"`
	ProfitHistory      []float64 `json:"profit_history"`  // per settled sale
	PeriodProfits      []float64 `json:"period_profits"`  // per financial period
	MarginHistory      []float64 `json:"margin_history"`  // per settled sale

	// Strategy state machine.
	CurrentStrategy Strategy `json:"current_strategy"`
	LastStrategy    Strategy `json:"last_strategy"`
	Intent          *Intent  `json:"intent,omitempty"`
	RestrategizeAt  float64  `json:"restrategize_at"` // sim-seconds cooldown moment

	// LastFailedPartner is avoided when searching for a counterparty,
	// preventing immediate re-negotiation loops. Stored by ID, never as a
	// reference: the partner may have gone insolvent since.
	LastFailedPartner CitizenID `json:"last_failed_partner,omitempty"`

	// Frozen is set while another citizen holds this one's attention for
	// a trade; it blocks strategizing and cost of living.
	Frozen   bool      `json:"frozen"`
	FrozenBy CitizenID `json:"frozen_by,omitempty"`

	// Alive is false after the terminal insolvency transition.
	Alive        bool    `json:"alive"`
	TotalSeconds float64 `json:"total_seconds"` // active sim-time lived
}

// AddMoney adjusts the wallet, rejecting any change that would drive it
// negative. Returns false on rejection.
func (c *Citizen) AddMoney(amount float64) bool {
	if c.Wallet+amount < 0 {
		return false
	}
	c.Wallet += amount
	return true
}

// CanPay reports whether the wallet covers price.
func (c *Citizen) CanPay(price float64) bool {
	return price <= c.Wallet
}

// AddBoxes adjusts the inventory count.
func (c *Citizen) AddBoxes(amount int) {
	c.Boxes += amount
}

// TotalProfits is lifetime profit relative to starting capital.
func (c *Citizen) TotalProfits() float64 {
	return c.Wallet - c.StartingWallet
}

// ProfitPerSecond is the citizen's historical profit rate.
func (c *Citizen) ProfitPerSecond() float64 {
	if c.TotalSeconds <= 0 {
		return 0
	}
	return c.TotalProfits() / c.TotalSeconds
}

// profitTrendWindow is how many recent financial periods the
// "profits are increasing" rule looks at.
const profitTrendWindow = 7

// ProfitsIncreasing reports whether the trailing per-period profit
// average is positive. While it is, the citizen repeats its last strategy
// instead of re-strategizing.
func (c *Citizen) ProfitsIncreasing() bool {
	n := len(c.PeriodProfits)
	if n == 0 {
		return false
	}
	start := 0
	if n > profitTrendWindow {
		start = n - profitTrendWindow
	}
	sum := 0.0
	for _, p := range c.PeriodProfits[start:] {
		sum += p
	}
	return sum > 0
}
