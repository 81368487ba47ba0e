// Read-side snapshots for the observation layer. All snapshot methods
// take the simulation lock so HTTP handlers never observe a citizen
// mid-mutation.
package engine

import (
	"fmt"

	"boxlands/internal/agents"
	"boxlands/internal/world"
)

// StatusSnapshot is the top-level simulation summary.
type StatusSnapshot struct {
	Tick                uint64  `json:"tick"`
	SimTime             string  `json:"sim_time"`
	SimSeconds          float64 `json:"sim_seconds"`
	Population          int     `json:"population"`
	Alive               int     `json:"alive"`
	Insolvencies        int     `json:"insolvencies"`
	BoxesOnField        int     `json:"boxes_on_field"`
	TradesSettled       int     `json:"trades_settled"`
	CumulativeGDP       float64 `json:"cumulative_gdp"`
	PeriodicGDP         float64 `json:"periodic_gdp"`
	AverageTradingPrice float64 `json:"average_trading_price"`
	AverageValuation    float64 `json:"average_valuation"`
	TotalMoney          float64 `json:"total_money"`
}

// CitizenView is the per-citizen HUD snapshot.
type CitizenView struct {
	ID                 agents.CitizenID `json:"id"`
	Name               string           `json:"name"`
	Position           world.Position   `json:"position"`
	Wallet             float64          `json:"wallet"`
	Boxes              int              `json:"boxes"`
	Strategy           string           `json:"strategy"`
	ProfitMargin       float64          `json:"profit_margin"`
	ProfitsIncreasing  bool             `json:"profits_increasing"`
	BaseValuation      float64          `json:"base_valuation"`
	MinSellingPrice    float64          `json:"min_selling_price"`
	MaxBuyingPrice     float64          `json:"max_buying_price"`
	ProfitExpectation  float64          `json:"profit_expectation"`
	InvestmentFraction float64          `json:"investment_fraction"`
	Alive              bool             `json:"alive"`
	Frozen             bool             `json:"frozen"`
}

// Status returns the current simulation summary.
func (s *Simulation) Status() StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	totalMoney := 0.0
	for _, c := range s.Citizens {
		totalMoney += c.Wallet
	}

	return StatusSnapshot{
		Tick:                s.LastTick,
		SimTime:             SimTime(s.Clock),
		SimSeconds:          s.Clock,
		Population:          len(s.Citizens),
		Alive:               s.aliveCount(),
		Insolvencies:        s.insolvencies,
		BoxesOnField:        s.Field.BoxCount(),
		TradesSettled:       s.tradesSettled,
		CumulativeGDP:       s.Market.CumulativeExpenditure,
		PeriodicGDP:         s.Market.PeriodicGDP,
		AverageTradingPrice: s.Market.AverageTradingPrice(),
		AverageValuation:    s.averageValuation(),
		TotalMoney:          totalMoney,
	}
}

// CitizenViews returns HUD snapshots for every citizen.
func (s *Simulation) CitizenViews() []CitizenView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]CitizenView, 0, len(s.Citizens))
	for _, c := range s.Citizens {
		views = append(views, citizenView(c))
	}
	return views
}

// CitizenByID returns a single citizen's HUD snapshot.
func (s *Simulation) CitizenByID(id agents.CitizenID) (CitizenView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.CitizenIndex[id]
	if !ok {
		return CitizenView{}, false
	}
	return citizenView(c), true
}

// SpawnCitizen adds a new citizen mid-run at a random field position.
func (s *Simulation) SpawnCitizen() (CitizenView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Spawner == nil {
		return CitizenView{}, fmt.Errorf("simulation has no spawner")
	}
	c := s.Spawner.Spawn(s.Field.RandomPosition())
	s.Citizens = append(s.Citizens, c)
	s.CitizenIndex[c.ID] = c
	return citizenView(c), nil
}

func citizenView(c *agents.Citizen) CitizenView {
	return CitizenView{
		ID:                 c.ID,
		Name:               c.Name,
		Position:           c.Position,
		Wallet:             c.Wallet,
		Boxes:              c.Boxes,
		Strategy:           c.CurrentStrategy.String(),
		ProfitMargin:       c.LatestProfitMargin,
		ProfitsIncreasing:  c.ProfitsIncreasing(),
		BaseValuation:      c.BaseValuation,
		MinSellingPrice:    c.MinSellingPrice(),
		MaxBuyingPrice:     c.MaxBuyingPrice(),
		ProfitExpectation:  c.ProfitExpectation,
		InvestmentFraction: c.InvestmentFraction,
		Alive:              c.Alive,
		Frozen:             c.Frozen,
	}
}
