// Simulation ties citizens, field, vendor, and market together and runs
// them each tick. Scheduling is cooperative: each citizen's decision,
// arrival, and cost-of-living logic runs to completion within the tick
// before the next citizen is processed.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"boxlands/internal/agents"
	"boxlands/internal/config"
	"boxlands/internal/economy"
	"boxlands/internal/world"
)

// TradeRecord describes one settled bilateral trade for the observation
// layer.
type TradeRecord struct {
	Tick       uint64
	Buyer      agents.CitizenID
	Seller     agents.CitizenID
	Amount     int
	TotalPrice float64
}

// PeriodRecord describes one periodic market snapshot.
type PeriodRecord struct {
	Tick                uint64
	SimSeconds          float64
	PeriodicGDP         float64
	CumulativeGDP       float64
	AverageTradingPrice float64
	AverageValuation    float64
	Alive               int
}

// Recorder receives settled trades and period snapshots. The simulation
// never reads anything back: recording is observation, not state.
type Recorder interface {
	RecordTrade(TradeRecord) error
	RecordPeriod(PeriodRecord) error
}

// Simulation holds the complete economy state.
type Simulation struct {
	mu sync.Mutex

	cfg          *config.Config
	Field        *world.Field
	Citizens     []*agents.Citizen
	CitizenIndex map[agents.CitizenID]*agents.Citizen
	Market       *economy.Aggregator
	Vendor       *economy.Vendor
	Spawner      *agents.Spawner
	Recorder     Recorder

	Clock    float64 // sim-seconds elapsed
	LastTick uint64

	financialTimer float64
	tradesSettled  int
	insolvencies   int
}

// NewSimulation wires a simulation from generated components. The vendor
// and market aggregator are the injected collaborators the strategy
// selector and negotiation settlement depend on.
func NewSimulation(cfg *config.Config, field *world.Field, citizens []*agents.Citizen, vendor *economy.Vendor) *Simulation {
	index := make(map[agents.CitizenID]*agents.Citizen, len(citizens))
	for _, c := range citizens {
		index[c.ID] = c
	}
	return &Simulation{
		cfg:          cfg,
		Field:        field,
		Citizens:     citizens,
		CitizenIndex: index,
		Market:       economy.NewAggregator(cfg.GDPPeriodSeconds),
		Vendor:       vendor,
	}
}

// Tick advances the economy by dt sim-seconds. Citizens strategize when
// idle and off cooldown, execute pending intents on arrival, and pay
// cost of living; the market timer snapshots periodic GDP.
func (s *Simulation) Tick(tick uint64, dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	s.Clock += dt

	// Read-only cost pre-pass; all mutation stays below, on this
	// goroutine.
	plans := s.evaluatePlans()

	for _, c := range s.Citizens {
		if !c.Alive || c.Frozen {
			continue
		}
		c.TotalSeconds += dt

		switch {
		case c.Intent != nil:
			if s.Clock >= c.Intent.ArriveAt {
				s.executeIntent(c)
			}
		case s.Clock >= c.RestrategizeAt:
			s.strategize(c, plans[c.ID])
		}

		costOfLiving := s.cfg.CostOfLivingPerSecond * dt
		if c.CanPay(costOfLiving) {
			c.AddMoney(-costOfLiving)
		} else {
			s.declareInsolvent(c)
		}
	}

	s.financialTimer += dt
	if s.financialTimer >= s.cfg.FinancialPeriodSeconds {
		s.financialTimer = 0
		for _, c := range s.Citizens {
			if c.Alive {
				c.ClosePeriod()
			}
		}
	}

	if s.Market.Advance(dt) {
		s.recordPeriod()
	}
}

// strategize starts the given plan's strategy, or extends the idle
// cooldown when nothing qualifies.
func (s *Simulation) strategize(c *agents.Citizen, ev *evaluation) {
	if ev == nil {
		s.idle(c, s.cfg.OpportunityWaitSeconds)
		return
	}
	ev.applyNudges()
	if ev.plan.Strategy == agents.StrategyIdle || !s.startStrategy(c, ev.plan) {
		s.idle(c, s.cfg.OpportunityWaitSeconds)
	}
}

// executeIntent resolves a pending intent once the arrival moment has
// passed: pickup, negotiation, or liquidation.
func (s *Simulation) executeIntent(c *agents.Citizen) {
	intent := c.Intent
	c.Intent = nil
	c.Position = intent.Target

	switch intent.Strategy {
	case agents.StrategyGathering:
		// The box may be gone: someone else got there first.
		if s.Field.RemoveBox(intent.TargetBox) {
			c.AddBoxes(1)
			c.BoxesGathered++
		}
		s.idle(c, 0)
	case agents.StrategyBuying:
		s.arriveAtCounterparty(c, intent, true)
	case agents.StrategySelling:
		s.arriveAtCounterparty(c, intent, false)
	case agents.StrategyLiquidating:
		s.liquidateToVendor(c)
	default:
		s.idle(c, 0)
	}
}

// arriveAtCounterparty releases the frozen counterparty and runs the
// negotiation. Both parties halt on the negotiation cooldown afterwards,
// whatever the outcome.
func (s *Simulation) arriveAtCounterparty(c *agents.Citizen, intent *agents.Intent, buying bool) {
	cooldown := s.cfg.NegotiationCooldownSeconds
	other := s.CitizenIndex[intent.Counterparty]
	if other == nil || !other.Alive || other.FrozenBy != c.ID {
		s.idle(c, cooldown)
		return
	}
	s.release(other)
	s.idle(other, cooldown)

	var settled bool
	if buying {
		settled = s.trade(c, other, c.BuyingAmountGoal(), c.BuyingPriceGoal())
	} else {
		settled = s.trade(other, c, c.SellingAmountGoal(), c.SellingPriceGoal())
	}

	c.AdjustProfitExpectation(settled)
	if settled {
		c.LastFailedPartner = 0
	} else {
		c.LastFailedPartner = other.ID
	}
	s.idle(c, cooldown)
}

// trade negotiates and, on acceptance, settles atomically: both legs
// transfer or neither does.
func (s *Simulation) trade(buyer, seller *agents.Citizen, amount int, unitPrice float64) bool {
	outcome := Negotiate(buyer, seller, amount, unitPrice)
	if !outcome.Accepted {
		slog.Debug("trade canceled",
			"buyer", buyer.Name, "seller", seller.Name,
			"amount", amount, "unit_price", fmt.Sprintf("%.2f", unitPrice),
			"rounds", outcome.Rounds)
		return false
	}
	s.settle(buyer, seller, outcome)
	return true
}

func (s *Simulation) settle(buyer, seller *agents.Citizen, outcome Outcome) {
	// The protocol bounds the outcome by both parties' state; these
	// guards only protect against state changed since.
	if outcome.Amount > seller.Boxes || !buyer.CanPay(outcome.TotalPrice) {
		return
	}

	// Ledger first: profit is measured against the pre-trade floor.
	seller.RegisterSale(outcome.TotalPrice, outcome.Amount, s.cfg.ValuationSensitivity)
	s.Market.RegisterSale(outcome.TotalPrice, outcome.Amount)

	buyer.AddMoney(-outcome.TotalPrice)
	seller.AddMoney(outcome.TotalPrice)
	seller.AddBoxes(-outcome.Amount)
	buyer.AddBoxes(outcome.Amount)
	s.tradesSettled++

	if s.Recorder != nil {
		rec := TradeRecord{
			Tick:       s.LastTick,
			Buyer:      buyer.ID,
			Seller:     seller.ID,
			Amount:     outcome.Amount,
			TotalPrice: outcome.TotalPrice,
		}
		if err := s.Recorder.RecordTrade(rec); err != nil {
			slog.Error("trade record failed", "error", err)
		}
	}

	slog.Info("trade settled",
		"seller", seller.Name, "buyer", buyer.Name,
		"amount", outcome.Amount,
		"total", fmt.Sprintf("%.2f", outcome.TotalPrice),
		"rounds", outcome.Rounds)
}

// liquidateToVendor sells half the citizen's stock to the market maker
// at the current quote. Vendor sales hit the seller's ledger but not the
// market aggregator.
func (s *Simulation) liquidateToVendor(c *agents.Citizen) {
	amount := c.Boxes / 2
	if amount > 0 {
		unitPrice := s.Vendor.Quote(s.Market, s.averageValuation())
		reward := s.Vendor.Liquidate(c, amount, unitPrice)
		if reward > 0 {
			c.RegisterSale(reward, amount, s.cfg.ValuationSensitivity)
			slog.Info("vendor liquidation",
				"citizen", c.Name, "amount", amount,
				"reward", fmt.Sprintf("%.2f", reward))
		}
	}
	s.idle(c, s.cfg.NegotiationCooldownSeconds)
}

// declareInsolvent is the terminal transition: the citizen cannot cover
// its living costs. Wallet forced to zero, strategizing permanently
// disabled, and any counterparty it was holding is released.
func (s *Simulation) declareInsolvent(c *agents.Citizen) {
	c.Wallet = 0
	c.Alive = false
	c.CurrentStrategy = agents.StrategyIdle

	if c.Intent != nil && c.Intent.Counterparty != 0 {
		if other := s.CitizenIndex[c.Intent.Counterparty]; other != nil && other.FrozenBy == c.ID {
			s.release(other)
			s.idle(other, 0)
		}
	}
	c.Intent = nil
	s.insolvencies++

	slog.Info("citizen insolvent", "name", c.Name, "sim_time", SimTime(s.Clock))
}

func (s *Simulation) idle(c *agents.Citizen, wait float64) {
	c.CurrentStrategy = agents.StrategyIdle
	c.Intent = nil
	c.RestrategizeAt = s.Clock + wait
}

func (s *Simulation) release(c *agents.Citizen) {
	c.Frozen = false
	c.FrozenBy = 0
}

func (s *Simulation) averageValuation() float64 {
	sum, alive := 0.0, 0
	for _, c := range s.Citizens {
		if c.Alive {
			sum += c.BaseValuation
			alive++
		}
	}
	if alive == 0 {
		return 0
	}
	return sum / float64(alive)
}

func (s *Simulation) recordPeriod() {
	rec := PeriodRecord{
		Tick:                s.LastTick,
		SimSeconds:          s.Clock,
		PeriodicGDP:         s.Market.PeriodicGDP,
		CumulativeGDP:       s.Market.CumulativeExpenditure,
		AverageTradingPrice: s.Market.AverageTradingPrice(),
		AverageValuation:    s.averageValuation(),
		Alive:               s.aliveCount(),
	}
	if s.Recorder != nil {
		if err := s.Recorder.RecordPeriod(rec); err != nil {
			slog.Error("period record failed", "error", err)
		}
	}

	slog.Info("market period",
		"tick", s.LastTick,
		"sim_time", SimTime(s.Clock),
		"gdp_period", fmt.Sprintf("%.2f", rec.PeriodicGDP),
		"gdp_total", fmt.Sprintf("%.2f", rec.CumulativeGDP),
		"avg_price", fmt.Sprintf("%.2f", rec.AverageTradingPrice),
		"avg_valuation", fmt.Sprintf("%.3f", rec.AverageValuation),
		"alive", rec.Alive,
		"boxes_left", s.Field.BoxCount(),
		"trades", s.tradesSettled,
	)
}

func (s *Simulation) aliveCount() int {
	alive := 0
	for _, c := range s.Citizens {
		if c.Alive {
			alive++
		}
	}
	return alive
}
