// Cost estimation and strategy selection. Each candidate strategy gets a
// net cost (travel + opportunity cost − profit potential); the cheapest
// affordable candidate wins, idling is the fallback.
package engine

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"boxlands/internal/agents"
	"boxlands/internal/world"
)

// StrategyPlan is a selected strategy with the lookups already resolved.
type StrategyPlan struct {
	Strategy     agents.Strategy
	NetCost      float64
	Distance     float64
	Target       world.Position
	TargetBox    world.BoxID
	Counterparty agents.CitizenID
}

// evaluation is a citizen's cost pre-pass result. Nudges are collected
// during the read-only pass and applied serially afterwards.
type evaluation struct {
	citizen   *agents.Citizen
	plan      StrategyPlan
	nudgeBuy  bool
	nudgeSell bool
}

// applyNudges runs the investment-fraction governor: an unaffordable buy
// shrinks the risked fraction, an unaffordable sell grows it.
func (ev *evaluation) applyNudges() {
	if ev.nudgeBuy {
		ev.citizen.NudgeInvestmentFraction(0.9)
	}
	if ev.nudgeSell {
		ev.citizen.NudgeInvestmentFraction(1.1)
	}
}

// evaluatePlans computes strategy plans for every citizen due to
// strategize this tick. Evaluation only reads state, so citizens fan out
// across a bounded errgroup; all mutation stays on the tick goroutine.
func (s *Simulation) evaluatePlans() map[agents.CitizenID]*evaluation {
	var eligible []*agents.Citizen
	for _, c := range s.Citizens {
		if c.Alive && !c.Frozen && c.Intent == nil && s.Clock >= c.RestrategizeAt {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	evals := make([]*evaluation, len(eligible))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range eligible {
		g.Go(func() error {
			evals[i] = s.evaluateCitizen(c)
			return nil
		})
	}
	g.Wait()

	plans := make(map[agents.CitizenID]*evaluation, len(evals))
	for _, ev := range evals {
		plans[ev.citizen.ID] = ev
	}
	return plans
}

// evaluateCitizen picks a plan for one citizen. While the profit trend
// is positive the citizen sticks with its last strategy instead of
// re-strategizing — don't rock the boat.
func (s *Simulation) evaluateCitizen(c *agents.Citizen) *evaluation {
	if c.ProfitsIncreasing() && c.LastStrategy != agents.StrategyIdle {
		if ev := s.evaluateSingle(c, c.LastStrategy); ev != nil {
			return ev
		}
	}
	return s.selectStrategy(c)
}

// evaluateSingle evaluates just one candidate strategy, returning nil
// when it is not currently viable.
func (s *Simulation) evaluateSingle(c *agents.Citizen, strategy agents.Strategy) *evaluation {
	ev := &evaluation{citizen: c, plan: StrategyPlan{Strategy: agents.StrategyIdle, NetCost: math.Inf(1)}}
	lowest := math.Inf(1)
	var considered bool
	switch strategy {
	case agents.StrategyGathering:
		considered = s.considerGather(c, ev, &lowest)
	case agents.StrategyBuying:
		considered = s.considerBuy(c, ev, &lowest)
	case agents.StrategySelling:
		considered = s.considerSell(c, ev, &lowest)
	case agents.StrategyLiquidating:
		considered = s.considerLiquidate(c, ev, &lowest)
	}
	if !considered {
		return nil
	}
	return ev
}

// selectStrategy runs the full candidate comparison.
func (s *Simulation) selectStrategy(c *agents.Citizen) *evaluation {
	ev := &evaluation{citizen: c, plan: StrategyPlan{Strategy: agents.StrategyIdle, NetCost: math.Inf(1)}}
	lowest := math.Inf(1)

	s.considerGather(c, ev, &lowest)
	s.considerBuy(c, ev, &lowest)
	s.considerSell(c, ev, &lowest)
	s.considerLiquidate(c, ev, &lowest)

	return ev
}

// considerGather weighs traveling to the nearest box. The anticipated
// value of one unit gained is the citizen's own floor price.
func (s *Simulation) considerGather(c *agents.Citizen, ev *evaluation, lowest *float64) bool {
	box, ok := s.Field.NearestBox(c.Position)
	if !ok {
		return false
	}
	dist := world.Distance(c.Position, box.Position)
	cost := s.travelCost(dist)
	net := cost - c.MinSellingPrice()
	if c.CanPay(cost) && net < *lowest {
		*lowest = net
		ev.plan = StrategyPlan{
			Strategy:  agents.StrategyGathering,
			NetCost:   net,
			Distance:  dist,
			Target:    box.Position,
			TargetBox: box.ID,
		}
	}
	return true
}

// considerBuy weighs buying from the nearest counterparty. Only entered
// with a wallet covering the opening offer; an unaffordable total cost
// flags the buy-side governor nudge.
func (s *Simulation) considerBuy(c *agents.Citizen, ev *evaluation, lowest *float64) bool {
	priceGoal := c.BuyingPriceGoal()
	if !c.CanPay(priceGoal) {
		return false
	}
	other, dist, ok := s.nearestCounterparty(c)
	if !ok {
		return false
	}
	amount := float64(c.BuyingAmountGoal())
	travel := s.travelCost(dist)
	cost := travel + amount*priceGoal - s.incentive(c)
	if cost < travel {
		cost = travel
	}
	profit := amount * (c.SellingPriceGoal() - priceGoal)
	net := cost - profit

	switch {
	case c.CanPay(cost) && net < *lowest:
		*lowest = net
		ev.plan = StrategyPlan{
			Strategy:     agents.StrategyBuying,
			NetCost:      net,
			Distance:     dist,
			Target:       other.Position,
			Counterparty: other.ID,
		}
	case !c.CanPay(cost):
		ev.nudgeBuy = true
	}
	return true
}

// considerSell weighs selling to the nearest counterparty. An
// unaffordable total cost flags the sell-side governor nudge.
func (s *Simulation) considerSell(c *agents.Citizen, ev *evaluation, lowest *float64) bool {
	if c.Boxes <= 0 {
		return false
	}
	other, dist, ok := s.nearestCounterparty(c)
	if !ok {
		return false
	}
	amount := float64(c.SellingAmountGoal())
	floor := c.MinSellingPrice()
	travel := s.travelCost(dist)
	cost := travel + amount*floor - s.incentive(c)
	if cost < travel {
		cost = travel
	}
	profit := amount * (c.SellingPriceGoal() - floor)
	net := cost - profit

	switch {
	case c.CanPay(cost) && net < *lowest:
		*lowest = net
		ev.plan = StrategyPlan{
			Strategy:     agents.StrategySelling,
			NetCost:      net,
			Distance:     dist,
			Target:       other.Position,
			Counterparty: other.ID,
		}
	case !c.CanPay(cost):
		ev.nudgeSell = true
	}
	return true
}

// considerLiquidate weighs offloading half the stock to the market
// maker at the going average price.
func (s *Simulation) considerLiquidate(c *agents.Citizen, ev *evaluation, lowest *float64) bool {
	if c.Boxes <= 1 {
		return false
	}
	dist := world.Distance(c.Position, s.Vendor.Position)
	cost := s.travelCost(dist)
	profit := (s.Market.AverageTradingPrice() - c.MinSellingPrice()) * float64(c.Boxes) / 2
	net := cost - profit
	if c.CanPay(cost) && net < *lowest {
		*lowest = net
		ev.plan = StrategyPlan{
			Strategy: agents.StrategyLiquidating,
			NetCost:  net,
			Distance: dist,
			Target:   s.Vendor.Position,
		}
	}
	return true
}

// travelCost is the cash cost of covering dist plus the living costs
// accrued over the travel time. Charged even if the trip fails.
func (s *Simulation) travelCost(dist float64) float64 {
	return dist*s.cfg.TravelCostPerUnit + dist/s.cfg.Speed*s.cfg.CostOfLivingPerSecond
}

// incentive is a payback-time boost favoring trade strategies while the
// historical profit rate is high.
func (s *Simulation) incentive(c *agents.Citizen) float64 {
	rate := c.ProfitPerSecond()
	if rate <= 0 {
		return 0
	}
	return c.TotalProfits() / rate
}

// nearestCounterparty finds the closest citizen available for a trade:
// alive, idle, not held by anyone, and not the partner the last deal
// fell through with.
func (s *Simulation) nearestCounterparty(c *agents.Citizen) (*agents.Citizen, float64, bool) {
	var nearest *agents.Citizen
	best := math.Inf(1)
	for _, other := range s.Citizens {
		if other.ID == c.ID || !other.Alive || other.Frozen || other.Intent != nil {
			continue
		}
		if other.ID == c.LastFailedPartner {
			continue
		}
		if other.CurrentStrategy != agents.StrategyIdle {
			continue
		}
		d := world.Distance(c.Position, other.Position)
		if d < best {
			best = d
			nearest = other
		}
	}
	return nearest, best, nearest != nil
}

// startStrategy commits a plan: charges the travel leg, freezes the
// counterparty for trades, and files the pending intent. Returns false
// when the plan went stale since evaluation.
func (s *Simulation) startStrategy(c *agents.Citizen, plan StrategyPlan) bool {
	travelMoney := plan.Distance * s.cfg.TravelCostPerUnit
	arriveAt := s.Clock + plan.Distance/s.cfg.Speed

	switch plan.Strategy {
	case agents.StrategyGathering:
		if s.Field.Box(plan.TargetBox) == nil {
			return false
		}
		if !c.AddMoney(-travelMoney) {
			return false
		}
		c.GatheringCosts += travelMoney

	case agents.StrategyBuying, agents.StrategySelling:
		other := s.CitizenIndex[plan.Counterparty]
		if other == nil || !other.Alive || other.Frozen || other.Intent != nil ||
			other.CurrentStrategy != agents.StrategyIdle {
			return false
		}
		if !c.AddMoney(-travelMoney) {
			return false
		}
		other.Frozen = true
		other.FrozenBy = c.ID

	case agents.StrategyLiquidating:
		if !c.AddMoney(-travelMoney) {
			return false
		}

	default:
		return false
	}

	c.CurrentStrategy = plan.Strategy
	c.LastStrategy = plan.Strategy
	c.Intent = &agents.Intent{
		Strategy:     plan.Strategy,
		Target:       plan.Target,
		TargetBox:    plan.TargetBox,
		Counterparty: plan.Counterparty,
		ArriveAt:     arriveAt,
	}
	return true
}
