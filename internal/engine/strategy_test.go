package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxlands/internal/agents"
	"boxlands/internal/config"
	"boxlands/internal/economy"
	"boxlands/internal/world"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.TravelCostPerUnit = 1
	cfg.Speed = 5
	cfg.CostOfLivingPerSecond = 0
	cfg.OpportunityWaitSeconds = 1
	cfg.NegotiationCooldownSeconds = 3
	return cfg
}

func newTestSim(cfg *config.Config, citizens ...*agents.Citizen) *Simulation {
	field := world.NewField(25, 1)
	return NewSimulation(cfg, field, citizens, economy.NewVendor("Vendel"))
}

// valuedCitizen builds a citizen whose floor comes from its intrinsic
// valuation (magnifier 1, so floor == valuation with an empty inventory).
func valuedCitizen(id agents.CitizenID, wallet float64, boxes int, valuation float64) *agents.Citizen {
	return &agents.Citizen{
		ID:                 id,
		Wallet:             wallet,
		StartingWallet:     wallet,
		Boxes:              boxes,
		BaseValuation:      valuation,
		Pricing:            agents.PricingParams{PriceMagnifier: 1, MinimumProfitExpectation: 0.01},
		ProfitExpectation:  0.1,
		InvestmentFraction: 0.2,
		Alive:              true,
	}
}

func TestSelectStrategyGathersNearestBox(t *testing.T) {
	c := valuedCitizen(1, 100, 0, 0.5)
	s := newTestSim(testConfig(), c)

	far := s.Field.AddBox(world.Position{X: 20, Z: 20})
	near := s.Field.AddBox(world.Position{X: 3, Z: 4})

	ev := s.selectStrategy(c)
	require.Equal(t, agents.StrategyGathering, ev.plan.Strategy)
	assert.Equal(t, near.ID, ev.plan.TargetBox)
	assert.NotEqual(t, far.ID, ev.plan.TargetBox)
	assert.InDelta(t, 5, ev.plan.Distance, 1e-9)
	// Net cost is travel minus the floor value of the box gained.
	assert.InDelta(t, 5-0.5, ev.plan.NetCost, 1e-9)
}

func TestConsiderBuyRequiresOpeningOffer(t *testing.T) {
	buyer := valuedCitizen(1, 0.1, 0, 10) // buying goal 9, wallet 0.1
	other := valuedCitizen(2, 100, 5, 1)
	other.Position = world.Position{X: 3, Z: 4}
	s := newTestSim(testConfig(), buyer, other)

	ev := s.selectStrategy(buyer)
	assert.Equal(t, agents.StrategyIdle, ev.plan.Strategy,
		"a wallet below the opening offer never enters buying")
	assert.False(t, ev.nudgeBuy)
}

func TestBuySideGovernorNudge(t *testing.T) {
	buyer := valuedCitizen(1, 20, 0, 10)
	buyer.InvestmentFraction = 0.5 // amount goal ceil(20*0.5/9) = 2, cost 5+18 = 23 > 20
	other := valuedCitizen(2, 100, 5, 1)
	other.Position = world.Position{X: 3, Z: 4}
	s := newTestSim(testConfig(), buyer, other)

	ev := s.selectStrategy(buyer)
	require.True(t, ev.nudgeBuy)

	ev.applyNudges()
	assert.InDelta(t, 0.45, buyer.InvestmentFraction, 1e-9)
}

func TestSellSideGovernorNudge(t *testing.T) {
	seller := valuedCitizen(1, 1, 4, 10)
	seller.InvestmentFraction = 0.5 // amount goal 2, cost 5+20 = 25 > 1
	other := valuedCitizen(2, 100, 0, 1)
	other.Position = world.Position{X: 3, Z: 4}
	s := newTestSim(testConfig(), seller, other)

	ev := s.selectStrategy(seller)
	require.True(t, ev.nudgeSell)

	ev.applyNudges()
	assert.InDelta(t, 0.55, seller.InvestmentFraction, 1e-9)
}

func TestNearestCounterpartySkipsUnavailable(t *testing.T) {
	c := valuedCitizen(1, 100, 0, 10)
	dead := valuedCitizen(2, 0, 0, 1)
	dead.Alive = false
	dead.Position = world.Position{X: 1, Z: 0}
	frozen := valuedCitizen(3, 100, 0, 1)
	frozen.Frozen = true
	frozen.Position = world.Position{X: 2, Z: 0}
	busy := valuedCitizen(4, 100, 0, 1)
	busy.Intent = &agents.Intent{Strategy: agents.StrategyGathering}
	busy.Position = world.Position{X: 3, Z: 0}
	burned := valuedCitizen(5, 100, 0, 1)
	burned.Position = world.Position{X: 4, Z: 0}
	free := valuedCitizen(6, 100, 0, 1)
	free.Position = world.Position{X: 9, Z: 0}

	c.LastFailedPartner = burned.ID
	s := newTestSim(testConfig(), c, dead, frozen, busy, burned, free)

	got, dist, ok := s.nearestCounterparty(c)
	require.True(t, ok)
	assert.Equal(t, free.ID, got.ID)
	assert.InDelta(t, 9, dist, 1e-9)
}

func TestStartStrategyFreezesCounterparty(t *testing.T) {
	buyer := valuedCitizen(1, 1000, 0, 10)
	other := valuedCitizen(2, 100, 5, 1)
	other.Position = world.Position{X: 3, Z: 4}
	s := newTestSim(testConfig(), buyer, other)

	ev := s.selectStrategy(buyer)
	require.Equal(t, agents.StrategyBuying, ev.plan.Strategy)
	require.True(t, s.startStrategy(buyer, ev.plan))

	assert.True(t, other.Frozen)
	assert.Equal(t, buyer.ID, other.FrozenBy)
	require.NotNil(t, buyer.Intent)
	assert.Equal(t, other.ID, buyer.Intent.Counterparty)
	assert.InDelta(t, s.Clock+1, buyer.Intent.ArriveAt, 1e-9) // 5 units at speed 5
	assert.InDelta(t, 995, buyer.Wallet, 1e-9, "travel leg charged up front")
	assert.Equal(t, agents.StrategyBuying, buyer.CurrentStrategy)
}

func TestStartStrategyStalePlanFails(t *testing.T) {
	buyer := valuedCitizen(1, 1000, 0, 10)
	other := valuedCitizen(2, 100, 5, 1)
	other.Position = world.Position{X: 3, Z: 4}
	s := newTestSim(testConfig(), buyer, other)

	ev := s.selectStrategy(buyer)
	require.Equal(t, agents.StrategyBuying, ev.plan.Strategy)

	// The counterparty got claimed between evaluation and commit.
	other.Frozen = true
	assert.False(t, s.startStrategy(buyer, ev.plan))
	assert.Nil(t, buyer.Intent)
	assert.InDelta(t, 1000, buyer.Wallet, 1e-9, "no travel charge on a stale plan")
}

func TestPositiveTrendRepeatsLastStrategy(t *testing.T) {
	c := valuedCitizen(1, 100, 4, 0.5)
	c.LastStrategy = agents.StrategyGathering
	c.PeriodProfits = []float64{5}
	other := valuedCitizen(2, 100, 0, 1)
	other.Position = world.Position{X: 1, Z: 0}
	s := newTestSim(testConfig(), c, other)
	s.Field.AddBox(world.Position{X: 20, Z: 20})

	// A nearby counterparty would normally win the comparison; the
	// positive trend keeps the citizen on its last strategy.
	ev := s.evaluateCitizen(c)
	assert.Equal(t, agents.StrategyGathering, ev.plan.Strategy)
}
