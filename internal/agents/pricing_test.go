package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCitizen() *Citizen {
	return &Citizen{
		ID:                 1,
		Name:               "Ansel",
		Wallet:             100,
		Pricing:            PricingParams{PriceMagnifier: 1, MinimumProfitExpectation: 0.01},
		ProfitExpectation:  0.1,
		InvestmentFraction: 0.2,
		Alive:              true,
	}
}

func TestAverageAcquisitionCost(t *testing.T) {
	c := testCitizen()
	assert.Zero(t, c.AverageAcquisitionCost(), "no boxes gathered yet")

	c.GatheringCosts = 30
	c.BoxesGathered = 4
	assert.InDelta(t, 7.5, c.AverageAcquisitionCost(), 1e-9)
}

func TestMinSellingPriceFloor(t *testing.T) {
	c := testCitizen()
	c.BaseValuation = 5
	c.Boxes = 0

	// With an empty inventory the marginal term equals the valuation.
	assert.InDelta(t, 5, c.MinSellingPrice(), 1e-9)

	// Growing inventory shrinks the marginal term, but the floor never
	// drops below the intrinsic valuation.
	c.Boxes = 9
	assert.InDelta(t, 5, c.MinSellingPrice(), 1e-9)

	// A magnifier amplifies scarcity: one box in stock, magnifier 20.
	c.Boxes = 1
	c.Pricing.PriceMagnifier = 20
	assert.InDelta(t, 50, c.MinSellingPrice(), 1e-9) // 5/2*20

	// Acquisition cost shifts the whole floor up.
	c.GatheringCosts = 10
	c.BoxesGathered = 1
	assert.InDelta(t, 60, c.MinSellingPrice(), 1e-9)
}

func TestPriceBoundsAndGoals(t *testing.T) {
	c := testCitizen()
	c.BaseValuation = 5 // floor = 5 with magnifier 1 and empty inventory

	assert.InDelta(t, 5*0.99, c.MaxBuyingPrice(), 1e-9)
	assert.InDelta(t, 5*0.9, c.BuyingPriceGoal(), 1e-9)
	assert.InDelta(t, 5*1.1, c.SellingPriceGoal(), 1e-9)
	assert.Less(t, c.MaxBuyingPrice(), c.MinSellingPrice(),
		"ceiling stays below the floor by the minimum margin")
}

func TestAmountGoals(t *testing.T) {
	c := testCitizen()
	c.BaseValuation = 1 // floor 1, buying goal 0.9

	// ceil(100 * 0.2 / 0.9) = ceil(22.2) = 23
	assert.Equal(t, 23, c.BuyingAmountGoal())

	c.Boxes = 7
	assert.Equal(t, 2, c.SellingAmountGoal()) // ceil(1.4)

	// A zero price goal must not divide.
	c.BaseValuation = 0
	assert.Zero(t, c.BuyingAmountGoal())
}

func TestWalletRejectsOverdraft(t *testing.T) {
	c := testCitizen()
	assert.False(t, c.AddMoney(-150), "overdraft is rejected, not clamped")
	assert.InDelta(t, 100, c.Wallet, 1e-9)

	assert.True(t, c.AddMoney(-100))
	assert.Zero(t, c.Wallet)
}

func TestProfitsIncreasingWindow(t *testing.T) {
	c := testCitizen()
	assert.False(t, c.ProfitsIncreasing(), "no closed periods yet")

	c.PeriodProfits = []float64{-1, -1, -1}
	assert.False(t, c.ProfitsIncreasing())

	c.PeriodProfits = append(c.PeriodProfits, 5)
	assert.True(t, c.ProfitsIncreasing())

	// Only the trailing window counts: seven lean periods bury one fat one.
	c.PeriodProfits = []float64{100, -1, -1, -1, -1, -1, -1, -1}
	assert.False(t, c.ProfitsIncreasing())
}
