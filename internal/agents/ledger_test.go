package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterSaleValuationFeedback(t *testing.T) {
	c := testCitizen()
	c.BaseValuation = 5 // floor 5: magnifier 1, empty inventory

	// First sale ever: growth snaps to 1.
	c.RegisterSale(60, 10, 0.1)
	assert.InDelta(t, 10, c.LatestProfit, 1e-9) // 60 - 5*10
	assert.InDelta(t, 10.0/60.0, c.LatestProfitMargin, 1e-9)
	assert.InDelta(t, 1, c.ProfitGrowth, 1e-9)
	assert.InDelta(t, 5.5, c.BaseValuation, 1e-9) // 5 * (1 + 1*0.1)
	assert.InDelta(t, 10, c.PeriodProfit, 1e-9)

	// Second sale against the raised floor of 5.5.
	c.RegisterSale(66, 10, 0.1)
	assert.InDelta(t, 11, c.LatestProfit, 1e-9) // 66 - 5.5*10
	assert.InDelta(t, 0.1, c.ProfitGrowth, 1e-9)
	assert.InDelta(t, 5.555, c.BaseValuation, 1e-9)
	assert.InDelta(t, 21, c.PeriodProfit, 1e-9)
	assert.Len(t, c.ProfitHistory, 2)
	assert.Len(t, c.MarginHistory, 2)
}

func TestRegisterSaleLossShrinksValuation(t *testing.T) {
	c := testCitizen()
	c.BaseValuation = 5
	c.LatestProfit = 10

	// Selling below the floor: negative growth pulls the valuation down,
	// but never below zero.
	c.RegisterSale(30, 10, 0.1) // profit -20, growth -3
	assert.InDelta(t, -20, c.LatestProfit, 1e-9)
	assert.InDelta(t, 5*(1-3*0.1), c.BaseValuation, 1e-9)

	c.BaseValuation = 0.1
	c.RegisterSale(0, 5, 10)
	assert.Zero(t, c.LatestProfitMargin, "zero revenue yields zero margin, not NaN")
	assert.GreaterOrEqual(t, c.BaseValuation, 0.0)
}

func TestClosePeriod(t *testing.T) {
	c := testCitizen()
	c.BaseValuation = 5

	c.RegisterSale(60, 10, 0)
	c.RegisterSale(70, 10, 0)
	c.ClosePeriod()

	assert.Equal(t, []float64{30}, c.PeriodProfits)
	assert.Zero(t, c.PeriodProfit)

	c.ClosePeriod()
	assert.Equal(t, []float64{30, 0}, c.PeriodProfits, "an idle period closes as zero")
}

func TestAdjustProfitExpectation(t *testing.T) {
	c := testCitizen()
	c.ProfitExpectation = 0.5

	c.AdjustProfitExpectation(true)
	assert.InDelta(t, 0.55, c.ProfitExpectation, 1e-9)

	c.AdjustProfitExpectation(false)
	assert.InDelta(t, 0.495, c.ProfitExpectation, 1e-9)

	c.ProfitExpectation = 0.99
	for i := 0; i < 10; i++ {
		c.AdjustProfitExpectation(true)
	}
	assert.InDelta(t, 1, c.ProfitExpectation, 1e-9, "expectation clamps at 100%")
}

func TestNudgeInvestmentFraction(t *testing.T) {
	c := testCitizen()
	c.InvestmentFraction = 0.5

	c.NudgeInvestmentFraction(0.9)
	assert.InDelta(t, 0.45, c.InvestmentFraction, 1e-9)

	c.NudgeInvestmentFraction(1.1)
	assert.InDelta(t, 0.495, c.InvestmentFraction, 1e-9)

	c.InvestmentFraction = 0.99
	for i := 0; i < 10; i++ {
		c.NudgeInvestmentFraction(1.1)
	}
	assert.InDelta(t, 1, c.InvestmentFraction, 1e-9, "fraction clamps at 1")
}
