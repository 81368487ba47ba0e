// Bookkeeping ledger — records trade outcomes and feeds profit growth
// back into the citizen's valuation.
package agents

import "math"

// RegisterSale records a settled sale of amount units for revenue.
// Profit is measured against the citizen's current floor price; growth
// relative to the previous sale adjusts the base valuation, damped by
// the sensitivity constant. Must be called before the traded units and
// money change hands, so the floor reflects the pre-trade state.
func (c *Citizen) RegisterSale(revenue float64, amount int, valuationSensitivity float64) {
	profit := revenue - c.MinSellingPrice()*float64(amount)

	margin := 0.0
	if revenue != 0 {
		margin = profit / revenue
	}
	c.LatestProfitMargin = margin
	c.MarginHistory = append(c.MarginHistory, margin)

	c.PeriodProfit += profit
	c.ProfitHistory = append(c.ProfitHistory, profit)
	c.applyProfit(profit, valuationSensitivity)
}

// ClosePeriod rolls the accumulated period profit into the per-period
// series the profit-trend rule reads, and resets the accumulator.
func (c *Citizen) ClosePeriod() {
	c.PeriodProfits = append(c.PeriodProfits, c.PeriodProfit)
	c.PeriodProfit = 0
}

// applyProfit updates growth, the latest-profit marker, and the
// valuation feedback loop. Good trades raise the intrinsic value belief
// and hence future floor prices; bad trades lower it.
func (c *Citizen) applyProfit(profit, sensitivity float64) {
	if c.LatestProfit == 0 {
		c.ProfitGrowth = 1
	} else {
		c.ProfitGrowth = profit/c.LatestProfit - 1
	}
	c.LatestProfit = profit

	c.BaseValuation = math.Max(0, c.BaseValuation*(1+c.ProfitGrowth*sensitivity))
}

// AdjustProfitExpectation moves the desired margin ±10% after a
// negotiation ends. Clamped to [0,1] so opening offers can never go
// negative.
func (c *Citizen) AdjustProfitExpectation(success bool) {
	if success {
		c.ProfitExpectation *= 1.1
	} else {
		c.ProfitExpectation *= 0.9
	}
	if c.ProfitExpectation > 1 {
		c.ProfitExpectation = 1
	}
}

// NudgeInvestmentFraction applies the slow self-tuning governor: an
// unaffordable buy shrinks the risked fraction, an unaffordable sell
// grows it. Clamped to [0,1].
func (c *Citizen) NudgeInvestmentFraction(factor float64) {
	c.InvestmentFraction *= factor
	if c.InvestmentFraction < 0 {
		c.InvestmentFraction = 0
	}
	if c.InvestmentFraction > 1 {
		c.InvestmentFraction = 1
	}
}
