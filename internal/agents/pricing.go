// Pricing model — pure quantities derived on demand from citizen state.
package agents

import "math"

// AverageAcquisitionCost is the mean travel cost paid per gathered box.
// Zero until the first box is gathered.
func (c *Citizen) AverageAcquisitionCost() float64 {
	if c.BoxesGathered == 0 {
		return 0
	}
	return c.GatheringCosts / float64(c.BoxesGathered)
}

// MinSellingPrice is the floor: the per-unit price below which selling
// yields no profit. The /(n+1) term models diminishing marginal value of
// additional stock, magnified by the global price magnifier; the max
// keeps the floor from ever dropping below the intrinsic valuation.
func (c *Citizen) MinSellingPrice() float64 {
	marginal := c.BaseValuation / float64(c.Boxes+1) * c.Pricing.PriceMagnifier
	return c.AverageAcquisitionCost() + math.Max(c.BaseValuation, marginal)
}

// MaxBuyingPrice is the ceiling: the highest per-unit price at which a
// purchase still clears the citizen's minimum margin when resold at the
// floor.
func (c *Citizen) MaxBuyingPrice() float64 {
	return c.MinSellingPrice() * (1 - c.Pricing.MinimumProfitExpectation)
}

// BuyingPriceGoal is the citizen's opening offer when buying. It tightens
// toward the floor as the profit expectation shrinks.
func (c *Citizen) BuyingPriceGoal() float64 {
	return c.MinSellingPrice() * (1 - c.ProfitExpectation)
}

// SellingPriceGoal is the citizen's opening ask when selling.
func (c *Citizen) SellingPriceGoal() float64 {
	return c.MinSellingPrice() * (1 + c.ProfitExpectation)
}

// BuyingAmountGoal is how many units the citizen tries to buy: the
// invested share of its wallet at the buying price goal, rounded up.
func (c *Citizen) BuyingAmountGoal() int {
	goal := c.BuyingPriceGoal()
	if goal <= 0 {
		return 0
	}
	return int(math.Ceil(c.Wallet * c.InvestmentFraction / goal))
}

// SellingAmountGoal is how many units the citizen tries to sell: the
// invested share of its inventory, rounded up.
func (c *Citizen) SellingAmountGoal() int {
	return int(math.Ceil(float64(c.Boxes) * c.InvestmentFraction))
}
