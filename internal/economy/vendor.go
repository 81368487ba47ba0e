package economy

import (
	"boxlands/internal/agents"
	"boxlands/internal/world"
)

// Vendor is the fixed-position market maker. It buys boxes outright at
// the market average trading price, no negotiation. Vendor purchases do
// not feed the aggregator: the price index tracks bilateral trades only.
type Vendor struct {
	Name     string         `json:"name"`
	Position world.Position `json:"position"`
}

// NewVendor places a vendor at the center of the field.
func NewVendor(name string) *Vendor {
	return &Vendor{Name: name}
}

// Quote returns the per-unit price the vendor pays right now: the market
// average trading price, falling back to the population's average
// valuation while no trade has settled yet.
func (v *Vendor) Quote(market *Aggregator, averageValuation float64) float64 {
	price := market.AverageTradingPrice()
	if price == 0 {
		price = averageValuation
	}
	return price
}

// Liquidate buys amount boxes from the seller at unitPrice and returns
// the cash rewarded. Returns 0 without transferring anything when the
// seller cannot cover the amount.
func (v *Vendor) Liquidate(seller *agents.Citizen, amount int, unitPrice float64) float64 {
	if amount <= 0 || seller.Boxes < amount {
		return 0
	}
	reward := float64(amount) * unitPrice
	seller.AddMoney(reward)
	seller.AddBoxes(-amount)
	return reward
}
