// Package economy provides market-level aggregation of trade events
// (nominal GDP, unit-price index) and the box vendor market maker.
package economy

// Aggregator accumulates settled trades into cumulative and periodic GDP
// and a rolling average unit-price index. One exists per simulation.
type Aggregator struct {
	// CumulativeExpenditure is the sum of all settled trade totals — a
	// nominal GDP proxy. Monotonically non-decreasing.
	CumulativeExpenditure float64 `json:"cumulative_expenditure"`
	// UnitPrices holds one entry per settled trade: totalPrice/units.
	UnitPrices []float64 `json:"unit_prices"`
	// PeriodicGDP is the delta measured at the last period snapshot.
	PeriodicGDP float64 `json:"periodic_gdp"`
	// TradeCount is the number of settled trades registered.
	TradeCount int `json:"trade_count"`

	periodStartExpenditure float64
	periodLength           float64 // seconds
	periodTimer            float64
}

// NewAggregator creates an aggregator that snapshots periodic GDP every
// periodLengthSeconds of sim time.
func NewAggregator(periodLengthSeconds float64) *Aggregator {
	return &Aggregator{periodLength: periodLengthSeconds}
}

// RegisterSale records a settled trade of amountSold units for
// amountSpent in total.
func (a *Aggregator) RegisterSale(amountSpent float64, amountSold int) {
	a.CumulativeExpenditure += amountSpent
	a.UnitPrices = append(a.UnitPrices, amountSpent/float64(amountSold))
	a.TradeCount++
}

// AverageTradingPrice is the mean of all observed unit prices, 0 while
// no trade has settled.
func (a *Aggregator) AverageTradingPrice() float64 {
	if len(a.UnitPrices) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range a.UnitPrices {
		sum += p
	}
	return sum / float64(len(a.UnitPrices))
}

// Advance moves the period timer forward by dt seconds. When a period
// elapses it snapshots periodic GDP as the exact expenditure delta since
// the previous snapshot and returns true.
func (a *Aggregator) Advance(dt float64) bool {
	a.periodTimer += dt
	if a.periodTimer < a.periodLength {
		return false
	}
	a.periodTimer = 0
	a.PeriodicGDP = a.CumulativeExpenditure - a.periodStartExpenditure
	a.periodStartExpenditure = a.CumulativeExpenditure
	return true
}
